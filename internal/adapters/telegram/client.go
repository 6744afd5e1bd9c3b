package telegram

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL     = "https://api.telegram.org"
	defaultPollTimeout = 30 * time.Second
	pollTimeoutGrace   = 10 * time.Second
)

type ClientOptions struct {
	BaseURL     string
	Token       string
	HTTPClient  *http.Client
	PollTimeout time.Duration
	Logger      *zap.Logger
}

// NewBot builds a Bot API client. Every update it polls is passed to updates,
// one at a time and in arrival order.
func NewBot(opts ClientOptions, updates bot.HandlerFunc) (*bot.Bot, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("telegram")

	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	pollTimeout := opts.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = defaultPollTimeout
	}

	options := []bot.Option{
		bot.WithServerURL(baseURL),
		bot.WithHTTPClient(pollTimeout, pollingClient(opts.HTTPClient, pollTimeout)),
		bot.WithNotAsyncHandlers(),
		bot.WithErrorsHandler(func(err error) {
			err = redactToken(err, opts.Token)
			if isPollTimeoutError(err) {
				logger.Debug("get updates timed out", zap.Error(err))
				return
			}
			logger.Warn("telegram api error", zap.Error(err))
		}),
	}
	if updates != nil {
		options = append(options, bot.WithDefaultHandler(updates))
	}

	b, err := bot.New(opts.Token, options...)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", redactToken(err, opts.Token))
	}
	return b, nil
}

// pollingClient returns a client whose timeout outlasts a long poll.
func pollingClient(client *http.Client, pollTimeout time.Duration) *http.Client {
	if client == nil {
		return &http.Client{Timeout: pollTimeout + pollTimeoutGrace}
	}

	clone := *client
	if clone.Timeout != 0 && clone.Timeout <= pollTimeout {
		clone.Timeout = pollTimeout + pollTimeoutGrace
	}
	return &clone
}

// redactToken keeps the bot token out of transport errors, which embed the
// request URL.
func redactToken(err error, token string) error {
	if err == nil || token == "" || !strings.Contains(err.Error(), token) {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), token, "<redacted>"))
}

func isPollTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "context deadline exceeded") ||
		strings.Contains(msg, "client.timeout exceeded")
}
