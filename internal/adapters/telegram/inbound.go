package telegram

import (
	"strings"

	"github.com/bnema/toplap/internal/domain"
	"github.com/go-telegram/bot/models"
)

// ToInbound converts an update into a chat event. Updates the bot does not
// react to report false.
func ToInbound(update *models.Update) (domain.Inbound, bool) {
	if update == nil {
		return domain.Inbound{}, false
	}

	if query := update.CallbackQuery; query != nil {
		chatID, ok := callbackChat(query.Message)
		if !ok {
			return domain.Inbound{}, false
		}
		return domain.Inbound{
			Kind:       domain.InboundCallback,
			ChatID:     chatID,
			UserID:     domain.UserID(query.From.ID),
			Text:       strings.TrimSpace(query.Data),
			CallbackID: query.ID,
		}, true
	}

	msg := update.Message
	if msg == nil || msg.Chat.ID == 0 {
		return domain.Inbound{}, false
	}
	if msg.From != nil && msg.From.IsBot {
		return domain.Inbound{}, false
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return domain.Inbound{}, false
	}

	in := domain.Inbound{
		Kind:   domain.InboundText,
		ChatID: domain.ChatID(msg.Chat.ID),
		Text:   text,
	}
	if msg.From != nil {
		in.UserID = domain.UserID(msg.From.ID)
	}

	if name, args, ok := parseCommand(text); ok {
		in.Kind = domain.InboundCommand
		in.Text = name
		in.Args = args
	}
	return in, true
}

// callbackChat finds the chat a button was pressed in. Buttons on messages
// too old to fetch still carry the chat.
func callbackChat(message models.MaybeInaccessibleMessage) (domain.ChatID, bool) {
	switch {
	case message.Message != nil && message.Message.Chat.ID != 0:
		return domain.ChatID(message.Message.Chat.ID), true
	case message.InaccessibleMessage != nil && message.InaccessibleMessage.Chat.ID != 0:
		return domain.ChatID(message.InaccessibleMessage.Chat.ID), true
	default:
		return 0, false
	}
}

// parseCommand splits "/name@bot args" into its lowercased name and args.
func parseCommand(text string) (string, string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}

	head, args, _ := strings.Cut(text[1:], " ")
	head, _, _ = strings.Cut(head, "@")
	head = strings.ToLower(strings.TrimSpace(head))
	if head == "" {
		return "", "", false
	}
	return head, strings.TrimSpace(args), true
}
