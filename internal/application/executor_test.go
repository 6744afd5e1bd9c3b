package application

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/bnema/toplap/internal/domain"
	"github.com/bnema/toplap/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *domain.Report {
	ranked := domain.Recommend(domain.PurposeGaming, 5000, testCatalog())
	report := domain.NewComparisonReport(domain.NewShortlist(domain.PurposeGaming, 5000, ranked, domain.ShortlistSize))
	return &report
}

func TestExecutorSendsPlanInOrder(t *testing.T) {
	t.Parallel()

	messenger := &fakeMessenger{}
	executor := NewExecutor(messenger, &fakeRenderer{}, nil, 0)

	plan := domain.DeliveryPlan{ChatID: testChat}
	plan.Add(
		domain.OutboundMessage{Kind: domain.MessageText, Text: "header"},
		domain.OutboundMessage{Kind: domain.MessageAlbum, Text: "card", Photos: []domain.Photo{{Path: "a.jpg"}, {Path: "b.jpg"}}},
		domain.OutboundMessage{Kind: domain.MessageReport, Report: sampleReport(), Caption: "report"},
	)

	handles, err := executor.Execute(context.Background(), plan)
	require.NoError(t, err)
	assert.Len(t, handles, 4)
	assert.Equal(t, []string{"text:header", "album:2", "document:" + domain.ComparisonReportFilename}, messenger.calls)
}

func TestExecutorAlbumFailureFallsBackToCard(t *testing.T) {
	t.Parallel()

	messenger := &fakeMessenger{albumErr: errors.New("photo too large")}
	executor := NewExecutor(messenger, &fakeRenderer{}, nil, 0)

	plan := domain.DeliveryPlan{ChatID: testChat}
	plan.Add(domain.OutboundMessage{Kind: domain.MessageAlbum, Text: "card", Format: domain.FormatHTML, Photos: []domain.Photo{{Path: "a.jpg"}}})

	handles, err := executor.Execute(context.Background(), plan)
	require.NoError(t, err)
	assert.Len(t, handles, 1)
	assert.Equal(t, []string{"text:card"}, messenger.calls)
}

func TestExecutorReportFailureSendsFailureText(t *testing.T) {
	t.Parallel()

	messenger := &fakeMessenger{}
	executor := NewExecutor(messenger, &fakeRenderer{err: errors.New("font missing")}, nil, 0)

	plan := domain.DeliveryPlan{ChatID: testChat}
	plan.Add(domain.OutboundMessage{Kind: domain.MessageReport, Report: sampleReport(), FailureText: "no report"})

	handles, err := executor.Execute(context.Background(), plan)
	require.NoError(t, err)
	assert.Len(t, handles, 1)
	assert.Equal(t, []string{"text:no report"}, messenger.calls)
}

func TestExecutorContinuesAfterFailedStep(t *testing.T) {
	t.Parallel()

	messenger := &fakeMessenger{textErr: map[string]error{"first": errors.New("rate limited")}}
	executor := NewExecutor(messenger, &fakeRenderer{}, nil, 0)

	plan := domain.DeliveryPlan{ChatID: testChat}
	plan.Add(
		domain.OutboundMessage{Kind: domain.MessageText, Text: "first"},
		domain.OutboundMessage{Kind: domain.MessageText, Text: "second"},
	)

	handles, err := executor.Execute(context.Background(), plan)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
	assert.Len(t, handles, 1)
}

type fakeMessenger struct {
	mu        sync.Mutex
	nextID    int64
	calls     []string
	deleted   []int64
	answered  []string
	commands  []ports.Command
	textErr   map[string]error
	albumErr  error
	deleteErr map[int64]error
}

func (m *fakeMessenger) handle(chatID domain.ChatID) domain.MessageHandle {
	m.nextID++
	return domain.MessageHandle{ChatID: chatID, MessageID: m.nextID}
}

func (m *fakeMessenger) SendText(_ context.Context, chatID domain.ChatID, text string, _ domain.TextFormat, _ domain.Keyboard) (domain.MessageHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.textErr[text]; err != nil {
		return domain.MessageHandle{}, err
	}
	m.calls = append(m.calls, "text:"+text)
	return m.handle(chatID), nil
}

func (m *fakeMessenger) SendAlbum(_ context.Context, chatID domain.ChatID, photos []domain.Photo) ([]domain.MessageHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.albumErr != nil {
		return nil, m.albumErr
	}
	m.calls = append(m.calls, "album:"+strconv.Itoa(len(photos)))
	handles := make([]domain.MessageHandle, 0, len(photos))
	for range photos {
		handles = append(handles, m.handle(chatID))
	}
	return handles, nil
}

func (m *fakeMessenger) SendDocument(_ context.Context, chatID domain.ChatID, document domain.Document, _ string, _ domain.Keyboard) (domain.MessageHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "document:"+document.Filename)
	return m.handle(chatID), nil
}

func (m *fakeMessenger) DeleteMessage(_ context.Context, handle domain.MessageHandle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.deleteErr[handle.MessageID]; err != nil {
		return err
	}
	m.deleted = append(m.deleted, handle.MessageID)
	return nil
}

func (m *fakeMessenger) AnswerCallback(_ context.Context, callbackID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answered = append(m.answered, callbackID)
	return nil
}

func (m *fakeMessenger) SetCommands(_ context.Context, commands []ports.Command) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commands = commands
	return nil
}

type fakeRenderer struct {
	err error
}

func (r *fakeRenderer) Render(_ context.Context, report domain.Report) (domain.Document, error) {
	if r.err != nil {
		return domain.Document{}, r.err
	}
	return domain.Document{Filename: report.Filename, MimeType: "application/pdf", Data: []byte("%PDF-1.4")}, nil
}
