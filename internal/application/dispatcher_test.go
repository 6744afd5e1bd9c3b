package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bnema/toplap/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dispatcherFixture struct {
	conversationFixture
	dispatcher *Dispatcher
	messenger  *fakeMessenger
	ledger     *memoryLedger
}

func newDispatcherFixture(t *testing.T) dispatcherFixture {
	t.Helper()

	base := newConversationFixture(t)
	messenger := &fakeMessenger{}
	ledger := &memoryLedger{}
	dispatcher := NewDispatcher(
		base.conversation,
		NewExecutor(messenger, &fakeRenderer{}, nil, time.Second),
		NewLifecycle(ledger, messenger, nil, time.Second),
		messenger,
		base.messages,
		nil,
		time.Second,
	)
	return dispatcherFixture{conversationFixture: base, dispatcher: dispatcher, messenger: messenger, ledger: ledger}
}

func TestDispatcherRecordsEverySentMessage(t *testing.T) {
	t.Parallel()

	f := newDispatcherFixture(t)
	ctx := context.Background()

	require.NoError(t, f.dispatcher.Dispatch(ctx, command("start")))
	require.NoError(t, f.dispatcher.Dispatch(ctx, callback(domain.PurposeGaming.CallbackData())))
	require.NoError(t, f.dispatcher.Dispatch(ctx, text("5000")))

	// start prompt, budget prompt, header, two cards, report document
	size, err := f.ledger.Len(ctx, testChat)
	require.NoError(t, err)
	assert.Equal(t, 6, size)
	assert.Equal(t, []string{"cb-1"}, f.messenger.answered)
}

func TestDispatcherClearWipesHistoryAndRecordsConfirmation(t *testing.T) {
	t.Parallel()

	f := newDispatcherFixture(t)
	ctx := context.Background()

	require.NoError(t, f.dispatcher.Dispatch(ctx, command("start")))
	require.NoError(t, f.dispatcher.Dispatch(ctx, command("about")))
	require.NoError(t, f.dispatcher.Dispatch(ctx, command("clear")))

	assert.Equal(t, []int64{1, 2}, f.messenger.deleted)
	size, err := f.ledger.Len(ctx, testChat)
	require.NoError(t, err)
	assert.Equal(t, 1, size)

	require.NoError(t, f.dispatcher.Dispatch(ctx, command("clear")))
	assert.Equal(t, []int64{1, 2, 3}, f.messenger.deleted)
}

func TestDispatcherSendsGenericFailureOnCollaboratorError(t *testing.T) {
	t.Parallel()

	f := newDispatcherFixture(t)
	f.sessions.err = errors.New("store down")

	require.NoError(t, f.dispatcher.Dispatch(context.Background(), text("5000")))
	assert.Equal(t, []string{"text:" + f.messages.GenericFailure}, f.messenger.calls)
}

func TestDispatcherRegisterCommands(t *testing.T) {
	t.Parallel()

	f := newDispatcherFixture(t)

	require.NoError(t, f.dispatcher.RegisterCommands(context.Background()))
	assert.Equal(t, f.messages.Commands, f.messenger.commands)
}
