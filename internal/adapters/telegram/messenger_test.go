package telegram

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/toplap/internal/domain"
	"github.com/bnema/toplap/internal/ports"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessengerSendTextWithKeyboard(t *testing.T) {
	t.Parallel()

	api := &fakeBotAPI{}
	messenger := NewMessenger(api)

	handle, err := messenger.SendText(context.Background(), 5, "<b>card</b>", domain.FormatHTML, domain.Keyboard{
		{{Label: "Start over", Data: "start"}},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.MessageHandle{ChatID: 5, MessageID: 11}, handle)

	require.Len(t, api.messages, 1)
	sent := api.messages[0]
	assert.Equal(t, int64(5), sent.ChatID)
	assert.Equal(t, models.ParseModeHTML, sent.ParseMode)
	require.NotNil(t, sent.LinkPreviewOptions)
	assert.True(t, *sent.LinkPreviewOptions.IsDisabled)
	assert.Equal(t, &models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{
		{{Text: "Start over", CallbackData: "start"}},
	}}, sent.ReplyMarkup)
}

func TestMessengerSendTextWithoutKeyboardLeavesMarkupUnset(t *testing.T) {
	t.Parallel()

	api := &fakeBotAPI{}
	_, err := NewMessenger(api).SendText(context.Background(), 5, "plain", domain.FormatPlain, nil)
	require.NoError(t, err)

	require.Len(t, api.messages, 1)
	assert.Nil(t, api.messages[0].ReplyMarkup)
	assert.Empty(t, api.messages[0].ParseMode)
}

func TestMessengerSendAlbumPicksEndpointBySize(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var photos []domain.Photo
	for _, name := range []string{"1.jpg", "2.jpg"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(name), 0o600))
		photos = append(photos, domain.Photo{Path: path})
	}
	photos[0].Caption = "card"
	photos[0].Format = domain.FormatHTML

	api := &fakeBotAPI{}
	messenger := NewMessenger(api)

	handles, err := messenger.SendAlbum(context.Background(), 5, photos[:1])
	require.NoError(t, err)
	assert.Equal(t, []domain.MessageHandle{{ChatID: 5, MessageID: 3}}, handles)
	assert.Equal(t, []string{"1.jpg:1.jpg"}, api.photoUploads)

	handles, err = messenger.SendAlbum(context.Background(), 5, photos)
	require.NoError(t, err)
	assert.Equal(t, []domain.MessageHandle{{ChatID: 5, MessageID: 1}, {ChatID: 5, MessageID: 2}}, handles)

	require.Len(t, api.albums, 1)
	first := api.albums[0][0]
	assert.Equal(t, "attach://photo0", first.Media)
	assert.Equal(t, "card", first.Caption)
	assert.Equal(t, models.ParseModeHTML, first.ParseMode)
	assert.Equal(t, "attach://photo1", api.albums[0][1].Media)
}

func TestMessengerSendAlbumFailsOnMissingFile(t *testing.T) {
	t.Parallel()

	api := &fakeBotAPI{}
	_, err := NewMessenger(api).SendAlbum(context.Background(), 5, []domain.Photo{{Path: filepath.Join(t.TempDir(), "missing.jpg")}})
	require.Error(t, err)
	assert.Empty(t, api.photoUploads)

	_, err = NewMessenger(api).SendAlbum(context.Background(), 5, nil)
	require.Error(t, err)
}

func TestMessengerSendDocument(t *testing.T) {
	t.Parallel()

	api := &fakeBotAPI{}
	handle, err := NewMessenger(api).SendDocument(context.Background(), 5, domain.Document{Filename: "top.pdf", Data: []byte("%PDF")}, "report", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.MessageHandle{ChatID: 5, MessageID: 7}, handle)
	assert.Equal(t, []string{"top.pdf:%PDF"}, api.documents)
}

func TestMessengerRejectsEmptyDocument(t *testing.T) {
	t.Parallel()

	api := &fakeBotAPI{}
	_, err := NewMessenger(api).SendDocument(context.Background(), 5, domain.Document{Filename: "x.pdf"}, "", nil)
	require.Error(t, err)
	assert.Empty(t, api.documents)
}

func TestMessengerDeleteAnswerAndCommands(t *testing.T) {
	t.Parallel()

	api := &fakeBotAPI{}
	messenger := NewMessenger(api)
	ctx := context.Background()

	require.NoError(t, messenger.DeleteMessage(ctx, domain.MessageHandle{ChatID: 5, MessageID: 9}))
	require.NoError(t, messenger.AnswerCallback(ctx, "cb"))
	require.NoError(t, messenger.SetCommands(ctx, []ports.Command{{Name: "start", Description: "Start"}}))

	assert.Equal(t, []bot.DeleteMessageParams{{ChatID: int64(5), MessageID: 9}}, api.deleted)
	assert.Equal(t, []string{"cb"}, api.answered)
	assert.Equal(t, []models.BotCommand{{Command: "start", Description: "Start"}}, api.commands)
}

func TestMessengerWrapsAPIErrors(t *testing.T) {
	t.Parallel()

	api := &fakeBotAPI{err: errors.New("forbidden: bot was blocked by the user")}
	messenger := NewMessenger(api)

	_, err := messenger.SendText(context.Background(), 5, "hi", domain.FormatPlain, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "send message")
	assert.Contains(t, err.Error(), "blocked")

	err = messenger.DeleteMessage(context.Background(), domain.MessageHandle{ChatID: 5, MessageID: 1})
	assert.ErrorIs(t, err, api.err)
}

type fakeBotAPI struct {
	err          error
	messages     []*bot.SendMessageParams
	photoUploads []string
	albums       [][]*models.InputMediaPhoto
	documents    []string
	deleted      []bot.DeleteMessageParams
	answered     []string
	commands     []models.BotCommand
}

func (f *fakeBotAPI) SendMessage(_ context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.messages = append(f.messages, params)
	return &models.Message{ID: 11, Chat: models.Chat{ID: 5}}, nil
}

func (f *fakeBotAPI) SendPhoto(_ context.Context, params *bot.SendPhotoParams) (*models.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.photoUploads = append(f.photoUploads, readUpload(params.Photo))
	return &models.Message{ID: 3}, nil
}

func (f *fakeBotAPI) SendMediaGroup(_ context.Context, params *bot.SendMediaGroupParams) ([]*models.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	var album []*models.InputMediaPhoto
	var sent []*models.Message
	for i, media := range params.Media {
		if photo, ok := media.(*models.InputMediaPhoto); ok {
			album = append(album, photo)
		}
		sent = append(sent, &models.Message{ID: i + 1, Chat: models.Chat{ID: 5}})
	}
	f.albums = append(f.albums, album)
	return sent, nil
}

func (f *fakeBotAPI) SendDocument(_ context.Context, params *bot.SendDocumentParams) (*models.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.documents = append(f.documents, readUpload(params.Document))
	return &models.Message{ID: 7, Chat: models.Chat{ID: 5}}, nil
}

func (f *fakeBotAPI) DeleteMessage(_ context.Context, params *bot.DeleteMessageParams) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.deleted = append(f.deleted, *params)
	return true, nil
}

func (f *fakeBotAPI) AnswerCallbackQuery(_ context.Context, params *bot.AnswerCallbackQueryParams) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.answered = append(f.answered, params.CallbackQueryID)
	return true, nil
}

func (f *fakeBotAPI) SetMyCommands(_ context.Context, params *bot.SetMyCommandsParams) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.commands = append(f.commands, params.Commands...)
	return true, nil
}

func readUpload(file models.InputFile) string {
	upload, ok := file.(*models.InputFileUpload)
	if !ok {
		return ""
	}
	data, _ := io.ReadAll(upload.Data)
	return upload.Filename + ":" + string(data)
}
