package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bnema/toplap/internal/domain"
	"github.com/bnema/toplap/internal/ports"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// botAPI is the slice of *bot.Bot the messenger calls.
type botAPI interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendPhoto(ctx context.Context, params *bot.SendPhotoParams) (*models.Message, error)
	SendMediaGroup(ctx context.Context, params *bot.SendMediaGroupParams) ([]*models.Message, error)
	SendDocument(ctx context.Context, params *bot.SendDocumentParams) (*models.Message, error)
	DeleteMessage(ctx context.Context, params *bot.DeleteMessageParams) (bool, error)
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
	SetMyCommands(ctx context.Context, params *bot.SetMyCommandsParams) (bool, error)
}

var _ botAPI = (*bot.Bot)(nil)

// Messenger adapts the Bot API client to the outbound messaging port.
type Messenger struct {
	api botAPI
}

var _ ports.Messenger = (*Messenger)(nil)

func NewMessenger(api botAPI) *Messenger {
	return &Messenger{api: api}
}

func (m *Messenger) SendText(ctx context.Context, chatID domain.ChatID, text string, format domain.TextFormat, keyboard domain.Keyboard) (domain.MessageHandle, error) {
	disabled := true
	params := &bot.SendMessageParams{
		ChatID:             int64(chatID),
		Text:               text,
		ParseMode:          models.ParseMode(format),
		LinkPreviewOptions: &models.LinkPreviewOptions{IsDisabled: &disabled},
	}
	if markup := inlineKeyboard(keyboard); markup != nil {
		params.ReplyMarkup = markup
	}

	sent, err := m.api.SendMessage(ctx, params)
	if err != nil {
		return domain.MessageHandle{}, fmt.Errorf("send message: %w", err)
	}
	return handleFor(chatID, sent), nil
}

func (m *Messenger) SendAlbum(ctx context.Context, chatID domain.ChatID, photos []domain.Photo) ([]domain.MessageHandle, error) {
	if len(photos) == 0 {
		return nil, errors.New("album has no photos")
	}

	files := make([]*os.File, 0, len(photos))
	defer func() {
		for _, f := range files {
			_ = f.Close()
		}
	}()
	for _, photo := range photos {
		f, err := os.Open(photo.Path)
		if err != nil {
			return nil, fmt.Errorf("open photo: %w", err)
		}
		files = append(files, f)
	}

	if len(photos) == 1 {
		sent, err := m.api.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID:    int64(chatID),
			Photo:     &models.InputFileUpload{Filename: filepath.Base(photos[0].Path), Data: files[0]},
			Caption:   photos[0].Caption,
			ParseMode: models.ParseMode(photos[0].Format),
		})
		if err != nil {
			return nil, fmt.Errorf("send photo: %w", err)
		}
		return []domain.MessageHandle{handleFor(chatID, sent)}, nil
	}

	media := make([]models.InputMedia, 0, len(photos))
	for i, photo := range photos {
		media = append(media, &models.InputMediaPhoto{
			Media:           "attach://" + attachName(i),
			Caption:         photo.Caption,
			ParseMode:       models.ParseMode(photo.Format),
			MediaAttachment: files[i],
		})
	}

	sent, err := m.api.SendMediaGroup(ctx, &bot.SendMediaGroupParams{ChatID: int64(chatID), Media: media})
	if err != nil {
		return nil, fmt.Errorf("send media group: %w", err)
	}
	handles := make([]domain.MessageHandle, 0, len(sent))
	for _, message := range sent {
		handles = append(handles, handleFor(chatID, message))
	}
	return handles, nil
}

func (m *Messenger) SendDocument(ctx context.Context, chatID domain.ChatID, document domain.Document, caption string, keyboard domain.Keyboard) (domain.MessageHandle, error) {
	if len(document.Data) == 0 {
		return domain.MessageHandle{}, fmt.Errorf("document %q is empty", document.Filename)
	}

	params := &bot.SendDocumentParams{
		ChatID:   int64(chatID),
		Document: &models.InputFileUpload{Filename: document.Filename, Data: bytes.NewReader(document.Data)},
		Caption:  caption,
	}
	if markup := inlineKeyboard(keyboard); markup != nil {
		params.ReplyMarkup = markup
	}

	sent, err := m.api.SendDocument(ctx, params)
	if err != nil {
		return domain.MessageHandle{}, fmt.Errorf("send document: %w", err)
	}
	return handleFor(chatID, sent), nil
}

func (m *Messenger) DeleteMessage(ctx context.Context, handle domain.MessageHandle) error {
	if _, err := m.api.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    int64(handle.ChatID),
		MessageID: int(handle.MessageID),
	}); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

func (m *Messenger) AnswerCallback(ctx context.Context, callbackID string) error {
	if _, err := m.api.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: callbackID}); err != nil {
		return fmt.Errorf("answer callback query: %w", err)
	}
	return nil
}

func (m *Messenger) SetCommands(ctx context.Context, commands []ports.Command) error {
	botCommands := make([]models.BotCommand, 0, len(commands))
	for _, command := range commands {
		botCommands = append(botCommands, models.BotCommand{Command: command.Name, Description: command.Description})
	}
	if _, err := m.api.SetMyCommands(ctx, &bot.SetMyCommandsParams{Commands: botCommands}); err != nil {
		return fmt.Errorf("set my commands: %w", err)
	}
	return nil
}

func inlineKeyboard(keyboard domain.Keyboard) *models.InlineKeyboardMarkup {
	if len(keyboard) == 0 {
		return nil
	}

	rows := make([][]models.InlineKeyboardButton, 0, len(keyboard))
	for _, row := range keyboard {
		buttons := make([]models.InlineKeyboardButton, 0, len(row))
		for _, button := range row {
			buttons = append(buttons, models.InlineKeyboardButton{Text: button.Label, CallbackData: button.Data})
		}
		rows = append(rows, buttons)
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func attachName(i int) string {
	return "photo" + strconv.Itoa(i)
}

func handleFor(chatID domain.ChatID, message *models.Message) domain.MessageHandle {
	if message == nil {
		return domain.MessageHandle{ChatID: chatID}
	}
	if message.Chat.ID != 0 {
		chatID = domain.ChatID(message.Chat.ID)
	}
	return domain.MessageHandle{ChatID: chatID, MessageID: int64(message.ID)}
}
