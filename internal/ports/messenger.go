package ports

import (
	"context"

	"github.com/bnema/toplap/internal/domain"
)

type Command struct {
	Name        string
	Description string
}

type MessageDeleter interface {
	DeleteMessage(ctx context.Context, handle domain.MessageHandle) error
}

type Messenger interface {
	MessageDeleter
	SendText(ctx context.Context, chatID domain.ChatID, text string, format domain.TextFormat, keyboard domain.Keyboard) (domain.MessageHandle, error)
	SendAlbum(ctx context.Context, chatID domain.ChatID, photos []domain.Photo) ([]domain.MessageHandle, error)
	SendDocument(ctx context.Context, chatID domain.ChatID, document domain.Document, caption string, keyboard domain.Keyboard) (domain.MessageHandle, error)
	AnswerCallback(ctx context.Context, callbackID string) error
	SetCommands(ctx context.Context, commands []Command) error
}
