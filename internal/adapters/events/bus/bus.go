package bus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/bnema/toplap/internal/domain"
	"github.com/bnema/toplap/internal/ports"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const outputBuffer = 64

// Bus is the in-process event bus. Each event type is its own topic.
type Bus struct {
	pubSub *gochannel.GoChannel
	logger *zap.Logger
}

var _ ports.EventPublisher = (*Bus)(nil)

func New(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("events")

	return &Bus{
		pubSub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: outputBuffer},
			newZapLoggerAdapter(logger),
		),
		logger: logger,
	}
}

func (b *Bus) Publish(ctx context.Context, event domain.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event.Type, err)
	}

	msg := message.NewMessage(uuid.NewString(), payload)
	msg.Metadata.Set("chat_id", fmt.Sprint(event.ChatID))

	if err := b.pubSub.Publish(string(event.Type), msg); err != nil {
		return fmt.Errorf("publish %s event: %w", event.Type, err)
	}
	return nil
}

// Subscribe returns decoded events of one type until ctx is done.
func (b *Bus) Subscribe(ctx context.Context, eventType domain.EventType) (<-chan domain.Event, error) {
	messages, err := b.pubSub.Subscribe(ctx, string(eventType))
	if err != nil {
		return nil, fmt.Errorf("subscribe to %s: %w", eventType, err)
	}

	events := make(chan domain.Event)
	go func() {
		defer close(events)
		for msg := range messages {
			var event domain.Event
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				b.logger.Warn("dropping undecodable event", zap.String("topic", string(eventType)), zap.Error(err))
				msg.Ack()
				continue
			}

			select {
			case events <- event:
				msg.Ack()
			case <-ctx.Done():
				msg.Nack()
				return
			}
		}
	}()

	return events, nil
}

func (b *Bus) Close() error {
	return b.pubSub.Close()
}
