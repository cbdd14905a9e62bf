package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// TopicMetadataKey names the destination of a message published with an
// empty topic. Router handlers register with an empty publish topic and rely
// on it.
const TopicMetadataKey = "topic"

// ErrNoTopic is returned when neither the call nor the message names a topic.
var ErrNoTopic = errors.New("message has no topic")

// EventBus delivers league events in-process and optionally mirrors them to
// an external publisher.
type EventBus interface {
	message.Publisher
	message.Subscriber
}

type eventBus struct {
	local  *gochannel.GoChannel
	fanOut message.Publisher
	logger *slog.Logger
}

// NewEventBus creates an in-process bus. fanOut may be nil.
func NewEventBus(logger *slog.Logger, fanOut message.Publisher) EventBus {
	if logger == nil {
		logger = slog.Default()
	}
	local := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewSlogLogger(logger),
	)
	return &eventBus{
		local:  local,
		fanOut: fanOut,
		logger: logger,
	}
}

// Publish sends each message to topic, or to its metadata topic when topic is
// empty.
// A fan-out failure is logged and does not fail local delivery.
func (eb *eventBus) Publish(topic string, msgs ...*message.Message) error {
	for _, msg := range msgs {
		if msg.UUID == "" {
			msg.UUID = watermill.NewUUID()
		}
		dest := topic
		if dest == "" {
			dest = msg.Metadata.Get(TopicMetadataKey)
		}
		if dest == "" {
			return fmt.Errorf("%w: %s", ErrNoTopic, msg.UUID)
		}
		msg.Metadata.Set(TopicMetadataKey, dest)

		if err := eb.local.Publish(dest, msg); err != nil {
			return fmt.Errorf("failed to publish to %s: %w", dest, err)
		}

		if eb.fanOut != nil {
			if err := eb.fanOut.Publish(dest, msg.Copy()); err != nil {
				eb.logger.Warn("Fan-out publish failed",
					slog.String("topic", dest),
					slog.String("message_id", msg.UUID),
					slog.String("error", err.Error()),
				)
			}
		}

		eb.logger.Debug("Message published",
			slog.String("topic", dest),
			slog.String("message_id", msg.UUID),
		)
	}
	return nil
}

func (eb *eventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return eb.local.Subscribe(ctx, topic)
}

func (eb *eventBus) Close() error {
	var errs []error
	if err := eb.local.Close(); err != nil {
		errs = append(errs, err)
	}
	if eb.fanOut != nil {
		if err := eb.fanOut.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
