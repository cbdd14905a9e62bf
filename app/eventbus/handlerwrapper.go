package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Result is one outgoing event produced by a handler.
type Result struct {
	Topic    string
	Payload  any
	Metadata map[string]string
}

// TypedHandler consumes a decoded payload and returns the events to emit.
type TypedHandler[T any] func(ctx context.Context, payload *T) ([]Result, error)

// WrapTyped adapts a TypedHandler to a watermill HandlerFunc. Payloads that
// fail to decode are logged and acknowledged so they are not redelivered.
// Outgoing messages carry the inbound correlation id and their destination in
// TopicMetadataKey.
func WrapTyped[T any](
	name string,
	logger *slog.Logger,
	tracer trace.Tracer,
	handler func(ctx context.Context, payload *T) ([]Result, error),
) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		ctx, span := tracer.Start(msg.Context(), name, trace.WithAttributes(
			attribute.String("message.id", msg.UUID),
			attribute.String("message.topic", msg.Metadata.Get(TopicMetadataKey)),
		))
		defer span.End()

		payload := new(T)
		if err := json.Unmarshal(msg.Payload, payload); err != nil {
			logger.ErrorContext(ctx, "Dropping undecodable message",
				slog.String("handler", name),
				slog.String("message_id", msg.UUID),
				slog.String("error", err.Error()),
			)
			span.SetStatus(codes.Error, "decode failed")
			return nil, nil
		}

		results, err := handler(ctx, payload)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}

		correlationID := middleware.MessageCorrelationID(msg)
		out := make([]*message.Message, 0, len(results))
		for _, r := range results {
			data, err := json.Marshal(r.Payload)
			if err != nil {
				return nil, fmt.Errorf("failed to encode %s result: %w", r.Topic, err)
			}
			m := message.NewMessage(watermill.NewUUID(), data)
			m.SetContext(ctx)
			for k, v := range r.Metadata {
				m.Metadata.Set(k, v)
			}
			m.Metadata.Set(TopicMetadataKey, r.Topic)
			if correlationID != "" {
				middleware.SetCorrelationID(correlationID, m)
			}
			out = append(out, m)
		}
		return out, nil
	}
}
