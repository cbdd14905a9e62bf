package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type pingPayload struct {
	LeagueID string `json:"league_id"`
}

type pongPayload struct {
	LeagueID string `json:"league_id"`
	Count    int    `json:"count"`
}

func TestWrapTyped(t *testing.T) {
	tracer := noop.NewTracerProvider().Tracer("test")

	tests := []struct {
		name      string
		payload   []byte
		handler   TypedHandler[pingPayload]
		wantErr   bool
		wantCount int
		verify    func(t *testing.T, out []*message.Message)
	}{
		{
			name:    "emits results with topic and correlation id",
			payload: []byte(`{"league_id":"abc"}`),
			handler: func(ctx context.Context, p *pingPayload) ([]Result, error) {
				return []Result{{
					Topic:    "pong.v1",
					Payload:  pongPayload{LeagueID: p.LeagueID, Count: 2},
					Metadata: map[string]string{"trigger": "ping"},
				}}, nil
			},
			wantCount: 1,
			verify: func(t *testing.T, out []*message.Message) {
				msg := out[0]
				assert.Equal(t, "pong.v1", msg.Metadata.Get(TopicMetadataKey))
				assert.Equal(t, "ping", msg.Metadata.Get("trigger"))
				assert.Equal(t, "corr-1", middleware.MessageCorrelationID(msg))

				var got pongPayload
				require.NoError(t, json.Unmarshal(msg.Payload, &got))
				assert.Equal(t, pongPayload{LeagueID: "abc", Count: 2}, got)
			},
		},
		{
			name:    "undecodable payload is dropped",
			payload: []byte("not json"),
			handler: func(ctx context.Context, p *pingPayload) ([]Result, error) {
				t.Fatal("handler must not run")
				return nil, nil
			},
		},
		{
			name:    "handler error is returned",
			payload: []byte(`{"league_id":"abc"}`),
			handler: func(ctx context.Context, p *pingPayload) ([]Result, error) {
				return nil, errors.New("boom")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := message.NewMessage("in-1", tt.payload)
			middleware.SetCorrelationID("corr-1", msg)

			out, err := WrapTyped[pingPayload]("test.ping", testLogger(), tracer, tt.handler)(msg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, out, tt.wantCount)
			if tt.verify != nil {
				tt.verify(t, out)
			}
		})
	}
}
