package eventbus

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	err    error
}

func (p *recordingPublisher) Publish(topic string, msgs ...*message.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	for range msgs {
		p.topics = append(p.topics, topic)
	}
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func receive(t *testing.T, ch <-chan *message.Message) *message.Message {
	t.Helper()
	select {
	case msg := <-ch:
		msg.Ack()
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestEventBus_PublishSubscribe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fanOut := &recordingPublisher{}
	bus := NewEventBus(testLogger(), fanOut)
	defer bus.Close()

	ch, err := bus.Subscribe(ctx, "league.created.v1")
	require.NoError(t, err)

	require.NoError(t, bus.Publish("league.created.v1", message.NewMessage("m1", []byte(`{"league_id":"abc"}`))))

	got := receive(t, ch)
	require.Equal(t, "m1", got.UUID)
	require.Equal(t, "league.created.v1", got.Metadata.Get(TopicMetadataKey))
	require.Equal(t, []string{"league.created.v1"}, fanOut.topics)
}

func TestEventBus_RoutesByMetadataWhenTopicEmpty(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := NewEventBus(testLogger(), nil)
	defer bus.Close()

	ch, err := bus.Subscribe(ctx, "league.standings.updated.v1")
	require.NoError(t, err)

	msg := message.NewMessage("m2", []byte(`{}`))
	msg.Metadata.Set(TopicMetadataKey, "league.standings.updated.v1")
	require.NoError(t, bus.Publish("", msg))

	require.Equal(t, "m2", receive(t, ch).UUID)
}

func TestEventBus_NoTopic(t *testing.T) {
	bus := NewEventBus(testLogger(), nil)
	defer bus.Close()

	err := bus.Publish("", message.NewMessage("m3", nil))
	require.ErrorIs(t, err, ErrNoTopic)
}

func TestEventBus_FanOutFailureIsNotFatal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := NewEventBus(testLogger(), &recordingPublisher{err: errors.New("nats down")})
	defer bus.Close()

	ch, err := bus.Subscribe(ctx, "league.week.submitted.v1")
	require.NoError(t, err)

	require.NoError(t, bus.Publish("league.week.submitted.v1", message.NewMessage("m4", []byte(`{}`))))
	require.Equal(t, "m4", receive(t, ch).UUID)
}
