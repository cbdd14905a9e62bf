package leagueservice

import (
	"context"
	"encoding/json"
	"sync"

	leaguetypes "github.com/Black-And-White-Club/bakeoff-league/app/shared/types/league"
	"github.com/ThreeDotsLabs/watermill/message"
)

// ------------------------
// Fake Store
// ------------------------

type FakeStore struct {
	trace []string
	saved [][]leaguetypes.League

	LoadFunc func(ctx context.Context) ([]leaguetypes.League, error)
	SaveFunc func(ctx context.Context, leagues []leaguetypes.League) error
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		trace: []string{},
	}
}

func (f *FakeStore) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeStore) Load(ctx context.Context) ([]leaguetypes.League, error) {
	f.record("Load")
	if f.LoadFunc != nil {
		return f.LoadFunc(ctx)
	}
	return nil, nil
}

func (f *FakeStore) Save(ctx context.Context, leagues []leaguetypes.League) error {
	f.record("Save")
	f.saved = append(f.saved, leagues)
	if f.SaveFunc != nil {
		return f.SaveFunc(ctx, leagues)
	}
	return nil
}

func (f *FakeStore) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// LastSaved returns the most recent snapshot handed to Save.
func (f *FakeStore) LastSaved() []leaguetypes.League {
	if len(f.saved) == 0 {
		return nil
	}
	return f.saved[len(f.saved)-1]
}

var _ Store = (*FakeStore)(nil)

// ------------------------
// Fake Publisher
// ------------------------

type FakePublisher struct {
	mu       sync.Mutex
	messages map[string][]*message.Message

	PublishErr error
}

func NewFakePublisher() *FakePublisher {
	return &FakePublisher{messages: make(map[string][]*message.Message)}
}

func (f *FakePublisher) Publish(topic string, msgs ...*message.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishErr != nil {
		return f.PublishErr
	}
	f.messages[topic] = append(f.messages[topic], msgs...)
	return nil
}

func (f *FakePublisher) Close() error { return nil }

func (f *FakePublisher) Count(topic string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages[topic])
}

// Decode unmarshals the n-th message published on topic into out.
func (f *FakePublisher) Decode(topic string, n int, out any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return json.Unmarshal(f.messages[topic][n].Payload, out)
}

var _ message.Publisher = (*FakePublisher)(nil)
