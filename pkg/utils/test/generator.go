package testutils

import (
	"context"
	"sync"

	"github.com/papercomputeco/disrello/pkg/eventstream"
	"github.com/papercomputeco/disrello/pkg/llm"
)

// FakeGenerator is a scripted llm.Generator that records every prompt.
type FakeGenerator struct {
	mu sync.Mutex

	// Replies are returned in order; the last one repeats.
	Replies []string
	Err     error

	Models    []string
	ModelsErr error

	Prompts []llm.Prompt
}

func (f *FakeGenerator) Generate(_ context.Context, p llm.Prompt) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Prompts = append(f.Prompts, p)
	if f.Err != nil {
		return "", f.Err
	}
	if len(f.Replies) == 0 {
		return "", nil
	}
	out := f.Replies[0]
	if len(f.Replies) > 1 {
		f.Replies = f.Replies[1:]
	}
	return out, nil
}

func (f *FakeGenerator) ListModels(_ context.Context, _ string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ModelsErr != nil {
		return nil, f.ModelsErr
	}
	return append([]string{}, f.Models...), nil
}

// Calls returns the number of Generate calls so far.
func (f *FakeGenerator) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Prompts)
}

// RecordingPublisher collects published events.
type RecordingPublisher struct {
	mu     sync.Mutex
	Events []*eventstream.Event
}

func (r *RecordingPublisher) Publish(_ context.Context, ev *eventstream.Event) error {
	if ev == nil {
		return eventstream.ErrNilEvent
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, ev)
	return nil
}

func (r *RecordingPublisher) Close() error { return nil }

// Types returns the event types in publish order.
func (r *RecordingPublisher) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.Events))
	for _, ev := range r.Events {
		out = append(out, ev.EventType)
	}
	return out
}

var (
	_ llm.Generator         = (*FakeGenerator)(nil)
	_ eventstream.Publisher = (*RecordingPublisher)(nil)
)
