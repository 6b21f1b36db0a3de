package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/biblioteca-api/internal/events"
)

// MockEventEmitter implements events.EventEmitter and records emitted events.
type MockEventEmitter struct {
	EmitEventFn func(ctx context.Context, event *events.Event) error

	mu      sync.Mutex
	Emitted []*events.Event
}

var _ events.EventEmitter = (*MockEventEmitter)(nil)

// EmitEvent implements events.EventEmitter
func (m *MockEventEmitter) EmitEvent(ctx context.Context, event *events.Event) error {
	m.mu.Lock()
	m.Emitted = append(m.Emitted, event)
	m.mu.Unlock()

	if m.EmitEventFn != nil {
		return m.EmitEventFn(ctx, event)
	}
	return nil
}

// Types returns the types of the emitted events in order.
func (m *MockEventEmitter) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	types := make([]string, 0, len(m.Emitted))
	for _, event := range m.Emitted {
		types = append(types, event.Type)
	}
	return types
}
