package shared

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/mirror-sync/internal/syncengine"
)

// EngineEventMsg wraps a syncengine.Event for use as a tea.Msg.
type EngineEventMsg struct {
	Event syncengine.Event
}

// EventBridge adapts syncengine events to bubble tea messages.
// Emit blocks while the buffer is full so no event is lost; once Close is
// called every pending and future Emit returns immediately.
type EventBridge struct {
	eventChan chan tea.Msg
	done      chan struct{}
	closeOnce sync.Once
}

// NewEventBridge creates a new event bridge.
func NewEventBridge() *EventBridge {
	return &EventBridge{
		eventChan: make(chan tea.Msg, eventBufferSize),
		done:      make(chan struct{}),
	}
}

// Emit implements syncengine.EventEmitter.
func (b *EventBridge) Emit(event syncengine.Event) {
	select {
	case <-b.done:
		return
	default:
	}

	select {
	case b.eventChan <- EngineEventMsg{Event: event}:
	case <-b.done:
	}
}

// ListenCmd returns a tea.Cmd that blocks until an event is received.
// Use this in Init() or after processing an event to continue listening.
// After Close it returns nil.
func (b *EventBridge) ListenCmd() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-b.done:
			return nil
		default:
		}

		select {
		case msg := <-b.eventChan:
			return msg
		case <-b.done:
			return nil
		}
	}
}

// Close releases any blocked Emit. The bridge cannot be reused.
func (b *EventBridge) Close() {
	b.closeOnce.Do(func() { close(b.done) })
}

const eventBufferSize = 100
