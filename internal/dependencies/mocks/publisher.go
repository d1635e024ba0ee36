package mocks

import (
	"sync"

	"github.com/mcoot/tictactoe-go/internal/model"
)

// RecordingPublisher keeps every published event
type RecordingPublisher struct {
	mu     sync.Mutex
	events []model.Event
}

// NewRecordingPublisher creates an empty RecordingPublisher
func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{}
}

// Publish records the event
func (p *RecordingPublisher) Publish(event model.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

// Events returns a copy of the recorded events
func (p *RecordingPublisher) Events() []model.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.Event(nil), p.events...)
}

// Types returns the recorded event types in order
func (p *RecordingPublisher) Types() []model.EventType {
	events := p.Events()
	types := make([]model.EventType, len(events))
	for i, e := range events {
		types[i] = e.Type
	}
	return types
}

// Reset forgets recorded events
func (p *RecordingPublisher) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}
