package game

import "github.com/mcoot/tictactoe-go/internal/model"

// Publisher receives game events after they are persisted
type Publisher interface {
	Publish(event model.Event)
}

// NopPublisher discards events
type NopPublisher struct{}

// Publish does nothing
func (NopPublisher) Publish(model.Event) {}
