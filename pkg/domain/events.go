package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTransition EventType = "transition"
	EventPollTick   EventType = "poll_tick"
	EventNavigate   EventType = "navigate"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// TransitionEvent represents one applied lifecycle transition.
type TransitionEvent struct {
	EventBase
	Name string `json:"name"`
	From Phase  `json:"from"`
	To   Phase  `json:"to"`
}

// PollEvent represents one completed status poll request.
type PollEvent struct {
	EventBase
	StatusURL string        `json:"status_url"`
	Attempt   int           `json:"attempt"`
	Duration  time.Duration `json:"duration"`
	Done      bool          `json:"done"`
}

// NavigateEvent represents a navigation delegated to the host router.
type NavigateEvent struct {
	EventBase
	Path string `json:"path"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnTransition func(context.Context, *TransitionEvent)
	OnPollTick   func(context.Context, *PollEvent)
	OnNavigate   func(context.Context, *NavigateEvent)
}
