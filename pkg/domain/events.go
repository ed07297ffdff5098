package domain

import (
	"context"
	"time"
)

// NavigationEvent describes a navigation being started or committed.
// Boot is set on the refresh published while the engine boots; no
// navigation happened for it.
type NavigationEvent struct {
	Timestamp time.Time   `json:"timestamp"`
	URL       string      `json:"url"`
	Namespace string      `json:"namespace,omitempty"`
	Trigger   TriggerKind `json:"trigger"`
	Boot      bool        `json:"boot,omitempty"`
}

// FetchEvent describes the outcome of a markup request.
type FetchEvent struct {
	Timestamp time.Time `json:"timestamp"`
	URL       string    `json:"url"`
	Cached    bool      `json:"cached,omitempty"`
	Prefetch  bool      `json:"prefetch,omitempty"`
	Err       string    `json:"err,omitempty"`
}

// PhaseEvent describes a completed transition lifecycle phase.
type PhaseEvent struct {
	Timestamp  time.Time     `json:"timestamp"`
	Transition string        `json:"transition"`
	Phase      string        `json:"phase"`
	Duration   time.Duration `json:"duration"`
}

// LifecycleHooks defines callbacks for engine observability.
// Publishing is synchronous: subscribers may read the event but must not
// block.
type LifecycleHooks struct {
	// OnGo fires when a navigation is initiated.
	OnGo func(context.Context, *NavigationEvent)
	// OnRefresh fires after the current/next records are recomputed,
	// including the initial boot.
	OnRefresh func(context.Context, *NavigationEvent)
	// OnFetch fires when a markup request settles (or is served from cache).
	OnFetch func(context.Context, *FetchEvent)
	// OnPhase fires after each transition lifecycle phase completes.
	OnPhase func(context.Context, *PhaseEvent)
	// OnError fires when a started navigation fails.
	OnError func(ctx context.Context, e *NavigationEvent, err error)
}
