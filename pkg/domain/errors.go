package domain

import (
	"errors"
	"fmt"
)

// ErrTransitionRunning is returned when a transition is started while one
// is already in flight. The engine guards against this before calling the
// manager, so seeing it surfaced means a caller bypassed the engine.
var ErrTransitionRunning = errors.New("transition already running")

// ErrPrevented is returned when the prevent predicate chain blocks a link.
var ErrPrevented = errors.New("navigation prevented")

// ErrNotCached is returned by markup stores when a URL has no entry.
var ErrNotCached = errors.New("url not cached")

// ErrMissingWrapper is returned when the boot markup has no wrapper element.
var ErrMissingWrapper = errors.New("wrapper not found in document")

// ErrMissingContainer is returned when markup has no container element.
var ErrMissingContainer = errors.New("container not found in document")

// ErrNotBooted is returned when navigation is attempted before Boot.
var ErrNotBooted = errors.New("engine not booted")

// TransitionError wraps a failure raised by an author-supplied transition
// phase. The DOM may be left in whatever partial state the failing phase
// produced; recovery is the transition author's responsibility.
type TransitionError struct {
	Transition string
	Phase      string
	Err        error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transition %q: %s phase failed: %v", e.Transition, e.Phase, e.Err)
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}

// FetchError marks a failure to obtain the target markup: a timeout, a
// non-2xx response or a network error. It is the only navigation failure
// class that may degrade to a hard reload; parse, swap and phase errors
// never do.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
