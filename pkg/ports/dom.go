package ports

import "github.com/aretw0/pergola/pkg/domain"

// ParsedPage is the result of parsing markup. Wrapper is non-nil only
// when the markup contains a wrapper element; it then belongs to the same
// parsed tree as Container, so the pair can be handed to Swap directly.
type ParsedPage struct {
	Container domain.Container
	Wrapper   domain.Container
	Namespace string
	Title     string
}

// DOM abstracts the document structure the engine manipulates.
// Containers are opaque to the engine; only the implementation knows their
// concrete type.
type DOM interface {
	// Parse extracts the container, namespace, title and, when present,
	// the wrapper from markup. Returns an error wrapping
	// domain.ErrMissingContainer when the markup has no container element.
	Parse(markup string) (*ParsedPage, error)

	// Swap replaces the wrapper's attached child: current is detached,
	// next is attached.
	Swap(wrapper, current, next domain.Container) error
}

// Browser is the host surface the engine drives: the document location,
// history pushes for forward navigation, the title, and the hard-reload
// escape hatch used when invariants would otherwise break.
type Browser interface {
	Location() string
	PushState(url string) error
	SetTitle(title string) error

	// Reload performs a full, non-transitioned navigation to url.
	// It is the only cancellation mechanism the engine has: a reload
	// abandons all in-flight work.
	Reload(url string) error
}
