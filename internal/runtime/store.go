// Package runtime contains the navigation core: transition selection, the
// transition-execution state machine, the history log, and the prevent
// predicate chain. The public Engine in the root package wires these
// together; nothing here is exposed to integrators directly.
package runtime

import (
	"log/slog"

	"github.com/aretw0/pergola/internal/logging"
	"github.com/aretw0/pergola/pkg/domain"
)

// Store is the registry of transition descriptors.
// Descriptors are registered once at construction and immutable thereafter.
type Store struct {
	transitions []*domain.Transition
	logger      *slog.Logger
}

// NewStore creates a Store over the registered descriptors.
func NewStore(transitions []*domain.Transition, logger *slog.Logger) *Store {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Store{transitions: transitions, logger: logger}
}

// Transitions returns the registered descriptors in registration order.
func (s *Store) Transitions() []*domain.Transition {
	out := make([]*domain.Transition, len(s.transitions))
	copy(out, s.transitions)
	return out
}

// Resolve selects the best descriptor for the navigation snapshot.
//
// Descriptors are scanned in registration order; one matches when every
// filter it declares (From, To) accepts the corresponding namespace. The
// first match wins. With no match, a built-in default is returned whose
// leave and enter are no-ops beyond the container swap.
//
// With appear=true, selection is restricted to descriptors that declare an
// Appear hook, matched against the current namespace only; nil is returned
// when none qualifies (callers check HasAppear first).
func (s *Store) Resolve(data *domain.Context, appear bool) *domain.Transition {
	if appear {
		for _, t := range s.transitions {
			if t.Appear == nil {
				continue
			}
			if t.From.Allows(data.Current.Namespace) {
				s.logger.Debug("appear transition selected", "transition", t.Name)
				return t
			}
		}
		return nil
	}

	for _, t := range s.transitions {
		if t.From.Declared() && !t.From.Allows(data.Current.Namespace) {
			continue
		}
		if t.To.Declared() && !t.To.Allows(data.Next.Namespace) {
			continue
		}
		s.logger.Debug("transition selected", "transition", t.Name,
			"from", data.Current.Namespace, "to", data.Next.Namespace)
		return t
	}

	s.logger.Debug("no transition matched, using default",
		"from", data.Current.Namespace, "to", data.Next.Namespace)
	return DefaultTransition()
}

// HasAppear reports whether at least one descriptor is registered for
// first-load use.
func (s *Store) HasAppear() bool {
	for _, t := range s.transitions {
		if t.Appear != nil {
			return true
		}
	}
	return false
}

// Wait reports whether any descriptor needs the next page's full data
// before selection can be final. A To filter can only be evaluated against
// the fetched page's namespace, so its presence forces the orchestrator to
// block on the fetch before computing history and title updates.
func (s *Store) Wait() bool {
	for _, t := range s.transitions {
		if t.To.Declared() {
			return true
		}
	}
	return false
}

// DefaultTransition returns the built-in fallback: no hooks, swap only.
func DefaultTransition() *domain.Transition {
	return &domain.Transition{Name: "default"}
}
