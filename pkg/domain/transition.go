package domain

import "context"

// Hook is one transition lifecycle phase. Hooks may block on their own
// completion signal (an animation, a timer); the engine only sequences them.
type Hook func(ctx context.Context, data *Context) error

// Filter restricts a transition to pages of a given namespace.
// A zero Filter matches everything. When Match is set it takes precedence
// over the exact Namespace comparison.
type Filter struct {
	Namespace string
	Match     func(namespace string) bool
}

// Declared reports whether the filter restricts anything at all.
func (f Filter) Declared() bool {
	return f.Namespace != "" || f.Match != nil
}

// Allows reports whether the filter accepts the given namespace.
func (f Filter) Allows(namespace string) bool {
	if f.Match != nil {
		return f.Match(namespace)
	}
	if f.Namespace == "" {
		return true
	}
	return f.Namespace == namespace
}

// Transition is a registered transition descriptor. Descriptors are
// registered once at initialization and are immutable thereafter.
//
// When Once is set it replaces the leave/enter pair with a single combined
// phase. When Sync is true, leave and enter run concurrently; otherwise
// leave fully settles before enter starts. Nil hooks are skipped: the
// container swap itself is always performed by the manager.
type Transition struct {
	Name string

	// From and To filter the transition by the current and next page
	// namespaces. Selection is first-match-wins in registration order.
	From Filter
	To   Filter

	Once  Hook
	Leave Hook
	Enter Hook
	After Hook

	// Appear marks the transition as usable for the initial load, where
	// no prior page exists. Only Appear (falling back to Enter) and After
	// run in that case.
	Appear Hook

	Sync bool
}
