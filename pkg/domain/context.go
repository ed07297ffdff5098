package domain

// TriggerKind classifies what caused a navigation.
type TriggerKind string

const (
	// TriggerLink marks a navigation started by a link click.
	TriggerLink TriggerKind = "link"
	// TriggerPopState marks a back/forward history traversal.
	TriggerPopState TriggerKind = "popstate"
	// TriggerScript marks a programmatic navigation (or the initial appear).
	TriggerScript TriggerKind = "pergola"
)

// Trigger identifies the cause of a navigation: a link, a history
// traversal, or a programmatic call.
type Trigger struct {
	Kind TriggerKind

	// Link carries the originating link when Kind is TriggerLink.
	Link *Link
}

// LinkTrigger builds a Trigger for a link-initiated navigation.
func LinkTrigger(l Link) Trigger {
	return Trigger{Kind: TriggerLink, Link: &l}
}

// PopStateTrigger is the trigger for back/forward traversal.
var PopStateTrigger = Trigger{Kind: TriggerPopState}

// ScriptTrigger is the trigger for programmatic navigation.
var ScriptTrigger = Trigger{Kind: TriggerScript}

// Context is the immutable navigation snapshot built on demand and passed
// to transition selection and to every transition lifecycle hook.
type Context struct {
	Current *Page
	Next    *Page
	Trigger Trigger
}

// Link is the engine's view of an anchor element: its resolved href and
// the attributes the host chose to forward.
type Link struct {
	Href  string
	Attrs map[string]string
}

// Attr returns the value of a forwarded attribute, or "".
func (l Link) Attr(name string) string {
	return l.Attrs[name]
}

// Has reports whether the attribute is present, even with an empty value.
func (l Link) Has(name string) bool {
	_, ok := l.Attrs[name]
	return ok
}
