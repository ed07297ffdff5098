package domain

// Container is an opaque handle to one page's content subtree.
// Its concrete type is owned by the DOM port implementation; the engine
// only moves it around.
type Container = any

// Page represents one rendered or fetched page.
//
// The engine owns exactly two live slots: "current" and "next". The next
// page is provisional until a navigation commits, at which point it is
// promoted into current and a fresh empty next is allocated. The current
// page's container is always the element attached to the wrapper's live
// region; the next page's container is not attached until the transition's
// enter phase completes.
type Page struct {
	// URL is the absolute document location of this page.
	URL string

	// Namespace identifies the page type, used to match transitions.
	Namespace string

	// Title is the document title extracted from the markup.
	Title string

	// Container is the page's content subtree, swapped in/out of the wrapper.
	Container Container

	// HTML is the raw markup the page was built from.
	HTML string
}

// Populated reports whether the page carries full data (parsed markup),
// as opposed to only a URL.
func (p *Page) Populated() bool {
	return p != nil && p.Container != nil
}
