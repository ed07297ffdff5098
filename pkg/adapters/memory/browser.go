package memory

import "sync"

// Browser implements ports.Browser as a plain recorder: it tracks the
// location and remembers every push, reload and title change. Used by the
// CLI walk mode and by tests asserting on the engine's host interactions.
type Browser struct {
	mu       sync.Mutex
	location string
	title    string
	pushes   []string
	reloads  []string
}

// NewBrowser creates a Browser at the given location.
func NewBrowser(location string) *Browser {
	return &Browser{location: location}
}

// Location returns the current document URL.
func (b *Browser) Location() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.location
}

// PushState records a history push and moves the location.
func (b *Browser) PushState(url string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pushes = append(b.pushes, url)
	b.location = url
	return nil
}

// SetTitle records the document title.
func (b *Browser) SetTitle(title string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.title = title
	return nil
}

// Reload records a hard navigation and moves the location.
func (b *Browser) Reload(url string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reloads = append(b.reloads, url)
	b.location = url
	return nil
}

// SetLocation moves the location without recording anything, simulating a
// browser-driven back/forward traversal before PopState is forwarded.
func (b *Browser) SetLocation(url string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.location = url
}

// Title returns the last title set.
func (b *Browser) Title() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.title
}

// Pushes returns the recorded history pushes.
func (b *Browser) Pushes() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.pushes))
	copy(out, b.pushes)
	return out
}

// Reloads returns the recorded hard navigations.
func (b *Browser) Reloads() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.reloads))
	copy(out, b.reloads)
	return out
}
