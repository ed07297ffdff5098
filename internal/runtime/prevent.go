package runtime

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/aretw0/pergola/internal/logging"
	"github.com/aretw0/pergola/pkg/domain"
)

// Check is a named predicate deciding whether a link must not be
// intercepted.
type Check func(link domain.Link) bool

type namedCheck struct {
	name  string
	check Check
}

// Prevent is the ordered predicate chain consulted before any link is
// intercepted. A link is blocked as soon as one predicate fires.
type Prevent struct {
	checks   []namedCheck
	location func() string
	logger   *slog.Logger
}

// NewPrevent builds the chain with its built-in predicates.
// location returns the current document URL; preventAttr is the marker
// attribute blocking interception (e.g. data-pergola-prevent).
func NewPrevent(location func() string, preventAttr string, logger *slog.Logger) *Prevent {
	if logger == nil {
		logger = logging.NewNop()
	}
	p := &Prevent{location: location, logger: logger}

	p.Add("empty-href", func(l domain.Link) bool {
		return strings.TrimSpace(l.Href) == "" || strings.HasPrefix(l.Href, "#")
	})
	p.Add("marker", func(l domain.Link) bool {
		return l.Has(preventAttr)
	})
	p.Add("download", func(l domain.Link) bool {
		return l.Has("download")
	})
	p.Add("target-blank", func(l domain.Link) bool {
		return l.Attr("target") == "_blank"
	})
	p.Add("external", func(l domain.Link) bool {
		href, err := url.Parse(l.Href)
		if err != nil {
			return true
		}
		if !href.IsAbs() {
			return false
		}
		loc, err := url.Parse(p.location())
		if err != nil {
			return true
		}
		return href.Scheme != loc.Scheme || href.Host != loc.Host
	})

	return p
}

// Add registers a custom predicate at the end of the chain.
func (p *Prevent) Add(name string, check Check) {
	p.checks = append(p.checks, namedCheck{name: name, check: check})
}

// Blocked reports whether any predicate fires for the link.
func (p *Prevent) Blocked(link domain.Link) bool {
	for _, c := range p.checks {
		if c.check(link) {
			p.logger.Debug("link prevented", "href", link.Href, "check", c.name)
			return true
		}
	}
	return false
}

// SameURL reports whether href points at the current document URL.
// Fragments are ignored: navigating to an anchor on the same page is
// self-navigation.
func (p *Prevent) SameURL(href string) bool {
	return normalize(href) == normalize(p.location())
}

func normalize(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.Fragment = ""
	s := u.String()
	return strings.TrimSuffix(s, "/")
}
