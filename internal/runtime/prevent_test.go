package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/pergola/pkg/domain"
)

func newPrevent() *Prevent {
	return NewPrevent(func() string { return "https://site.example/docs/" }, "data-pergola-prevent", nil)
}

func TestPrevent_BuiltIns(t *testing.T) {
	p := newPrevent()

	cases := []struct {
		name    string
		link    domain.Link
		blocked bool
	}{
		{"plain relative link", domain.Link{Href: "/about"}, false},
		{"same-origin absolute", domain.Link{Href: "https://site.example/blog"}, false},
		{"empty href", domain.Link{Href: ""}, true},
		{"whitespace href", domain.Link{Href: "   "}, true},
		{"anchor", domain.Link{Href: "#section"}, true},
		{"marker attribute", domain.Link{Href: "/x", Attrs: map[string]string{"data-pergola-prevent": ""}}, true},
		{"download", domain.Link{Href: "/file.zip", Attrs: map[string]string{"download": ""}}, true},
		{"target blank", domain.Link{Href: "/x", Attrs: map[string]string{"target": "_blank"}}, true},
		{"target self", domain.Link{Href: "/x", Attrs: map[string]string{"target": "_self"}}, false},
		{"cross origin", domain.Link{Href: "https://other.example/"}, true},
		{"cross scheme", domain.Link{Href: "http://site.example/"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.blocked, p.Blocked(tc.link))
		})
	}
}

func TestPrevent_CustomCheck(t *testing.T) {
	p := newPrevent()
	p.Add("no-admin", func(l domain.Link) bool {
		return l.Href == "/admin"
	})

	assert.True(t, p.Blocked(domain.Link{Href: "/admin"}))
	assert.False(t, p.Blocked(domain.Link{Href: "/public"}))
}

func TestPrevent_SameURL(t *testing.T) {
	p := newPrevent()

	assert.True(t, p.SameURL("https://site.example/docs/"))
	assert.True(t, p.SameURL("https://site.example/docs"), "trailing slash is not significant")
	assert.True(t, p.SameURL("https://site.example/docs#install"), "fragments are ignored")
	assert.False(t, p.SameURL("https://site.example/blog"))
}
