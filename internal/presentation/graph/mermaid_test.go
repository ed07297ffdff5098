package graph

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/pergola/pkg/domain"
)

func noop(ctx context.Context, data *domain.Context) error { return nil }

func TestGenerateMermaid(t *testing.T) {
	transitions := []*domain.Transition{
		{Name: "fade", From: domain.Filter{Namespace: "home"}, To: domain.Filter{Namespace: "about"}},
		{Name: "slide", Sync: true, From: domain.Filter{Namespace: "about"}},
		{Name: "catch-all"},
	}

	out := GenerateMermaid(transitions, nil)

	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	assert.Contains(t, out, `home["home"]`)
	assert.Contains(t, out, `about["about"]`)
	assert.Contains(t, out, `any["*"]`, "unfiltered sides render as the wildcard node")
	assert.Contains(t, out, `home -- "fade" --> about`)
	assert.Contains(t, out, `about -. "slide" .-> any`, "sync rules use dotted arrows")
	assert.Contains(t, out, `any -- "catch-all" --> any`)
}

func TestGenerateMermaid_AppearSelfEdge(t *testing.T) {
	out := GenerateMermaid([]*domain.Transition{
		{Name: "intro", Appear: noop, From: domain.Filter{Namespace: "home"}},
	}, nil)

	assert.Contains(t, out, `home -- "intro" --> home`)
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	transitions := []*domain.Transition{
		{Name: "fade", From: domain.Filter{Namespace: "home"}, To: domain.Filter{Namespace: "about"}},
	}
	out := GenerateMermaid(transitions, &GraphOverlay{
		VisitedNamespaces: []string{"home", "home", "ghost"},
		CurrentNamespace:  "about",
	})

	assert.Contains(t, out, "classDef visited")
	assert.Equal(t, 1, strings.Count(out, "class home visited;"), "visited namespaces are deduplicated")
	assert.NotContains(t, out, "ghost", "unknown namespaces are not styled")
	assert.Contains(t, out, "class about current;")
}

func TestSanitizeMermaidID(t *testing.T) {
	assert.Equal(t, "docs_api_v2", sanitizeMermaidID("docs/api.v2"))
	assert.Equal(t, "my_page", sanitizeMermaidID("my-page"))
}
