package runtime

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pergola/pkg/domain"
)

func snapshot(from, to string) *domain.Context {
	return &domain.Context{
		Current: &domain.Page{Namespace: from},
		Next:    &domain.Page{Namespace: to},
	}
}

func noop(ctx context.Context, data *domain.Context) error { return nil }

func TestStore_ResolveFirstMatchWins(t *testing.T) {
	specific := &domain.Transition{Name: "home-to-about", From: domain.Filter{Namespace: "home"}, To: domain.Filter{Namespace: "about"}}
	loose := &domain.Transition{Name: "anything"}
	s := NewStore([]*domain.Transition{specific, loose}, nil)

	got := s.Resolve(snapshot("home", "about"), false)
	assert.Equal(t, "home-to-about", got.Name)

	// Registration order decides, not specificity.
	s = NewStore([]*domain.Transition{loose, specific}, nil)
	got = s.Resolve(snapshot("home", "about"), false)
	assert.Equal(t, "anything", got.Name)
}

func TestStore_ResolveSkipsNonMatching(t *testing.T) {
	s := NewStore([]*domain.Transition{
		{Name: "docs-only", From: domain.Filter{Namespace: "docs"}},
		{Name: "to-about", To: domain.Filter{Namespace: "about"}},
	}, nil)

	got := s.Resolve(snapshot("home", "about"), false)
	assert.Equal(t, "to-about", got.Name)
}

func TestStore_ResolveMatchFunction(t *testing.T) {
	s := NewStore([]*domain.Transition{
		{Name: "docs-tree", From: domain.Filter{Match: func(ns string) bool {
			return strings.HasPrefix(ns, "docs/")
		}}},
	}, nil)

	assert.Equal(t, "docs-tree", s.Resolve(snapshot("docs/api", "home"), false).Name)
	assert.Equal(t, "default", s.Resolve(snapshot("blog", "home"), false).Name)
}

func TestStore_ResolveDefault(t *testing.T) {
	s := NewStore(nil, nil)

	got := s.Resolve(snapshot("a", "b"), false)
	require.NotNil(t, got)
	assert.Equal(t, "default", got.Name)
	assert.Nil(t, got.Leave)
	assert.Nil(t, got.Enter)
}

func TestStore_ResolveAppear(t *testing.T) {
	s := NewStore([]*domain.Transition{
		{Name: "no-appear", From: domain.Filter{Namespace: "home"}},
		{Name: "home-appear", Appear: noop, From: domain.Filter{Namespace: "home"}},
		{Name: "any-appear", Appear: noop},
	}, nil)

	got := s.Resolve(snapshot("home", ""), true)
	require.NotNil(t, got)
	assert.Equal(t, "home-appear", got.Name)

	got = s.Resolve(snapshot("blog", ""), true)
	require.NotNil(t, got)
	assert.Equal(t, "any-appear", got.Name)
}

func TestStore_ResolveAppearNone(t *testing.T) {
	s := NewStore([]*domain.Transition{{Name: "plain"}}, nil)

	assert.Nil(t, s.Resolve(snapshot("home", ""), true))
	assert.False(t, s.HasAppear())
}

func TestStore_Wait(t *testing.T) {
	assert.False(t, NewStore([]*domain.Transition{
		{Name: "from-only", From: domain.Filter{Namespace: "home"}},
	}, nil).Wait())

	assert.True(t, NewStore([]*domain.Transition{
		{Name: "to-filtered", To: domain.Filter{Namespace: "about"}},
	}, nil).Wait())
}

func TestStore_TransitionsCopy(t *testing.T) {
	orig := []*domain.Transition{{Name: "one"}}
	s := NewStore(orig, nil)

	out := s.Transitions()
	out[0] = &domain.Transition{Name: "mutated"}

	assert.Equal(t, "one", s.Transitions()[0].Name)
}
