package pergola

import (
	"context"

	"github.com/aretw0/pergola/pkg/domain"
)

// View attaches per-page behavior to a namespace. Views are notified after
// the current/next records are recomputed: OnLeave for the page being
// replaced, OnEnter for the page being committed. An empty Namespace
// matches every page.
type View struct {
	Namespace string
	OnEnter   func(ctx context.Context, page *domain.Page)
	OnLeave   func(ctx context.Context, page *domain.Page)
}

func (e *Engine) refreshViews(ctx context.Context, old, committed *domain.Page) {
	for _, v := range e.views {
		if old == nil || v.OnLeave == nil {
			continue
		}
		if v.Namespace == "" || v.Namespace == old.Namespace {
			v.OnLeave(ctx, old)
		}
	}
	for _, v := range e.views {
		if committed == nil || v.OnEnter == nil {
			continue
		}
		if v.Namespace == "" || v.Namespace == committed.Namespace {
			v.OnEnter(ctx, committed)
		}
	}
}
