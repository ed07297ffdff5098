package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/aretw0/pergola/internal/logging"
	"github.com/aretw0/pergola/pkg/cache"
	"github.com/aretw0/pergola/pkg/domain"
	"github.com/aretw0/pergola/pkg/ports"
)

// Manager executes a selected transition's lifecycle phases against the
// current/next page data and the document wrapper.
//
// It is a two-state machine, Idle -> Running -> Idle. The running flag is
// exclusive: the orchestrator checks it synchronously before starting any
// navigation, so the manager assumes single-flight and treats a concurrent
// entry as a programming error. The flag is always cleared on exit, even
// when a phase fails, so the system stays usable for the next navigation.
type Manager struct {
	running *atomic.Bool
	dom     ports.DOM
	hooks   []domain.LifecycleHooks
	logger  *slog.Logger
}

// ManagerOption configures the Manager.
type ManagerOption func(*Manager)

// WithManagerLogger configures a structured logger.
func WithManagerLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithManagerHooks registers lifecycle hooks notified per phase.
func WithManagerHooks(hooks []domain.LifecycleHooks) ManagerOption {
	return func(m *Manager) {
		m.hooks = hooks
	}
}

// NewManager creates a Manager over the given DOM port.
func NewManager(dom ports.DOM, opts ...ManagerOption) *Manager {
	m := &Manager{
		running: atomic.NewBool(false),
		dom:     dom,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Running reports whether a transition is currently in flight.
func (m *Manager) Running() bool {
	return m.running.Load()
}

// DoAppear runs only the appear phase (and after, if present) against the
// current page. There is no leave phase because there is no prior page.
// Used at most once, at startup.
func (m *Manager) DoAppear(ctx context.Context, t *domain.Transition, data *domain.Context) error {
	if !m.running.CompareAndSwap(false, true) {
		return domain.ErrTransitionRunning
	}
	defer m.running.Store(false)

	hook := t.Appear
	if hook == nil {
		hook = t.Enter
	}
	if err := m.runPhase(ctx, t, "appear", hook, data); err != nil {
		return err
	}
	return m.runPhase(ctx, t, "after", t.After, data)
}

// DoPage runs the full lifecycle: once (or leave/enter), container swap,
// after. Phase callables may themselves be asynchronous; the manager's job
// is sequencing and state-flag bookkeeping, not animation mechanics.
//
// On phase failure no partial rollback of the DOM swap is attempted: the
// running flag is cleared and the failure propagates to the caller.
func (m *Manager) DoPage(ctx context.Context, t *domain.Transition, data *domain.Context, page *cache.Entry, wrapper domain.Container) error {
	if !m.running.CompareAndSwap(false, true) {
		return domain.ErrTransitionRunning
	}
	defer m.running.Store(false)

	switch {
	case t.Once != nil:
		if err := m.runPhase(ctx, t, "once", t.Once, data); err != nil {
			return err
		}
	case t.Sync:
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return m.runPhase(gctx, t, "leave", t.Leave, data)
		})
		g.Go(func() error {
			if err := m.install(gctx, data, page); err != nil {
				return err
			}
			return m.runPhase(gctx, t, "enter", t.Enter, data)
		})
		if err := g.Wait(); err != nil {
			return err
		}
	default:
		if err := m.runPhase(ctx, t, "leave", t.Leave, data); err != nil {
			return err
		}
		if err := m.install(ctx, data, page); err != nil {
			return err
		}
		if err := m.runPhase(ctx, t, "enter", t.Enter, data); err != nil {
			return err
		}
	}

	// The once path skips the enter phase, so the next container may not
	// be installed yet.
	if err := m.install(ctx, data, page); err != nil {
		return err
	}

	if err := m.dom.Swap(wrapper, data.Current.Container, data.Next.Container); err != nil {
		return fmt.Errorf("swap containers: %w", err)
	}

	return m.runPhase(ctx, t, "after", t.After, data)
}

// install awaits the page markup and populates the next record's
// container, namespace, title and markup. A no-op when the orchestrator
// already populated the record before the transition started.
func (m *Manager) install(ctx context.Context, data *domain.Context, page *cache.Entry) error {
	if data.Next.Populated() {
		return nil
	}
	markup, err := page.Wait(ctx)
	if err != nil {
		return &domain.FetchError{URL: data.Next.URL, Err: err}
	}
	parsed, err := m.dom.Parse(markup)
	if err != nil {
		return err
	}
	data.Next.HTML = markup
	data.Next.Container = parsed.Container
	data.Next.Namespace = parsed.Namespace
	data.Next.Title = parsed.Title
	return nil
}

func (m *Manager) runPhase(ctx context.Context, t *domain.Transition, phase string, hook domain.Hook, data *domain.Context) error {
	if hook == nil {
		return nil
	}
	start := time.Now()
	if err := hook(ctx, data); err != nil {
		m.logger.Error("transition phase failed", "transition", t.Name, "phase", phase, "err", err)
		return &domain.TransitionError{Transition: t.Name, Phase: phase, Err: err}
	}

	event := &domain.PhaseEvent{
		Timestamp:  time.Now(),
		Transition: t.Name,
		Phase:      phase,
		Duration:   time.Since(start),
	}
	for _, h := range m.hooks {
		if h.OnPhase != nil {
			h.OnPhase(ctx, event)
		}
	}
	return nil
}
