package nav

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/softnav/softnav/internal/cache"
	"github.com/softnav/softnav/internal/logging"
	"github.com/softnav/softnav/internal/metrics"
)

// ErrNavigationInFlight is returned when a navigation is requested
// while another one is still running.
var ErrNavigationInFlight = errors.New("nav: navigation already in flight")

// State represents the controller state.
type State int

const (
	StateIdle State = iota
	StateNavigating
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateNavigating:
		return "navigating"
	default:
		return "unknown"
	}
}

// Hooks are the lifecycle callbacks a host can attach. All fields are
// optional.
type Hooks struct {
	// NavigateStart fires as soon as a navigation owns the controller,
	// before the transition delay.
	NavigateStart func(url string)
	// LoadingChanged fires once per underlying network request: true at
	// start, false at settlement. Cache hits fetch nothing and fire
	// nothing.
	LoadingChanged func(loading bool)
	// BeforeLeave fires after the transition delay, immediately before
	// the fetch is awaited.
	BeforeLeave func()
	// BeforeRender fires right before the content swap.
	BeforeRender func()
	// AfterRender fires when the swapped subtree is live.
	AfterRender func()
	// OnError fires once per failed navigation.
	OnError func(err error)
}

// Resolver resolves a URL to a cached page entry.
type Resolver interface {
	Resolve(ctx context.Context, url string) (*cache.Entry, error)
}

// Applier lands a resolved entry in the document.
type Applier interface {
	Apply(entry *cache.Entry, state map[string]any, updateHistory bool, step int) error
}

// Config wires a Controller to its collaborators.
type Config struct {
	Resolver           Resolver
	Applier            Applier
	TransitionDuration time.Duration
	Hooks              Hooks
	Logger             *logging.Logger
	Metrics            *metrics.Metrics
}

// Controller serializes navigations over the shared container.
type Controller struct {
	resolver   Resolver
	applier    Applier
	transition time.Duration
	hooks      Hooks
	log        *logging.Logger
	metrics    *metrics.Metrics

	mu    sync.Mutex
	state State
}

// NewController creates an idle controller.
func NewController(cfg Config) *Controller {
	log := cfg.Logger
	if log == nil {
		log = logging.Nop()
	}
	return &Controller{
		resolver:   cfg.Resolver,
		applier:    cfg.Applier,
		transition: cfg.TransitionDuration,
		hooks:      cfg.Hooks,
		log:        log,
		metrics:    cfg.Metrics,
	}
}

// State returns the current controller state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Navigate runs a forward navigation to url, pushing a new native
// history slot. It returns ErrNavigationInFlight, without firing any
// hook, when a navigation is already running.
func (c *Controller) Navigate(ctx context.Context, url string, state map[string]any) error {
	return c.navigate(ctx, url, state, true, 0)
}

// NavigateBack re-enters the controller for a native back/forward
// traversal: the browser has already moved the history pointer, so the
// current slot is replaced rather than pushed, and step drives scroll
// restoration.
func (c *Controller) NavigateBack(ctx context.Context, url string, state map[string]any, step int) error {
	return c.navigate(ctx, url, state, false, step)
}

func (c *Controller) navigate(ctx context.Context, url string, state map[string]any, updateHistory bool, step int) error {
	if !c.begin() {
		c.log.Debug("navigation rejected", zap.String("url", url))
		c.metrics.ObserveNavigation("rejected", 0)
		return ErrNavigationInFlight
	}
	defer c.end()

	start := time.Now()
	log := c.log.With(
		zap.String("nav", uuid.NewString()[:8]),
		zap.String("url", url),
	)
	log.Info("navigation started", zap.Bool("push", updateHistory))

	if c.hooks.NavigateStart != nil {
		c.hooks.NavigateStart(url)
	}

	// Cooperative pause so leave animations kicked off by the start
	// hook can run before the old content is torn down.
	if c.transition > 0 {
		timer := time.NewTimer(c.transition)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return c.fail(log, start, ctx.Err())
		}
	}

	if c.hooks.BeforeLeave != nil {
		c.hooks.BeforeLeave()
	}

	entry, err := c.resolver.Resolve(ctx, url)
	if err != nil {
		return c.fail(log, start, err)
	}

	if err := c.applier.Apply(entry, state, updateHistory, step); err != nil {
		return c.fail(log, start, err)
	}

	c.metrics.ObserveNavigation("ok", time.Since(start))
	log.Info("navigation completed", zap.Duration("elapsed", time.Since(start)))
	return nil
}

// fail surfaces err and leaves the controller usable; the previously
// rendered content is intact because a failed navigation never reaches
// the swap.
func (c *Controller) fail(log *zap.Logger, start time.Time, err error) error {
	c.metrics.ObserveNavigation("error", time.Since(start))
	log.Error("navigation failed", zap.Error(err))
	if c.hooks.OnError != nil {
		c.hooks.OnError(err)
	}
	return err
}

func (c *Controller) begin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateIdle {
		return false
	}
	c.state = StateNavigating
	return true
}

func (c *Controller) end() {
	c.mu.Lock()
	c.state = StateIdle
	c.mu.Unlock()
}
