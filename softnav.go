// Package softnav is an embeddable soft-navigation engine: it resolves
// in-app link activations and back/forward traversals to fetched page
// fragments, swaps them into a host document's content container, and
// keeps a bounded history stack and scroll position consistent with the
// swapped content.
//
// The engine owns no globals. A host constructs one Engine, injecting
// its document and native-history collaborators, and forwards qualifying
// link activations to Navigate and native pop-state events to
// OnPopState. Which links qualify is the engine's call, via
// ShouldIntercept and Links; attaching the actual event listeners is the
// host's.
package softnav

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/softnav/softnav/internal/cache"
	"github.com/softnav/softnav/internal/config"
	"github.com/softnav/softnav/internal/dom"
	"github.com/softnav/softnav/internal/fetch"
	"github.com/softnav/softnav/internal/history"
	"github.com/softnav/softnav/internal/logging"
	"github.com/softnav/softnav/internal/metrics"
	"github.com/softnav/softnav/internal/nav"
)

// Options re-exports the engine options.
type Options = config.Options

// Hooks re-exports the lifecycle hooks.
type Hooks = nav.Hooks

var (
	errNoDocument  = errors.New("softnav: document collaborator required")
	errNoHistory   = errors.New("softnav: native history collaborator required")
	errNoContainer = errors.New("softnav: container selector matches nothing in the document")
)

// Deps are the host-injected collaborators.
type Deps struct {
	// Document is the live page the engine swaps content into.
	Document dom.Document
	// Native is the native history layer.
	Native dom.History
	// BaseURL is the currently loaded document's URL; it anchors
	// relative hrefs and the same-origin policy.
	BaseURL string
	// Hooks are the optional lifecycle callbacks.
	Hooks Hooks
	// Logger defaults to one built from the logging options.
	Logger *logging.Logger
	// Registry, when set, receives the engine's Prometheus collectors.
	Registry prometheus.Registerer
}

// Engine is one navigation engine instance bound to one document.
type Engine struct {
	opts  config.Options
	base  *url.URL
	doc   dom.Document
	store *cache.Cache
	pipe  *fetch.Pipeline
	sync  *dom.Sync
	ctrl  *nav.Controller
	stack *history.Stack
	log   *logging.Logger
}

// New wires an engine: it locates the container, seeds the content
// cache with the currently loaded document and the history stack with
// the initial entry, and builds the fetch pipeline and controller.
func New(opts *config.Options, deps Deps) (*Engine, error) {
	if opts == nil {
		opts = config.Default()
	}
	if deps.Document == nil {
		return nil, errNoDocument
	}
	if deps.Native == nil {
		return nil, errNoHistory
	}
	base, err := url.Parse(deps.BaseURL)
	if err != nil || !base.IsAbs() {
		return nil, fmt.Errorf("softnav: invalid base url %q", deps.BaseURL)
	}

	log := deps.Logger
	if log == nil {
		logger, err := logging.New(logging.Config{
			Level:       opts.Logging.Level,
			Development: opts.Logging.Development,
		})
		if err != nil {
			return nil, fmt.Errorf("softnav: logger: %w", err)
		}
		log = logger
	}

	var m *metrics.Metrics
	if deps.Registry != nil {
		m = metrics.New(deps.Registry)
	}

	container, ok := deps.Document.Query(opts.ContainerSelector)
	if !ok {
		return nil, errNoContainer
	}

	store := cache.New(opts.CacheCapacity, cache.WithEvictFunc(func(_ string, _ *cache.Entry) {
		m.ObserveEviction()
	}))
	store.Put(base.String(), &cache.Entry{
		URL:     base.String(),
		Title:   deps.Document.Title(),
		Content: container,
	})

	pipe := fetch.NewPipeline(fetch.NewClient(opts.Fetch), store, fetch.PipelineConfig{
		Selector:  opts.ContainerSelector,
		Sanitize:  opts.SanitizeContent,
		OnLoading: deps.Hooks.LoadingChanged,
		Logger:    log,
		Metrics:   m,
	})

	stack := history.New(opts.HistoryStackSize, history.Entry{
		URL:   base.String(),
		Title: deps.Document.Title(),
	})

	sync := dom.NewSync(dom.SyncConfig{
		Document:          deps.Document,
		Native:            deps.Native,
		Stack:             stack,
		ScrollRestoration: opts.ScrollRestoration,
		BeforeRender:      deps.Hooks.BeforeRender,
		AfterRender:       deps.Hooks.AfterRender,
		Logger:            log,
	}, container)

	ctrl := nav.NewController(nav.Config{
		Resolver:           pipe,
		Applier:            sync,
		TransitionDuration: opts.TransitionDuration,
		Hooks:              deps.Hooks,
		Logger:             log,
		Metrics:            m,
	})

	return &Engine{
		opts:  *opts,
		base:  base,
		doc:   deps.Document,
		store: store,
		pipe:  pipe,
		sync:  sync,
		ctrl:  ctrl,
		stack: stack,
		log:   log,
	}, nil
}

// Navigate runs a forward navigation to href (absolute or relative to
// the base URL), pushing a native history slot at the destination.
func (e *Engine) Navigate(ctx context.Context, href string) error {
	abs, err := e.resolve(href)
	if err != nil {
		return err
	}
	return e.ctrl.Navigate(ctx, abs, map[string]any{"url": abs})
}

// OnPopState re-enters the engine for a native back/forward traversal
// that has already moved the history pointer to url. step is the
// traversal distance, negative going back; it drives scroll restoration.
func (e *Engine) OnPopState(ctx context.Context, url string, state map[string]any, step int) error {
	abs, err := e.resolve(url)
	if err != nil {
		return err
	}
	return e.ctrl.NavigateBack(ctx, abs, state, step)
}

// Preload warms the cache for href without navigating. A click that
// races a preload for the same destination joins its in-flight fetch.
func (e *Engine) Preload(ctx context.Context, href string) error {
	abs, err := e.resolve(href)
	if err != nil {
		return err
	}
	_, err = e.pipe.Resolve(ctx, abs)
	return err
}

// Container returns the currently active content container, for hosts
// that re-scan it after each swap.
func (e *Engine) Container() dom.Fragment {
	return e.sync.Container()
}

// State returns the controller state.
func (e *Engine) State() nav.State {
	return e.ctrl.State()
}

// History returns a copy of the recorded navigation log, oldest first.
func (e *Engine) History() []history.Entry {
	return e.stack.Entries()
}

// resolve turns href into an absolute URL against the base.
func (e *Engine) resolve(href string) (string, error) {
	parsed, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("softnav: invalid href %q: %w", href, err)
	}
	return e.base.ResolveReference(parsed).String(), nil
}
