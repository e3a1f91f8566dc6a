package router

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/techfixpro/appkit/core/logger"
)

// Authorizer answers whether a session is currently valid. The auth manager
// satisfies it.
type Authorizer interface {
	IsAuthenticated(ctx context.Context) bool
}

// Sink is the rendering surface the router drives. Implementations update
// whatever presents the application: a terminal UI, a web view bridge or a
// test recorder.
type Sink interface {
	// SetTitle updates the application title for the active route.
	SetTitle(title string)
	// NotFound renders the not-found view for the given path.
	NotFound(path string)
}

// Entry is one navigation history record.
type Entry struct {
	Path string
	Name string
	At   time.Time
}

// StateRedirectTo is the state key carrying the path a gated navigation was
// aiming for.
const StateRedirectTo = "redirect_to"

// Router dispatches paths against a closed route table: exact matches win,
// then parameterized patterns are tried in registration order. Protected
// routes redirect to the login route when no valid session exists, stashing
// the original path so login can return the user there. Navigation history
// is bounded, dropping the oldest entry past the limit.
type Router struct {
	cfg    Config
	routes []Route
	auth   Authorizer
	sink   Sink
	log    *slog.Logger
	now    func() time.Time

	mu      sync.Mutex
	current *Match
	state   map[string]string
	history []Entry
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the logger for navigation events.
func WithLogger(log *slog.Logger) Option {
	return func(r *Router) {
		if log != nil {
			r.log = log
		}
	}
}

// WithClock replaces the time source used for history timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Router) {
		if now != nil {
			r.now = now
		}
	}
}

// New creates a Router over the route table. The table is validated up
// front: an empty table, a nil handler or a duplicate pattern fails
// construction.
func New(cfg Config, routes []Route, auth Authorizer, sink Sink, opts ...Option) (*Router, error) {
	if err := validateTable(routes); err != nil {
		return nil, err
	}

	if cfg.MaxHistory <= 0 {
		cfg.MaxHistory = 20
	}
	if cfg.LoginRoute == "" {
		cfg.LoginRoute = "login"
	}
	if cfg.HomeRoute == "" {
		cfg.HomeRoute = "dashboard"
	}

	r := &Router{
		cfg:    cfg,
		routes: append([]Route(nil), routes...),
		auth:   auth,
		sink:   sink,
		log:    logger.Discard(),
		now:    time.Now,
		state:  map[string]string{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Resolve matches a path against the table without dispatching. Returns nil
// when nothing matches.
func (r *Router) Resolve(path string) *Match {
	for _, route := range r.routes {
		if route.Pattern == path {
			return &Match{Route: route, Path: path, Params: Params{}}
		}
	}
	for _, route := range r.routes {
		if params, ok := match(route.Pattern, path); ok {
			return &Match{Route: route, Path: path, Params: params}
		}
	}
	return nil
}

// Navigate dispatches the path: resolves it, applies the auth gate, updates
// the title and history, and runs the handler. Unknown paths and failing
// handlers render the not-found view.
func (r *Router) Navigate(ctx context.Context, path string) error {
	return r.dispatch(ctx, path, nil, false)
}

// NavigateReplace is Navigate with replace semantics: the new entry takes
// the place of the current history entry instead of pushing a new one.
func (r *Router) NavigateReplace(ctx context.Context, path string) error {
	return r.dispatch(ctx, path, nil, true)
}

// NavigateWithState dispatches the path and replaces the router's state,
// which the next route's handler can read via State.
func (r *Router) NavigateWithState(ctx context.Context, path string, state map[string]string) error {
	return r.dispatch(ctx, path, state, false)
}

// Back returns to the previous history entry, or to the home route when the
// history is too short.
func (r *Router) Back(ctx context.Context) error {
	r.mu.Lock()
	var prev string
	if len(r.history) > 1 {
		prev = r.history[len(r.history)-2].Path
		r.history = r.history[:len(r.history)-2]
	}
	r.mu.Unlock()

	if prev == "" {
		return r.Navigate(ctx, r.cfg.HomeRoute)
	}
	return r.Navigate(ctx, prev)
}

// Current returns the active match, nil before the first navigation.
func (r *Router) Current() *Match {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// State returns the value stashed under key by the last NavigateWithState.
func (r *Router) State(key string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state[key]
}

// ConsumeState returns the value stashed under key and removes it. Used by
// the login flow to pick up the post-login redirect exactly once.
func (r *Router) ConsumeState(key string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	value := r.state[key]
	delete(r.state, key)
	return value
}

// History returns a copy of the navigation history, oldest first.
func (r *Router) History() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.history...)
}

func (r *Router) dispatch(ctx context.Context, path string, state map[string]string, replace bool) error {
	m := r.Resolve(path)
	if m == nil {
		// Unresolved navigations still count: the user went somewhere.
		r.record(Entry{Path: path, Name: "404", At: r.now()}, replace)
		r.log.Warn("no route for path", logger.RoutePath(path))
		r.sink.NotFound(path)
		return nil
	}

	if m.Route.RequiresAuth && !r.auth.IsAuthenticated(ctx) {
		r.log.Info("redirecting unauthenticated navigation", logger.RoutePath(path))
		return r.dispatch(ctx, r.cfg.LoginRoute, map[string]string{StateRedirectTo: path}, replace)
	}

	r.mu.Lock()
	r.current = m
	if state != nil {
		r.state = state
	}
	r.mu.Unlock()
	r.record(Entry{Path: path, Name: m.Route.Name, At: r.now()}, replace)

	r.sink.SetTitle(r.title(m.Route))

	if err := r.runHandler(ctx, m); err != nil {
		r.log.Error("route handler failed", logger.RoutePath(path), logger.Error(err))
		r.sink.NotFound(path)
	}
	return nil
}

func (r *Router) record(entry Entry, replace bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if replace && len(r.history) > 0 {
		r.history[len(r.history)-1] = entry
		return
	}
	r.history = append(r.history, entry)
	if len(r.history) > r.cfg.MaxHistory {
		r.history = r.history[1:]
	}
}

func (r *Router) runHandler(ctx context.Context, m *Match) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("router: handler panic on %s: %v", m.Path, rec)
		}
	}()
	return m.Route.Handler(ctx, m.Params)
}

func (r *Router) title(route Route) string {
	title := route.Title
	if title == "" {
		title = r.cfg.DefaultTitle
	}
	if r.cfg.TitlePrefix == "" {
		return title
	}
	return r.cfg.TitlePrefix + " - " + title
}
