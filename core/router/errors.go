package router

import "errors"

var (
	// ErrNilHandler is returned by New when a route has no handler. The
	// route table is closed at construction, so a missing handler is a
	// programming error surfaced immediately rather than a 404 at dispatch.
	ErrNilHandler = errors.New("router: route has nil handler")
	// ErrDuplicateRoute is returned by New when two routes share a pattern.
	ErrDuplicateRoute = errors.New("router: duplicate route pattern")
	// ErrNoRoutes is returned by New when the table is empty.
	ErrNoRoutes = errors.New("router: no routes defined")
)
