package router

import (
	"context"
	"fmt"
	"strings"
)

// Params holds the path parameters extracted from a matched pattern.
type Params map[string]string

// HandlerFunc renders a route. A returned error sends the user to the
// not-found view.
type HandlerFunc func(ctx context.Context, params Params) error

// Route is one entry of the route table. Patterns are slash-separated
// segments; a segment starting with a colon captures that part of the path,
// so "tickets/:id" matches "tickets/42" with Params{"id": "42"}.
type Route struct {
	Name         string
	Pattern      string
	Title        string
	RequiresAuth bool
	Handler      HandlerFunc
}

// Match is a resolved route: the table entry plus the concrete path and
// extracted parameters.
type Match struct {
	Route  Route
	Path   string
	Params Params
}

// match reports whether the pattern matches the path and extracts
// parameters. Literal patterns require equality; parameterized patterns
// require the same number of segments with literals equal position by
// position.
func match(pattern, path string) (Params, bool) {
	if !strings.Contains(pattern, ":") {
		if pattern == path {
			return Params{}, true
		}
		return nil, false
	}

	patternParts := strings.Split(pattern, "/")
	pathParts := strings.Split(path, "/")
	if len(patternParts) != len(pathParts) {
		return nil, false
	}

	params := Params{}
	for i, part := range patternParts {
		if strings.HasPrefix(part, ":") {
			params[part[1:]] = pathParts[i]
			continue
		}
		if part != pathParts[i] {
			return nil, false
		}
	}
	return params, true
}

// validateTable closes the route table: every route needs a handler and
// patterns must be unique.
func validateTable(routes []Route) error {
	if len(routes) == 0 {
		return ErrNoRoutes
	}

	seen := make(map[string]struct{}, len(routes))
	for _, r := range routes {
		if r.Handler == nil {
			return fmt.Errorf("%w: %q", ErrNilHandler, r.Pattern)
		}
		if _, dup := seen[r.Pattern]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateRoute, r.Pattern)
		}
		seen[r.Pattern] = struct{}{}
	}
	return nil
}
