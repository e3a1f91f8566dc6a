// Package router implements in-app navigation over a closed route table:
// slash-separated patterns with :param captures, an authentication gate in
// front of protected routes and a bounded navigation history.
//
// Resolution tries exact pattern matches first, then parameterized patterns
// in registration order; a parameterized pattern only matches paths with the
// same number of segments. Unknown paths and failing handlers render the
// sink's not-found view instead of returning an error to the caller, so a
// bad link never takes the application down.
//
// Usage:
//
//	routes := []router.Route{
//		{Name: "login", Pattern: "login", Title: "Iniciar Sesión", Handler: showLogin},
//		{Name: "ticket-detail", Pattern: "tickets/:id", RequiresAuth: true, Handler: showTicket},
//	}
//
//	r, err := router.New(cfg, routes, authManager, sink)
//	if err != nil {
//		return err
//	}
//	_ = r.Navigate(ctx, "tickets/42")
package router
