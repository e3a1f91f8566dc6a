package techfix

import (
	"context"

	"github.com/techfixpro/appkit/core/auth"
	"github.com/techfixpro/appkit/core/logger"
	"github.com/techfixpro/appkit/core/router"
)

// routes is the application's navigation table. Patterns and titles match
// the shipped product; detail routes capture the record id.
func (app *App) routes() []router.Route {
	return []router.Route{
		{Name: "login", Pattern: "login", Title: "Iniciar Sesión", Handler: app.showLogin},
		{Name: "dashboard", Pattern: "dashboard", Title: "Dashboard", RequiresAuth: true, Handler: app.showDashboard},
		{Name: "tickets", Pattern: "tickets", Title: "Gestión de Tickets", RequiresAuth: true, Handler: app.showTickets},
		{Name: "ticket-new", Pattern: "tickets/new", Title: "Nuevo Ticket", RequiresAuth: true, Handler: app.showNewTicket},
		{Name: "ticket-detail", Pattern: "tickets/:id", Title: "Detalle del Ticket", RequiresAuth: true, Handler: app.showTicketDetail},
		{Name: "repuestos", Pattern: "repuestos", Title: "Gestión de Repuestos", RequiresAuth: true, Handler: app.showParts},
		{Name: "repuesto-new", Pattern: "repuestos/new", Title: "Nuevo Repuesto", RequiresAuth: true, Handler: app.showNewPart},
		{Name: "repuesto-detail", Pattern: "repuestos/:id", Title: "Detalle del Repuesto", RequiresAuth: true, Handler: app.showPartDetail},
		{Name: "clientes", Pattern: "clientes", Title: "Gestión de Clientes", RequiresAuth: true, Handler: app.showCustomers},
		{Name: "profile", Pattern: "profile", Title: "Mi Perfil", RequiresAuth: true, Handler: app.showProfile},
		{Name: "settings", Pattern: "settings", Title: "Configuración", RequiresAuth: true, Handler: app.showSettings},
	}
}

// Login authenticates and, on success, returns the user to the route a
// gated navigation stashed, or to the dashboard.
func (app *App) Login(ctx context.Context, identifier, password string) error {
	res := app.auth.Login(ctx, auth.Credentials{Identifier: identifier, Password: password})
	if !res.Success {
		app.log.Warn("login rejected", logger.Key("reason", res.Message))
		return app.router.Navigate(ctx, app.cfg.Router.LoginRoute)
	}

	target := app.router.ConsumeState(router.StateRedirectTo)
	if target == "" {
		target = app.cfg.Router.HomeRoute
	}
	return app.router.Navigate(ctx, target)
}

// Logout ends the session and returns to the login view.
func (app *App) Logout(ctx context.Context) error {
	if err := app.auth.Logout(ctx); err != nil {
		return err
	}
	return app.router.Navigate(ctx, app.cfg.Router.LoginRoute)
}
