// Package techfix assembles the TechFix Pro service management client from
// the core packages: persistent storage with an API response cache, the
// backend API client, the session manager and the navigation router with
// the product's route table.
//
// The package is the integration point for frontends: they provide a
// router.Sink for rendering and drive navigation through App.Router, while
// the app keeps sessions, caching and offline fallbacks working underneath.
package techfix
