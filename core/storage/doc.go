// Package storage implements the two-tier persistence gateway backing the
// TechFix Pro client: a synchronous ephemeral key/value tier for session
// values and a bolt-backed structured tier of named record stores with
// declared indexes, an API response cache with TTL expiry, and full
// export/import.
//
// Schema creation is idempotent: opening a gateway creates missing stores
// and leaves existing ones untouched; stores are only added on a schema
// version bump.
//
// Usage:
//
//	gw, err := storage.Open(storage.Config{Path: "techfix.db", Namespace: "techfix"})
//	if err != nil {
//		return err
//	}
//	defer gw.Close()
//
//	_ = gw.SetEphemeral("auth_token", token)
//	_ = gw.PutRecord(ctx, "tickets", storage.Record{"id": 1, "status": "open"})
//
// The background sweeper removing expired cache entries follows the
// Start/Stop/Run lifecycle:
//
//	go gw.Start(ctx)
//	defer gw.Stop()
package storage
