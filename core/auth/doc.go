// Package auth owns the user session: credential login against the backend
// with lockout after repeated failures, persisted token and profile, local
// JWT expiry checks with optional server-side verification, and automatic
// token refresh near expiry.
//
// Login outcomes carry user-facing Spanish messages; programmatic failures
// use the package's error sentinels.
//
// Usage:
//
//	mgr := auth.New(cfg, api, gateway)
//	_ = mgr.Restore(ctx)
//
//	res := mgr.Login(ctx, auth.Credentials{Identifier: "ana@example.com", Password: "secret"})
//	if !res.Success {
//		fmt.Println(res.Message)
//	}
//
//	go mgr.Start(ctx)
//	defer mgr.Stop()
package auth
