// Package apiclient provides the HTTP client for the headless CMS backend:
// JSON requests with bearer token authentication, per-attempt timeouts and
// a bounded retry policy with linear backoff.
//
// Failed requests return *Error carrying the status code and decoded body,
// with predicates distinguishing network failures, timeouts, client errors
// and server errors. Server errors, timeouts and rate limiting are retried
// up to the configured attempt budget; other client errors are final.
//
// Usage:
//
//	api := apiclient.New(apiclient.Config{BaseURL: "https://cms.example.com/api"})
//
//	session, err := api.Login(ctx, "user@example.com", "secret")
//	if err != nil {
//		return err
//	}
//	api.SetAuthToken(session.JWT)
//
//	tickets, err := api.GetCollection(ctx, "tickets", nil)
package apiclient
