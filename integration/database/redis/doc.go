// Package redis provides Redis client initialization with connection
// verification and a storage.ResponseCache engine with native TTL expiry.
//
// Connect validates the connection URL, retries with the configured
// interval and pings before returning the client. Healthcheck returns a
// probe function for readiness endpoints.
//
// The ResponseCache substitutes the storage gateway's default bolt-backed
// engine when a shared cache or native expiry is wanted:
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	gw, err := storage.Open(storageCfg,
//		storage.WithResponseCache(redis.NewResponseCache(client, "techfix")))
package redis
