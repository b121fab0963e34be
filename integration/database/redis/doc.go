// Package redis opens and health-checks the Redis client used by the redis session
// backend.
//
// Connect validates the connection URL, creates a go-redis client and pings it with
// exponential backoff until it answers or the attempts run out:
//
//	cfg := redis.Config{
//		ConnectionURL:  "redis://localhost:6379/0",
//		RetryAttempts:  3,
//		RetryInterval:  time.Second,
//		ConnectTimeout: 10 * time.Second,
//	}
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	backend := session.NewRedisBackend(client, "sealedapi:session:")
//
// Config carries env tags (REDIS_URL, REDIS_RETRY_ATTEMPTS, REDIS_RETRY_INTERVAL,
// REDIS_CONNECT_TIMEOUT) for use with core/config. Both redis:// and rediss:// URLs are
// accepted.
//
// Healthcheck returns a ping function suitable for readiness probes.
//
// # Error Handling
//
//   - ErrEmptyConnectionURL: no URL configured
//   - ErrFailedToParseRedisConnString: URL is malformed
//   - ErrRedisNotReady: no successful ping within the attempts or the timeout
//   - ErrHealthcheckFailed: health check ping failed
package redis
