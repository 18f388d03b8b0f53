package ratelimiter

import "time"

// Limiter gates requests per source key (client IP). The second return value
// is how long the caller should wait before retrying when denied.
type Limiter interface {
	Allow(sourceKey string) (bool, time.Duration)
	Close()
}
