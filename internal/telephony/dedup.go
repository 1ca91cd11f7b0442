package telephony

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduper reports whether a webhook delivery for a CallSid was already
// handled. Twilio retries the voice webhook when the first answer is slow;
// a duplicate still gets the same TwiML (the stream dial is idempotent on
// Twilio's side), it is just worth knowing about.
type Deduper interface {
	Seen(ctx context.Context, callSID string) (bool, error)
}

// RedisDeduper marks CallSids with SETNX so retried deliveries are spotted
// across the dedup window.
type RedisDeduper struct {
	Client *redis.Client
	TTL    time.Duration
}

func (d RedisDeduper) Seen(ctx context.Context, callSID string) (bool, error) {
	ttl := d.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	fresh, err := d.Client.SetNX(ctx, "twiml:seen:"+callSID, 1, ttl).Result()
	if err != nil {
		return false, err
	}
	return !fresh, nil
}
