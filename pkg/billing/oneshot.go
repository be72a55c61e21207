package billing

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// webhook deliveries are at-least-once; markers outlive any plausible
// duplicate window
const oneShotTTL = 30 * 24 * time.Hour

// MarkEventOnce claims the one-shot notification slot for a Stripe event
// id. Only the claimer sends; a duplicate delivery finds the marker set
// and stays quiet. The check-and-set is a single atomic SETNX, so the
// state-diff race between duplicate deliveries cannot double-send.
func MarkEventOnce(ctx context.Context, redisCli *redis.Client, eventID string) (bool, error) {
	return redisCli.SetNX(ctx, "stripeevt:"+eventID, 1, oneShotTTL).Result()
}
