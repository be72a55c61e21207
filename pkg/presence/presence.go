package presence

import (
	"context"
	"toonstalkapi/pkg/config"

	"github.com/redis/go-redis/v9"
)

// Presence is tracked with a per-user heartbeat key and a set of users who
// have a disconnect write pending. When the heartbeat key expires before
// the client says goodbye, the reaper performs the offline write on the
// user's behalf — the same write the deletion workflow must cancel first,
// or it recreates the record it just removed.

const pendingOfflineSet = "pendingoffline"

func heartbeatKey(uid string) string {
	return "presence:" + uid
}

// Heartbeat refreshes the liveness key. It reports whether this heartbeat
// started a new session (no key existed before).
func Heartbeat(ctx context.Context, redisCli *redis.Client, uid string) (bool, error) {

	started, err := redisCli.SetNX(ctx, heartbeatKey(uid), 1, config.PRESENCE_TTL).Result()
	if err != nil {
		return false, err
	}
	if started {
		if err := redisCli.SAdd(ctx, pendingOfflineSet, uid).Err(); err != nil {
			return false, err
		}
		return true, nil
	}

	return false, redisCli.Expire(ctx, heartbeatKey(uid), config.PRESENCE_TTL).Err()

}

// Alive reports whether the heartbeat key still exists.
func Alive(ctx context.Context, redisCli *redis.Client, uid string) (bool, error) {
	n, err := redisCli.Exists(ctx, heartbeatKey(uid)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// PendingOffline lists users whose disconnect write has not happened yet.
func PendingOffline(ctx context.Context, redisCli *redis.Client) ([]string, error) {
	return redisCli.SMembers(ctx, pendingOfflineSet).Result()
}

// ClearPending drops the disconnect obligation after the offline write
// has been performed (or explicitly canceled by deletion).
func ClearPending(ctx context.Context, redisCli *redis.Client, uid string) error {
	if err := redisCli.SRem(ctx, pendingOfflineSet, uid).Err(); err != nil {
		return err
	}
	return redisCli.Del(ctx, heartbeatKey(uid)).Err()
}
