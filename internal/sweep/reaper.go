package sweep

import (
	"context"
	"errors"
	"time"
	"toonstalkapi/pkg/presence"
	"toonstalkapi/pkg/schemas"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

// ReapDisconnected performs the offline write for users whose heartbeat
// lapsed without a goodbye. The write is an upsert on purpose: it mirrors
// the platform disconnect hook, which happily recreates a partial record
// for an account deleted in the meantime. That partial record is the
// ghost the cleanup sweep exists to catch.
func ReapDisconnected(ctx context.Context, logger *zap.Logger, db *mongo.Database, redisCli *redis.Client) (int, error) {

	uids, err := presence.PendingOffline(ctx, redisCli)
	if err != nil {
		return 0, err
	}

	reaped := 0
	now := time.Now().UTC()

	for _, uid := range uids {

		alive, err := presence.Alive(ctx, redisCli, uid)
		if err != nil {
			logger.Warn("liveness check failed", zap.String("uid", uid), zap.Error(err))
			continue
		}
		if alive {
			continue
		}

		var user schemas.User
		found := true
		err = db.Collection("users").FindOne(ctx, bson.M{"userId": uid}).Decode(&user)
		if errors.Is(err, mongo.ErrNoDocuments) {
			found = false
		} else if err != nil {
			logger.Warn("reaper read failed", zap.String("uid", uid), zap.Error(err))
			continue
		}

		update := bson.M{
			"$set": bson.M{
				"userId":      uid,
				"onlineState": false,
				"status":      "offline",
				"lastOnline":  now,
			},
			"$unset": bson.M{"currentSessionStart": ""},
		}
		if found && user.CurrentSessionStart != nil {
			if secs, ok := presence.SessionSeconds(*user.CurrentSessionStart, now); ok {
				update["$inc"] = bson.M{"totalOnlineTime": secs}
			}
		}

		if _, err := db.Collection("users").UpdateOne(ctx, bson.M{"userId": uid}, update,
			options.UpdateOne().SetUpsert(true)); err != nil {
			logger.Warn("offline write failed", zap.String("uid", uid), zap.Error(err))
			continue
		}

		if err := presence.ClearPending(ctx, redisCli, uid); err != nil {
			logger.Warn("failed to clear pending offline marker", zap.String("uid", uid), zap.Error(err))
		}
		reaped++

	}

	return reaped, nil

}
