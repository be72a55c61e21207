package sweep

import (
	"context"
	"fmt"
	"time"
	"toonstalkapi/pkg/accountcheck"
	"toonstalkapi/pkg/config"
	"toonstalkapi/pkg/identity"
	"toonstalkapi/pkg/schemas"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"
)

type Counters struct {
	GhostsRemoved int      `json:"ghostsRemoved"`
	StaleRemoved  int      `json:"staleRemoved"`
	Skipped       int      `json:"skipped"`
	Errors        []string `json:"errors,omitempty"`
}

// Run walks the whole user collection. The ghost check goes first: it is
// cheap and a ghost never qualifies for the stale path anyway. One user's
// failure is recorded and the walk moves on — a bad record must not
// shield the rest of the collection from cleanup.
func Run(ctx context.Context, logger *zap.Logger, db *mongo.Database, redisCli *redis.Client) (*Counters, error) {

	counters := &Counters{}
	now := time.Now().UTC()

	cursor, err := db.Collection("users").Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {

		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			counters.Errors = append(counters.Errors, err.Error())
			continue
		}

		uid := uidOf(doc)

		if accountcheck.IsGhost(doc, config.GhostFieldAllowlist) {
			if err := removeUser(ctx, logger, db, redisCli, uid); err != nil {
				counters.Errors = append(counters.Errors, fmt.Sprintf("%s: %v", uid, err))
				continue
			}
			logger.Info("ghost record removed", zap.String("uid", uid))
			counters.GhostsRemoved++
			continue
		}

		var user schemas.User
		raw, _ := bson.Marshal(doc)
		if err := bson.Unmarshal(raw, &user); err != nil {
			counters.Errors = append(counters.Errors, fmt.Sprintf("%s: %v", uid, err))
			continue
		}

		auth, err := identity.Lookup(ctx, db, uid)
		if err != nil {
			counters.Errors = append(counters.Errors, fmt.Sprintf("%s: %v", uid, err))
			continue
		}

		eligible, reason := accountcheck.ClassifyStale(&user, auth, now)
		if !eligible {
			logger.Debug("sweep skip", zap.String("uid", uid), zap.String("reason", reason))
			counters.Skipped++
			continue
		}

		if err := removeUser(ctx, logger, db, redisCli, uid); err != nil {
			counters.Errors = append(counters.Errors, fmt.Sprintf("%s: %v", uid, err))
			continue
		}
		logger.Info("stale anonymous account removed", zap.String("uid", uid))
		counters.StaleRemoved++

	}
	if err := cursor.Err(); err != nil {
		return counters, err
	}

	return counters, nil

}

// RemoveGhosts is the on-demand variant: ghost classification only, with
// the caller's allowlist. Returns the uids actually removed.
func RemoveGhosts(ctx context.Context, logger *zap.Logger, db *mongo.Database, redisCli *redis.Client, allowlist []string) ([]string, *Counters, error) {

	counters := &Counters{}
	removed := []string{}

	cursor, err := db.Collection("users").Find(ctx, bson.M{})
	if err != nil {
		return nil, nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {

		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			counters.Errors = append(counters.Errors, err.Error())
			continue
		}

		uid := uidOf(doc)
		if !accountcheck.IsGhost(doc, allowlist) {
			counters.Skipped++
			continue
		}

		if err := removeUser(ctx, logger, db, redisCli, uid); err != nil {
			counters.Errors = append(counters.Errors, fmt.Sprintf("%s: %v", uid, err))
			continue
		}
		counters.GhostsRemoved++
		removed = append(removed, uid)

	}
	if err := cursor.Err(); err != nil {
		return removed, counters, err
	}

	return removed, counters, nil

}

// removeUser drops the record and revokes the identity. Revocation is
// best-effort: a missing auth account is already the desired state.
func removeUser(ctx context.Context, logger *zap.Logger, db *mongo.Database, redisCli *redis.Client, uid string) error {

	if _, err := db.Collection("users").DeleteOne(ctx, bson.M{"userId": uid}); err != nil {
		return err
	}

	if err := identity.Revoke(ctx, db, redisCli, uid); err != nil {
		logger.Warn("identity revoke failed during sweep", zap.String("uid", uid), zap.Error(err))
	}

	return nil

}

func uidOf(doc bson.M) string {
	if v, ok := doc["userId"].(string); ok && v != "" {
		return v
	}
	if id, ok := doc["_id"].(bson.ObjectID); ok {
		return id.Hex()
	}
	return ""
}
