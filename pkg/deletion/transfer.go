package deletion

import (
	"context"
	"time"
	"toonstalkapi/pkg/config"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"
)

// TransferRooms reassigns a departing user's rooms to the system owner.
// Each room is an independent write: one failure is logged and the rest
// still transfer. Returns the ids actually transferred.
func TransferRooms(ctx context.Context, logger *zap.Logger, db *mongo.Database, ownerUid string, ownedRooms []string) []string {

	if len(ownedRooms) == 0 {
		return []string{}
	}

	now := time.Now().UTC()
	transferred := make([]string, 0, len(ownedRooms))

	for _, roomId := range ownedRooms {

		res, err := db.Collection("rooms").UpdateOne(ctx, bson.M{
			"roomId":  roomId,
			"ownerId": ownerUid,
		}, bson.M{
			"$set": bson.M{
				"ownerId":          config.SYSTEM_ADMIN_ID,
				"ownerTransferred": true,
				"previousOwner":    ownerUid,
				"transferredAt":    now,
			},
		})
		if err != nil {
			logger.Warn("room transfer failed",
				zap.String("roomId", roomId),
				zap.String("owner", ownerUid),
				zap.Error(err),
			)
			continue
		}
		if res.MatchedCount == 0 {
			// room already gone or re-owned; nothing to transfer
			continue
		}
		transferred = append(transferred, roomId)

	}

	return transferred

}
