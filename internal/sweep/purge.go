package sweep

import (
	"context"
	"time"
	"toonstalkapi/pkg/config"
	"toonstalkapi/pkg/schemas"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"
)

// PurgeExpiredArchives hard-deletes archives whose retention window has
// closed. This is the end of the 30-day undo window: after this, the
// account is unrecoverable. Avatar objects ride along best-effort.
func PurgeExpiredArchives(ctx context.Context, logger *zap.Logger, db *mongo.Database, s3Cli *s3.Client) (int, error) {

	now := time.Now().UTC()

	cursor, err := db.Collection("archivedUsers").Find(ctx, bson.M{
		"permanentDeletionDate": bson.M{"$lte": now},
	})
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	purged := 0

	for cursor.Next(ctx) {

		var arch schemas.ArchivedUser
		if err := cursor.Decode(&arch); err != nil {
			logger.Warn("archive decode failed", zap.Error(err))
			continue
		}

		// pending-review archives still back a live record; only the
		// finalized ones carry an orphaned avatar object
		if arch.Status != config.ARCHIVE_STATUS_PENDING && s3Cli != nil {
			if avatar, ok := arch.User["avatar"].(string); ok && avatar != "" {
				if _, err := s3Cli.DeleteObject(ctx, &s3.DeleteObjectInput{
					Bucket: aws.String(config.ENV.AVATAR_BUCKET),
					Key:    aws.String(avatar),
				}); err != nil {
					logger.Warn("avatar object delete failed",
						zap.String("uid", arch.Uid),
						zap.String("key", avatar),
						zap.Error(err),
					)
				}
			}
		}

		if _, err := db.Collection("archivedUsers").DeleteOne(ctx, bson.M{"_id": arch.Id}); err != nil {
			logger.Warn("archive delete failed", zap.String("uid", arch.Uid), zap.Error(err))
			continue
		}
		purged++

	}
	if err := cursor.Err(); err != nil {
		return purged, err
	}

	return purged, nil

}
