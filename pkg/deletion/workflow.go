package deletion

import (
	"context"
	"errors"
	"strings"
	"time"
	"toonstalkapi/pkg/config"
	"toonstalkapi/pkg/identity"
	"toonstalkapi/pkg/notify"
	"toonstalkapi/pkg/presence"
	"toonstalkapi/pkg/schemas"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"
)

var ErrUserNotFound = errors.New("user record not found")
var ErrNoPendingArchive = errors.New("no pending-review archive for user")

// RunInstantPath performs the synchronous deletion: archive, transfer
// rooms, cancel the pending disconnect write, remove the record, revoke
// the identity, notify. The archive write is the only step allowed to
// abort the workflow — everything after it is either idempotent or
// best-effort.
func RunInstantPath(ctx context.Context, logger *zap.Logger, db *mongo.Database, redisCli *redis.Client, uid string, deletedBy, reason string) ([]string, error) {

	var userDoc bson.M
	err := db.Collection("users").FindOne(ctx, bson.M{"userId": uid}).Decode(&userDoc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	var user schemas.User
	raw, _ := bson.Marshal(userDoc)
	if err := bson.Unmarshal(raw, &user); err != nil {
		return nil, err
	}

	auth, err := loadAuthAccount(ctx, db, uid)
	if err != nil {
		return nil, err
	}

	// archive before anything destructive
	arch := BuildArchive(uid, userDoc, auth, deletedBy, reason, config.ARCHIVE_STATUS_ARCHIVED, time.Now().UTC())
	if err := writeArchive(ctx, db, arch); err != nil {
		return nil, err
	}

	transferred := finalize(ctx, logger, db, redisCli, uid, &user, deletedBy)

	if auth != nil && auth.Email != "" {
		enqueueOrLog(ctx, logger, redisCli, &notify.Job{
			Kind: notify.KindDeletionCompleted,
			To:   auth.Email,
		})
	}
	enqueueOrLog(ctx, logger, redisCli, &notify.Job{
		Kind: notify.KindDeletionReport,
		Data: map[string]string{
			"uid":       uid,
			"deletedBy": deletedBy,
			"rooms":     strings.Join(transferred, ", "),
		},
	})

	return transferred, nil

}

// MarkPendingReview records a deletion request that failed the instant
// eligibility check. The record stays fully intact until an operator
// approves.
func MarkPendingReview(ctx context.Context, logger *zap.Logger, db *mongo.Database, redisCli *redis.Client, uid string, reason string) error {

	var userDoc bson.M
	err := db.Collection("users").FindOne(ctx, bson.M{"userId": uid}).Decode(&userDoc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if _, err := db.Collection("users").UpdateOne(ctx, bson.M{"userId": uid}, bson.M{
		"$set": bson.M{
			"deletionStatus":    config.DELETION_STATUS_PENDING,
			"deletionRequested": now,
			"deletionReason":    reason,
		},
	}); err != nil {
		return err
	}

	auth, err := loadAuthAccount(ctx, db, uid)
	if err != nil {
		return err
	}

	arch := BuildArchive(uid, userDoc, auth, DeletedByUser, reason, config.ARCHIVE_STATUS_PENDING, now)
	if err := writeArchive(ctx, db, arch); err != nil {
		return err
	}

	enqueueOrLog(ctx, logger, redisCli, &notify.Job{
		Kind: notify.KindDeletionReview,
		Data: map[string]string{"uid": uid, "reason": reason},
	})
	if auth != nil && auth.Email != "" {
		enqueueOrLog(ctx, logger, redisCli, &notify.Job{
			Kind: notify.KindDeletionPending,
			To:   auth.Email,
			Data: map[string]string{"reason": reason},
		})
	}

	return nil

}

// ApprovePending resumes a review-path deletion. The archive is
// re-validated and refreshed with the current record state, then the
// destructive steps run exactly as on the instant path.
func ApprovePending(ctx context.Context, logger *zap.Logger, db *mongo.Database, redisCli *redis.Client, uid string, approvedBy string) ([]string, error) {

	var arch schemas.ArchivedUser
	err := db.Collection("archivedUsers").FindOne(ctx, bson.M{
		"uid":    uid,
		"status": config.ARCHIVE_STATUS_PENDING,
	}).Decode(&arch)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoPendingArchive
	}
	if err != nil {
		return nil, err
	}

	var userDoc bson.M
	err = db.Collection("users").FindOne(ctx, bson.M{"userId": uid}).Decode(&userDoc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	var user schemas.User
	raw, _ := bson.Marshal(userDoc)
	if err := bson.Unmarshal(raw, &user); err != nil {
		return nil, err
	}

	auth, err := loadAuthAccount(ctx, db, uid)
	if err != nil {
		return nil, err
	}

	// refresh the snapshot and stamp the approval before destroying
	// anything
	now := time.Now().UTC()
	fresh := BuildArchive(uid, userDoc, auth, DeletedByAdmin, arch.Reason, config.ARCHIVE_STATUS_APPROVED, now)
	fresh.ApprovedBy = approvedBy
	fresh.ApprovedAt = &now
	if err := writeArchive(ctx, db, fresh); err != nil {
		return nil, err
	}

	transferred := finalize(ctx, logger, db, redisCli, uid, &user, DeletedByAdmin)

	if auth != nil && auth.Email != "" {
		enqueueOrLog(ctx, logger, redisCli, &notify.Job{
			Kind: notify.KindDeletionCompleted,
			To:   auth.Email,
		})
	}
	enqueueOrLog(ctx, logger, redisCli, &notify.Job{
		Kind: notify.KindDeletionReport,
		Data: map[string]string{
			"uid":       uid,
			"deletedBy": DeletedByAdmin,
			"rooms":     strings.Join(transferred, ", "),
		},
	})

	return transferred, nil

}

// finalize runs the destructive tail shared by the instant and approved
// paths. The pending-offline marker goes first: removing the user record
// while a disconnect write is still armed is exactly how ghost records
// are born.
func finalize(ctx context.Context, logger *zap.Logger, db *mongo.Database, redisCli *redis.Client, uid string, user *schemas.User, deletedBy string) []string {

	transferred := TransferRooms(ctx, logger, db, uid, user.OwnedRooms)

	if err := presence.ClearPending(ctx, redisCli, uid); err != nil {
		logger.Warn("failed to cancel pending offline write", zap.String("uid", uid), zap.Error(err))
	}

	if _, err := db.Collection("users").DeleteOne(ctx, bson.M{"userId": uid}); err != nil {
		logger.Error("user record removal failed", zap.String("uid", uid), zap.Error(err))
	}

	if err := identity.Revoke(ctx, db, redisCli, uid); err != nil {
		logger.Warn("identity revoke failed", zap.String("uid", uid), zap.Error(err))
	}

	return transferred

}

func enqueueOrLog(ctx context.Context, logger *zap.Logger, redisCli *redis.Client, job *notify.Job) {
	if err := notify.Enqueue(ctx, redisCli, job); err != nil {
		logger.Warn("notification enqueue failed", zap.String("kind", job.Kind), zap.Error(err))
	}
}
