package deletion

import (
	"context"
	"errors"
	"time"
	"toonstalkapi/pkg/config"
	"toonstalkapi/pkg/schemas"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

const (
	DeletedByUser  = "user"
	DeletedByAdmin = "admin"
)

// BuildArchive assembles the snapshot written before any destructive step.
// Auth fields that are unset are stripped rather than stored as zero
// values.
func BuildArchive(uid string, userDoc bson.M, auth *schemas.AuthAccount, deletedBy, reason, status string, now time.Time) *schemas.ArchivedUser {

	arch := &schemas.ArchivedUser{
		Uid:                   uid,
		User:                  userDoc,
		DeletedAt:             now,
		PermanentDeletionDate: now.Add(config.ARCHIVE_RETENTION),
		DeletedBy:             deletedBy,
		Reason:                reason,
		Status:                status,
	}

	if auth != nil {
		snapshot := bson.M{}
		if auth.Email != "" {
			snapshot["email"] = auth.Email
		}
		if auth.DisplayName != "" {
			snapshot["displayName"] = auth.DisplayName
		}
		if auth.PhotoURL != "" {
			snapshot["photoURL"] = auth.PhotoURL
		}
		if !auth.CreatedAt.IsZero() {
			snapshot["createdAt"] = auth.CreatedAt
		}
		if auth.LastSignInAt != nil {
			snapshot["lastSignInAt"] = *auth.LastSignInAt
		}
		arch.Auth = snapshot
	}

	return arch

}

// writeArchive persists the snapshot, replacing any earlier archive for
// the same uid (a pending-review archive being finalized, or a retried
// instant path that failed after archiving).
func writeArchive(ctx context.Context, db *mongo.Database, arch *schemas.ArchivedUser) error {

	opts := bson.M{"uid": arch.Uid}
	res, err := db.Collection("archivedUsers").ReplaceOne(ctx, opts, arch)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if _, err := db.Collection("archivedUsers").InsertOne(ctx, arch); err != nil {
			return err
		}
	}
	return nil

}

// loadAuthAccount fetches credentials for the archive snapshot. Absence
// is fine — guests and orphaned accounts have nothing to snapshot.
func loadAuthAccount(ctx context.Context, db *mongo.Database, uid string) (*schemas.AuthAccount, error) {

	var acct schemas.AuthAccount
	err := db.Collection("authAccounts").FindOne(ctx, bson.M{"uid": uid}).Decode(&acct)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &acct, nil

}
