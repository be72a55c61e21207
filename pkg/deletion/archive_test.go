package deletion

import (
	"testing"
	"time"
	"toonstalkapi/pkg/config"
	"toonstalkapi/pkg/schemas"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestBuildArchiveRetentionWindow(t *testing.T) {

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	arch := BuildArchive("u1", bson.M{"nickname": "pip"}, nil, DeletedByUser, "", config.ARCHIVE_STATUS_ARCHIVED, now)

	assert.Equal(t, now, arch.DeletedAt)
	assert.Equal(t, now.Add(30*24*time.Hour), arch.PermanentDeletionDate)
	assert.Equal(t, config.ARCHIVE_STATUS_ARCHIVED, arch.Status)
	assert.Equal(t, DeletedByUser, arch.DeletedBy)

}

func TestBuildArchiveStripsUnsetAuthFields(t *testing.T) {

	now := time.Now().UTC()
	created := now.Add(-48 * time.Hour)

	auth := &schemas.AuthAccount{
		Uid:       "u1",
		Email:     "pip@example.com",
		CreatedAt: created,
		// DisplayName, PhotoURL, LastSignInAt deliberately unset
	}

	arch := BuildArchive("u1", bson.M{}, auth, DeletedByAdmin, "paid tier", config.ARCHIVE_STATUS_PENDING, now)

	require.NotNil(t, arch.Auth)
	assert.Equal(t, "pip@example.com", arch.Auth["email"])
	assert.Equal(t, created, arch.Auth["createdAt"])

	for _, absent := range []string{"displayName", "photoURL", "lastSignInAt", "passHash", "googleId"} {
		_, ok := arch.Auth[absent]
		assert.False(t, ok, "unset auth field %q must be stripped", absent)
	}

}

func TestBuildArchiveNoAuthAccount(t *testing.T) {

	arch := BuildArchive("u1", bson.M{}, nil, DeletedByUser, "", config.ARCHIVE_STATUS_ARCHIVED, time.Now().UTC())
	assert.Nil(t, arch.Auth)

}
