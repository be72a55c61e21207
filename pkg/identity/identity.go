package identity

import (
	"context"
	"errors"
	"time"
	"toonstalkapi/pkg/accountcheck"
	"toonstalkapi/pkg/schemas"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// matches the auth token lifetime in pkg/utils
const revocationTTL = 6 * 31 * 24 * time.Hour

func revocationKey(uid string) string {
	return "revoked:" + uid
}

// Lookup returns the credential-store view of an account for the stale
// sweep. A missing document is not an error, it is the orphaned case.
func Lookup(ctx context.Context, db *mongo.Database, uid string) (accountcheck.AuthStatus, error) {

	var acct schemas.AuthAccount
	err := db.Collection("authAccounts").FindOne(ctx, bson.M{"uid": uid}).Decode(&acct)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return accountcheck.AuthStatus{Found: false}, nil
	}
	if err != nil {
		return accountcheck.AuthStatus{}, err
	}

	return accountcheck.AuthStatus{Found: true, Providers: acct.ProviderCount()}, nil

}

// Revoke removes an account's credentials and blocks its outstanding
// tokens. Revoking an identity that is already gone is success, not
// failure, so the operation can be replayed safely.
func Revoke(ctx context.Context, db *mongo.Database, redisCli *redis.Client, uid string) error {

	if _, err := db.Collection("authAccounts").DeleteOne(ctx, bson.M{"uid": uid}); err != nil {
		return err
	}

	return redisCli.Set(ctx, revocationKey(uid), 1, revocationTTL).Err()

}

// IsRevoked is consulted by the auth middleware on every request.
func IsRevoked(ctx context.Context, redisCli *redis.Client, uid string) (bool, error) {

	n, err := redisCli.Exists(ctx, revocationKey(uid)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil

}
