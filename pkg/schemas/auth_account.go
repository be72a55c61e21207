package schemas

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// AuthAccount is the credential record backing a user. An account with
// neither a password hash nor a Google id is a guest (anonymous) identity.
type AuthAccount struct {
	Id           bson.ObjectID `bson:"_id,omitempty"`
	Uid          string        `bson:"uid"`
	Email        string        `bson:"email,omitempty"`
	PassHash     string        `bson:"passHash,omitempty"`
	GoogleId     string        `bson:"googleId,omitempty"`
	DisplayName  string        `bson:"displayName,omitempty"`
	PhotoURL     string        `bson:"photoURL,omitempty"`
	CreatedAt    time.Time     `bson:"createdAt"`
	LastSignInAt *time.Time    `bson:"lastSignInAt,omitempty"`
}

func (a *AuthAccount) ProviderCount() int {
	n := 0
	if a.PassHash != "" {
		n++
	}
	if a.GoogleId != "" {
		n++
	}
	return n
}
