package schemas

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ArchivedUser is the point-in-time snapshot written before any destructive
// deletion step. It is the only durable retention guarantee the system
// makes: the daily purge removes it once PermanentDeletionDate has passed.
type ArchivedUser struct {
	Id                    bson.ObjectID `bson:"_id,omitempty"`
	Uid                   string        `bson:"uid"`
	User                  bson.M        `bson:"user"`
	Auth                  bson.M        `bson:"auth,omitempty"`
	DeletedAt             time.Time     `bson:"deletedAt"`
	PermanentDeletionDate time.Time     `bson:"permanentDeletionDate"`
	DeletedBy             string        `bson:"deletedBy"`
	Reason                string        `bson:"reason,omitempty"`
	Status                string        `bson:"status"`
	ApprovedBy            string        `bson:"approvedBy,omitempty"`
	ApprovedAt            *time.Time    `bson:"approvedAt,omitempty"`
}
