package schemas

import "time"

type Room struct {
	RoomId           string          `bson:"roomId"`
	Name             string          `bson:"name"`
	OwnerId          string          `bson:"ownerId"`
	OwnerTransferred bool            `bson:"ownerTransferred,omitempty"`
	PreviousOwner    string          `bson:"previousOwner,omitempty"`
	TransferredAt    *time.Time      `bson:"transferredAt,omitempty"`
	Ctime            time.Time       `bson:"ctime"`
	Members          map[string]bool `bson:"members,omitempty"`
}
