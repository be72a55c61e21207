package billing

import (
	"time"
	"toonstalkapi/pkg/config"
	"toonstalkapi/pkg/schemas"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Slot credits are applied with a guarded update rather than a separate
// claim: the filter matches only while the event id is absent from the
// purchase log. A replayed delivery matches nothing, and a failed write
// leaves nothing claimed, so the retry still credits.

func SlotCreditFilter(uid, eventID string) bson.M {
	return bson.M{
		"userId":            uid,
		"purchases.eventId": bson.M{"$ne": eventID},
	}
}

func SlotCreditUpdate(eventID string, qty int64, at time.Time) bson.M {
	return bson.M{
		"$inc": bson.M{"roomSlots": qty},
		"$push": bson.M{
			"purchases": schemas.Purchase{
				EventId:  eventID,
				PriceId:  config.PRICE_ID_ROOM_SLOT,
				Quantity: qty,
				At:       at,
			},
		},
	}
}
