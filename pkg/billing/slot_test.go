package billing

import (
	"testing"
	"time"
	"toonstalkapi/pkg/config"
	"toonstalkapi/pkg/schemas"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestSlotCreditGuardKeyedByEventId(t *testing.T) {

	filter := SlotCreditFilter("u1", "evt_1")

	assert.Equal(t, "u1", filter["userId"])

	// the event id must be the exclusion key; without it a redelivered
	// event would credit twice, and with a failed write nothing is
	// claimed so the retry can still land
	guard, ok := filter["purchases.eventId"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, "evt_1", guard["$ne"])

}

func TestSlotCreditUpdateAppendsPurchase(t *testing.T) {

	at := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	update := SlotCreditUpdate("evt_1", 3, at)

	inc, ok := update["$inc"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, int64(3), inc["roomSlots"])

	push, ok := update["$push"].(bson.M)
	require.True(t, ok)
	p, ok := push["purchases"].(schemas.Purchase)
	require.True(t, ok)
	assert.Equal(t, "evt_1", p.EventId)
	assert.Equal(t, config.PRICE_ID_ROOM_SLOT, p.PriceId)
	assert.Equal(t, int64(3), p.Quantity)
	assert.Equal(t, at, p.At)

}
