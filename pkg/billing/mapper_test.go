package billing

import (
	"testing"
	"toonstalkapi/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierForPrice(t *testing.T) {

	tests := []struct {
		in   string
		want string
	}{
		{in: "price_1SK4YXBmoCe1wac303G15iyR", want: "landlord"},
		{in: config.PRICE_ID_LANDLORD_YEARLY, want: "landlord"},
		{in: config.PRICE_ID_CREATOR_MONTHLY, want: "creator"},
		{in: config.PRICE_ID_CREATOR_YEARLY, want: "creator"},
		{in: "price_unknown", want: "free"},
		{in: "", want: "free"},
	}

	for _, tt := range tests {
		if got := TierForPrice(tt.in); got != tt.want {
			t.Fatalf("TierForPrice(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

}

func TestCanceledFoldsCancelAt(t *testing.T) {

	// a scheduled cancel_at must flip the stored flag even when
	// cancel_at_period_end itself was absent
	ev := SubscriptionEvent{CancelAt: 1767225600}
	assert.True(t, ev.Canceled())

	set := ev.SetFields()
	assert.Equal(t, true, set["subscription.cancelAtPeriodEnd"])

	ev = SubscriptionEvent{CancelAtPeriodEnd: true}
	assert.True(t, ev.Canceled())

	ev = SubscriptionEvent{}
	assert.False(t, ev.Canceled())

}

func TestSetFieldsOmitsAbsentValues(t *testing.T) {

	ev := SubscriptionEvent{PriceID: config.PRICE_ID_LANDLORD_MONTHLY}
	set := ev.SetFields()

	require.Equal(t, "landlord", set["subscriptionTier"])

	for _, absent := range []string{
		"subscription.status",
		"subscription.customerId",
		"subscription.subscriptionId",
		"subscription.currentPeriodEnd",
		"subscription.cancelAt",
	} {
		_, ok := set[absent]
		assert.False(t, ok, "field %s must be omitted, not written empty", absent)
	}

}

func TestNewSubscriptionDetection(t *testing.T) {

	paid := SubscriptionEvent{PriceID: config.PRICE_ID_CREATOR_MONTHLY}

	assert.True(t, paid.IsNewSubscription(PrevState{}))
	assert.True(t, paid.IsNewSubscription(PrevState{Tier: "free"}))
	assert.False(t, paid.IsNewSubscription(PrevState{Tier: "creator"}))
	assert.False(t, paid.IsNewSubscription(PrevState{Tier: "landlord"}))

	free := SubscriptionEvent{PriceID: "price_unknown"}
	assert.False(t, free.IsNewSubscription(PrevState{}))

}

func TestNewlyCanceledDetection(t *testing.T) {

	ev := SubscriptionEvent{CancelAtPeriodEnd: true}
	assert.True(t, ev.IsNewlyCanceled(PrevState{Canceled: false}))
	assert.False(t, ev.IsNewlyCanceled(PrevState{Canceled: true}))

	active := SubscriptionEvent{}
	assert.False(t, active.IsNewlyCanceled(PrevState{Canceled: false}))

}
