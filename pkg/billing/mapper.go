package billing

import (
	"time"
	"toonstalkapi/pkg/config"

	"github.com/stripe/stripe-go/v82"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// TierForPrice maps a Stripe price id onto a subscription tier. Unknown
// ids fall back to free rather than failing the webhook.
func TierForPrice(priceID string) string {
	if tier, ok := config.PriceTiers[priceID]; ok {
		return tier
	}
	return config.TIER_FREE
}

// SubscriptionEvent is the flattened view of an inbound subscription
// webhook, extracted once so the mapping stays pure and testable.
type SubscriptionEvent struct {
	EventID           string
	SubscriptionID    string
	CustomerID        string
	PriceID           string
	Status            string
	UserID            string
	CancelAtPeriodEnd bool
	CancelAt          int64
	CurrentPeriodEnd  int64
}

// EventFromSubscription flattens a stripe.Subscription, tolerating the
// nils Stripe leaves on expanded objects.
func EventFromSubscription(eventID string, sub *stripe.Subscription) SubscriptionEvent {

	ev := SubscriptionEvent{
		EventID:           eventID,
		SubscriptionID:    sub.ID,
		Status:            string(sub.Status),
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
		CancelAt:          sub.CancelAt,
	}
	if sub.Customer != nil {
		ev.CustomerID = sub.Customer.ID
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 {
		item := sub.Items.Data[0]
		ev.CurrentPeriodEnd = item.CurrentPeriodEnd
		if item.Price != nil {
			ev.PriceID = item.Price.ID
		}
	}
	if uid, ok := sub.Metadata["userId"]; ok {
		ev.UserID = uid
	}

	return ev

}

func (e SubscriptionEvent) Tier() string {
	return TierForPrice(e.PriceID)
}

// Canceled folds the two cancellation signals into one flag: a scheduled
// cancel_at always counts, even when cancel_at_period_end was not set.
func (e SubscriptionEvent) Canceled() bool {
	return e.CancelAtPeriodEnd || e.CancelAt != 0
}

// SetFields builds the merge document for the user record. Fields whose
// source value is absent are omitted entirely — never written as zero
// sentinels.
func (e SubscriptionEvent) SetFields() bson.M {

	set := bson.M{
		"subscriptionTier":               e.Tier(),
		"subscription.tier":              e.Tier(),
		"subscription.cancelAtPeriodEnd": e.Canceled(),
	}
	if e.Status != "" {
		set["subscription.status"] = e.Status
	}
	if e.CustomerID != "" {
		set["subscription.customerId"] = e.CustomerID
		set["stripeCustomer"] = e.CustomerID
	}
	if e.PriceID != "" {
		set["subscription.priceId"] = e.PriceID
	}
	if e.SubscriptionID != "" {
		set["subscription.subscriptionId"] = e.SubscriptionID
	}
	if e.CurrentPeriodEnd != 0 {
		set["subscription.currentPeriodEnd"] = time.Unix(e.CurrentPeriodEnd, 0).UTC()
	}
	if e.CancelAt != 0 {
		set["subscription.cancelAt"] = time.Unix(e.CancelAt, 0).UTC()
	}

	return set

}

// PrevState is what the stored record said before this event applied,
// used to detect tier starts and fresh cancellations.
type PrevState struct {
	Tier     string
	Canceled bool
}

// IsNewSubscription reports a free→paid transition.
func (e SubscriptionEvent) IsNewSubscription(prev PrevState) bool {
	return e.Tier() != config.TIER_FREE &&
		(prev.Tier == "" || prev.Tier == config.TIER_FREE)
}

// IsNewlyCanceled reports the first event that carries a cancel flag.
func (e SubscriptionEvent) IsNewlyCanceled(prev PrevState) bool {
	return e.Canceled() && !prev.Canceled
}
