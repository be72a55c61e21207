package payment

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"
	"toonstalkapi/internal/api"
	"toonstalkapi/pkg/billing"
	"toonstalkapi/pkg/config"
	"toonstalkapi/pkg/notify"
	"toonstalkapi/pkg/schemas"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"
)

func (h *Handler) StripeWebhook(w http.ResponseWriter, r *http.Request) {

	defer r.Body.Close()
	ctx := context.Background()
	resParams := &api.ResParams{W: w, R: r}

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		resParams.Code = http.StatusBadRequest
		h.Res(resParams)
		return
	}

	// bad signature: reject before touching anything
	event, err := webhook.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), config.ENV.STRIPE_WEBHOOK_SECRET)
	if err != nil {
		resParams.Code = http.StatusBadRequest
		resParams.Err = err
		h.Res(resParams)
		return
	}

	switch event.Type {

	// room-slot purchases
	case stripe.EventTypeCheckoutSessionCompleted:
		var cs stripe.CheckoutSession
		if err = json.Unmarshal(event.Data.Raw, &cs); err != nil {
			resParams.Code = http.StatusBadRequest
			resParams.Err = err
			h.Res(resParams)
			return
		}
		if cs.Metadata["type"] == config.CHECKOUT_TYPE_ROOM_SLOT {
			if err := h.slotPurchaseCompleted(ctx, event.ID, &cs); err != nil {
				resParams.Code = http.StatusInternalServerError
				resParams.Err = err
				h.Res(resParams)
				return
			}
		}

	// tier assignment and cancellation flags
	case stripe.EventTypeCustomerSubscriptionCreated,
		stripe.EventTypeCustomerSubscriptionUpdated:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			resParams.Code = http.StatusBadRequest
			resParams.Err = err
			h.Res(resParams)
			return
		}
		if err := h.subscriptionChanged(ctx, event.ID, &sub); err != nil {
			resParams.Code = http.StatusInternalServerError
			resParams.Err = err
			h.Res(resParams)
			return
		}

	// subscription gone: back to free, no conditions
	case stripe.EventTypeCustomerSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			resParams.Code = http.StatusBadRequest
			resParams.Err = err
			h.Res(resParams)
			return
		}
		if err := h.subscriptionDeleted(ctx, &sub); err != nil {
			resParams.Code = http.StatusInternalServerError
			resParams.Err = err
			h.Res(resParams)
			return
		}

	default:
		// acknowledged, not processed
		h.Logger.Info("unhandled stripe event", zap.String("type", string(event.Type)))
	}

	resParams.Code = http.StatusOK
	h.Res(resParams)

}

// resolveUid finds the user a billing event belongs to: metadata first,
// then reverse lookup by stored customer id.
func (h *Handler) resolveUid(ctx context.Context, metadataUid, customerId string) (string, error) {

	if metadataUid != "" {
		return metadataUid, nil
	}
	if customerId == "" {
		return "", errors.New("event carries neither userId metadata nor customer id")
	}

	var user schemas.User
	err := h.MongoDB.Collection("users").FindOne(ctx, bson.M{
		"stripeCustomer": customerId,
	}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", errors.New("no user for billing customer " + customerId)
	}
	if err != nil {
		return "", err
	}

	return user.UserId, nil

}

func (h *Handler) subscriptionChanged(ctx context.Context, eventID string, sub *stripe.Subscription) error {

	ev := billing.EventFromSubscription(eventID, sub)

	uid, err := h.resolveUid(ctx, ev.UserID, ev.CustomerID)
	if err != nil {
		return err
	}

	// previous state read for the one-shot transitions; the actual
	// duplicate-delivery guard is the event-id marker below
	var prevUser schemas.User
	err = h.MongoDB.Collection("users").FindOne(ctx, bson.M{"userId": uid}).Decode(&prevUser)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return errors.New("user record missing for " + uid)
	}
	if err != nil {
		return err
	}
	prev := billing.PrevState{
		Tier:     prevUser.Tier(),
		Canceled: prevUser.Subscription.CancelAtPeriodEnd,
	}

	if _, err := h.MongoDB.Collection("users").UpdateOne(ctx, bson.M{
		"userId": uid,
	}, bson.M{
		"$set": ev.SetFields(),
	}); err != nil {
		return err
	}

	newSub := ev.IsNewSubscription(prev)
	newlyCanceled := ev.IsNewlyCanceled(prev)
	if !newSub && !newlyCanceled {
		return nil
	}

	claimed, err := billing.MarkEventOnce(ctx, h.RedisCli, eventID)
	if err != nil {
		h.Logger.Warn("one-shot marker failed", zap.String("event", eventID), zap.Error(err))
		return nil
	}
	if !claimed {
		return nil
	}

	email := ""
	var acct schemas.AuthAccount
	if err := h.MongoDB.Collection("authAccounts").FindOne(ctx, bson.M{"uid": uid}).Decode(&acct); err == nil {
		email = acct.Email
	}

	if newSub {
		h.notifyBoth(ctx, notify.KindSubStarted, email, map[string]string{"uid": uid, "tier": ev.Tier()})
	}
	if newlyCanceled {
		h.notifyBoth(ctx, notify.KindSubCanceled, email, map[string]string{"uid": uid, "tier": ev.Tier()})
	}

	return nil

}

func (h *Handler) subscriptionDeleted(ctx context.Context, sub *stripe.Subscription) error {

	ev := billing.EventFromSubscription("", sub)
	uid, err := h.resolveUid(ctx, ev.UserID, ev.CustomerID)
	if err != nil {
		return err
	}

	if _, err := h.MongoDB.Collection("users").UpdateOne(ctx, bson.M{
		"userId": uid,
	}, bson.M{
		"$set": bson.M{
			"subscriptionTier":    config.TIER_FREE,
			"subscription.tier":   config.TIER_FREE,
			"subscription.status": "canceled",
		},
	}); err != nil {
		return err
	}

	return nil

}

func (h *Handler) slotPurchaseCompleted(ctx context.Context, eventID string, cs *stripe.CheckoutSession) error {

	uid, ok := cs.Metadata["userId"]
	if !ok {
		return errors.New("userId missing from checkout session metadata")
	}

	qty := int64(1)
	if raw, ok := cs.Metadata["qty"]; ok {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 {
			return errors.New("invalid qty in checkout session metadata")
		}
		qty = n
	}

	// duplicate deliveries must not double-credit, and a failed write
	// must stay retryable: the update itself is the guard, keyed on the
	// append-only purchase log
	res, err := h.MongoDB.Collection("users").UpdateOne(ctx,
		billing.SlotCreditFilter(uid, eventID),
		billing.SlotCreditUpdate(eventID, qty, time.Now().UTC()),
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// already credited by an earlier delivery
		return nil
	}

	return nil

}

func (h *Handler) notifyBoth(ctx context.Context, kind, userEmail string, data map[string]string) {

	if userEmail != "" {
		if err := notify.Enqueue(ctx, h.RedisCli, &notify.Job{Kind: kind, To: userEmail, Data: data}); err != nil {
			h.Logger.Warn("notification enqueue failed", zap.String("kind", kind), zap.Error(err))
		}
	}
	if err := notify.Enqueue(ctx, h.RedisCli, &notify.Job{Kind: kind, Data: data}); err != nil {
		h.Logger.Warn("notification enqueue failed", zap.String("kind", kind), zap.Error(err))
	}

}
