package payment

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"
	"toonstalkapi/internal/api"
	"toonstalkapi/pkg/billing"
	"toonstalkapi/pkg/config"

	"github.com/stripe/stripe-go/v82"
)

// CreateSubscription starts a subscription checkout for a known price.
// Tier assignment happens in the webhook once Stripe confirms.
func (h *Handler) CreateSubscription(w http.ResponseWriter, r *http.Request) {

	defer r.Body.Close()
	ctx := r.Context()
	uid := ctx.Value(api.UidKey).(string)
	resParams := &api.ResParams{W: w, R: r}

	var reqData struct {
		PriceId string `json:"priceId" validate:"required"`
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&reqData); err != nil {
		resParams.Code = http.StatusBadRequest
		resParams.Err = err
		h.Res(resParams)
		return
	}
	if err := h.Validate.Struct(&reqData); err != nil {
		resParams.Code = http.StatusBadRequest
		resParams.Err = err
		h.Res(resParams)
		return
	}
	resParams.ReqData = reqData

	// only prices from the hand-maintained table are sellable
	if billing.TierForPrice(reqData.PriceId) == config.TIER_FREE {
		resParams.Code = http.StatusBadRequest
		resParams.Err = errors.New("unknown subscription price id")
		h.Res(resParams)
		return
	}

	customerId, err := h.ensureStripeCustomer(r, uid)
	if err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	metadata := map[string]string{"userId": uid}

	checkoutParams := &stripe.CheckoutSessionCreateParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL: stripe.String(config.ENV.BASE_URL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(config.ENV.BASE_URL + "/checkout/cancel"),
		Customer:   stripe.String(customerId),
		ExpiresAt:  stripe.Int64(time.Now().Add(config.CHECKOUT_SESSION_DURATION).Unix()),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{{
			Price:    stripe.String(reqData.PriceId),
			Quantity: stripe.Int64(1),
		}},
		Metadata: metadata,
		SubscriptionData: &stripe.CheckoutSessionCreateSubscriptionDataParams{
			Metadata: metadata,
		},
	}
	checkoutSession, err := h.StripeCli.V1CheckoutSessions.Create(ctx, checkoutParams)
	if err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	resParams.ResData = &struct {
		StripeSession string `json:"stripeSession"`
	}{StripeSession: checkoutSession.ID}
	resParams.Code = http.StatusOK
	h.Res(resParams)

}
