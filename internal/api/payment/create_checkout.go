package payment

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
	"toonstalkapi/internal/api"
	"toonstalkapi/pkg/config"
	"toonstalkapi/pkg/schemas"

	"github.com/stripe/stripe-go/v82"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// CreateSlotCheckout starts a one-time purchase of extra room slots. The
// credit lands when the webhook confirms completion, never here.
func (h *Handler) CreateSlotCheckout(w http.ResponseWriter, r *http.Request) {

	defer r.Body.Close()
	ctx := r.Context()
	uid := ctx.Value(api.UidKey).(string)
	resParams := &api.ResParams{W: w, R: r}

	var reqData struct {
		Quantity int64 `json:"quantity" validate:"required,min=1,max=10"`
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

	customerId, err := h.ensureStripeCustomer(r, uid)
	if err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	metadata := map[string]string{
		"type":   config.CHECKOUT_TYPE_ROOM_SLOT,
		"userId": uid,
		"qty":    fmt.Sprintf("%d", reqData.Quantity),
	}

	checkoutParams := &stripe.CheckoutSessionCreateParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(config.ENV.BASE_URL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:         stripe.String(config.ENV.BASE_URL + "/checkout/cancel"),
		Customer:          stripe.String(customerId),
		ClientReferenceID: stripe.String(uid),
		ExpiresAt:         stripe.Int64(time.Now().Add(config.CHECKOUT_SESSION_DURATION).Unix()),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{{
			Price:    stripe.String(config.PRICE_ID_ROOM_SLOT),
			Quantity: stripe.Int64(reqData.Quantity),
		}},
		Metadata: metadata,
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

// ensureStripeCustomer returns the user's billing customer id, creating
// one on first use.
func (h *Handler) ensureStripeCustomer(r *http.Request, uid string) (string, error) {

	ctx := r.Context()

	var user schemas.User
	if err := h.MongoDB.Collection("users").FindOne(ctx, bson.M{"userId": uid}).Decode(&user); err != nil {
		return "", err
	}
	if user.StripeCustomer != "" {
		return user.StripeCustomer, nil
	}

	var acct schemas.AuthAccount
	email := ""
	if err := h.MongoDB.Collection("authAccounts").FindOne(ctx, bson.M{"uid": uid}).Decode(&acct); err == nil {
		email = acct.Email
	}

	params := &stripe.CustomerCreateParams{
		Metadata: map[string]string{"userId": uid},
	}
	if email != "" {
		params.Email = stripe.String(email)
	}
	cus, err := h.StripeCli.V1Customers.Create(ctx, params)
	if err != nil {
		return "", err
	}

	if _, err := h.MongoDB.Collection("users").UpdateOne(ctx, bson.M{
		"userId": uid,
	}, bson.M{
		"$set": bson.M{"stripeCustomer": cus.ID},
	}); err != nil {
		return "", err
	}

	return cus.ID, nil

}
