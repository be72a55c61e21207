package payment

import (
	"errors"
	"net/http"
	"toonstalkapi/internal/api"
	"toonstalkapi/pkg/config"
	"toonstalkapi/pkg/schemas"

	"github.com/stripe/stripe-go/v82"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func (h *Handler) CreatePortalSession(w http.ResponseWriter, r *http.Request) {

	defer r.Body.Close()
	ctx := r.Context()
	uid := ctx.Value(api.UidKey).(string)
	resParams := &api.ResParams{W: w, R: r}

	var user schemas.User
	if err := h.MongoDB.Collection("users").FindOne(ctx, bson.M{"userId": uid}).Decode(&user); err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	// must have customer id
	if user.StripeCustomer == "" {
		resParams.ResData = &struct {
			NoStripeCustomer bool `json:"noStripeCustomer"`
		}{NoStripeCustomer: true}
		resParams.Code = http.StatusBadRequest
		resParams.Err = errors.New("no billing customer for user")
		h.Res(resParams)
		return
	}

	params := &stripe.BillingPortalSessionCreateParams{
		Customer:  stripe.String(user.StripeCustomer),
		ReturnURL: stripe.String(config.ENV.BASE_URL + "/account/billing"),
	}

	portalSession, err := h.StripeCli.V1BillingPortalSessions.Create(ctx, params)
	if err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	resParams.ResData = &struct {
		StripeSession    string `json:"stripeSession"`
		StripeSessionUrl string `json:"stripeSessionUrl"`
	}{
		StripeSession:    portalSession.ID,
		StripeSessionUrl: portalSession.URL,
	}
	resParams.Code = http.StatusOK
	h.Res(resParams)

}
