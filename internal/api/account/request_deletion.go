package account

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"
	"toonstalkapi/internal/api"
	"toonstalkapi/pkg/accountcheck"
	"toonstalkapi/pkg/config"
	"toonstalkapi/pkg/deletion"
	"toonstalkapi/pkg/schemas"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// RequestDeletion is the self-service entry point. Eligible accounts are
// deleted synchronously; everything else is parked for operator review.
// The two paths never mix: an ineligible request performs no instant-path
// side effects at all.
func (h *Handler) RequestDeletion(w http.ResponseWriter, r *http.Request) {

	defer r.Body.Close()
	ctx := r.Context()
	uid := ctx.Value(api.UidKey).(string)
	resParams := &api.ResParams{W: w, R: r}

	var reqData struct {
		UserId string `json:"userId" validate:"required"`
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

	// you may only delete yourself
	if reqData.UserId != uid {
		resParams.Code = http.StatusForbidden
		resParams.Err = errors.New("token identity does not match userId")
		h.Res(resParams)
		return
	}

	var user schemas.User
	err := h.MongoDB.Collection("users").FindOne(ctx, bson.M{"userId": uid}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		resParams.Code = http.StatusNotFound
		resParams.Err = err
		h.Res(resParams)
		return
	}
	if err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	eligible, reason := accountcheck.CheckInstantEligibility(&user, time.Now().UTC(), config.ENV.MIN_ACCOUNT_AGE_FOR_INSTANT_DELETE)

	if !eligible {
		if err := deletion.MarkPendingReview(ctx, h.Logger, h.MongoDB, h.RedisCli, uid, reason); err != nil {
			resParams.Code = http.StatusInternalServerError
			resParams.Err = err
			h.Res(resParams)
			return
		}
		resParams.ResData = &struct {
			Success bool   `json:"success"`
			Instant bool   `json:"instant"`
			Reason  string `json:"reason"`
		}{Success: true, Instant: false, Reason: reason}
		resParams.Code = http.StatusOK
		h.Res(resParams)
		return
	}

	if _, err := deletion.RunInstantPath(ctx, h.Logger, h.MongoDB, h.RedisCli, uid, deletion.DeletedByUser, "self-service request"); err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	resParams.ResData = &struct {
		Success bool `json:"success"`
		Instant bool `json:"instant"`
	}{Success: true, Instant: true}
	resParams.Code = http.StatusOK
	h.Res(resParams)

}
