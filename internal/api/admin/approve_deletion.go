package admin

import (
	"encoding/json"
	"errors"
	"net/http"
	"toonstalkapi/internal/api"
	"toonstalkapi/pkg/deletion"
)

// ApproveDeletion resumes a review-path deletion request.
func (h *Handler) ApproveDeletion(w http.ResponseWriter, r *http.Request) {

	defer r.Body.Close()
	ctx := r.Context()
	adminUid := ctx.Value(api.UidKey).(string)
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

	transferred, err := deletion.ApprovePending(ctx, h.Logger, h.MongoDB, h.RedisCli, reqData.UserId, adminUid)
	if errors.Is(err, deletion.ErrNoPendingArchive) || errors.Is(err, deletion.ErrUserNotFound) {
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

	resParams.ResData = &struct {
		Success          bool     `json:"success"`
		RoomsTransferred []string `json:"roomsTransferred"`
	}{Success: true, RoomsTransferred: transferred}
	resParams.Code = http.StatusOK
	h.Res(resParams)

}
