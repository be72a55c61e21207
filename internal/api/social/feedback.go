package social

import (
	"encoding/json"
	"net/http"
	"time"
	"toonstalkapi/internal/api"
	"toonstalkapi/pkg/notify"
	"toonstalkapi/pkg/schemas"

	"go.uber.org/zap"
)

// SubmitFeedback stores the message and pings the operator mailbox. The
// notification is best-effort; the stored record is the source of truth.
func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {

	defer r.Body.Close()
	ctx := r.Context()
	uid := ctx.Value(api.UidKey).(string)
	resParams := &api.ResParams{W: w, R: r}

	var reqData struct {
		Message string `json:"message" validate:"required,min=1,max=4000"`
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

	doc := &schemas.Feedback{
		Uid:     uid,
		Message: reqData.Message,
		Ctime:   time.Now().UTC(),
	}
	if _, err := h.MongoDB.Collection("feedback").InsertOne(ctx, doc); err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	if err := notify.Enqueue(ctx, h.RedisCli, &notify.Job{
		Kind: notify.KindFeedback,
		Data: map[string]string{"uid": uid, "message": reqData.Message},
	}); err != nil {
		h.Logger.Warn("feedback notification enqueue failed", zap.Error(err))
	}

	resParams.ResData = &struct {
		Success bool `json:"success"`
	}{Success: true}
	resParams.Code = http.StatusOK
	h.Res(resParams)

}
