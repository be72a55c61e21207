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

// ReportUser and ReportRoom share one shape; reports land in separate
// collections so moderation tooling can query them apart.

func (h *Handler) ReportUser(w http.ResponseWriter, r *http.Request) {
	h.submitReport(w, r, "userReports", "user")
}

func (h *Handler) ReportRoom(w http.ResponseWriter, r *http.Request) {
	h.submitReport(w, r, "roomReports", "room")
}

func (h *Handler) submitReport(w http.ResponseWriter, r *http.Request, collection, kind string) {

	defer r.Body.Close()
	ctx := r.Context()
	uid := ctx.Value(api.UidKey).(string)
	resParams := &api.ResParams{W: w, R: r}

	var reqData struct {
		TargetId string `json:"targetId" validate:"required"`
		Reason   string `json:"reason" validate:"required,min=1,max=200"`
		Details  string `json:"details" validate:"omitempty,max=4000"`
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

	doc := &schemas.Report{
		ReporterId: uid,
		TargetId:   reqData.TargetId,
		Reason:     reqData.Reason,
		Details:    reqData.Details,
		Ctime:      time.Now().UTC(),
	}
	if _, err := h.MongoDB.Collection(collection).InsertOne(ctx, doc); err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	if err := notify.Enqueue(ctx, h.RedisCli, &notify.Job{
		Kind: notify.KindReport,
		Data: map[string]string{
			"kind":       kind,
			"reporterId": uid,
			"targetId":   reqData.TargetId,
			"reason":     reqData.Reason,
		},
	}); err != nil {
		h.Logger.Warn("report notification enqueue failed", zap.Error(err))
	}

	resParams.ResData = &struct {
		Success bool `json:"success"`
	}{Success: true}
	resParams.Code = http.StatusOK
	h.Res(resParams)

}
