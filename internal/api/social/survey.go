package social

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
	"toonstalkapi/internal/api"
	"toonstalkapi/pkg/notify"
	"toonstalkapi/pkg/schemas"

	"go.uber.org/zap"
)

func (h *Handler) SubmitSurvey(w http.ResponseWriter, r *http.Request) {

	defer r.Body.Close()
	ctx := r.Context()
	uid := ctx.Value(api.UidKey).(string)
	resParams := &api.ResParams{W: w, R: r}

	var reqData struct {
		Answers map[string]string `json:"answers" validate:"required,min=1,max=50"`
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

	doc := &schemas.SurveyResponse{
		Uid:     uid,
		Answers: reqData.Answers,
		Ctime:   time.Now().UTC(),
	}
	if _, err := h.MongoDB.Collection("surveys").InsertOne(ctx, doc); err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	if err := notify.Enqueue(ctx, h.RedisCli, &notify.Job{
		Kind: notify.KindSurvey,
		Data: map[string]string{"uid": uid, "count": fmt.Sprintf("%d", len(reqData.Answers))},
	}); err != nil {
		h.Logger.Warn("survey notification enqueue failed", zap.Error(err))
	}

	resParams.ResData = &struct {
		Success bool `json:"success"`
	}{Success: true}
	resParams.Code = http.StatusOK
	h.Res(resParams)

}
