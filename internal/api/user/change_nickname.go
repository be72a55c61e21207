package user

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"
	"toonstalkapi/internal/api"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func (h *Handler) ChangeNickname(w http.ResponseWriter, r *http.Request) {

	defer r.Body.Close()
	ctx := r.Context()
	uid := ctx.Value(api.UidKey).(string)
	resParams := &api.ResParams{W: w, R: r}

	var reqData struct {
		NewNickname string `json:"newNickname" validate:"required,nickname"`
	}

	// validate request body
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&reqData); err != nil {
		resParams.Code = http.StatusBadRequest
		resParams.Err = err
		h.Res(resParams)
		return
	}
	resParams.ReqData = reqData

	// normalize
	reqData.NewNickname = strings.TrimSpace(reqData.NewNickname)

	if err := h.Validate.Struct(&reqData); err != nil {
		resParams.Code = http.StatusBadRequest
		resParams.Err = err
		h.Res(resParams)
		return
	}

	// only allow change every 14 days
	cutoff := time.Now().UTC().Add(-14 * 24 * time.Hour)
	res, err := h.MongoDB.Collection("users").UpdateOne(ctx,
		bson.M{
			"userId": uid,
			"$or": []bson.M{
				{"nicknameChangedAt": bson.M{"$lt": cutoff}},
				{"nicknameChangedAt": bson.M{"$exists": false}},
			},
		},
		bson.M{
			"$set":         bson.M{"nickname": reqData.NewNickname},
			"$currentDate": bson.M{"nicknameChangedAt": true},
		},
	)
	if err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}
	if res.MatchedCount == 0 {
		resParams.ResData = &struct {
			ChangedTooRecently bool `json:"changedTooRecently"`
		}{ChangedTooRecently: true}
		resParams.Code = http.StatusConflict
		h.Res(resParams)
		return
	}

	resParams.ResData = &struct {
		Success bool `json:"success"`
	}{Success: true}
	resParams.Code = http.StatusOK
	h.Res(resParams)

}
