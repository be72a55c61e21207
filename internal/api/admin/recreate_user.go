package admin

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
	"toonstalkapi/internal/api"
	"toonstalkapi/pkg/schemas"
	"toonstalkapi/pkg/utils"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// RecreateUser rebuilds a minimal record for an identity whose profile
// write was lost (the support-ticket sibling of the ghost problem).
func (h *Handler) RecreateUser(w http.ResponseWriter, r *http.Request) {

	defer r.Body.Close()
	ctx := r.Context()
	resParams := &api.ResParams{W: w, R: r}

	var reqData struct {
		UserId        string `json:"userId" validate:"required"`
		Email         string `json:"email" validate:"required,email"`
		ForceRecreate bool   `json:"forceRecreate"`
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&reqData); err != nil {
		resParams.Code = http.StatusBadRequest
		resParams.Err = err
		h.Res(resParams)
		return
	}
	reqData.Email = strings.TrimSpace(strings.ToLower(reqData.Email))
	if err := h.Validate.Struct(&reqData); err != nil {
		resParams.Code = http.StatusBadRequest
		resParams.Err = err
		h.Res(resParams)
		return
	}
	resParams.ReqData = reqData

	var existing schemas.User
	err := h.MongoDB.Collection("users").FindOne(ctx, bson.M{"userId": reqData.UserId}).Decode(&existing)
	if err == nil && !reqData.ForceRecreate {
		resParams.Code = http.StatusConflict
		resParams.Err = errors.New("user record already exists; pass forceRecreate to overwrite")
		h.Res(resParams)
		return
	}
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	now := time.Now().UTC()
	fresh := &schemas.User{
		UserId:      reqData.UserId,
		Ctime:       now,
		Nickname:    utils.NewNickname(),
		Level:       1,
		OnlineState: false,
		Status:      "offline",
	}
	doc, err := bson.Marshal(fresh)
	if err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}
	var asMap bson.M
	if err := bson.Unmarshal(doc, &asMap); err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}
	delete(asMap, "_id")

	if _, err := h.MongoDB.Collection("users").UpdateOne(ctx, bson.M{
		"userId": reqData.UserId,
	}, bson.M{"$set": asMap}, options.UpdateOne().SetUpsert(true)); err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	// recreate the credential record too if it vanished with the user
	if _, err := h.MongoDB.Collection("authAccounts").UpdateOne(ctx, bson.M{
		"uid": reqData.UserId,
	}, bson.M{
		"$set":         bson.M{"email": reqData.Email},
		"$setOnInsert": bson.M{"createdAt": now},
	}, options.UpdateOne().SetUpsert(true)); err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	resParams.ResData = &struct {
		Success bool `json:"success"`
	}{Success: true}
	resParams.Code = http.StatusOK
	h.Res(resParams)

}
