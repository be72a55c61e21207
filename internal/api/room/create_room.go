package room

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"
	"toonstalkapi/internal/api"
	"toonstalkapi/pkg/config"
	"toonstalkapi/pkg/schemas"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {

	defer r.Body.Close()
	ctx := r.Context()
	uid := ctx.Value(api.UidKey).(string)
	resParams := &api.ResParams{W: w, R: r}

	var reqData struct {
		Name string `json:"name" validate:"required,min=1,max=64"`
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

	var user schemas.User
	if err := h.MongoDB.Collection("users").FindOne(ctx, bson.M{"userId": uid}).Decode(&user); err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	// guests cannot own rooms; the stale sweep depends on that
	if user.IsAnonymous {
		resParams.Code = http.StatusForbidden
		resParams.Err = errors.New("anonymous accounts cannot create rooms")
		h.Res(resParams)
		return
	}

	// base allowance plus purchased slots
	limit := int64(config.BASE_ROOM_LIMIT) + user.RoomSlots
	if int64(len(user.OwnedRooms)) >= limit {
		resParams.ResData = &struct {
			RoomLimitExceeded bool `json:"roomLimitExceeded"`
		}{RoomLimitExceeded: true}
		resParams.Code = http.StatusBadRequest
		h.Res(resParams)
		return
	}

	now := time.Now().UTC()
	newRoom := &schemas.Room{
		RoomId:  uuid.New().String(),
		Name:    reqData.Name,
		OwnerId: uid,
		Ctime:   now,
		Members: map[string]bool{uid: true},
	}
	if _, err := h.MongoDB.Collection("rooms").InsertOne(ctx, newRoom); err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	if _, err := h.MongoDB.Collection("users").UpdateOne(ctx, bson.M{
		"userId": uid,
	}, bson.M{
		"$addToSet": bson.M{"ownedRooms": newRoom.RoomId},
		"$set":      bson.M{"rooms." + newRoom.RoomId: true},
	}); err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	resParams.ResData = &struct {
		RoomId string `json:"roomId"`
	}{RoomId: newRoom.RoomId}
	resParams.Code = http.StatusOK
	h.Res(resParams)

}
