package user

import (
	"errors"
	"net/http"
	"toonstalkapi/internal/api"
	"toonstalkapi/pkg/identity"
	"toonstalkapi/pkg/schemas"
	"toonstalkapi/pkg/utils"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func (h *Handler) GetUserData(w http.ResponseWriter, r *http.Request) {

	resParams := &api.ResParams{W: w, R: r}
	ctx := r.Context()

	authToken, err := utils.ValidateAuthToken(r)
	if err != nil {
		resParams.Err = err
		resParams.Code = http.StatusUnauthorized
		h.Res(resParams)
		return
	}

	// a deleted account's tokens stay signed; never refresh one
	revoked, err := identity.IsRevoked(ctx, h.RedisCli, authToken.Uid)
	if err != nil {
		resParams.Err = err
		resParams.Code = http.StatusInternalServerError
		h.Res(resParams)
		return
	}
	if revoked {
		resParams.Err = errors.New("identity revoked")
		resParams.Code = http.StatusUnauthorized
		h.Res(resParams)
		return
	}

	// refresh token if expiring soon
	authToken.Refresh()
	token, err := authToken.Sign()
	if err != nil {
		resParams.Err = err
		resParams.Code = http.StatusInternalServerError
		h.Res(resParams)
		return
	}

	// get user data
	var user schemas.User
	if err := h.MongoDB.Collection("users").FindOne(ctx, bson.M{"userId": authToken.Uid}).Decode(&user); err != nil {
		resParams.Err = err
		resParams.Code = http.StatusInternalServerError
		h.Res(resParams)
		return
	}

	resParams.ResData = &struct {
		Token           string   `json:"token"`
		UserId          string   `json:"userId"`
		Nickname        string   `json:"nickname"`
		Avatar          string   `json:"avatar,omitempty"`
		Level           int      `json:"level"`
		IsAnonymous     bool     `json:"isAnonymous"`
		Tier            string   `json:"tier"`
		RoomSlots       int64    `json:"roomSlots"`
		OwnedRooms      []string `json:"ownedRooms"`
		TotalOnlineTime int64    `json:"totalOnlineTime"`
		DeletionStatus  string   `json:"deletionStatus,omitempty"`
	}{
		Token:           token,
		UserId:          user.UserId,
		Nickname:        user.Nickname,
		Avatar:          user.Avatar,
		Level:           user.Level,
		IsAnonymous:     user.IsAnonymous,
		Tier:            user.Tier(),
		RoomSlots:       user.RoomSlots,
		OwnedRooms:      user.OwnedRooms,
		TotalOnlineTime: user.TotalOnlineTime,
		DeletionStatus:  user.DeletionStatus,
	}
	resParams.Code = http.StatusOK
	h.Res(resParams)

}
