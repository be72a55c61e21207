package auth

import (
	"net/http"
	"time"
	"toonstalkapi/internal/api"
	"toonstalkapi/pkg/schemas"
	"toonstalkapi/pkg/utils"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// GuestLogin creates an anonymous account on the spot. Guests that stay
// offline for half an hour with nothing to their name are swept away by
// the cleanup job, so no cleanup burden lands on the client.
func (h *Handler) GuestLogin(w http.ResponseWriter, r *http.Request) {

	defer r.Body.Close()
	ctx := r.Context()
	resParams := &api.ResParams{W: w, R: r}

	now := time.Now().UTC()
	id := bson.NewObjectID()

	newUser := &schemas.User{
		Id:          id,
		UserId:      id.Hex(),
		Ctime:       now,
		Nickname:    utils.NewNickname(),
		IsAnonymous: true,
		OnlineState: false,
		Status:      "offline",
		LastOnline:  &now,
	}
	if _, err := h.MongoDB.Collection("users").InsertOne(ctx, newUser); err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	// a guest auth account has no linked providers
	acct := &schemas.AuthAccount{
		Uid:       id.Hex(),
		CreatedAt: now,
	}
	if _, err := h.MongoDB.Collection("authAccounts").InsertOne(ctx, acct); err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	token, err := utils.CreateNewAuthToken(id).Sign()
	if err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	resParams.ResData = &struct {
		Token    string `json:"token"`
		UserId   string `json:"userId"`
		Nickname string `json:"nickname"`
	}{Token: token, UserId: id.Hex(), Nickname: newUser.Nickname}
	resParams.Code = http.StatusOK
	h.Res(resParams)

}
