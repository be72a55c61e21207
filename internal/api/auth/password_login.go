package auth

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
	"golang.org/x/crypto/bcrypt"
)

func (h *Handler) PasswordLogin(w http.ResponseWriter, r *http.Request) {

	defer r.Body.Close()
	ctx := r.Context()
	resParams := &api.ResParams{W: w, R: r}

	var reqData struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
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
	password := reqData.Password
	reqData.Password = ""
	resParams.ReqData = reqData

	var acct schemas.AuthAccount
	err := h.MongoDB.Collection("authAccounts").FindOne(ctx, bson.M{
		"email": reqData.Email,
	}).Decode(&acct)
	if errors.Is(err, mongo.ErrNoDocuments) {
		resParams.Code = http.StatusUnauthorized
		resParams.Err = errors.New("invalid credentials")
		h.Res(resParams)
		return
	}
	if err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	if acct.PassHash == "" || bcrypt.CompareHashAndPassword([]byte(acct.PassHash), []byte(password)) != nil {
		resParams.Code = http.StatusUnauthorized
		resParams.Err = errors.New("invalid credentials")
		h.Res(resParams)
		return
	}

	now := time.Now().UTC()
	if _, err := h.MongoDB.Collection("authAccounts").UpdateOne(ctx, bson.M{
		"uid": acct.Uid,
	}, bson.M{
		"$set": bson.M{"lastSignInAt": now},
	}); err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	uid, err := bson.ObjectIDFromHex(acct.Uid)
	if err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}
	token, err := utils.CreateNewAuthToken(uid).Sign()
	if err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	resParams.ResData = &struct {
		Token  string `json:"token"`
		UserId string `json:"userId"`
	}{Token: token, UserId: acct.Uid}
	resParams.Code = http.StatusOK
	h.Res(resParams)

}
