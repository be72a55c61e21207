package auth

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"
	"toonstalkapi/internal/api"
	"toonstalkapi/pkg/notify"
	"toonstalkapi/pkg/schemas"
	"toonstalkapi/pkg/utils"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {

	defer r.Body.Close()
	ctx := r.Context()
	resParams := &api.ResParams{W: w, R: r}

	var reqData struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,password"`
		Nickname string `json:"nickname" validate:"omitempty,nickname"`
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

	// normalize
	reqData.Email = strings.TrimSpace(strings.ToLower(reqData.Email))
	reqData.Password = strings.TrimSpace(reqData.Password)

	if err := h.Validate.Struct(&reqData); err != nil {
		resParams.Code = http.StatusBadRequest
		resParams.Err = err
		h.Res(resParams)
		return
	}
	password := reqData.Password
	reqData.Password = ""
	resParams.ReqData = reqData

	// hash password
	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	now := time.Now().UTC()
	id := bson.NewObjectID()
	nickname := reqData.Nickname
	if nickname == "" {
		nickname = utils.NewNickname()
	}

	acct := &schemas.AuthAccount{
		Uid:       id.Hex(),
		Email:     reqData.Email,
		PassHash:  string(passHash),
		CreatedAt: now,
	}

	// unique index by email
	if _, err := h.MongoDB.Collection("authAccounts").InsertOne(ctx, acct); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			resParams.ResData = &struct {
				EmailConflict bool `json:"emailConflict"`
			}{EmailConflict: true}
			resParams.Code = http.StatusConflict
		} else {
			resParams.Code = http.StatusInternalServerError
		}
		resParams.Err = err
		h.Res(resParams)
		return
	}

	newUser := &schemas.User{
		Id:          id,
		UserId:      id.Hex(),
		Ctime:       now,
		Nickname:    nickname,
		Level:       1,
		OnlineState: false,
		Status:      "offline",
	}
	if _, err := h.MongoDB.Collection("users").InsertOne(ctx, newUser); err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	// welcome email: registered accounts only, and only once
	if err := notify.Enqueue(ctx, h.RedisCli, &notify.Job{
		Kind: notify.KindWelcome,
		To:   reqData.Email,
		Uid:  id.Hex(),
		Data: map[string]string{"nickname": nickname},
	}); err != nil {
		h.Logger.Warn("welcome email enqueue failed", zap.String("uid", id.Hex()), zap.Error(err))
	}

	token, err := utils.CreateNewAuthToken(id).Sign()
	if err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	resParams.ResData = &struct {
		Token  string `json:"token"`
		UserId string `json:"userId"`
	}{Token: token, UserId: id.Hex()}
	resParams.Code = http.StatusOK
	h.Res(resParams)

}
