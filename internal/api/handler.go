package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"toonstalkapi/pkg/identity"
	"toonstalkapi/pkg/schemas"
	"toonstalkapi/pkg/utils"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/stripe/stripe-go/v82"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"
)

type ctxKey string

const UidKey ctxKey = "uid"

type Handler struct {
	Logger    *zap.Logger
	Validate  *validator.Validate
	MongoDB   *mongo.Database
	RedisCli  *redis.Client
	S3Cli     *s3.Client
	StripeCli *stripe.Client
}

type ResParams struct {
	W       http.ResponseWriter
	R       *http.Request
	Code    int
	Err     error
	ReqData any // for logs
	ResData any
}

func (h *Handler) AuthMiddleware(f http.HandlerFunc) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {
		resParams := &ResParams{W: w, R: r}
		authToken, err := utils.ValidateAuthToken(r)
		if err != nil {
			resParams.Err = err
			resParams.Code = http.StatusUnauthorized
			h.Res(resParams)
			return
		}

		// tokens issued before a deletion stay signed but must stop
		// working the moment the identity is revoked
		revoked, err := identity.IsRevoked(r.Context(), h.RedisCli, authToken.Uid)
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

		ctx := context.WithValue(r.Context(), UidKey, authToken.Uid)
		f(w, r.WithContext(ctx))
	}

}

// AdminMiddleware guards every maintenance endpoint with the same
// bearer-token + admin-flag check. No admin surface is exposed without it.
func (h *Handler) AdminMiddleware(f http.HandlerFunc) http.HandlerFunc {

	return h.AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
		resParams := &ResParams{W: w, R: r}
		uid := r.Context().Value(UidKey).(string)

		var user schemas.User
		if err := h.MongoDB.Collection("users").FindOne(r.Context(), bson.M{"userId": uid}).Decode(&user); err != nil {
			resParams.Err = err
			resParams.Code = http.StatusUnauthorized
			h.Res(resParams)
			return
		}
		if !user.IsAdmin {
			resParams.Err = errors.New("admin flag required")
			resParams.Code = http.StatusForbidden
			h.Res(resParams)
			return
		}

		f(w, r)
	})

}

func (h *Handler) Res(params *ResParams) {

	if params.Err != nil && errors.Is(params.Err, context.Canceled) {
		return
	}

	pc, file, line, ok := runtime.Caller(1)
	var caller string
	if !ok {
		caller = "unknown"
	}
	fn := runtime.FuncForPC(pc)
	caller = fmt.Sprintf("%s:%d (%s)", file, line, fn.Name())

	// handle logging
	if params.Code >= 500 {
		h.Logger.Error("Error at "+caller,
			zap.Error(params.Err),
			zap.Any("request_data", params.ReqData),
		)
	} else if params.Code >= 400 {
		h.Logger.Warn("Warning at "+caller,
			zap.Error(params.Err),
			zap.Any("request_data", params.ReqData),
		)
	}

	if params.ResData == nil && params.Code >= 400 {
		msg := "Internal server error"
		if params.Code < 500 && params.Err != nil {
			msg = params.Err.Error()
		}
		params.ResData = &struct {
			Success bool   `json:"success"`
			Error   string `json:"error,omitempty"`
		}{Success: false, Error: msg}
	}

	render.Status(params.R, params.Code)
	render.JSON(params.W, params.R, params.ResData)

}
