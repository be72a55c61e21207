package account

import (
	"net/http"
	"time"
	"toonstalkapi/internal/api"
	"toonstalkapi/pkg/presence"
	"toonstalkapi/pkg/schemas"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

// Heartbeat keeps the liveness key warm. The first beat of a session
// flips the record online and stamps the session start.
func (h *Handler) Heartbeat(w http.ResponseWriter, r *http.Request) {

	ctx := r.Context()
	uid := ctx.Value(api.UidKey).(string)
	resParams := &api.ResParams{W: w, R: r}

	started, err := presence.Heartbeat(ctx, h.RedisCli, uid)
	if err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	if started {
		now := time.Now().UTC()
		if _, err := h.MongoDB.Collection("users").UpdateOne(ctx, bson.M{
			"userId": uid,
		}, bson.M{
			"$set": bson.M{
				"onlineState":         true,
				"status":              "online",
				"currentSessionStart": now,
			},
		}); err != nil {
			resParams.Code = http.StatusInternalServerError
			resParams.Err = err
			h.Res(resParams)
			return
		}
	}

	resParams.ResData = &struct {
		Success bool `json:"success"`
	}{Success: true}
	resParams.Code = http.StatusOK
	h.Res(resParams)

}

// GoOffline is the polite disconnect: close out the session, add its
// length to the lifetime counter, and release the pending disconnect
// obligation so the reaper has nothing left to do.
func (h *Handler) GoOffline(w http.ResponseWriter, r *http.Request) {

	ctx := r.Context()
	uid := ctx.Value(api.UidKey).(string)
	resParams := &api.ResParams{W: w, R: r}

	var user schemas.User
	if err := h.MongoDB.Collection("users").FindOne(ctx, bson.M{"userId": uid}).Decode(&user); err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"onlineState": false,
			"status":      "offline",
			"lastOnline":  now,
		},
		"$unset": bson.M{"currentSessionStart": ""},
	}

	if user.CurrentSessionStart != nil {
		if secs, ok := presence.SessionSeconds(*user.CurrentSessionStart, now); ok {
			update["$inc"] = bson.M{"totalOnlineTime": secs}
		}
	}

	if _, err := h.MongoDB.Collection("users").UpdateOne(ctx, bson.M{"userId": uid}, update); err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	if err := presence.ClearPending(ctx, h.RedisCli, uid); err != nil {
		h.Logger.Warn("failed to clear pending offline marker", zap.String("uid", uid), zap.Error(err))
	}

	resParams.ResData = &struct {
		Success bool `json:"success"`
	}{Success: true}
	resParams.Code = http.StatusOK
	h.Res(resParams)

}
