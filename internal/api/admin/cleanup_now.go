package admin

import (
	"net/http"
	"toonstalkapi/internal/api"
	"toonstalkapi/internal/sweep"
)

// CleanupNow runs the scheduled sweep on demand. Same bearer + admin
// gate as everything else here — this endpoint deletes accounts.
func (h *Handler) CleanupNow(w http.ResponseWriter, r *http.Request) {

	ctx := r.Context()
	resParams := &api.ResParams{W: w, R: r}

	reaped, err := sweep.ReapDisconnected(ctx, h.Logger, h.MongoDB, h.RedisCli)
	if err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	counters, err := sweep.Run(ctx, h.Logger, h.MongoDB, h.RedisCli)
	if err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	resParams.ResData = &struct {
		Success  bool            `json:"success"`
		Reaped   int             `json:"reaped"`
		Counters *sweep.Counters `json:"counters"`
	}{Success: true, Reaped: reaped, Counters: counters}
	resParams.Code = http.StatusOK
	h.Res(resParams)

}
