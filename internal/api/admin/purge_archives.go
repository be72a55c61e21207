package admin

import (
	"net/http"
	"toonstalkapi/internal/api"
	"toonstalkapi/internal/sweep"
)

// PurgeArchives runs the daily retention purge on demand, avatar object
// cleanup included.
func (h *Handler) PurgeArchives(w http.ResponseWriter, r *http.Request) {

	ctx := r.Context()
	resParams := &api.ResParams{W: w, R: r}

	purged, err := sweep.PurgeExpiredArchives(ctx, h.Logger, h.MongoDB, h.S3Cli)
	if err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	resParams.ResData = &struct {
		Success bool `json:"success"`
		Purged  int  `json:"purged"`
	}{Success: true, Purged: purged}
	resParams.Code = http.StatusOK
	h.Res(resParams)

}
