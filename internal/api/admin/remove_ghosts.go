package admin

import (
	"net/http"
	"toonstalkapi/internal/api"
	"toonstalkapi/internal/sweep"
	"toonstalkapi/pkg/config"
)

// RemoveGhosts runs ghost classification only, with the narrow on-demand
// allowlist (see config for the two-variant situation).
func (h *Handler) RemoveGhosts(w http.ResponseWriter, r *http.Request) {

	ctx := r.Context()
	resParams := &api.ResParams{W: w, R: r}

	removed, counters, err := sweep.RemoveGhosts(ctx, h.Logger, h.MongoDB, h.RedisCli, config.GhostFieldAllowlistOnDemand)
	if err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	resParams.ResData = &struct {
		Success  bool            `json:"success"`
		Removed  []string        `json:"removed"`
		Counters *sweep.Counters `json:"counters"`
	}{Success: true, Removed: removed, Counters: counters}
	resParams.Code = http.StatusOK
	h.Res(resParams)

}
