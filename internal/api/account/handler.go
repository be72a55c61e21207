package account

import "toonstalkapi/internal/api"

type Handler struct {
	*api.Handler
}
