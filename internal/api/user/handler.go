package user

import "toonstalkapi/internal/api"

type Handler struct {
	*api.Handler
}
