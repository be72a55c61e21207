package auth

import "toonstalkapi/internal/api"

type Handler struct {
	*api.Handler
}
