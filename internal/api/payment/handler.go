package payment

import "toonstalkapi/internal/api"

type Handler struct {
	*api.Handler
}
