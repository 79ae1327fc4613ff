package redeempasswordreset

import (
	"errors"
	"net/http"
	e "userkit/internal/core/domain/errors"
	"userkit/internal/core/domain/user"
	"userkit/internal/core/services"
	service "userkit/internal/core/services/redeem_password_reset"
	"userkit/internal/http/handlers/response"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service services.Service[service.Input, service.Result]
}

func New(s services.Service[service.Input, service.Result]) *Handler {
	if s == nil {
		panic(e.NewNilArgumentError("s"))
	}
	return &Handler{service: s}
}

type resultResponse struct {
	Identifier string `json:"identifier"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	result, err := h.service.Run(
		r.Context(),
		service.Input{
			Identifier: user.Identifier(chi.URLParam(r, "userIdentifier")),
			Secret:     user.ResetSecret(chi.URLParam(r, "secretCode")),
		},
	)
	if errors.Is(err, user.ErrInvalidResetSecret) {
		// 404 is the JSON stand-in for the original's unbound form. One
		// status for both mismatch cases, so the response never tells
		// whether the identifier or the secret was wrong.
		response.RenderError(rw, "invalid password reset link", http.StatusNotFound)
		return
	}
	if err != nil {
		response.RenderInternalError(rw)
		return
	}

	response.Render(rw, resultResponse{Identifier: string(result.User.Identifier)}, http.StatusOK)
}
