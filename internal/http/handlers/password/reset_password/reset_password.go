package resetpassword

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	e "userkit/internal/core/domain/errors"
	dreferer "userkit/internal/core/domain/referer"
	"userkit/internal/core/domain/user"
	"userkit/internal/core/services"
	resetpassword "userkit/internal/core/services/reset_password"
	"userkit/internal/http/handlers/referer"
	"userkit/internal/http/handlers/response"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation"
)

type Handler struct {
	service services.Service[resetpassword.Input, resetpassword.Result]
	guard   *dreferer.Guard
}

func New(
	service services.Service[resetpassword.Input, resetpassword.Result],
	guard *dreferer.Guard,
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	if guard == nil {
		panic(e.NewNilArgumentError("guard"))
	}
	return &Handler{service: service, guard: guard}
}

type Input struct {
	Password string `json:"password"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Password, validation.Required, validation.Length(0, 256)),
	)
}

type resultResponse struct {
	RedirectTo string `json:"redirect_to"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	input := Input{}
	if err := input.FromJSON(r.Body); err != nil {
		response.RenderError(rw, "invalid request data", http.StatusBadRequest)
		return
	}
	if err := input.Validate(); err != nil {
		response.Render(rw, err, http.StatusBadRequest)
		return
	}

	_, err := h.service.Run(
		r.Context(),
		resetpassword.Input{
			Identifier:  user.Identifier(chi.URLParam(r, "userIdentifier")),
			Secret:      user.ResetSecret(chi.URLParam(r, "secretCode")),
			NewPassword: user.RawPassword(input.Password),
		},
	)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrInvalidResetSecret):
			response.RenderError(rw, "invalid password reset link", http.StatusUnprocessableEntity)
		case errors.Is(err, user.ErrPasswordTooShort):
			response.RenderError(rw, "password is too short", http.StatusUnprocessableEntity)
		default:
			response.RenderInternalError(rw)
		}
		return
	}

	redirectTo := referer.ConsumeTarget(r.Context(), h.guard)
	response.Render(rw, resultResponse{RedirectTo: redirectTo}, http.StatusOK)
}
