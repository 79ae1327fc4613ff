package login

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	e "userkit/internal/core/domain/errors"
	"userkit/internal/core/domain/ratelimiter"
	"userkit/internal/core/domain/user"
	"userkit/internal/core/services"
	login "userkit/internal/core/services/log_in"
	"userkit/internal/http/handlers/response"

	validation "github.com/go-ozzo/ozzo-validation"
)

type Handler struct {
	service services.Service[login.Input, login.Result]
}

func New(service services.Service[login.Input, login.Result]) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Input struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Identifier, validation.Required, validation.Length(0, 256)),
		validation.Field(&i.Password, validation.Required, validation.Length(0, 256)),
	)
}

type resultResponse struct {
	Token string `json:"token"`
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

	result, err := h.service.Run(
		r.Context(),
		login.Input{
			Identifier: user.Identifier(input.Identifier),
			Password:   user.RawPassword(input.Password),
		},
	)
	if err != nil {
		switch {
		case errors.Is(err, ratelimiter.ErrRateLimitExceeded):
			response.RenderRateLimitExceeded(rw)
		case errors.Is(err, user.ErrInvalidCredentials):
			response.RenderError(rw, "invalid credentials", http.StatusUnauthorized)
		case errors.Is(err, user.ErrAccountDisabled):
			response.RenderError(rw, "account is disabled", http.StatusForbidden)
		default:
			response.RenderInternalError(rw)
		}
		return
	}

	response.Render(rw, resultResponse{Token: string(result.Token)}, http.StatusOK)
}
