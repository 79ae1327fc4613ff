package requestpasswordreset

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	e "userkit/internal/core/domain/errors"
	ratelimiter "userkit/internal/core/domain/ratelimiter"
	"userkit/internal/core/domain/user"
	"userkit/internal/core/services"
	"userkit/internal/core/services/auth"
	getuserbysessiontoken "userkit/internal/core/services/get_user_by_session_token"
	service "userkit/internal/core/services/request_password_reset"
	"userkit/internal/http/handlers/response"

	validation "github.com/go-ozzo/ozzo-validation"
)

type Handler struct {
	service           services.Service[service.Input, service.Result]
	getUserBySession  services.Service[getuserbysessiontoken.Input, getuserbysessiontoken.Result]
	changePasswordURL string
	isTestMode        bool
}

func New(
	s services.Service[service.Input, service.Result],
	getUserBySession services.Service[getuserbysessiontoken.Input, getuserbysessiontoken.Result],
	changePasswordURL string,
	isTestMode bool,
) *Handler {
	if s == nil {
		panic(e.NewNilArgumentError("s"))
	}
	if getUserBySession == nil {
		panic(e.NewNilArgumentError("getUserBySession"))
	}
	return &Handler{
		service:           s,
		getUserBySession:  getUserBySession,
		changePasswordURL: changePasswordURL,
		isTestMode:        isTestMode,
	}
}

type Input struct {
	Identifier string `json:"identifier"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Identifier, validation.Required, validation.Length(0, 512)),
	)
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	// A logged in user does not need the email round trip, the change
	// password flow is right there.
	if token, ok := r.Context().Value(auth.CONTEXT_AUTH_TOKEN_KEY).(user.SessionToken); ok {
		_, err := h.getUserBySession.Run(r.Context(), getuserbysessiontoken.Input{Token: token})
		if err == nil {
			rw.Header().Set("Location", h.changePasswordURL)
			response.Render(rw, struct{}{}, http.StatusSeeOther)
			return
		}
	}

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
		service.Input{Identifier: user.Identifier(input.Identifier)},
	)
	if err != nil {
		if errors.Is(err, ratelimiter.ErrRateLimitExceeded) {
			response.RenderRateLimitExceeded(rw)
			return
		}
		response.RenderInternalError(rw)
		return
	}

	if h.isTestMode {
		rw.Header().Set("x-test-reset-outcome", string(result.Outcome))
		if result.Secret != "" {
			rw.Header().Set("x-test-reset-secret", string(result.Secret))
		}
	}

	// Identical response for every outcome, so the caller cannot probe
	// which identifiers exist.
	response.Render(rw, struct{}{}, http.StatusOK)
}
