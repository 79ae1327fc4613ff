package referer

import (
	"context"
	"net/http"
	e "userkit/internal/core/domain/errors"
	"userkit/internal/core/domain/logging"
	"userkit/internal/core/domain/referer"

	"github.com/google/uuid"
)

const (
	FLOW_COOKIE_NAME    = "password_flow"
	FLOW_COOKIE_MAX_AGE = 3600
)

type contextFlowKey string

const CONTEXT_FLOW_KEY = contextFlowKey("passwordFlowKey")

type Middleware struct {
	log   logging.Logger
	guard *referer.Guard
}

func NewMiddleware(log logging.Logger, guard *referer.Guard) *Middleware {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if guard == nil {
		panic(e.NewNilArgumentError("guard"))
	}
	return &Middleware{log: log, guard: guard}
}

// CaptureReferer identifies the caller's password flow with a cookie and
// records where the user came from. A capture failure is logged but never
// blocks the flow itself.
func (m *Middleware) CaptureReferer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := ""
		cookie, err := r.Cookie(FLOW_COOKIE_NAME)
		if err == nil && cookie.Value != "" {
			key = cookie.Value
		} else {
			key = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     FLOW_COOKIE_NAME,
				Value:    key,
				Path:     "/",
				MaxAge:   FLOW_COOKIE_MAX_AGE,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		if err := m.guard.Capture(r.Context(), key, r.Referer()); err != nil {
			m.log.Error(r.Context(), "Could not capture referer.", logging.Entry("err", err))
		}

		ctx := context.WithValue(r.Context(), CONTEXT_FLOW_KEY, key)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ConsumeTarget returns the redirect target for the current flow and
// forgets it. Without a flow key or on a store error it falls back to the
// default target.
func ConsumeTarget(ctx context.Context, guard *referer.Guard) string {
	key, ok := ctx.Value(CONTEXT_FLOW_KEY).(string)
	if !ok {
		return referer.DefaultTarget
	}
	target, err := guard.Consume(ctx, key)
	if err != nil {
		return referer.DefaultTarget
	}
	return target
}
