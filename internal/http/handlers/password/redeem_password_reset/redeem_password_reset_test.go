package redeempasswordreset

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"userkit/internal/core/domain/user"
	redeempasswordreset "userkit/internal/core/services/redeem_password_reset"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	err   error
	input *redeempasswordreset.Input
}

func (s *stubService) Run(
	ctx context.Context,
	input redeempasswordreset.Input,
) (result redeempasswordreset.Result, err error) {
	s.input = &input
	if s.err != nil {
		return result, s.err
	}
	return redeempasswordreset.Result{User: user.User{Identifier: input.Identifier}}, nil
}

func newTestRouter(service *stubService) *chi.Mux {
	router := chi.NewRouter()
	router.Method(
		http.MethodGet,
		"/password/reset/{userIdentifier}/{secretCode}",
		New(service),
	)
	return router
}

func TestRedeemSuccess(t *testing.T) {
	service := &stubService{}
	router := newTestRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/password/reset/alice/test-secret", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, service.input)
	assert.Equal(t, user.Identifier("alice"), service.input.Identifier)
	assert.Equal(t, user.ResetSecret("test-secret"), service.input.Secret)

	body := map[string]string{}
	require.Nil(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "alice", body["identifier"])
}

func TestRedeemInvalidLinkRendersNotFound(t *testing.T) {
	cases := []struct {
		id  string
		url string
	}{
		{id: "unknown identifier", url: "/password/reset/nobody/test-secret"},
		{id: "wrong secret", url: "/password/reset/alice/wrong-secret"},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			service := &stubService{err: user.ErrInvalidResetSecret}
			router := newTestRouter(service)

			req := httptest.NewRequest(http.MethodGet, testcase.url, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			// The same status and body for both mismatch cases.
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.JSONEq(t, `{"error": "invalid password reset link"}`, rec.Body.String())
		})
	}
}
