package login

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"userkit/internal/core/domain/ratelimiter"
	"userkit/internal/core/domain/user"
	login "userkit/internal/core/services/log_in"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	err   error
	token user.SessionToken
	input *login.Input
}

func (s *stubService) Run(
	ctx context.Context,
	input login.Input,
) (result login.Result, err error) {
	s.input = &input
	if s.err != nil {
		return result, s.err
	}
	return login.Result{Token: s.token}, nil
}

func TestLogInSuccess(t *testing.T) {
	service := &stubService{token: "test-session-token"}
	handler := New(service)

	req := httptest.NewRequest(
		http.MethodPost,
		"/auth/login",
		strings.NewReader(`{"identifier": "alice", "password": "known-password"}`),
	)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, service.input)
	assert.Equal(t, user.Identifier("alice"), service.input.Identifier)
	assert.Equal(t, user.RawPassword("known-password"), service.input.Password)

	body := map[string]string{}
	require.Nil(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "test-session-token", body["token"])
}

func TestLogInErrors(t *testing.T) {
	cases := []struct {
		id             string
		err            error
		expectedStatus int
	}{
		{id: "invalid credentials", err: user.ErrInvalidCredentials, expectedStatus: http.StatusUnauthorized},
		{id: "account disabled", err: user.ErrAccountDisabled, expectedStatus: http.StatusForbidden},
		{id: "rate limit exceeded", err: ratelimiter.ErrRateLimitExceeded, expectedStatus: http.StatusTooManyRequests},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			handler := New(&stubService{err: testcase.err})

			req := httptest.NewRequest(
				http.MethodPost,
				"/auth/login",
				strings.NewReader(`{"identifier": "alice", "password": "known-password"}`),
			)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, testcase.expectedStatus, rec.Code)
		})
	}
}

func TestLogInInvalidRequestData(t *testing.T) {
	cases := []struct {
		id   string
		body string
	}{
		{id: "not json", body: `not a json`},
		{id: "missing password", body: `{"identifier": "alice"}`},
		{id: "missing identifier", body: `{"password": "known-password"}`},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			service := &stubService{}
			handler := New(service)

			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(testcase.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, service.input)
		})
	}
}
