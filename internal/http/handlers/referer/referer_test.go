package referer

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"userkit/internal/core/domain/logging"
	dreferer "userkit/internal/core/domain/referer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const CHANGE_PASSWORD_URL = "https://example.com/password/change"

func newMiddleware() (*Middleware, *dreferer.FakeStore, *dreferer.Guard) {
	store := dreferer.NewFakeStore()
	guard := dreferer.NewGuard(store, []string{CHANGE_PASSWORD_URL})
	return NewMiddleware(logging.NewFakeLogger(), guard), store, guard
}

func TestSetsFlowCookieAndCapturesReferer(t *testing.T) {
	middleware, store, _ := newMiddleware()

	var flowKey string
	handler := middleware.CaptureReferer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flowKey, _ = r.Context().Value(CONTEXT_FLOW_KEY).(string)
	}))

	req := httptest.NewRequest(http.MethodPost, "/password/change", nil)
	req.Header.Set("Referer", "https://example.com/account")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.NotEmpty(t, flowKey)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, FLOW_COOKIE_NAME, cookies[0].Name)
	assert.Equal(t, flowKey, cookies[0].Value)

	assert.Equal(t, "https://example.com/account", store.Values[flowKey])
}

func TestReusesFlowCookieAndKeepsFirstReferer(t *testing.T) {
	middleware, store, _ := newMiddleware()

	handler := middleware.CaptureReferer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodPost, "/password/change", nil)
	req.AddCookie(&http.Cookie{Name: FLOW_COOKIE_NAME, Value: "flow-1"})
	req.Header.Set("Referer", "https://example.com/account")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodPost, "/password/change", nil)
	req.AddCookie(&http.Cookie{Name: FLOW_COOKIE_NAME, Value: "flow-1"})
	req.Header.Set("Referer", "https://example.com/somewhere-else")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Empty(t, rec.Result().Cookies())
	assert.Equal(t, "https://example.com/account", store.Values["flow-1"])
}

func TestFlowEntryRefererIsNotStored(t *testing.T) {
	middleware, store, _ := newMiddleware()

	handler := middleware.CaptureReferer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodPost, "/password/change", nil)
	req.AddCookie(&http.Cookie{Name: FLOW_COOKIE_NAME, Value: "flow-1"})
	req.Header.Set("Referer", CHANGE_PASSWORD_URL)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, dreferer.DefaultTarget, store.Values["flow-1"])
}

func TestConsumeTarget(t *testing.T) {
	middleware, _, guard := newMiddleware()

	var first, second string
	handler := middleware.CaptureReferer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		first = ConsumeTarget(r.Context(), guard)
		second = ConsumeTarget(r.Context(), guard)
	}))

	req := httptest.NewRequest(http.MethodPost, "/password/change", nil)
	req.AddCookie(&http.Cookie{Name: FLOW_COOKIE_NAME, Value: "flow-1"})
	req.Header.Set("Referer", "https://example.com/account")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "https://example.com/account", first)
	assert.Equal(t, dreferer.DefaultTarget, second)
}

func TestConsumeTargetWithoutFlowKey(t *testing.T) {
	_, _, guard := newMiddleware()

	req := httptest.NewRequest(http.MethodPost, "/password/change", nil)
	assert.Equal(t, dreferer.DefaultTarget, ConsumeTarget(req.Context(), guard))
}
