package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordedRequest struct {
	route, method string
	status        int
}

type fakeObserver struct {
	mu   sync.Mutex
	seen []recordedRequest
}

func (f *fakeObserver) ObserveHTTP(route, method string, status int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, recordedRequest{route: route, method: method, status: status})
}

func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
	assert.Len(t, seen, 36)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(RequestIDHeader, "trace-123")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "trace-123", seen)
	assert.Equal(t, "trace-123", w.Header().Get(RequestIDHeader))
}

func TestGetRequestID_Missing(t *testing.T) {
	assert.Empty(t, GetRequestID(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}

func TestAccessLog_RecordsRouteAndStatus(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	obs := &fakeObserver{}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/teams/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	h := RequestID(AccessLog(zap.New(core), obs)(mux))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/teams/42", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Len(t, obs.seen, 2)
	assert.Equal(t, recordedRequest{route: "GET /api/teams/{id}", method: "GET", status: http.StatusTeapot}, obs.seen[0])
	assert.Equal(t, recordedRequest{route: "GET /api/health", method: "GET", status: http.StatusOK}, obs.seen[1])

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "request rejected", entries[0].Message)
	assert.Equal(t, "request served", entries[1].Message)
	assert.NotEmpty(t, entries[1].ContextMap()["request_id"])
	assert.Equal(t, "/api/teams/42", entries[0].ContextMap()["path"])
}

func TestAccessLog_UnmatchedRoute(t *testing.T) {
	obs := &fakeObserver{}
	h := AccessLog(nil, obs)(http.NewServeMux())
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.Len(t, obs.seen, 1)
	assert.Equal(t, "unmatched", obs.seen[0].route)
	assert.Equal(t, http.StatusNotFound, obs.seen[0].status)
}

func TestAccessLog_PreservesFlusher(t *testing.T) {
	h := AccessLog(zap.NewNop(), nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, ok := w.(http.Flusher)
		assert.True(t, ok)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestCORS(t *testing.T) {
	called := false
	h := CORS("https://squad.example")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/build-squad", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.False(t, called, "preflight stops at the middleware")
	assert.Equal(t, "https://squad.example", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/build-squad", nil))
	assert.True(t, called)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")

	w = httptest.NewRecorder()
	CORS("")(http.NotFoundHandler()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
