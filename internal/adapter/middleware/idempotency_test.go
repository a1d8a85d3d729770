package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"syndicated-loan-service/internal/observability"
	"syndicated-loan-service/pkg/id"
)

const route = "/drawdowns"

func setupEcho(rdb redis.Cmdable, ttl time.Duration, handler echo.HandlerFunc) (*echo.Echo, *observability.Metrics) {
	m := observability.NewMetrics(prometheus.NewRegistry())
	e := echo.New()
	e.HideBanner = true
	e.Use(NewIdempotency(rdb, ttl, m, zerolog.Nop()).Middleware())
	e.POST(route, handler)
	e.GET(route, handler)
	return e, m
}

func doReq(t *testing.T, e *echo.Echo, method string, body io.Reader, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, route, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func validHeaders() map[string]string {
	return map[string]string{
		HeaderRequestID: id.NewID32(),
		HeaderRequestAt: time.Now().UTC().Format(time.RFC3339),
		HeaderClientID:  "agent-bank-1",
	}
}

func okCreatedHandler(c echo.Context) error {
	return c.JSON(http.StatusCreated, map[string]any{"ok": true})
}

func Test_BypassOnGET_NoHeadersRequired(t *testing.T) {
	_, rdb := newMiniRedis(t)
	e, _ := setupEcho(rdb, 30*time.Second, func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "get ok"})
	})
	if rec := doReq(t, e, http.MethodGet, nil, nil); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func Test_ValidationFailures(t *testing.T) {
	_, rdb := newMiniRedis(t)
	e, _ := setupEcho(rdb, 30*time.Second, okCreatedHandler)

	tests := []struct {
		name   string
		mutate func(h map[string]string)
	}{
		{"missing request id", func(h map[string]string) { delete(h, HeaderRequestID) }},
		{"invalid request id", func(h map[string]string) { h[HeaderRequestID] = "NOT-VALID" }},
		{"uppercase request id", func(h map[string]string) { h[HeaderRequestID] = "3F9A6A1B-3D54-4FBE-8B3A-6B3E8D6B2C88" }},
		{"bad request-at", func(h map[string]string) { h[HeaderRequestAt] = "not-a-time" }},
		{"skewed request-at", func(h map[string]string) {
			h[HeaderRequestAt] = time.Now().UTC().Add(-maxClockSkew - time.Minute).Format(time.RFC3339)
		}},
		{"missing client id", func(h map[string]string) { delete(h, HeaderClientID) }},
		{"invalid client id", func(h map[string]string) { h[HeaderClientID] = "no spaces allowed" }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			h := validHeaders()
			tt.mutate(h)
			rec := doReq(t, e, http.MethodPost, bytes.NewReader([]byte(`{"x":1}`)), h)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("want 400, got %d (%s)", rec.Code, rec.Body.String())
			}
		})
	}
}

func Test_HappyPath_Then_Replay(t *testing.T) {
	_, rdb := newMiniRedis(t)
	var calls int32
	e, m := setupEcho(rdb, 2*time.Minute, func(c echo.Context) error {
		atomic.AddInt32(&calls, 1)
		return okCreatedHandler(c)
	})

	h := validHeaders()
	rec1 := doReq(t, e, http.MethodPost, bytes.NewReader([]byte(`{"amount":"5000000.00"}`)), h)
	if rec1.Code != http.StatusCreated {
		t.Fatalf("first request => want 201, got %d, body: %s", rec1.Code, rec1.Body.String())
	}
	rec2 := doReq(t, e, http.MethodPost, bytes.NewReader([]byte(`{"amount":"5000000.00"}`)), h)
	if rec2.Code != http.StatusCreated {
		t.Fatalf("replay => want 201, got %d, body: %s", rec2.Code, rec2.Body.String())
	}
	if rec1.Body.String() != rec2.Body.String() {
		t.Fatalf("replay body mismatch: %q vs %q", rec1.Body.String(), rec2.Body.String())
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("handler ran %d times, want 1", got)
	}
	if got := promtest.ToFloat64(m.IdempotentReplays); got != 1 {
		t.Fatalf("replay counter = %v, want 1", got)
	}
}

func Test_SameRequestID_OtherClient_IsIndependent(t *testing.T) {
	_, rdb := newMiniRedis(t)
	var calls int32
	e, _ := setupEcho(rdb, time.Minute, func(c echo.Context) error {
		atomic.AddInt32(&calls, 1)
		return okCreatedHandler(c)
	})

	h := validHeaders()
	doReq(t, e, http.MethodPost, bytes.NewReader([]byte(`{}`)), h)
	h[HeaderClientID] = "agent-bank-2"
	doReq(t, e, http.MethodPost, bytes.NewReader([]byte(`{}`)), h)
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("handler ran %d times, want 2", got)
	}
}

func Test_Conflict_When_InProgress(t *testing.T) {
	_, rdb := newMiniRedis(t)
	e, _ := setupEcho(rdb, 2*time.Minute, okCreatedHandler)

	h := validHeaders()
	body := []byte(`{"x":1}`)
	key := buildKey(http.MethodPost, route, h[HeaderClientID], h[HeaderRequestID])
	entry := idempEntry{
		InProgress:  true,
		BodySHA256:  bodyHash(body),
		RequestID:   h[HeaderRequestID],
		RequestAtMS: time.Now().UnixMilli(),
		CreatedAt:   time.Now().UTC(),
	}
	if ok, err := provisionalSet(context.Background(), rdb, key, entry); err != nil || !ok {
		t.Fatalf("seed provisional failed, ok=%v err=%v", ok, err)
	}

	if rec := doReq(t, e, http.MethodPost, bytes.NewReader(body), h); rec.Code != http.StatusConflict {
		t.Fatalf("in-progress => want 409, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func Test_Conflict_When_SameReqID_DifferentBody(t *testing.T) {
	_, rdb := newMiniRedis(t)
	e, _ := setupEcho(rdb, 2*time.Minute, okCreatedHandler)

	h := validHeaders()
	if rec := doReq(t, e, http.MethodPost, bytes.NewReader([]byte(`{"x":1}`)), h); rec.Code != http.StatusCreated {
		t.Fatalf("first => want 201, got %d", rec.Code)
	}
	if rec := doReq(t, e, http.MethodPost, bytes.NewReader([]byte(`{"x":2}`)), h); rec.Code != http.StatusConflict {
		t.Fatalf("different body same request id => want 409, got %d", rec.Code)
	}
}

func Test_ServerError_ReleasesKey(t *testing.T) {
	_, rdb := newMiniRedis(t)
	var calls int32
	e, _ := setupEcho(rdb, time.Minute, func(c echo.Context) error {
		if atomic.AddInt32(&calls, 1) == 1 {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "boom"})
		}
		return okCreatedHandler(c)
	})

	h := validHeaders()
	if rec := doReq(t, e, http.MethodPost, bytes.NewReader([]byte(`{}`)), h); rec.Code != http.StatusInternalServerError {
		t.Fatalf("first => want 500, got %d", rec.Code)
	}
	if rec := doReq(t, e, http.MethodPost, bytes.NewReader([]byte(`{}`)), h); rec.Code != http.StatusCreated {
		t.Fatalf("retry => want 201, got %d", rec.Code)
	}
}

func Test_StoreUnavailable_Returns503(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	e, _ := setupEcho(rdb, time.Minute, okCreatedHandler)

	if rec := doReq(t, e, http.MethodPost, bytes.NewReader([]byte(`{}`)), validHeaders()); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("store unavailable => want 503, got %d", rec.Code)
	}
}
