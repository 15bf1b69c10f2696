package router

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-subscriber-go/internal/subscriber"
	"github.com/ovaphlow/pitchfork/service-subscriber-go/internal/subscriber/entity"
	"github.com/ovaphlow/pitchfork/service-subscriber-go/internal/subscriber/repo"
)

type downRepo struct{}

func (downRepo) Create(context.Context, *entity.Subscriber) (int64, error) {
	return 0, repo.ErrUnavailable
}
func (downRepo) Update(context.Context, *entity.Subscriber) (int64, error) {
	return 0, repo.ErrConflict
}
func (downRepo) Delete(context.Context, int64) (int64, error) { return 0, fmt.Errorf("disk on fire") }
func (downRepo) List(context.Context) ([]entity.Subscriber, error) {
	return nil, repo.ErrUnavailable
}
func (downRepo) Ping(context.Context) error { return repo.ErrUnavailable }

func newServer(t *testing.T, r subscriber.Repository) *httptest.Server {
	t.Helper()
	svc := subscriber.NewService(r, zap.NewNop().Sugar())
	srv := httptest.NewServer(RegisterRoutes(zap.NewNop().Sugar(), svc))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) (int, string) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func listAll(t *testing.T, base string) []map[string]any {
	t.Helper()
	status, body := do(t, http.MethodGet, base+"/all", "")
	require.Equal(t, http.StatusOK, status)
	var out []map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	return out
}

func TestRoutes_Scenario(t *testing.T) {
	srv := newServer(t, repo.NewMemoryRepo())

	assert.Empty(t, listAll(t, srv.URL))

	status, body := do(t, http.MethodPost, srv.URL+"/subscribe",
		`{"email":"a@b.com","surname":"Jane","lastname":"Doe","address":"Main St 1","city":"Utrecht","postalCode":"1234 AB","phoneNumber":"+31612345678"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body)

	rows := listAll(t, srv.URL)
	require.Len(t, rows, 1)
	assert.Equal(t, map[string]any{
		"id": float64(1), "email": "a@b.com", "surname": "Jane", "lastname": "Doe",
		"address": "Main St 1", "city": "Utrecht", "postalCode": "1234 AB", "phoneNumber": "+31612345678",
	}, rows[0])

	status, body = do(t, http.MethodPut, srv.URL+"/update", `{"id":1,"email":"new@b.com"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body)

	rows = listAll(t, srv.URL)
	require.Len(t, rows, 1)
	assert.Equal(t, "new@b.com", rows[0]["email"])
	assert.Equal(t, "", rows[0]["surname"])

	for i := 0; i < 2; i++ {
		status, body = do(t, http.MethodDelete, srv.URL+"/delete?id=1", "")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "ok", body)
		assert.Empty(t, listAll(t, srv.URL))
	}
}

func TestRoutes_CreateIgnoresID(t *testing.T) {
	srv := newServer(t, repo.NewMemoryRepo())

	status, _ := do(t, http.MethodPost, srv.URL+"/subscribe", `{"id":77,"email":"a@b.com"}`)
	require.Equal(t, http.StatusOK, status)

	rows := listAll(t, srv.URL)
	require.Len(t, rows, 1)
	assert.Equal(t, float64(1), rows[0]["id"])
}

func TestRoutes_MethodSemantics(t *testing.T) {
	srv := newServer(t, repo.NewMemoryRepo())

	tests := []struct {
		method, path string
	}{
		{http.MethodGet, "/subscribe"},
		{http.MethodPost, "/update"},
		{http.MethodGet, "/delete?id=1"},
		{http.MethodPost, "/all"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			status, _ := do(t, tt.method, srv.URL+tt.path, "")
			assert.Equal(t, http.StatusMethodNotAllowed, status)
		})
	}
}

func TestRoutes_DecodingFailures(t *testing.T) {
	srv := newServer(t, repo.NewMemoryRepo())

	status, _ := do(t, http.MethodPost, srv.URL+"/subscribe", `{not json`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, http.MethodPut, srv.URL+"/update", `[]`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, http.MethodDelete, srv.URL+"/delete?id=abc", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, http.MethodDelete, srv.URL+"/delete", "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRoutes_StoreFailures(t *testing.T) {
	srv := newServer(t, downRepo{})

	status, body := do(t, http.MethodPost, srv.URL+"/subscribe", `{"email":"a@b.com"}`)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, http.StatusText(http.StatusServiceUnavailable), body)

	status, _ = do(t, http.MethodPut, srv.URL+"/update", `{"id":1}`)
	assert.Equal(t, http.StatusConflict, status)

	status, _ = do(t, http.MethodDelete, srv.URL+"/delete?id=1", "")
	assert.Equal(t, http.StatusInternalServerError, status)

	status, _ = do(t, http.MethodGet, srv.URL+"/all", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)

	status, _ = do(t, http.MethodGet, srv.URL+"/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestRoutes_CORSPreflight(t *testing.T) {
	srv := newServer(t, repo.NewMemoryRepo())

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/update", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:8080")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type, X-Anything")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Less(t, resp.StatusCode, 300)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPut)
}

func TestRoutes_CORSSimpleRequest(t *testing.T) {
	srv := newServer(t, repo.NewMemoryRepo())

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/all", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://example.test")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRoutes_HeadersAndRequestID(t *testing.T) {
	srv := newServer(t, repo.NewMemoryRepo())

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(requestIDHeader))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set(requestIDHeader, "abc123")
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, "abc123", resp2.Header.Get(requestIDHeader))
}

func TestRoutes_Metrics(t *testing.T) {
	srv := newServer(t, repo.NewMemoryRepo())

	do(t, http.MethodGet, srv.URL+"/all", "")
	status, body := do(t, http.MethodGet, srv.URL+"/metrics", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "pitchfork_http_requests_total")
	assert.Contains(t, body, `path="GET /all"`)
}
