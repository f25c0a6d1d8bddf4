package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"htmlsanitize.dev/internal/assetcache"
	"htmlsanitize.dev/internal/cdn"
	"htmlsanitize.dev/internal/query"
	"htmlsanitize.dev/internal/sanitize"
	"htmlsanitize.dev/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeEntities struct{}

func (fakeEntities) GetBotLongDescription(_ context.Context, id string) (store.LongDescription, error) {
	if id == "bot1" {
		return store.LongDescription{Long: "Hello {name}", ExtraLinks: []byte(`[{"name":"name","value":"world"}]`)}, nil
	}
	return store.LongDescription{}, pgx.ErrNoRows
}

func (fakeEntities) GetServerLongDescription(context.Context, string) (store.LongDescription, error) {
	return store.LongDescription{}, pgx.ErrNoRows
}

func (fakeEntities) GetBlogContent(context.Context, string) (string, error) {
	return "", errors.New("connection reset")
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

type panicExecutor struct{}

func (panicExecutor) Execute(context.Context, query.Query) (string, error) {
	panic("boom")
}

func testApp(t *testing.T) *App {
	t.Helper()
	assets := cdn.New(fstest.MapFS{
		"dev/changelogs.md": &fstest.MapFile{Data: []byte("# Changes")},
	}, cdn.DefaultRegistry)
	d := query.NewDispatcher(fakeEntities{}, assets, assetcache.New(time.Minute, 0), sanitize.New(sanitize.DefaultPolicy()))
	return &App{
		Queries: d,
		Assets:  assets.Names(),
		DB:      fakePinger{},
		Log:     discardLogger(),
	}
}

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestQuerySuccess(t *testing.T) {
	h := testApp(t).Routes()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"raw", `{"SanitizeRaw": {"body": "# Title\n<script>alert(1)</script>"}}`, "<h1>Title</h1>"},
		{"template", `{"SanitizeTemplate": {"body": "Hi {x}", "extra_links": [{"name": "x", "value": "there"}]}}`, "Hi there"},
		{"bot", `{"BotLongDescription": {"bot_id": "bot1"}}`, "Hello world"},
		{"cdn", `{"SanitizeCDN": {"name": "changelogs"}}`, "<h1>Changes</h1>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(h, tt.body)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
			assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
			assert.Contains(t, w.Body.String(), tt.want)
			assert.NotContains(t, w.Body.String(), "<script>")
		})
	}
}

func TestQueryErrors(t *testing.T) {
	h := testApp(t).Routes()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed json", `{"SanitizeRaw": `, "invalid query"},
		{"unknown variant", `{"Nope": {}}`, "unknown variant"},
		{"bot not found", `{"BotLongDescription": {"bot_id": "does-not-exist"}}`, "not found"},
		{"server not found", `{"ServerLongDescription": {"server_id": "x"}}`, "not found"},
		{"upstream", `{"BlogPost": {"slug": "x"}}`, "connection reset"},
		{"unregistered asset", `{"SanitizeCDN": {"name": "secrets"}}`, "asset not registered"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(h, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
			assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))
			assert.Contains(t, w.Body.String(), tt.want)
		})
	}
}

func TestQueryBodyTooLarge(t *testing.T) {
	a := testApp(t)
	a.MaxBodyBytes = 16
	w := post(a.Routes(), `{"SanitizeRaw": {"body": "this body is far too long"}}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestQueryMethodNotAllowed(t *testing.T) {
	h := testApp(t).Routes()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestPanicRecovered(t *testing.T) {
	a := testApp(t)
	a.Queries = panicExecutor{}

	w := post(a.Routes(), `{"SanitizeRaw": {"body": "x"}}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestCORS(t *testing.T) {
	h := testApp(t).Routes()

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-Client")

	w = post(h, `{"SanitizeRaw": {"body": "x"}}`)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestDocs(t *testing.T) {
	h := testApp(t).Routes()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/docs", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var doc docsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "POST /", doc.Endpoint)
	assert.Len(t, doc.Variants, len(query.Describe()))
	assert.Equal(t, []string{"changelogs"}, doc.Assets)
}

func TestHealth(t *testing.T) {
	a := testApp(t)

	w := httptest.NewRecorder()
	a.Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())

	a.DB = fakePinger{err: errors.New("down")}
	w = httptest.NewRecorder()
	a.Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRequestLogRecordsStatus(t *testing.T) {
	a := testApp(t)
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	w := httptest.NewRecorder()
	a.requestLog(inner).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}
