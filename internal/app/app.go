package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"htmlsanitize.dev/internal/query"
)

const defaultMaxBodyBytes = 4 << 20

// Executor runs a decoded query. *query.Dispatcher implements it.
type Executor interface {
	Execute(ctx context.Context, q query.Query) (string, error)
}

// Pinger reports whether the entity store is reachable. *pgxpool.Pool
// implements it.
type Pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	Queries      Executor
	Assets       []string
	DB           Pinger
	Log          *slog.Logger
	MaxBodyBytes int64
}

func (a *App) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /{$}", a.query)
	mux.HandleFunc("GET /docs", a.docs)
	mux.HandleFunc("GET /healthz", a.health)

	return securityHeaders(a.requestLog(a.recoverPanics(cors(mux))))
}

func (a *App) query(w http.ResponseWriter, r *http.Request) {
	limit := a.MaxBodyBytes
	if limit <= 0 {
		limit = defaultMaxBodyBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	q, err := query.Decode(r.Body)
	if err != nil {
		a.clientError(w, r, "", err)
		return
	}

	html, err := a.Queries.Execute(r.Context(), q)
	if err != nil {
		a.clientError(w, r, q.Kind(), err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, html)
}

type docsResponse struct {
	Endpoint string          `json:"endpoint"`
	Request  string          `json:"request"`
	Success  string          `json:"success"`
	Failure  string          `json:"failure"`
	Variants []query.Variant `json:"variants"`
	Assets   []string        `json:"assets"`
}

func (a *App) docs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(docsResponse{
		Endpoint: "POST /",
		Request:  `JSON object with exactly one key naming the variant, e.g. {"SanitizeRaw": {"body": "# hi"}}`,
		Success:  "200 text/plain sanitized HTML",
		Failure:  "400 text/plain error message",
		Variants: query.Describe(),
		Assets:   a.Assets,
	})
}

func (a *App) health(w http.ResponseWriter, r *http.Request) {
	if a.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.DB.Ping(ctx); err != nil {
			a.Log.Error("ping db", "error", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

func (a *App) clientError(w http.ResponseWriter, r *http.Request, kind string, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}
	a.Log.Warn("query failed", "kind", kind, "error", err, "path", r.URL.Path)
	http.Error(w, err.Error(), http.StatusBadRequest)
}

func (a *App) serverError(w http.ResponseWriter, r *http.Request, msg string, err any) {
	a.Log.Error(msg, "error", err, "method", r.Method, "path", r.URL.Path)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
