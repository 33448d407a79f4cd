package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"orderdesk.org/internal/auth"
	"orderdesk.org/internal/identity"
	"orderdesk.org/internal/obs"
	"orderdesk.org/internal/orders"
)

// ReadyProbe — readiness check, pings the DB when one is configured.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// TokenVerifier validates a bearer credential.
type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// IdentityClient performs the password grant against the external
// identity provider.
type IdentityClient interface {
	Login(ctx context.Context, email, password string) (json.RawMessage, identity.Session, error)
}

// ExportService builds the CSV export for an authorized caller.
type ExportService interface {
	Export(ctx context.Context, ident auth.Identity, customerID string) (orders.Document, error)
}

// NotifyService sends the order confirmation for an authorized caller.
type NotifyService interface {
	SendConfirmation(ctx context.Context, ident auth.Identity, email, orderID string) error
}

// OriginPolicy is the configured allow-list decision.
type OriginPolicy interface {
	OriginAllowed(origin string) bool
	Wildcard() bool
}

// Deps are the collaborators behind the three domain endpoints.
type Deps struct {
	Verifier TokenVerifier
	Identity IdentityClient
	Exporter ExportService
	Notifier NotifyService
	Origins  OriginPolicy
}

// API — HTTP layer.
type API struct {
	mux        *http.ServeMux
	readyProbe ReadyProbe
	version    string

	verifier TokenVerifier
	identity IdentityClient
	exporter ExportService
	notifier NotifyService
	origins  OriginPolicy

	rateBurst  int
	ratePerSec int
}

func New(rp ReadyProbe, version string, deps Deps) *API {
	a := &API{
		mux:        http.NewServeMux(),
		readyProbe: rp,
		version:    version,
		verifier:   deps.Verifier,
		identity:   deps.Identity,
		exporter:   deps.Exporter,
		notifier:   deps.Notifier,
		origins:    deps.Origins,
		rateBurst:  20,
		ratePerSec: 10,
	}

	// health/ready/info
	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)

	// Prometheus metrics
	a.mux.Handle("/metrics", obs.Handler())

	// Domain endpoints. The login envelope differs from the other
	// two ({"message"} vs {"success","message"}).
	a.mux.HandleFunc("/v1/auth/login", a.domain(a.handleLogin, writeMessage))
	a.mux.HandleFunc("/v1/export-csv", a.domain(a.handleExportCSV, writeFailure))
	a.mux.HandleFunc("/v1/send-confirmation-email", a.domain(a.handleSendConfirmationEmail, writeFailure))

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler returns the fully wrapped http.Handler for the server.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = RateLimit(h, a.rateBurst, a.ratePerSec)
	h = MaxBodyBytes(h, 1<<20)
	h = LoggingJSON(h)
	h = RequestID(h)
	h = SecurityHeaders(h)
	return obs.Instrument(h)
}

// --- operational handlers ---

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "orderdesk-api",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "orderdesk-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}

// --- CORS and request preamble ---

// corsOrigin resolves the Access-Control-Allow-Origin value for the
// request: "*" under a wildcard list, the echoed Origin when listed,
// "" otherwise.
func (a *API) corsOrigin(r *http.Request) string {
	if a.origins == nil {
		return "*"
	}
	if a.origins.Wildcard() {
		return "*"
	}
	origin := r.Header.Get("Origin")
	if origin != "" && a.origins.OriginAllowed(origin) {
		return origin
	}
	return ""
}

func (a *API) setCORSHeaders(w http.ResponseWriter, r *http.Request) {
	origin := a.corsOrigin(r)
	if origin == "" {
		origin = "null"
	}
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", origin)
	h.Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Vary", "Origin")
}

// domain wraps a domain handler with the shared preamble: CORS
// headers on every response, preflight answered with an empty 200
// before any logic, POST only, and the origin allow-list enforced
// before domain logic runs.
func (a *API) domain(next http.HandlerFunc, writeErr errorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a.setCORSHeaders(w, r)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", "POST, OPTIONS")
			writeErr(w, http.StatusMethodNotAllowed, "Method Not Allowed")
			return
		}
		if a.corsOrigin(r) == "" {
			writeErr(w, http.StatusForbidden, "Origin not allowed")
			return
		}
		next(w, r)
	}
}

// --- response helpers ---

type errorWriter func(w http.ResponseWriter, code int, msg string)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeFailure emits the shared failure envelope of the export and
// notification endpoints.
func writeFailure(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{
		"success": false,
		"message": msg,
	})
}

// writeMessage emits the login endpoint's envelope.
func writeMessage(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{
		"message": msg,
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	reader := http.MaxBytesReader(w, r.Body, 1<<20)
	defer reader.Close()
	dec := json.NewDecoder(reader)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after JSON body")
		}
		return err
	}
	return nil
}

// logUpstreamError records upstream detail server-side; callers only
// ever see a generic message.
func logUpstreamError(r *http.Request, msg string, err error) {
	obs.LogRequest(map[string]any{
		"ts":         time.Now().UTC().Format(time.RFC3339Nano),
		"level":      "error",
		"msg":        msg,
		"error":      err.Error(),
		"path":       r.URL.Path,
		"request_id": RequestIDFromContext(r.Context()),
	})
}
