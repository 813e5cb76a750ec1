package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"alive.africa/internal/audit"
	"alive.africa/internal/auth"
	"alive.africa/internal/notify"
	"alive.africa/internal/obs"
	"alive.africa/internal/projects"
)

// ReadyProbe checks the backing database before the service reports ready.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// Options wires the API to the domain services.
type Options struct {
	Auth          *auth.Service
	Tokens        *auth.TokenIssuer
	Projects      *projects.Service
	Notifications *notify.Gateway
	Audit         *audit.Service
	Ready         ReadyProbe
	Version       string
	RateBurst     int
	RatePerSec    int
	MaxBodyBytes  int64
}

// API is the HTTP layer.
type API struct {
	mux           *http.ServeMux
	auth          *auth.Service
	tokens        *auth.TokenIssuer
	projects      *projects.Service
	notifications *notify.Gateway
	audit         *audit.Service
	readyProbe    ReadyProbe
	version       string
	rateBurst     int
	ratePerSec    int
	maxBodyBytes  int64
}

func New(opts Options) *API {
	a := &API{
		mux:           http.NewServeMux(),
		auth:          opts.Auth,
		tokens:        opts.Tokens,
		projects:      opts.Projects,
		notifications: opts.Notifications,
		audit:         opts.Audit,
		readyProbe:    opts.Ready,
		version:       opts.Version,
		rateBurst:     opts.RateBurst,
		ratePerSec:    opts.RatePerSec,
		maxBodyBytes:  opts.MaxBodyBytes,
	}
	if a.rateBurst <= 0 {
		a.rateBurst = 20
	}
	if a.ratePerSec <= 0 {
		a.ratePerSec = 10
	}
	if a.maxBodyBytes <= 0 {
		a.maxBodyBytes = 1 << 20
	}

	// health/ready/info
	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)

	// Prometheus metrics
	a.mux.Handle("/metrics", obs.Handler())

	// credential lifecycle
	a.mux.HandleFunc("/v1/auth/register", a.handleRegister)
	a.mux.HandleFunc("/v1/auth/login", a.handleLogin)
	a.mux.HandleFunc("/v1/auth/verify-otp", a.handleVerifyOTP)
	a.mux.HandleFunc("/v1/auth/resend-otp", a.handleResendOTP)
	a.mux.HandleFunc("/v1/auth/password-reset/request", a.handlePasswordResetRequest)
	a.mux.HandleFunc("/v1/auth/password-reset/confirm", a.handlePasswordResetConfirm)
	a.mux.HandleFunc("/v1/auth/profile", a.handleProfile)
	a.mux.HandleFunc("/v1/auth/password", a.handlePasswordUpdate)

	// user administration
	a.mux.HandleFunc("/v1/users", a.handleUsersCollection)
	a.mux.HandleFunc("/v1/users/", a.handleUserResource)

	// projects domain
	a.mux.HandleFunc("/v1/projects", a.handleProjectsCollection)
	a.mux.HandleFunc("/v1/projects/", a.handleProjectResource)
	a.mux.HandleFunc("/v1/objectives", a.handleObjectivesCollection)
	a.mux.HandleFunc("/v1/objectives/", a.handleObjectiveResource)
	a.mux.HandleFunc("/v1/activities", a.handleActivitiesCollection)
	a.mux.HandleFunc("/v1/activities/", a.handleActivityResource)
	a.mux.HandleFunc("/v1/indicators", a.handleIndicatorsCollection)
	a.mux.HandleFunc("/v1/indicators/", a.handleIndicatorResource)
	a.mux.HandleFunc("/v1/logframes", a.handleLogFramesCollection)
	a.mux.HandleFunc("/v1/logframes/", a.handleLogFrameResource)
	a.mux.HandleFunc("/v1/forms", a.handleFormsCollection)
	a.mux.HandleFunc("/v1/forms/", a.handleFormResource)
	a.mux.HandleFunc("/v1/responses/", a.handleResponseResource)

	// notifications + system logs
	a.mux.HandleFunc("/v1/notifications", a.handleNotificationsCollection)
	a.mux.HandleFunc("/v1/notifications/", a.handleNotificationResource)
	a.mux.HandleFunc("/v1/logs", a.handleSystemLogs)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler assembles the middleware chain around the mux.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = a.withAuth(h)
	h = obs.Instrument(h)
	h = RateLimit(h, a.rateBurst, a.ratePerSec)
	h = MaxBodyBytes(h, a.maxBodyBytes)
	h = CORS(h)
	h = SecurityHeaders(h)
	h = Logging(h)
	h = RequestID(h)
	return h
}

// --- Handlers ---

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "alive-api",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		obs.SetReady(false)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	obs.SetReady(true)
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "alive-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}
