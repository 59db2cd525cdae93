package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"adstudio/internal/adgen"
	"adstudio/internal/infra"
	"adstudio/internal/providers/video"
	"adstudio/internal/session"
	"adstudio/internal/workflow"
)

const defaultMaxUpload = 20 << 20

// App carries the dependencies shared by every handler. Per-request
// collaborators that depend on the caller's token are built inside the
// handlers.
type App struct {
	Backend  *video.Client
	Auth     *session.AuthClient
	Resolver *adgen.Resolver
	Logger   *infra.Logger

	SubmitTimeout  time.Duration
	RequestTimeout time.Duration
	ResetDelay     time.Duration
	MaxUploadBytes int64
}

func NewApp(cfg *infra.Config, backend *video.Client, auth *session.AuthClient, logger *infra.Logger) *App {
	return &App{
		Backend:        backend,
		Auth:           auth,
		Resolver:       adgen.NewResolver(backend, adgen.Options{Logger: logger, Timeout: cfg.RequestTimeout}),
		Logger:         infra.OrDiscard(logger),
		SubmitTimeout:  cfg.SubmitTimeout,
		RequestTimeout: cfg.RequestTimeout,
		ResetDelay:     cfg.WorkflowResetDelay,
		MaxUploadBytes: defaultMaxUpload,
	}
}

func (a *App) sessions(token string) session.Provider {
	return session.NewBearerProvider(a.Auth, token)
}

func (a *App) submitter(token string) *adgen.Submitter {
	return adgen.NewSubmitter(a.Backend, a.sessions(token), adgen.Options{Logger: a.Logger, Timeout: a.SubmitTimeout})
}

func (a *App) lister(token string) *adgen.Lister {
	return adgen.NewLister(a.Backend, a.sessions(token), adgen.Options{Logger: a.Logger, Timeout: a.RequestTimeout})
}

func (a *App) workflow(token, returnTo string, nav workflow.Navigator) *workflow.Machine {
	return workflow.New(a.submitter(token), nav, workflow.Options{
		ReturnPath: returnTo,
		ResetDelay: a.ResetDelay,
		Logger:     a.Logger,
	})
}

type errorBody struct {
	Error    string `json:"error"`
	Code     string `json:"code"`
	Redirect string `json:"redirect,omitempty"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, errorBody{Error: message, Code: code})
}

func (a *App) redirect(w http.ResponseWriter, status int, code, message, to string) {
	a.json(w, status, errorBody{Error: message, Code: code, Redirect: to})
}
