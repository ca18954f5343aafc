package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Werneck0live/crm-patrocinio/internal/audit"
	"github.com/Werneck0live/crm-patrocinio/internal/models"
	"github.com/Werneck0live/crm-patrocinio/internal/session"
	"github.com/Werneck0live/crm-patrocinio/internal/store"
	"github.com/Werneck0live/crm-patrocinio/internal/utils"
)

// Store é o que a API usa do store de sincronização.
type Store interface {
	Snapshot() store.Snapshot
	Status() store.Status
	Reload(ctx context.Context) error
	Event(id string) (models.Event, bool)
	Company(id string) (models.Company, bool)

	AddEvent(ctx context.Context, in models.Event) (models.Event, error)
	UpdateEvent(ctx context.Context, id string, p models.EventPatch) (models.Event, error)
	ArchiveEvent(ctx context.Context, id string) (models.Event, error)
	UnarchiveEvent(ctx context.Context, id string) (models.Event, error)
	DeleteEvent(ctx context.Context, id string) error

	AddCompany(ctx context.Context, in models.Company) (models.Company, error)
	UpdateCompany(ctx context.Context, id string, p models.CompanyPatch) (models.Company, error)
	ArchiveCompany(ctx context.Context, id string) (models.Company, error)
	UnarchiveCompany(ctx context.Context, id string) (models.Company, error)
	DeleteCompany(ctx context.Context, id string) error
	RefreshCompanyContacts(ctx context.Context, companyID string) error
	LinkNewCompany(ctx context.Context, eventID string, c models.Company, r models.Relation) (models.Company, models.Relation, error)

	AddContact(ctx context.Context, in models.Contact) (models.Contact, error)
	UpdateContact(ctx context.Context, id string, p models.ContactPatch, companyID string) (models.Contact, error)
	DeleteContact(ctx context.Context, id, companyID string) error

	AddRelation(ctx context.Context, in models.Relation) (models.Relation, error)
	UpdateRelation(ctx context.Context, id string, p models.RelationPatch) (models.Relation, error)
	ArchiveRelation(ctx context.Context, id string) (models.Relation, error)
	UnarchiveRelation(ctx context.Context, id string) (models.Relation, error)
	DeleteRelation(ctx context.Context, id string) error
}

type Guard interface {
	State() session.State
	Retry(ctx context.Context) session.State
	SignOut(ctx context.Context) error
}

// Authenticator abre a sessão (SignIn) e valida o token de cada requisição (Parse).
type Authenticator interface {
	SignIn(ctx context.Context, token string) (*session.Session, error)
	Parse(token string) (*session.Session, error)
}

type AuditReader interface {
	Recent(ctx context.Context) ([]audit.Entry, error)
}

type Handler struct {
	Store   Store
	Guard   Guard
	Auth    Authenticator
	Audit   AuditReader
	Log     *slog.Logger
	Timeout time.Duration
}

func NewHandler(st Store, g Guard, auth Authenticator, ar AuditReader, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{Store: st, Guard: g, Auth: auth, Audit: ar, Log: log.With("cmp", "http"), Timeout: 5 * time.Second}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logging)

	r.Get("/healthz", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/session", h.GetSession)
		r.Post("/session", h.SignIn)
		r.Post("/session/retry", h.RetrySession)

		r.Group(func(r chi.Router) {
			r.Use(h.requireSession)

			r.Delete("/session", h.SignOut)
			r.Get("/snapshot", h.Snapshot)
			r.Get("/dashboard", h.Dashboard)
			r.Get("/archived", h.Archived)
			r.Get("/history", h.History)
			r.Post("/reload", h.Reload)

			r.Route("/events", func(r chi.Router) {
				r.Get("/", h.ListEvents)
				r.Post("/", h.CreateEvent)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.GetEvent)
					r.Patch("/", h.UpdateEvent)
					r.Delete("/", h.DeleteEvent)
					r.Post("/archive", h.ArchiveEvent)
					r.Post("/unarchive", h.UnarchiveEvent)
					r.Get("/relations", h.EventRelations)
					r.Get("/relations.csv", h.EventRelationsCSV)
					r.Post("/link", h.LinkNewCompany)
				})
			})

			r.Route("/companies", func(r chi.Router) {
				r.Get("/", h.ListCompanies)
				r.Post("/", h.CreateCompany)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.GetCompany)
					r.Patch("/", h.UpdateCompany)
					r.Delete("/", h.DeleteCompany)
					r.Post("/archive", h.ArchiveCompany)
					r.Post("/unarchive", h.UnarchiveCompany)
					r.Post("/contacts/refresh", h.RefreshContacts)
				})
			})

			r.Route("/contacts", func(r chi.Router) {
				r.Post("/", h.CreateContact)
				r.Patch("/{id}", h.UpdateContact)
				r.Delete("/{id}", h.DeleteContact)
			})

			r.Route("/relations", func(r chi.Router) {
				r.Post("/", h.CreateRelation)
				r.Patch("/{id}", h.UpdateRelation)
				r.Delete("/{id}", h.DeleteRelation)
				r.Post("/{id}/archive", h.ArchiveRelation)
				r.Post("/{id}/unarchive", h.UnarchiveRelation)
			})
		})
	})
	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requireSession exige o token Bearer da própria requisição; o usuário do
// token vai para o contexto (user_id da auditoria). O estado do Guard só
// decide as respostas de serviço indisponível e de store sem sessão.
func (h *Handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch h.Guard.State() {
		case session.Initializing:
			utils.WriteError(w, http.StatusServiceUnavailable, "loading")
			return
		case session.Unreachable:
			utils.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
				"error":    "service unavailable",
				"recovery": session.RecoverySteps,
			})
			return
		case session.Unauthenticated:
			utils.WriteError(w, http.StatusUnauthorized, "unauthenticated")
			return
		}

		token := r.Header.Get("Authorization")
		if token == "" {
			utils.WriteError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		sess, err := h.Auth.Parse(token)
		if err != nil || sess == nil {
			utils.WriteError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(utils.WithActor(r.Context(), sess.UserID)))
	})
}

func (h *Handler) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.Log.Info("http_request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).String(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (h *Handler) ctx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.Timeout)
}

// writeErr traduz os sentinelas do store para status HTTP.
func (h *Handler) writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrValidation):
		utils.BadRequest(w, err.Error())
	case errors.Is(err, store.ErrNotFound):
		utils.NotFound(w)
	case errors.Is(err, store.ErrDuplicateRelation):
		utils.WriteError(w, http.StatusConflict, store.ErrDuplicateRelation.Error())
	case errors.Is(err, store.ErrClosed), errors.Is(err, store.ErrLoadTimeout), errors.Is(err, audit.ErrAuditUnavailable):
		utils.WriteError(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.Log.Error("request_failed", "err", err)
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
	}
}
