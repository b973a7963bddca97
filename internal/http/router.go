package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/territoriodigital/congregacao/internal/auth"
	"github.com/territoriodigital/congregacao/internal/config"
	"github.com/territoriodigital/congregacao/internal/drawing"
	httpmiddleware "github.com/territoriodigital/congregacao/internal/http/middleware"
	"github.com/territoriodigital/congregacao/internal/qr"
	"github.com/territoriodigital/congregacao/internal/store"
	"github.com/territoriodigital/congregacao/internal/summary"
)

// Handler agrupa as dependências dos endpoints da API.
type Handler struct {
	cfg           *config.Config
	store         *store.Store
	jwt           *auth.JWTManager
	drawings      *drawing.Manager
	summarizer    *summary.Client
	qr            *qr.Client
	publicLimiter *httpmiddleware.RateLimiter
	authLimiter   *httpmiddleware.RateLimiter
}

// NewRouter devolve roteador configurado.
func NewRouter(cfg *config.Config, st *store.Store, jwtManager *auth.JWTManager) http.Handler {
	h := &Handler{
		cfg:      cfg,
		store:    st,
		jwt:      jwtManager,
		drawings: drawing.NewManager(st),
		summarizer: summary.New(summary.Config{
			APIKey:  cfg.Summary.APIKey,
			APIBase: cfg.Summary.APIBase,
			Model:   cfg.Summary.Model,
			Timeout: cfg.Summary.Timeout,
		}),
		qr:            qr.New(cfg.QRServiceURL),
		publicLimiter: httpmiddleware.NewRateLimiter(cfg.RateLimitPublic.RequestsPerSecond, cfg.RateLimitPublic.Burst),
		authLimiter:   httpmiddleware.NewRateLimiter(cfg.RateLimitAuth.RequestsPerSecond, cfg.RateLimitAuth.Burst),
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(httpmiddleware.Logging)
	r.Use(httpmiddleware.Recover)
	r.Use(httpmiddleware.CORS(cfg.AllowOrigins))

	r.Group(func(public chi.Router) {
		public.Use(httpmiddleware.IPRateLimit(h.publicLimiter))

		public.Get("/health", h.Health)
		public.Post("/auth/login", h.Login)
	})

	r.Group(func(private chi.Router) {
		private.Use(httpmiddleware.Auth(jwtManager))
		private.Use(httpmiddleware.UserRateLimit(h.authLimiter))

		private.Post("/auth/logout", h.Logout)
		private.Get("/me", h.Me)
		private.Patch("/me", h.UpdateMe)

		private.Route("/territorios", func(t chi.Router) {
			t.Get("/", h.ListTerritories)
			t.Get("/{id}", h.GetTerritory)
			t.Post("/{id}/status", h.UpdateTerritoryStatus)
			t.Put("/{id}/observacoes", h.UpdateObservation)
			t.Patch("/{id}/config", h.UpdateTerritoryConfig)

			t.Route("/{id}/desenho", func(d chi.Router) {
				d.Post("/abrir", h.OpenDrawing)
				d.Post("/tracos", h.SubmitStroke)
				d.Post("/fechar", h.CloseDrawing)
				d.Delete("/", h.ClearDrawing)
			})
		})

		private.Get("/historico", h.ListHistory)
		private.Get("/usuarios", h.ListUsers)
		private.Post("/observacoes/resumir", h.SummarizeObservations)

		private.Get("/congregacao", h.GetCongregation)
		private.Get("/congregacao/convite", h.GetInvite)
		private.Get("/congregacao/convite/qr", h.GetInviteQR)

		private.Get("/backup", h.DownloadBackup)

		private.Group(func(admin chi.Router) {
			admin.Use(httpmiddleware.RequireAdmin)
			admin.Put("/congregacao", h.UpdateCongregation)
			admin.Delete("/usuarios/{id}", h.RemoveUser)
			admin.Post("/backup/restaurar", h.RestoreBackup)
		})
	})

	return r
}

// Health responde status simples.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
