package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/slideforge/slideforge-backend/api/controllers"
	"github.com/slideforge/slideforge-backend/api/middleware"
	"github.com/slideforge/slideforge-backend/internal/auth"
	"github.com/slideforge/slideforge-backend/internal/elements"
	"github.com/slideforge/slideforge-backend/internal/export"
	"github.com/slideforge/slideforge-backend/internal/presentations"
	"github.com/slideforge/slideforge-backend/internal/slides"
	"github.com/slideforge/slideforge-backend/pkg/config"
	"github.com/slideforge/slideforge-backend/pkg/db"
	"github.com/slideforge/slideforge-backend/pkg/logger"
	"github.com/slideforge/slideforge-backend/pkg/metrics"
	"github.com/slideforge/slideforge-backend/pkg/redis"
)

// Params bundles everything the router needs.
type Params struct {
	Config        *config.Config
	Logger        *logger.Logger
	DBPinger      db.Pinger
	Redis         *redis.Client
	Registry      *prometheus.Registry
	HTTPMetrics   *metrics.HTTPMetrics
	Users         middleware.UserChecker
	AuthSvc       auth.Service
	RegisterSvc   auth.RegisterService
	Presentations presentations.Service
	Slides        slides.Service
	Elements      elements.Service
	Export        export.Service
}

// NewRouter assembles the HTTP surface.
func NewRouter(p Params) http.Handler {
	cfg := p.Config
	logg := p.Logger

	var cache interface {
		Ping(ctx context.Context) error
	}
	var rateStore middleware.RateLimiterStore
	if p.Redis != nil {
		cache = p.Redis
		rateStore = p.Redis
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.HTTPMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, p.DBPinger, cache, logg))
	})

	if p.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{}))
	}

	r.Get("/api/public/ping", controllers.PublicPing())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, rateStore, logg)).Post("/register", controllers.AuthRegister(p.RegisterSvc, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, rateStore, logg)).Post("/login", controllers.AuthLogin(p.AuthSvc, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.Users, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/presentations", func(r chi.Router) {
			r.Post("/", controllers.PresentationCreate(p.Presentations, logg))
			r.Get("/", controllers.PresentationList(p.Presentations, logg))
			r.Get("/{presentationId}", controllers.PresentationGet(p.Presentations, logg))
			r.Put("/{presentationId}", controllers.PresentationUpdate(p.Presentations, logg))
			r.Delete("/{presentationId}", controllers.PresentationDelete(p.Presentations, logg))
			r.Get("/{presentationId}/download", controllers.PresentationDownload(p.Export, logg))
			r.Post("/{presentationId}/slides", controllers.SlideAdd(p.Slides, logg))
		})

		r.Route("/slides", func(r chi.Router) {
			r.Put("/{slideId}", controllers.SlideUpdate(p.Slides, logg))
			r.Delete("/{slideId}", controllers.SlideDelete(p.Slides, logg))
			r.Post("/{slideId}/elements", controllers.ElementAdd(p.Elements, logg))
		})

		r.Route("/elements", func(r chi.Router) {
			r.Put("/{elementId}", controllers.ElementUpdate(p.Elements, logg))
			r.Delete("/{elementId}", controllers.ElementDelete(p.Elements, logg))
		})
	})

	return r
}
