package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kunalsaini/authline-backend/api/controllers"
	"github.com/kunalsaini/authline-backend/api/middleware"
	"github.com/kunalsaini/authline-backend/internal/auth"
	"github.com/kunalsaini/authline-backend/internal/users"
	"github.com/kunalsaini/authline-backend/pkg/config"
	"github.com/kunalsaini/authline-backend/pkg/enums"
	"github.com/kunalsaini/authline-backend/pkg/logger"
	"github.com/kunalsaini/authline-backend/pkg/metrics"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	AuthService auth.Service
	UserService users.Service
	Images      controllers.ImageUploader
	Metrics     *metrics.HTTPMetrics
	Registry    *prometheus.Registry
	Pingers     []controllers.Pinger
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.Metrics),
		middleware.CORS(cfg.App.CORSOrigins...),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Pingers...))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Get("/ping", controllers.PublicPing())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/signup", controllers.Signup(deps.AuthService, deps.Images, logg))
		r.Post("/login", controllers.Login(deps.AuthService, logg))
		r.Post("/send-otp", controllers.SendOtp(deps.AuthService, cfg.App.IsDev(), logg))
		r.Post("/forget-password", controllers.ForgetPassword(deps.AuthService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Get("/ping", controllers.PrivatePing())
		r.Get("/dashboard", controllers.Dashboard(deps.UserService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(string(enums.RoleAdmin), logg))

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.AdminListUsers(deps.UserService, logg))
			r.Post("/", controllers.AdminCreateUser(deps.UserService, logg))
			r.Get("/{userID}", controllers.AdminGetUser(deps.UserService, logg))
			r.Put("/{userID}", controllers.AdminUpdateUser(deps.UserService, logg))
			r.Delete("/{userID}", controllers.AdminDeleteUser(deps.UserService, logg))
		})
	})

	return r
}
