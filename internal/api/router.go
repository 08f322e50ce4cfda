package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alunodb/roster-be/internal/api/handlers"
	"github.com/alunodb/roster-be/internal/auth"
	"github.com/alunodb/roster-be/internal/metrics"
	"github.com/alunodb/roster-be/internal/services"
	"github.com/alunodb/roster-be/internal/web"
)

// NewRouter creates and configures the Chi router. All dependencies are
// passed in explicitly; there is no ambient application state.
func NewRouter(
	db *sqlx.DB,
	sessions *auth.Sessions,
	users services.UserServiceProvider,
	students services.StudentServiceProvider,
	render *web.Renderer,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(sessions.LoadPrincipal(users))

	studentHandler := handlers.NewStudentHandler(students, render)
	authHandler := handlers.NewAuthHandler(users, sessions, render)

	// Public pages
	r.Get("/", studentHandler.Index)
	r.Get("/estatisticas", studentHandler.Stats)
	r.Get("/login", authHandler.LoginForm)
	r.Post("/login", authHandler.Login)
	r.Get("/criar-conta", authHandler.SignupForm)
	r.Post("/criar-conta", authHandler.Signup)

	// Pages behind an authenticated session
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth)
		r.Get("/logout", authHandler.Logout)
		r.Get("/adicionar", studentHandler.AddForm)
		r.Post("/adicionar", studentHandler.Add)
		r.Get("/{id}/editar", studentHandler.EditForm)
		r.Post("/{id}/editar", studentHandler.Edit)

		// Deletion additionally requires the admin flag.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Post("/{id}/deletar", studentHandler.Delete)
		})
	})

	// JSON endpoints, consumed by the stats chart and external tools.
	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		r.Get("/students", studentHandler.APIList)
		r.Get("/estatisticas", studentHandler.APIStats)
	})

	// Operational endpoints
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Ping(); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	})

	// Detail page last so static paths above win the match.
	r.Get("/{id}", studentHandler.View)

	return r
}
