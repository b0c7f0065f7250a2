package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/pulseplan/backend/app"
	"github.com/pulseplan/backend/models"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoints
	r.Get("/healthz", deps.HealthHandler.HandleHealth)
	r.Get("/readyz", deps.HealthHandler.HandleReadiness)

	// Session endpoints against the identity provider
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", deps.AuthHandler.HandleLogin)
		r.Post("/signup", deps.AuthHandler.HandleSignup)
		r.Post("/logout", deps.AuthHandler.HandleLogout)
	})

	// Profile repair. Outside the session gate: it exists to fix the missing
	// profile rows that lock subjects out.
	r.Post("/admin/fix-users", deps.AdminHandler.HandleFixUsers)

	// Page navigation goes through the access router, which decides between
	// serving the page and redirecting by session and stored role.
	r.Group(func(r chi.Router) {
		r.Use(deps.AccessMiddleware.Route)
		r.Get("/", deps.PageHandler.Serve("home"))
		r.Get("/auth/login", deps.PageHandler.Serve("login"))
		r.Get("/auth/signup", deps.PageHandler.Serve("signup"))
		r.Get("/consultant", deps.PageHandler.Serve("consultant"))
		r.Get("/agency", deps.PageHandler.Serve("agency"))
		r.Get("/client", deps.PageHandler.Serve("client"))
		r.Get("/debug", deps.PageHandler.Serve("debug"))
		r.Get("/unauthorized", deps.PageHandler.Serve("unauthorized"))
		r.Get("/agency-test", deps.PageHandler.Serve("agency-test"))
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(deps.AuthMiddleware.RequireAuth)

		// Client management
		r.Route("/clients", func(r chi.Router) {
			r.Get("/", deps.ClientHandler.HandleListClients)
			r.Get("/{id}", deps.ClientHandler.HandleGetClient)
			r.Get("/{id}/strategy", deps.AIHandler.HandleGetStrategy)

			r.Group(func(r chi.Router) {
				r.Use(deps.AuthMiddleware.RequireRole(models.RoleConsultant))
				r.Post("/", deps.ClientHandler.HandleCreateClient)
				r.Patch("/{id}", deps.ClientHandler.HandleUpdateClient)
				r.Delete("/{id}", deps.ClientHandler.HandleDeleteClient)
			})
		})

		// Generation endpoints
		r.Route("/ai", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(deps.AuthMiddleware.RequireRole(models.RoleConsultant))
				r.Post("/strategy", deps.AIHandler.HandleGenerateStrategy)
				r.Post("/content", deps.AIHandler.HandleGenerateContent)
			})
			r.Post("/hooks", deps.AIHandler.HandleRefineHooks)
			r.Post("/image", deps.AIHandler.HandleGenerateImage)
		})

		// Calendar and approval workflow
		r.Get("/strategies/{id}/posts", deps.AIHandler.HandleGetMonth)
		r.Route("/posts/{id}", func(r chi.Router) {
			r.Post("/advance", deps.AIHandler.HandleAdvancePost)
			r.Post("/comments", deps.CommentHandler.HandleCreateComment)
			r.Get("/comments", deps.CommentHandler.HandleListComments)
		})
		r.Delete("/comments/{id}", deps.CommentHandler.HandleDeleteComment)

		// Document uploads
		r.Post("/upload", deps.UploadHandler.HandleUpload)

		// Profiles
		r.Route("/users", func(r chi.Router) {
			r.Get("/me", deps.AdminHandler.HandleGetProfile)

			r.Group(func(r chi.Router) {
				r.Use(deps.AuthMiddleware.RequireRole(models.RoleConsultant))
				r.Put("/{id}/role", deps.AdminHandler.HandleUpdateRole)
			})
		})
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"endpoint not found"}`))
	})

	return r
}
