package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/student-bubble/internal/config"
	"github.com/student-bubble/internal/transport/http/handler"
	appmiddleware "github.com/student-bubble/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10, on the public auth endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10, cfg.TrustProxyHeaders)

	healthH := handler.NewHealthHandler()
	otpH := handler.NewOTPHandler(deps.AuthService)
	authH := handler.NewAuthHandler(deps.AuthService)
	noteH := handler.NewNoteHandler(deps.NoteService, cfg.UploadMaxBytes)
	assignmentH := handler.NewAssignmentHandler(deps.AssignmentService)
	todoH := handler.NewTodoHandler(deps.TodoService)

	// ── Public routes ────────────────────────────────────────────────────
	r.Get("/", healthH.Root)
	r.Get("/health-check/{action}", healthH.Ping)
	r.With(sensitiveRL.Limit).Post("/send-otp", otpH.Send)
	r.With(sensitiveRL.Limit).Post("/verify-otp", otpH.Verify)
	r.With(sensitiveRL.Limit).Post("/signup", authH.Signup)
	r.With(sensitiveRL.Limit).Post("/login", authH.Login)

	// ── Authenticated routes ─────────────────────────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(appmiddleware.Auth(deps.JWTProvider))

		r.Get("/check-session", authH.CheckSession)

		r.Post("/upload", noteH.Upload)
		r.Get("/list-uploads", noteH.ListUploads)
		r.Post("/save-note", noteH.Save)
		r.Get("/get-notes", noteH.List)

		r.Post("/save-assignment", assignmentH.Save)
		r.Get("/get-assignments", assignmentH.List)

		r.Post("/add-todo", todoH.Add)
		r.Get("/get-todos", todoH.List)
		r.Put("/update-todo/{id}", todoH.Update)
		r.Delete("/delete-todo/{id}", todoH.Delete)
	})

	return r
}
