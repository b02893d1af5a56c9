package routes

import (
	"net/http"
	"time"

	"github.com/templui/jobtracker/internal/app"
	"github.com/templui/jobtracker/internal/apperr"
	"github.com/templui/jobtracker/internal/handler"
	"github.com/templui/jobtracker/internal/middleware"
	"github.com/templui/jobtracker/internal/render"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.DB)
	auth := handler.NewAuthHandler(app.AuthService, app.Cfg.IsProduction())
	applications := handler.NewApplicationHandler(app.ApplicationService)
	notes := handler.NewNoteHandler(app.NoteService)
	attachments := handler.NewAttachmentHandler(app.AttachmentService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Health)

	// Auth (rate limited per client IP)
	rateLimiter := middleware.RateLimitAuth(10, 15*time.Minute, app.Cfg.TrustedProxies)

	mux.HandleFunc("POST /api/auth/register", rateLimiter(auth.Register))
	mux.HandleFunc("POST /api/auth/login", rateLimiter(auth.Login))
	mux.HandleFunc("POST /api/auth/logout", auth.Logout)

	// ============================================================================
	// PROTECTED ROUTES (/api/*)
	// ============================================================================

	// Account
	mux.HandleFunc("GET /api/me", middleware.RequireAuth(auth.Me))
	mux.HandleFunc("DELETE /api/me", middleware.RequireAuth(auth.DeleteMe))

	// Applications
	mux.HandleFunc("GET /api/applications", middleware.RequireAuth(applications.List))
	mux.HandleFunc("POST /api/applications", middleware.RequireAuth(applications.Create))
	mux.HandleFunc("GET /api/applications/{id}", middleware.RequireAuth(applications.Get))
	mux.HandleFunc("PATCH /api/applications/{id}", middleware.RequireAuth(applications.Update))
	mux.HandleFunc("DELETE /api/applications/{id}", middleware.RequireAuth(applications.Delete))

	// Notes
	mux.HandleFunc("GET /api/applications/{id}/notes", middleware.RequireAuth(notes.List))
	mux.HandleFunc("POST /api/applications/{id}/notes", middleware.RequireAuth(notes.Create))
	mux.HandleFunc("GET /api/notes/{id}", middleware.RequireAuth(notes.Get))
	mux.HandleFunc("PATCH /api/notes/{id}", middleware.RequireAuth(notes.Update))
	mux.HandleFunc("DELETE /api/notes/{id}", middleware.RequireAuth(notes.Delete))

	// Attachments
	mux.HandleFunc("GET /api/applications/{id}/attachments", middleware.RequireAuth(attachments.List))
	mux.HandleFunc("POST /api/applications/{id}/attachments", middleware.RequireAuth(attachments.Upload))
	mux.HandleFunc("GET /api/attachments/{id}/download", middleware.RequireAuth(attachments.Download))
	mux.HandleFunc("DELETE /api/attachments/{id}", middleware.RequireAuth(attachments.Delete))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/{path...}", func(w http.ResponseWriter, r *http.Request) {
		render.Error(w, r, apperr.NotFound("route not found"))
	})

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Config(app.Cfg), // First, so error rendering sees it
		middleware.RequestID,
		middleware.SecurityHeaders,
		middleware.AuthMiddleware(app.AuthService),
		middleware.RequestLogging, // After auth so the user id is logged
	)

	return handler
}
