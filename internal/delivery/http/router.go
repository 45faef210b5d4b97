package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"socialevents/internal/delivery/http/controllers"
	"socialevents/internal/delivery/http/middleware"
	"socialevents/internal/domain"
)

// RouterDeps bundles everything the router wires together.
type RouterDeps struct {
	Logger       *slog.Logger
	Verifier     domain.TokenVerifier
	Auth         *controllers.AuthController
	Events       *controllers.EventController
	Applications *controllers.ApplicationController
	Friendships  *controllers.FriendshipController
	Users        *controllers.UserController
	UploadDir    string
}

// NewRouter initializes the HTTP router with all application routes.
// Event browsing routes take OptionalAuth so anonymous callers get the public
// slice of the directory; everything that acts on behalf of a user takes
// RequireAuth.
func NewRouter(deps RouterDeps) *http.ServeMux {
	mux := http.NewServeMux()

	requireAuth := middleware.RequireAuth(deps.Verifier, deps.Logger)
	optionalAuth := middleware.OptionalAuth(deps.Verifier, deps.Logger)

	// Auth
	mux.HandleFunc("POST /auth/request-otp", deps.Auth.RequestOTP)
	mux.HandleFunc("POST /auth/verify-otp", deps.Auth.VerifyOTP)
	mux.HandleFunc("POST /auth/complete-profile", deps.Auth.CompleteProfile)

	// Event directory. Literal segments must be registered before the
	// {eventID} wildcards they would otherwise match.
	mux.HandleFunc("GET /events", optionalAuth(deps.Events.ListEvents))
	mux.HandleFunc("GET /events/me", requireAuth(deps.Events.ListMyEvents))
	mux.HandleFunc("POST /events", requireAuth(deps.Events.CreateEvent))
	mux.HandleFunc("GET /events/{eventID}", optionalAuth(deps.Events.GetEvent))
	mux.HandleFunc("DELETE /events/{eventID}", requireAuth(deps.Events.DeleteEvent))

	// Interest
	mux.HandleFunc("POST /events/{eventID}/interested", requireAuth(deps.Events.MarkInterested))
	mux.HandleFunc("DELETE /events/{eventID}/interested", requireAuth(deps.Events.UnmarkInterested))
	mux.HandleFunc("GET /events/{eventID}/interested", requireAuth(deps.Events.GetInterested))

	// Attendance and comments
	mux.HandleFunc("POST /events/{eventID}/attend", requireAuth(deps.Events.Attend))
	mux.HandleFunc("POST /events/{eventID}/comments", requireAuth(deps.Events.AddComment))

	// Applications
	mux.HandleFunc("POST /events/applications/apply", requireAuth(deps.Applications.Apply))
	mux.HandleFunc("POST /events/applications/respond", requireAuth(deps.Applications.Respond))
	mux.HandleFunc("GET /events/applications/pending", requireAuth(deps.Applications.ListPending))

	// Friendships
	mux.HandleFunc("POST /friendships/request", requireAuth(deps.Friendships.Request))
	mux.HandleFunc("POST /friendships/respond", requireAuth(deps.Friendships.Respond))
	mux.HandleFunc("GET /friendships/pending", requireAuth(deps.Friendships.ListPending))
	mux.HandleFunc("GET /friendships/{userID}", requireAuth(deps.Friendships.GetFriendship))

	// Users
	mux.HandleFunc("GET /users/{userID}", requireAuth(deps.Users.GetUser))

	// Uploaded media
	if deps.UploadDir != "" {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(deps.UploadDir))))
	}

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
