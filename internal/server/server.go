// Package server wires the REST API: routing, request decoding, and the
// mapping of domain errors onto HTTP statuses. All business rules live in
// the service layer; handlers only resolve the acting user and translate.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/timeflowhq/timeflow/internal/auth"
	"github.com/timeflowhq/timeflow/internal/metrics"
	"github.com/timeflowhq/timeflow/internal/middleware"
	"github.com/timeflowhq/timeflow/internal/models"
	"github.com/timeflowhq/timeflow/internal/service"
	"github.com/timeflowhq/timeflow/internal/storage"
)

// Server holds the API dependencies and builds the router.
type Server struct {
	store         storage.Store
	authenticator *auth.PasswordAuthenticator
	guests        *auth.GuestProvisioner
	jwt           *auth.JWTManager

	groups        *service.GroupService
	tasks         *service.TaskService
	dashboard     *service.DashboardService
	notifications *service.NotificationService
}

// New creates a Server with all services built over the given store.
func New(store storage.Store, jwt *auth.JWTManager) *Server {
	return &Server{
		store:         store,
		authenticator: auth.NewPasswordAuthenticator(store),
		guests:        auth.NewGuestProvisioner(store),
		jwt:           jwt,
		groups:        service.NewGroupService(store),
		tasks:         service.NewTaskService(store),
		dashboard:     service.NewDashboardService(store),
		notifications: service.NewNotificationService(store),
	}
}

// Router builds the full route tree.
func Router(s *Server) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(metrics.Instrument(func(req *http.Request) string {
		if ctx := chi.RouteContext(req.Context()); ctx != nil {
			if pattern := ctx.RoutePattern(); pattern != "" {
				return pattern
			}
		}
		return "unmatched"
	}))
	r.Use(middleware.RequestLogger)

	r.Get("/metrics", metrics.Handler().ServeHTTP)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/guest", s.handleGuest)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(s.jwt))

			r.Get("/me", s.handleGetMe)
			r.Put("/me", s.handleUpdateMe)

			r.Route("/groups", func(r chi.Router) {
				r.Get("/", s.handleListGroups)
				r.Post("/", s.handleCreateGroup)
				r.Post("/join", s.handleJoinGroup)

				r.Route("/{groupID}", func(r chi.Router) {
					r.Get("/", s.handleGetGroup)
					r.Put("/", s.handleUpdateGroup)
					r.Delete("/", s.handleDeleteGroup)
					r.Post("/leave", s.handleLeaveGroup)
					r.Get("/permissions", s.handleGroupPermissions)
					r.Post("/invites", s.handleCreateInvite)
					r.Get("/log", s.handleGroupLog)
					r.Delete("/members/{userID}", s.handleRemoveMember)
					r.Put("/members/{userID}/role", s.handleUpdateMemberRole)
				})
			})

			r.Route("/activities", func(r chi.Router) {
				r.Get("/", s.handleListActivities)
				r.Post("/", s.handleCreateActivity)

				r.Route("/{activityID}", func(r chi.Router) {
					r.Put("/", s.handleUpdateActivity)
					r.Delete("/", s.handleDeleteActivity)
					r.Post("/toggle", s.handleToggleActivity)
					r.Get("/can-edit", s.handleCanEditActivity)
				})
			})

			r.Get("/dashboard", s.handleDashboard)

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", s.handleListNotifications)
				r.Get("/unread-count", s.handleUnreadCount)
				r.Post("/read-all", s.handleMarkAllRead)
				r.Post("/{notificationID}/read", s.handleMarkRead)
			})
		})
	})

	return r
}

// actor resolves the authenticated user from the request context. The
// user ID comes from a validated token, so a missing record means the
// account was deleted after the token was issued.
func (s *Server) actor(r *http.Request) (*models.User, error) {
	return s.store.GetUserByID(r.Context(), middleware.GetUserID(r.Context()))
}
