// Package api wires the HTTP boundary: request routing, the user authorizer,
// and the JSON handlers over the assistant and schedule services.
package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/swunglabs/swung/internal/api/recovery"
	"github.com/swunglabs/swung/internal/api/respond"
	"github.com/swunglabs/swung/internal/auth"
	"github.com/swunglabs/swung/internal/logger"
	"github.com/swunglabs/swung/internal/notify"
	"github.com/swunglabs/swung/internal/push"
	"github.com/swunglabs/swung/internal/services"
	"github.com/swunglabs/swung/internal/store"
	"github.com/swunglabs/swung/internal/timeutil"
)

// Deps collects everything the router serves.
type Deps struct {
	Assistant  *services.AssistantService
	Schedule   *services.ScheduleService
	Store      store.Store
	Hub        *notify.Hub
	Push       *push.Sender
	Authorizer auth.Authorizer
	Clock      *timeutil.Clock
}

type server struct {
	assistant  *services.AssistantService
	schedule   *services.ScheduleService
	store      store.Store
	hub        *notify.Hub
	push       *push.Sender
	authorizer auth.Authorizer
	clock      *timeutil.Clock
	log        zerolog.Logger
}

// NewRouter creates the HTTP router with all API routes.
func NewRouter(d Deps) *mux.Router {
	s := &server{
		assistant:  d.Assistant,
		schedule:   d.Schedule,
		store:      d.Store,
		hub:        d.Hub,
		push:       d.Push,
		authorizer: d.Authorizer,
		clock:      d.Clock,
		log:        logger.New("api"),
	}

	router := mux.NewRouter()
	router.Use(recovery.Middleware)

	// Infrastructure endpoints stay outside the authorizer.
	router.HandleFunc("/api/health", s.handleHealth).Methods("GET")
	router.HandleFunc("/api/status", s.handleStatus).Methods("GET")
	if s.hub != nil {
		router.Handle("/ws", s.hub)
	}

	api := router.PathPrefix("/api").Subrouter()
	api.Use(s.requireUser)

	api.HandleFunc("/process", s.handleProcess).Methods("POST")
	api.HandleFunc("/history", s.handleHistory).Methods("GET")
	api.HandleFunc("/clear-chat", s.handleClearChat).Methods("POST")

	api.HandleFunc("/events", s.handleListEvents).Methods("GET")
	api.HandleFunc("/events/{id:[0-9]+}", s.handleGetEvent).Methods("GET")
	api.HandleFunc("/events/{id:[0-9]+}", s.handleDeleteEvent).Methods("DELETE")

	api.HandleFunc("/todos", s.handleListTodos).Methods("GET")
	api.HandleFunc("/todos/{id:[0-9]+}/complete", s.handleToggleTodo).Methods("PATCH")
	api.HandleFunc("/todos/{id:[0-9]+}", s.handleDeleteTodo).Methods("DELETE")

	api.HandleFunc("/alarms", s.handleListAlarms).Methods("GET")
	api.HandleFunc("/alarms/{id:[0-9]+}", s.handleDeleteAlarm).Methods("DELETE")

	api.HandleFunc("/notifications/register-token", s.handleRegisterToken).Methods("POST")
	api.HandleFunc("/notifications/test", s.handleTestNotification).Methods("POST")

	api.HandleFunc("/export-data", s.handleExport).Methods("GET")

	return router
}

// requireUser resolves the acting user and stashes it in the request context.
func (s *server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, err := s.authorizer.Authorize(r.Context(), r)
		if err != nil {
			if errors.Is(err, auth.ErrMissingUser) || errors.Is(err, auth.ErrInvalidUser) {
				respond.WriteUnauthorized(w, err.Error())
				return
			}
			s.log.Error().Err(err).Msg("authorization check failed")
			respond.WriteInternalError(w, "internal server error")
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), u)))
	})
}
