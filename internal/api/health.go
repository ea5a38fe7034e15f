package api

import (
	"net/http"

	"github.com/swunglabs/swung/internal/api/respond"
)

// handleHealth is the liveness probe.
func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   s.clock.NowString(),
	})
}

// handleStatus reports readiness: database connectivity plus the number of
// connected websocket clients.
func (s *server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":   "ok",
		"database": "ok",
		"time":     s.clock.NowString(),
	}
	if s.hub != nil {
		status["websocketClients"] = s.hub.ClientCount()
	}

	code := http.StatusOK
	if err := s.store.HealthPing(r.Context()); err != nil {
		s.log.Error().Err(err).Msg("database health check failed")
		status["status"] = "degraded"
		status["database"] = "unreachable"
		code = http.StatusServiceUnavailable
	}
	respond.WriteJSON(w, code, status)
}
