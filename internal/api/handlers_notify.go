package api

import (
	"encoding/json"
	"net/http"

	"github.com/swunglabs/swung/internal/api/respond"
	"github.com/swunglabs/swung/internal/api/validate"
	"github.com/swunglabs/swung/internal/model"
)

type registerTokenRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

func (s *server) handleRegisterToken(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req registerTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON body")
		return
	}
	if err := validate.NonEmpty("token", req.Token); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if req.Platform == "" {
		req.Platform = "web"
	}

	err := s.store.PushTokens().Upsert(r.Context(), &model.PushToken{
		UserID:   uid,
		Token:    req.Token,
		Platform: req.Platform,
	})
	if err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *server) handleTestNotification(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	if s.push == nil || !s.push.Configured() {
		respond.WriteError(w, http.StatusServiceUnavailable, "push notifications are not configured")
		return
	}
	if err := s.push.Send(r.Context(), uid, "Test Notification", "Push notifications are working."); err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
