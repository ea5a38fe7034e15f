package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/swunglabs/swung/internal/api/respond"
	"github.com/swunglabs/swung/internal/api/validate"
	"github.com/swunglabs/swung/internal/auth"
	"github.com/swunglabs/swung/internal/model"
)

// userID pulls the authenticated user id the middleware stashed.
func userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	u, ok := auth.UserFrom(r.Context())
	if !ok {
		respond.WriteUnauthorized(w, "user identification required")
		return 0, false
	}
	return u.ID, true
}

// pathID parses the {id} route variable.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func queryInt(r *http.Request, key, fallback string) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		raw = fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

type processRequest struct {
	Text string `json:"text"`
}

func (s *server) handleProcess(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON body")
		return
	}
	if err := validate.NonEmpty("text", req.Text); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	result, err := s.assistant.ProcessTurn(r.Context(), uid, req.Text)
	if err != nil {
		if errors.Is(err, model.ErrValidation) {
			respond.WriteBadRequest(w, err.Error())
			return
		}
		s.log.Error().Err(err).Msg("turn processing failed")
		respond.WriteInternalError(w, "internal server error")
		return
	}
	respond.WriteJSON(w, http.StatusOK, result)
}

func (s *server) handleHistory(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	limit := queryInt(r, "limit", "0")
	offset := queryInt(r, "offset", "0")
	msgs, err := s.assistant.History(r.Context(), uid, limit, offset)
	if err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	if msgs == nil {
		msgs = []*model.ChatMessage{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"messages": msgs})
}

func (s *server) handleClearChat(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	if err := s.assistant.ClearHistory(r.Context(), uid); err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
