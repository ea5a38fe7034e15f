package api

import (
	"net/http"

	"github.com/swunglabs/swung/internal/api/respond"
	"github.com/swunglabs/swung/internal/model"
)

func (s *server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	events, err := s.schedule.ListEvents(r.Context(), uid)
	if err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	if events == nil {
		events = []*model.Event{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"events": events})
}

func (s *server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		respond.WriteBadRequest(w, "invalid event id")
		return
	}
	event, err := s.schedule.GetEvent(r.Context(), uid, id)
	if err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, event)
}

func (s *server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		respond.WriteBadRequest(w, "invalid event id")
		return
	}
	if err := s.schedule.DeleteEvent(r.Context(), uid, id); err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *server) handleListTodos(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	showCompleted := r.URL.Query().Get("show_completed") == "true"
	todos, err := s.schedule.ListTodos(r.Context(), uid, showCompleted)
	if err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	if todos == nil {
		todos = []*model.Todo{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"todos": todos})
}

func (s *server) handleToggleTodo(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		respond.WriteBadRequest(w, "invalid to-do id")
		return
	}
	todo, err := s.schedule.ToggleTodo(r.Context(), uid, id)
	if err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, todo)
}

func (s *server) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		respond.WriteBadRequest(w, "invalid to-do id")
		return
	}
	if err := s.schedule.DeleteTodo(r.Context(), uid, id); err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *server) handleListAlarms(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	alarms, err := s.schedule.ListActiveAlarms(r.Context(), uid)
	if err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	if alarms == nil {
		alarms = []*model.Alarm{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"alarms": alarms})
}

func (s *server) handleDeleteAlarm(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		respond.WriteBadRequest(w, "invalid alarm id")
		return
	}
	if err := s.schedule.DeleteAlarm(r.Context(), uid, id); err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *server) handleExport(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	data, err := s.schedule.Export(r.Context(), uid)
	if err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="swung-export.json"`)
	respond.WriteJSON(w, http.StatusOK, data)
}
