package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swunglabs/swung/internal/auth"
	"github.com/swunglabs/swung/internal/catalog"
	"github.com/swunglabs/swung/internal/executor"
	"github.com/swunglabs/swung/internal/model"
	"github.com/swunglabs/swung/internal/notify"
	"github.com/swunglabs/swung/internal/push"
	"github.com/swunglabs/swung/internal/resolver"
	"github.com/swunglabs/swung/internal/services"
	"github.com/swunglabs/swung/internal/store"
	"github.com/swunglabs/swung/internal/store/sqlite"
	"github.com/swunglabs/swung/internal/timeutil"
)

// scriptedResolver returns a canned outcome for every utterance.
type scriptedResolver struct {
	outcome *resolver.Outcome
}

func (s *scriptedResolver) Resolve(context.Context, string, resolver.Snapshot) *resolver.Outcome {
	return s.outcome
}

type apiFixture struct {
	router *mux.Router
	store  store.Store
	res    *scriptedResolver
	userID int64
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	instant := time.Date(2026, 8, 27, 14, 30, 0, 0, time.UTC) // 20:00 IST
	clk, err := timeutil.NewFixedClock("Asia/Kolkata", instant)
	require.NoError(t, err)

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "swung.db"), clk.NowString)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	u, err := st.Users().Create(context.Background(), &model.User{Username: "tester"})
	require.NoError(t, err)

	res := &scriptedResolver{outcome: &resolver.Outcome{Message: "Hello!"}}
	exec := executor.New(st, clk)
	router := NewRouter(Deps{
		Assistant:  services.NewAssistantService(st, res, exec, clk, 20),
		Schedule:   services.NewScheduleService(st, clk),
		Store:      st,
		Hub:        notify.NewHub(),
		Push:       push.NewSender("http://unused.invalid", "", st.PushTokens()),
		Authorizer: auth.NewHeaderAuthorizer(st.Users()),
		Clock:      clk,
	})
	return &apiFixture{router: router, store: st, res: res, userID: u.ID}
}

func (f *apiFixture) do(t *testing.T, method, path string, body interface{}, asUser bool) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if asUser {
		req.Header.Set(auth.UserIDHeader, fmt.Sprintf("%d", f.userID))
	}
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), out))
}

func TestAuthRequired(t *testing.T) {
	f := newAPIFixture(t)

	rr := f.do(t, "GET", "/api/events", nil, false)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest("GET", "/api/events", nil)
	req.Header.Set(auth.UserIDHeader, "9999")
	rr2 := httptest.NewRecorder()
	f.router.ServeHTTP(rr2, req)
	assert.Equal(t, http.StatusUnauthorized, rr2.Code)
}

func TestHealthAndStatusSkipAuth(t *testing.T) {
	f := newAPIFixture(t)

	rr := f.do(t, "GET", "/api/health", nil, false)
	require.Equal(t, http.StatusOK, rr.Code)
	var health map[string]string
	decodeBody(t, rr, &health)
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, "2026-08-27T20:00:00", health["time"])

	rr = f.do(t, "GET", "/api/status", nil, false)
	require.Equal(t, http.StatusOK, rr.Code)
	var status map[string]interface{}
	decodeBody(t, rr, &status)
	assert.Equal(t, "ok", status["database"])
	assert.Equal(t, float64(0), status["websocketClients"])
}

func TestProcessPlainReply(t *testing.T) {
	f := newAPIFixture(t)
	f.res.outcome = &resolver.Outcome{Message: "Hi there!"}

	rr := f.do(t, "POST", "/api/process", map[string]string{"text": "hello"}, true)
	require.Equal(t, http.StatusOK, rr.Code)

	var result services.TurnResult
	decodeBody(t, rr, &result)
	assert.True(t, result.Success)
	assert.Equal(t, "Hi there!", result.Message)
	assert.Nil(t, result.Action)
}

func TestProcessExecutesAction(t *testing.T) {
	f := newAPIFixture(t)
	f.res.outcome = &resolver.Outcome{
		Message: "Creating that for you.",
		Action: &resolver.ResolvedAction{
			Type: catalog.ActionCreateEvent,
			Args: json.RawMessage(`{"title":"Dentist","datetime":"2026-08-28T10:00:00"}`),
		},
	}

	rr := f.do(t, "POST", "/api/process", map[string]string{"text": "dentist tomorrow at 10"}, true)
	require.Equal(t, http.StatusOK, rr.Code)

	var result services.TurnResult
	decodeBody(t, rr, &result)
	assert.True(t, result.Success)
	assert.Equal(t, `Event "Dentist" created successfully!`, result.Message)
	require.NotNil(t, result.ActionResult)
	require.NotNil(t, result.ActionResult.Event)
	assert.Equal(t, "2026-08-28T10:00:00", result.ActionResult.Event.Datetime)

	// The event is visible through the schedule routes.
	rr = f.do(t, "GET", "/api/events", nil, true)
	require.Equal(t, http.StatusOK, rr.Code)
	var listing struct {
		Events []*model.Event `json:"events"`
	}
	decodeBody(t, rr, &listing)
	require.Len(t, listing.Events, 1)
	assert.Equal(t, "Dentist", listing.Events[0].Title)
}

func TestProcessRejectsEmptyText(t *testing.T) {
	f := newAPIFixture(t)

	rr := f.do(t, "POST", "/api/process", map[string]string{"text": "   "}, true)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = f.do(t, "POST", "/api/process", nil, true)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHistoryAndClearChat(t *testing.T) {
	f := newAPIFixture(t)
	f.res.outcome = &resolver.Outcome{Message: "Noted."}

	rr := f.do(t, "POST", "/api/process", map[string]string{"text": "remember this"}, true)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = f.do(t, "GET", "/api/history", nil, true)
	require.Equal(t, http.StatusOK, rr.Code)
	var history struct {
		Messages []*model.ChatMessage `json:"messages"`
	}
	decodeBody(t, rr, &history)
	require.Len(t, history.Messages, 2)
	assert.Equal(t, "user", history.Messages[0].Role)
	assert.Equal(t, "assistant", history.Messages[1].Role)

	rr = f.do(t, "POST", "/api/clear-chat", nil, true)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = f.do(t, "GET", "/api/history", nil, true)
	require.Equal(t, http.StatusOK, rr.Code)
	history.Messages = nil
	decodeBody(t, rr, &history)
	assert.Empty(t, history.Messages)
}

func TestEventRoutes(t *testing.T) {
	f := newAPIFixture(t)
	ctx := context.Background()

	ev, err := f.store.Events().Create(ctx, &model.Event{
		UserID: f.userID, Title: "Standup", Datetime: "2026-08-28T09:30:00",
	})
	require.NoError(t, err)

	rr := f.do(t, "GET", fmt.Sprintf("/api/events/%d", ev.ID), nil, true)
	require.Equal(t, http.StatusOK, rr.Code)
	var got model.Event
	decodeBody(t, rr, &got)
	assert.Equal(t, "Standup", got.Title)

	rr = f.do(t, "GET", "/api/events/9999", nil, true)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = f.do(t, "DELETE", fmt.Sprintf("/api/events/%d", ev.ID), nil, true)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = f.do(t, "GET", fmt.Sprintf("/api/events/%d", ev.ID), nil, true)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestTodoRoutes(t *testing.T) {
	f := newAPIFixture(t)
	ctx := context.Background()

	td, err := f.store.Todos().Create(ctx, &model.Todo{UserID: f.userID, Title: "Pay rent"})
	require.NoError(t, err)

	rr := f.do(t, "PATCH", fmt.Sprintf("/api/todos/%d/complete", td.ID), nil, true)
	require.Equal(t, http.StatusOK, rr.Code)
	var toggled model.Todo
	decodeBody(t, rr, &toggled)
	assert.True(t, toggled.Completed)
	require.NotNil(t, toggled.CompletedAt)
	assert.Equal(t, "2026-08-27T20:00:00", *toggled.CompletedAt)

	// Completed to-dos only show up with show_completed.
	rr = f.do(t, "GET", "/api/todos", nil, true)
	require.Equal(t, http.StatusOK, rr.Code)
	var listing struct {
		Todos []*model.Todo `json:"todos"`
	}
	decodeBody(t, rr, &listing)
	assert.Empty(t, listing.Todos)

	rr = f.do(t, "GET", "/api/todos?show_completed=true", nil, true)
	require.Equal(t, http.StatusOK, rr.Code)
	listing.Todos = nil
	decodeBody(t, rr, &listing)
	require.Len(t, listing.Todos, 1)

	rr = f.do(t, "DELETE", fmt.Sprintf("/api/todos/%d", td.ID), nil, true)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = f.do(t, "DELETE", fmt.Sprintf("/api/todos/%d", td.ID), nil, true)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAlarmRoutes(t *testing.T) {
	f := newAPIFixture(t)
	ctx := context.Background()

	al, err := f.store.Alarms().Create(ctx, &model.Alarm{
		UserID: f.userID, Title: "Wake up", TriggerAt: "2026-08-28T06:30:00",
	})
	require.NoError(t, err)

	rr := f.do(t, "GET", "/api/alarms", nil, true)
	require.Equal(t, http.StatusOK, rr.Code)
	var listing struct {
		Alarms []*model.Alarm `json:"alarms"`
	}
	decodeBody(t, rr, &listing)
	require.Len(t, listing.Alarms, 1)
	assert.Equal(t, "Wake up", listing.Alarms[0].Title)

	rr = f.do(t, "DELETE", fmt.Sprintf("/api/alarms/%d", al.ID), nil, true)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = f.do(t, "GET", "/api/alarms", nil, true)
	require.Equal(t, http.StatusOK, rr.Code)
	listing.Alarms = nil
	decodeBody(t, rr, &listing)
	assert.Empty(t, listing.Alarms)
}

func TestRegisterToken(t *testing.T) {
	f := newAPIFixture(t)

	rr := f.do(t, "POST", "/api/notifications/register-token", map[string]string{"token": "abc", "platform": "android"}, true)
	require.Equal(t, http.StatusOK, rr.Code)

	tokens, err := f.store.PushTokens().ListByUser(context.Background(), f.userID)
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, "abc", tokens[0].Token)
	assert.Equal(t, "android", tokens[0].Platform)

	rr = f.do(t, "POST", "/api/notifications/register-token", map[string]string{"token": ""}, true)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestTestNotificationUnconfigured(t *testing.T) {
	f := newAPIFixture(t)
	rr := f.do(t, "POST", "/api/notifications/test", nil, true)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestExportData(t *testing.T) {
	f := newAPIFixture(t)
	ctx := context.Background()

	_, err := f.store.Events().Create(ctx, &model.Event{UserID: f.userID, Title: "Trip", Datetime: "2026-09-01T08:00:00"})
	require.NoError(t, err)
	_, err = f.store.Todos().Create(ctx, &model.Todo{UserID: f.userID, Title: "Pack"})
	require.NoError(t, err)

	rr := f.do(t, "GET", "/api/export-data", nil, true)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "attachment")

	var export services.ExportData
	decodeBody(t, rr, &export)
	assert.Equal(t, f.userID, export.UserID)
	assert.Equal(t, "2026-08-27T20:00:00", export.ExportedAt)
	assert.Len(t, export.Events, 1)
	assert.Len(t, export.Todos, 1)
}
