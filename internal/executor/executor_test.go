package executor

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swunglabs/swung/internal/catalog"
	"github.com/swunglabs/swung/internal/model"
	"github.com/swunglabs/swung/internal/store"
	"github.com/swunglabs/swung/internal/store/sqlite"
	"github.com/swunglabs/swung/internal/timeutil"
)

// Fixed "now": Thursday 2026-08-27 20:00:00 IST.
func fixture(t *testing.T) (*Executor, store.Store, *timeutil.Clock, int64) {
	t.Helper()
	instant := time.Date(2026, 8, 27, 14, 30, 0, 0, time.UTC)
	clk, err := timeutil.NewFixedClock("Asia/Kolkata", instant)
	require.NoError(t, err)

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "swung.db"), clk.NowString)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	u, err := st.Users().Create(context.Background(), &model.User{Username: "tester"})
	require.NoError(t, err)

	return New(st, clk), st, clk, u.ID
}

func exec(t *testing.T, x *Executor, userID int64, action catalog.Action, args string) *Result {
	t.Helper()
	res, err := x.Execute(context.Background(), userID, action, json.RawMessage(args))
	require.NoError(t, err)
	return res
}

func TestCreateEvent_WithDefaultReminder(t *testing.T) {
	x, st, _, uid := fixture(t)

	res := exec(t, x, uid, catalog.ActionCreateEvent, `{"title":"Dentist","datetime":"2026-08-28T10:00:00","location":"clinic"}`)
	require.True(t, res.Success, res.Error)
	require.NotNil(t, res.Event)
	assert.Equal(t, `Event "Dentist" created successfully!`, res.Message)

	alarms, err := st.Alarms().ListActive(context.Background(), uid)
	require.NoError(t, err)
	require.Len(t, alarms, 1)
	al := alarms[0]
	assert.Equal(t, "Reminder: Dentist", al.Title)
	assert.Equal(t, "2026-08-28T09:45:00", al.TriggerAt)
	require.NotNil(t, al.EventID)
	assert.Equal(t, res.Event.ID, *al.EventID)
	require.NotNil(t, al.Message)
	assert.Equal(t, "Dentist starts in 15 minutes", *al.Message)
}

func TestCreateEvent_CustomAndZeroReminder(t *testing.T) {
	x, st, _, uid := fixture(t)

	exec(t, x, uid, catalog.ActionCreateEvent, `{"title":"A","datetime":"2026-08-28T10:00:00","reminder_minutes":60}`)
	alarms, err := st.Alarms().ListActive(context.Background(), uid)
	require.NoError(t, err)
	require.Len(t, alarms, 1)
	assert.Equal(t, "2026-08-28T09:00:00", alarms[0].TriggerAt)

	// Zero suppresses the reminder entirely.
	res := exec(t, x, uid, catalog.ActionCreateEvent, `{"title":"B","datetime":"2026-08-29T10:00:00","reminder_minutes":0}`)
	require.True(t, res.Success)
	alarms, err = st.Alarms().ListActive(context.Background(), uid)
	require.NoError(t, err)
	assert.Len(t, alarms, 1)
}

func TestCreateEvent_NormalizesDatetime(t *testing.T) {
	x, _, _, uid := fixture(t)

	res := exec(t, x, uid, catalog.ActionCreateEvent, `{"title":"X","datetime":"2026-08-28 10:00:00Z"}`)
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "2026-08-28T10:00:00", res.Event.Datetime)
}

func TestCreateEvent_Invalid(t *testing.T) {
	x, _, _, uid := fixture(t)

	res := exec(t, x, uid, catalog.ActionCreateEvent, `{"title":"X","datetime":"whenever"}`)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "Invalid datetime")

	res = exec(t, x, uid, catalog.ActionCreateEvent, `{"datetime":"2026-08-28T10:00:00"}`)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "title")
}

func TestReadEvents_Queries(t *testing.T) {
	x, _, _, uid := fixture(t)

	exec(t, x, uid, catalog.ActionCreateEvent, `{"title":"today-late","datetime":"2026-08-27T22:00:00","reminder_minutes":0}`)
	exec(t, x, uid, catalog.ActionCreateEvent, `{"title":"tomorrow","datetime":"2026-08-28T09:00:00","reminder_minutes":0}`)
	exec(t, x, uid, catalog.ActionCreateEvent, `{"title":"next-month","datetime":"2026-09-20T09:00:00","reminder_minutes":0}`)

	res := exec(t, x, uid, catalog.ActionReadEvents, `{"query":"today"}`)
	require.True(t, res.Success)
	require.Len(t, res.Events, 1)
	assert.Equal(t, "today-late", res.Events[0].Title)
	assert.Equal(t, "Found 1 event(s).", res.Message)

	res = exec(t, x, uid, catalog.ActionReadEvents, `{"query":"Tomorrow"}`)
	require.Len(t, res.Events, 1)
	assert.Equal(t, "tomorrow", res.Events[0].Title)

	res = exec(t, x, uid, catalog.ActionReadEvents, `{"query":"this week"}`)
	assert.Len(t, res.Events, 2)

	res = exec(t, x, uid, catalog.ActionReadEvents, `{"query":"September","start_date":"2026-09-01","end_date":"2026-09-30"}`)
	require.Len(t, res.Events, 1)
	assert.Equal(t, "next-month", res.Events[0].Title)

	// Unrecognized query without explicit dates lists everything.
	res = exec(t, x, uid, catalog.ActionReadEvents, `{"query":"everything"}`)
	assert.Len(t, res.Events, 3)

	res = exec(t, x, uid, catalog.ActionReadEvents, `{"query":"today","start_date":"","end_date":""}`)
	require.True(t, res.Success)
}

func TestReadEvents_Empty(t *testing.T) {
	x, _, _, uid := fixture(t)
	res := exec(t, x, uid, catalog.ActionReadEvents, `{"query":"today"}`)
	require.True(t, res.Success)
	assert.Equal(t, "No events found.", res.Message)
}

func TestUpdateAndDeleteEvent(t *testing.T) {
	x, st, _, uid := fixture(t)

	created := exec(t, x, uid, catalog.ActionCreateEvent, `{"title":"Sync","datetime":"2026-08-28T09:00:00"}`)
	id := created.Event.ID

	res, err := x.Execute(context.Background(), uid, catalog.ActionUpdateEvent,
		json.RawMessage(`{"event_id":`+jsonID(id)+`,"title":"Sync (moved)","datetime":"2026-08-28T11:00:00"}`))
	require.NoError(t, err)
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "Sync (moved)", res.Event.Title)
	assert.Equal(t, "2026-08-28T11:00:00", res.Event.Datetime)

	res = exec(t, x, uid, catalog.ActionUpdateEvent, `{"event_id":99999,"title":"x"}`)
	assert.False(t, res.Success)
	assert.Equal(t, "Event not found", res.Error)

	res, err = x.Execute(context.Background(), uid, catalog.ActionDeleteEvent,
		json.RawMessage(`{"event_id":`+jsonID(id)+`}`))
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, `Event "Sync (moved)" deleted successfully!`, res.Message)

	// The default reminder created alongside must be gone with the event.
	alarms, err := st.Alarms().ListActive(context.Background(), uid)
	require.NoError(t, err)
	assert.Empty(t, alarms)

	res = exec(t, x, uid, catalog.ActionDeleteEvent, `{"event_id":99999}`)
	assert.False(t, res.Success)
	assert.Equal(t, "Event not found", res.Error)
}

func TestTodoLifecycle(t *testing.T) {
	x, _, _, uid := fixture(t)

	created := exec(t, x, uid, catalog.ActionCreateTodo, `{"title":"Buy milk","priority":"high"}`)
	require.True(t, created.Success, created.Error)
	assert.Equal(t, `To-do "Buy milk" created!`, created.Message)
	assert.Equal(t, model.PriorityHigh, created.Todo.Priority)

	defaulted := exec(t, x, uid, catalog.ActionCreateTodo, `{"title":"Untagged"}`)
	assert.Equal(t, model.PriorityMedium, defaulted.Todo.Priority)

	id := jsonID(created.Todo.ID)

	// Completing stamps the time.
	res := exec(t, x, uid, catalog.ActionCompleteTodo, `{"todo_id":`+id+`}`)
	require.True(t, res.Success, res.Error)
	require.NotNil(t, res.Completed)
	assert.True(t, *res.Completed)
	assert.Equal(t, `To-do "Buy milk" completed!`, res.Message)
	require.NotNil(t, res.Todo.CompletedAt)
	assert.Equal(t, "2026-08-27T20:00:00", *res.Todo.CompletedAt)

	// Completing again toggles back and clears the stamp.
	res = exec(t, x, uid, catalog.ActionCompleteTodo, `{"todo_id":`+id+`}`)
	require.True(t, res.Success)
	assert.False(t, *res.Completed)
	assert.Equal(t, `To-do "Buy milk" restored!`, res.Message)
	assert.Nil(t, res.Todo.CompletedAt)

	res = exec(t, x, uid, catalog.ActionCompleteTodo, `{"todo_id":99999}`)
	assert.False(t, res.Success)
	assert.Equal(t, "To-do not found", res.Error)

	res = exec(t, x, uid, catalog.ActionUpdateTodo, `{"todo_id":`+id+`,"priority":"urgent","due_date":"2026-08-30"}`)
	require.True(t, res.Success, res.Error)
	assert.Equal(t, model.PriorityUrgent, res.Todo.Priority)

	list := exec(t, x, uid, catalog.ActionListTodos, `{}`)
	require.True(t, list.Success)
	require.Len(t, list.Todos, 2)
	assert.Equal(t, "Buy milk", list.Todos[0].Title) // urgent outranks medium
	assert.Equal(t, "Found 2 to-do(s).", list.Message)
}

func TestListTodos_ShowCompleted(t *testing.T) {
	x, _, _, uid := fixture(t)

	a := exec(t, x, uid, catalog.ActionCreateTodo, `{"title":"done one"}`)
	exec(t, x, uid, catalog.ActionCreateTodo, `{"title":"open one"}`)
	exec(t, x, uid, catalog.ActionCompleteTodo, `{"todo_id":`+jsonID(a.Todo.ID)+`}`)

	open := exec(t, x, uid, catalog.ActionListTodos, `{}`)
	require.Len(t, open.Todos, 1)
	assert.Equal(t, "open one", open.Todos[0].Title)

	all := exec(t, x, uid, catalog.ActionListTodos, `{"show_completed":true}`)
	assert.Len(t, all.Todos, 2)
}

func TestCreateAlarm(t *testing.T) {
	x, _, _, uid := fixture(t)

	res := exec(t, x, uid, catalog.ActionCreateAlarm, `{"title":"Wake up","trigger_at":"2026-08-28T06:30:00","call_user":true}`)
	require.True(t, res.Success, res.Error)
	require.NotNil(t, res.Alarm)
	assert.True(t, res.Alarm.CallUser)
	assert.True(t, res.Alarm.Active)
	assert.False(t, res.Alarm.Triggered)
	assert.Nil(t, res.Alarm.EventID)
	assert.Equal(t, `Alarm "Wake up" set for Fri, 28 Aug 2026 at 6:30 AM!`, res.Message)

	res = exec(t, x, uid, catalog.ActionCreateAlarm, `{"title":"Bad","trigger_at":"noonish"}`)
	assert.False(t, res.Success)
}

func TestOwnershipScoping(t *testing.T) {
	x, st, _, uid := fixture(t)
	other, err := st.Users().Create(context.Background(), &model.User{Username: "other"})
	require.NoError(t, err)

	created := exec(t, x, uid, catalog.ActionCreateEvent, `{"title":"Mine","datetime":"2026-08-28T10:00:00"}`)
	id := jsonID(created.Event.ID)

	res := exec(t, x, other.ID, catalog.ActionDeleteEvent, `{"event_id":`+id+`}`)
	assert.False(t, res.Success)
	assert.Equal(t, "Event not found", res.Error)
}

func TestUnknownActionAndMalformedArgs(t *testing.T) {
	x, _, _, uid := fixture(t)

	res := exec(t, x, uid, catalog.Action("explode"), `{}`)
	assert.False(t, res.Success)
	assert.Equal(t, "Unknown action", res.Error)

	res = exec(t, x, uid, catalog.ActionCreateEvent, `{"title":`)
	assert.False(t, res.Success)
}

func jsonID(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
