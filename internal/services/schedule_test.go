package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swunglabs/swung/internal/model"
	"github.com/swunglabs/swung/internal/store"
	"github.com/swunglabs/swung/internal/store/sqlite"
	"github.com/swunglabs/swung/internal/timeutil"
)

func scheduleFixture(t *testing.T) (*ScheduleService, store.Store, int64) {
	t.Helper()
	instant := time.Date(2026, 8, 27, 14, 30, 0, 0, time.UTC)
	clk, err := timeutil.NewFixedClock("Asia/Kolkata", instant)
	require.NoError(t, err)

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "swung.db"), clk.NowString)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	u, err := st.Users().Create(context.Background(), &model.User{Username: "tester"})
	require.NoError(t, err)
	return NewScheduleService(st, clk), st, u.ID
}

func TestToggleTodo(t *testing.T) {
	svc, st, uid := scheduleFixture(t)
	ctx := context.Background()

	td, err := st.Todos().Create(ctx, &model.Todo{UserID: uid, Title: "laundry"})
	require.NoError(t, err)

	toggled, err := svc.ToggleTodo(ctx, uid, td.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)
	require.NotNil(t, toggled.CompletedAt)
	assert.Equal(t, "2026-08-27T20:00:00", *toggled.CompletedAt)

	back, err := svc.ToggleTodo(ctx, uid, td.ID)
	require.NoError(t, err)
	assert.False(t, back.Completed)
	assert.Nil(t, back.CompletedAt)

	_, err = svc.ToggleTodo(ctx, uid, 99999)
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestDeleteEventCascades(t *testing.T) {
	svc, st, uid := scheduleFixture(t)
	ctx := context.Background()

	ev, err := st.Events().Create(ctx, &model.Event{UserID: uid, Title: "gig", Datetime: "2026-08-28T19:00:00"})
	require.NoError(t, err)
	_, err = st.Alarms().Create(ctx, &model.Alarm{UserID: uid, EventID: &ev.ID, Title: "Reminder: gig", TriggerAt: "2026-08-28T18:45:00"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteEvent(ctx, uid, ev.ID))

	alarms, err := svc.ListActiveAlarms(ctx, uid)
	require.NoError(t, err)
	assert.Empty(t, alarms)

	assert.True(t, errors.Is(svc.DeleteEvent(ctx, uid, ev.ID), model.ErrNotFound))
}

func TestExport(t *testing.T) {
	svc, st, uid := scheduleFixture(t)
	ctx := context.Background()

	_, err := st.Events().Create(ctx, &model.Event{UserID: uid, Title: "e1", Datetime: "2026-08-28T10:00:00"})
	require.NoError(t, err)
	td, err := st.Todos().Create(ctx, &model.Todo{UserID: uid, Title: "t1"})
	require.NoError(t, err)
	done := "2026-08-27T12:00:00"
	_, err = st.Todos().SetCompleted(ctx, uid, td.ID, true, &done)
	require.NoError(t, err)

	out, err := svc.Export(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-27T20:00:00", out.ExportedAt)
	assert.Equal(t, uid, out.UserID)
	assert.Len(t, out.Events, 1)
	// Completed to-dos are part of the export.
	assert.Len(t, out.Todos, 1)
}
