package services

import (
	"context"

	"github.com/swunglabs/swung/internal/model"
	"github.com/swunglabs/swung/internal/store"
	"github.com/swunglabs/swung/internal/timeutil"
)

// ScheduleService exposes the direct schedule operations the UI performs
// outside of a conversation turn: listing, deleting, toggling, exporting.
type ScheduleService struct {
	store store.Store
	clock *timeutil.Clock
}

func NewScheduleService(st store.Store, clock *timeutil.Clock) *ScheduleService {
	return &ScheduleService{store: st, clock: clock}
}

func (s *ScheduleService) ListEvents(ctx context.Context, userID int64) ([]*model.Event, error) {
	return s.store.Events().List(ctx, userID)
}

func (s *ScheduleService) GetEvent(ctx context.Context, userID, eventID int64) (*model.Event, error) {
	return s.store.Events().Get(ctx, userID, eventID)
}

// DeleteEvent removes the event and its linked alarms.
func (s *ScheduleService) DeleteEvent(ctx context.Context, userID, eventID int64) error {
	return s.store.Events().Delete(ctx, userID, eventID)
}

func (s *ScheduleService) ListTodos(ctx context.Context, userID int64, showCompleted bool) ([]*model.Todo, error) {
	return s.store.Todos().List(ctx, userID, showCompleted)
}

// ToggleTodo flips the completed flag, stamping or clearing completed_at.
func (s *ScheduleService) ToggleTodo(ctx context.Context, userID, todoID int64) (*model.Todo, error) {
	existing, err := s.store.Todos().Get(ctx, userID, todoID)
	if err != nil {
		return nil, err
	}
	completed := !existing.Completed
	var completedAt *string
	if completed {
		now := s.clock.NowString()
		completedAt = &now
	}
	return s.store.Todos().SetCompleted(ctx, userID, todoID, completed, completedAt)
}

func (s *ScheduleService) DeleteTodo(ctx context.Context, userID, todoID int64) error {
	return s.store.Todos().Delete(ctx, userID, todoID)
}

func (s *ScheduleService) ListActiveAlarms(ctx context.Context, userID int64) ([]*model.Alarm, error) {
	return s.store.Alarms().ListActive(ctx, userID)
}

func (s *ScheduleService) DeleteAlarm(ctx context.Context, userID, alarmID int64) error {
	return s.store.Alarms().Delete(ctx, userID, alarmID)
}

// ExportData is the downloadable snapshot of a user's schedule.
type ExportData struct {
	ExportedAt string         `json:"exportedAt"`
	UserID     int64          `json:"userId"`
	Events     []*model.Event `json:"events"`
	Todos      []*model.Todo  `json:"todos"`
}

// Export bundles all events and to-dos (completed included).
func (s *ScheduleService) Export(ctx context.Context, userID int64) (*ExportData, error) {
	events, err := s.store.Events().List(ctx, userID)
	if err != nil {
		return nil, err
	}
	todos, err := s.store.Todos().List(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	return &ExportData{
		ExportedAt: s.clock.NowString(),
		UserID:     userID,
		Events:     events,
		Todos:      todos,
	}, nil
}
