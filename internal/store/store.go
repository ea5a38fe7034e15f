package store

import (
	"context"

	"github.com/swunglabs/swung/internal/model"
)

// Store exposes persistence operations required by the executor, the
// assistant service, and the alarm scheduler. Implementations live under
// internal/store/<driver>/ (sqlite, postgres).
//
// Every row-scoped operation filters by the owning user; a row that exists
// but belongs to someone else surfaces as model.ErrNotFound.
type Store interface {
	Users() Users
	Events() Events
	Todos() Todos
	Alarms() Alarms
	Chats() Chats
	PushTokens() PushTokens

	// HealthPing verifies connectivity for the health endpoint.
	HealthPing(ctx context.Context) error
	Close() error
}

type Users interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	Get(ctx context.Context, userID int64) (*model.User, error)
	GetByGithubID(ctx context.Context, githubID string) (*model.User, error)
}

type Events interface {
	Create(ctx context.Context, e *model.Event) (*model.Event, error)
	Get(ctx context.Context, userID, eventID int64) (*model.Event, error)
	// List returns all of the user's events ordered by datetime ascending.
	List(ctx context.Context, userID int64) ([]*model.Event, error)
	// ListRange bounds the list to datetime in [start, end] (storage-form
	// strings, inclusive). Empty bounds are open.
	ListRange(ctx context.Context, userID int64, start, end string) ([]*model.Event, error)
	// Update patches the given columns. Allowed keys: title, datetime,
	// description, location.
	Update(ctx context.Context, userID, eventID int64, patch map[string]string) (*model.Event, error)
	// Delete removes the event and any alarms linked to it.
	Delete(ctx context.Context, userID, eventID int64) error
}

type Todos interface {
	Create(ctx context.Context, t *model.Todo) (*model.Todo, error)
	Get(ctx context.Context, userID, todoID int64) (*model.Todo, error)
	// List orders by priority descending, due date ascending, creation
	// descending. Completed rows are excluded unless showCompleted.
	List(ctx context.Context, userID int64, showCompleted bool) ([]*model.Todo, error)
	// SetCompleted writes the completed flag and timestamp (nil clears it).
	SetCompleted(ctx context.Context, userID, todoID int64, completed bool, completedAt *string) (*model.Todo, error)
	// Update patches the given columns. Allowed keys: title, description,
	// priority, due_date.
	Update(ctx context.Context, userID, todoID int64, patch map[string]string) (*model.Todo, error)
	Delete(ctx context.Context, userID, todoID int64) error
}

type Alarms interface {
	Create(ctx context.Context, a *model.Alarm) (*model.Alarm, error)
	// ListActive returns the user's not-yet-fired alarms, earliest first.
	ListActive(ctx context.Context, userID int64) ([]*model.Alarm, error)
	// ListDue returns, across all users, active untriggered alarms with
	// trigger_at <= now (storage-form string), earliest first. Scheduler only.
	ListDue(ctx context.Context, now string) ([]*model.Alarm, error)
	// MarkTriggered sets triggered=true and active=false in one update. After
	// this the alarm is terminal and ListDue must never return it again.
	MarkTriggered(ctx context.Context, alarmID int64) error
	Delete(ctx context.Context, userID, alarmID int64) error
}

type Chats interface {
	Append(ctx context.Context, m *model.ChatMessage) (*model.ChatMessage, error)
	// History returns the latest limit messages (after skipping offset),
	// reordered oldest-first for display.
	History(ctx context.Context, userID int64, limit, offset int) ([]*model.ChatMessage, error)
	Clear(ctx context.Context, userID int64) error
}

type PushTokens interface {
	// Upsert inserts the (user, token) pair or refreshes its updated_at.
	Upsert(ctx context.Context, t *model.PushToken) error
	ListByUser(ctx context.Context, userID int64) ([]*model.PushToken, error)
	Delete(ctx context.Context, userID int64, token string) error
}
