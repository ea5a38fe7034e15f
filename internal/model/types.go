package model

// All datetime fields below hold naive local timestamps in the service's
// fixed organizational timezone, formatted "2006-01-02T15:04:05" with no zone
// suffix. internal/timeutil is the only package that produces or compares
// them.

// User represents an account in the system.
type User struct {
	ID        int64   `json:"id"`
	GithubID  string  `json:"githubId,omitempty"`
	Username  string  `json:"username,omitempty"`
	Name      string  `json:"name,omitempty"`
	Email     string  `json:"email,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
	CreatedAt string  `json:"createdAt,omitempty"`
}

// Event is a scheduled calendar item with a specific date/time.
type Event struct {
	ID          int64   `json:"id"`
	UserID      int64   `json:"userId"`
	Title       string  `json:"title"`
	Datetime    string  `json:"datetime"`
	EndDatetime *string `json:"endDatetime,omitempty"`
	Location    *string `json:"location,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    string  `json:"category"`
	Color       string  `json:"color"`
	IsAllDay    bool    `json:"isAllDay"`
	// Recurrence is an opaque descriptor; the service stores and returns it
	// but never interprets it.
	Recurrence *string `json:"recurrence,omitempty"`
	CreatedAt  string  `json:"createdAt,omitempty"`
	UpdatedAt  string  `json:"updatedAt,omitempty"`
}

// Priority of a to-do item.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Valid reports whether p is one of the catalog's priority values.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Rank orders priorities for list sorting; higher sorts first.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Todo is a checklist item, distinct from a timed Event.
type Todo struct {
	ID          int64    `json:"id"`
	UserID      int64    `json:"userId"`
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	Priority    Priority `json:"priority"`
	DueDate     *string  `json:"dueDate,omitempty"`
	Completed   bool     `json:"completed"`
	CompletedAt *string  `json:"completedAt,omitempty"`
	Category    *string  `json:"category,omitempty"`
	CreatedAt   string   `json:"createdAt,omitempty"`
	UpdatedAt   string   `json:"updatedAt,omitempty"`
}

// Alarm is a timed reminder, optionally linked to an Event.
//
// Invariant: an alarm fires at most once. Once Triggered is set the row also
// becomes inactive and the scheduler must never select it again.
type Alarm struct {
	ID         int64   `json:"id"`
	UserID     int64   `json:"userId"`
	EventID    *int64  `json:"eventId,omitempty"`
	Title      string  `json:"title"`
	Message    *string `json:"message,omitempty"`
	TriggerAt  string  `json:"triggerAt"`
	RepeatType string  `json:"repeatType"`
	Triggered  bool    `json:"triggered"`
	Active     bool    `json:"active"`
	CallUser   bool    `json:"callUser"`
	CreatedAt  string  `json:"createdAt,omitempty"`
}

// ChatMessage is one turn of the conversation log. Rows are append-only and
// only deletable in bulk.
type ChatMessage struct {
	ID         int64   `json:"id"`
	UserID     int64   `json:"userId"`
	Role       string  `json:"role"` // "user" or "assistant"
	Content    string  `json:"content"`
	ActionType *string `json:"actionType,omitempty"`
	// ActionData holds the resolved action and its execution result as a JSON
	// document, kept for history replay.
	ActionData []byte `json:"actionData,omitempty"`
	CreatedAt  string `json:"createdAt,omitempty"`
}

// PushToken registers a device for push delivery. (UserID, Token) is unique;
// re-registering refreshes UpdatedAt.
type PushToken struct {
	UserID    int64  `json:"userId"`
	Token     string `json:"token"`
	Platform  string `json:"platform"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}
