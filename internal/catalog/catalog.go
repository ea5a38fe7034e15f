// Package catalog is the closed set of actions the assistant can take. It
// owns the tool declarations sent to the model, the typed parameter forms the
// executor consumes, and the canned acknowledgements used when the model
// invokes a tool without saying anything.
package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/swunglabs/swung/internal/llm"
	"github.com/swunglabs/swung/internal/model"
)

// Action identifies one assistant capability.
type Action string

const (
	ActionCreateEvent  Action = "create_event"
	ActionReadEvents   Action = "read_events"
	ActionUpdateEvent  Action = "update_event"
	ActionDeleteEvent  Action = "delete_event"
	ActionCreateTodo   Action = "create_todo"
	ActionCompleteTodo Action = "complete_todo"
	ActionListTodos    Action = "list_todos"
	ActionUpdateTodo   Action = "update_todo"
	ActionCreateAlarm  Action = "create_alarm"
)

// All lists every action in catalog order.
func All() []Action {
	return []Action{
		ActionCreateEvent, ActionReadEvents, ActionUpdateEvent, ActionDeleteEvent,
		ActionCreateTodo, ActionCompleteTodo, ActionListTodos, ActionUpdateTodo,
		ActionCreateAlarm,
	}
}

// Valid reports whether a is a catalog action.
func (a Action) Valid() bool {
	switch a {
	case ActionCreateEvent, ActionReadEvents, ActionUpdateEvent, ActionDeleteEvent,
		ActionCreateTodo, ActionCompleteTodo, ActionListTodos, ActionUpdateTodo,
		ActionCreateAlarm:
		return true
	}
	return false
}

// Tools returns the function declarations advertised to the model.
func Tools() []llm.Tool {
	return tools
}

var tools = []llm.Tool{
	tool("create_event", "Create a new calendar event", `{
		"type": "object",
		"properties": {
			"title": {"type": "string", "description": "Event title"},
			"datetime": {"type": "string", "description": "Event date/time in ISO 8601 format (YYYY-MM-DDTHH:mm:ss)"},
			"description": {"type": "string", "description": "Optional event description"},
			"location": {"type": "string", "description": "Optional location"},
			"reminder_minutes": {"type": "number", "description": "Reminder before event in minutes (default: 15)"}
		},
		"required": ["title", "datetime"]
	}`),
	tool("read_events", "List events for a specific date range or query", `{
		"type": "object",
		"properties": {
			"query": {"type": "string", "description": "Query like 'today', 'tomorrow', 'this week', or a specific date"},
			"start_date": {"type": "string", "description": "Start date in ISO format"},
			"end_date": {"type": "string", "description": "End date in ISO format"}
		},
		"required": ["query"]
	}`),
	tool("update_event", "Update an existing event", `{
		"type": "object",
		"properties": {
			"event_id": {"type": "number", "description": "ID of the event to update"},
			"title": {"type": "string", "description": "New title (optional)"},
			"datetime": {"type": "string", "description": "New datetime (optional)"},
			"description": {"type": "string", "description": "New description (optional)"}
		},
		"required": ["event_id"]
	}`),
	tool("delete_event", "Delete an event", `{
		"type": "object",
		"properties": {
			"event_id": {"type": "number", "description": "ID of the event to delete"}
		},
		"required": ["event_id"]
	}`),
	tool("create_todo", "Create a new to-do checklist item (NOT an event)", `{
		"type": "object",
		"properties": {
			"title": {"type": "string", "description": "To-do title"},
			"description": {"type": "string", "description": "To-do description"},
			"priority": {"type": "string", "enum": ["low", "medium", "high", "urgent"], "description": "Priority"},
			"due_date": {"type": "string", "description": "Due date in ISO format (optional)"}
		},
		"required": ["title"]
	}`),
	tool("complete_todo", "Mark a to-do as complete", `{
		"type": "object",
		"properties": {
			"todo_id": {"type": "number", "description": "ID of the to-do to complete"}
		},
		"required": ["todo_id"]
	}`),
	tool("list_todos", "List to-do items", `{
		"type": "object",
		"properties": {
			"show_completed": {"type": "boolean", "description": "Whether to include completed to-dos"}
		}
	}`),
	tool("update_todo", "Update an existing to-do", `{
		"type": "object",
		"properties": {
			"todo_id": {"type": "number", "description": "ID of the to-do to update"},
			"title": {"type": "string", "description": "New title"},
			"description": {"type": "string", "description": "New description"},
			"priority": {"type": "string", "enum": ["low", "medium", "high", "urgent"], "description": "New priority"},
			"due_date": {"type": "string", "description": "New due date"}
		},
		"required": ["todo_id"]
	}`),
	tool("create_alarm", "Create a reminder alarm", `{
		"type": "object",
		"properties": {
			"title": {"type": "string", "description": "Alarm title/reason"},
			"trigger_at": {"type": "string", "description": "When to trigger the alarm (ISO 8601 format)"},
			"message": {"type": "string", "description": "Optional message to show"},
			"call_user": {"type": "boolean", "description": "Whether to call the user (default: false)"}
		},
		"required": ["title", "trigger_at"]
	}`),
}

func tool(name, desc, params string) llm.Tool {
	return llm.Tool{
		Type: "function",
		Function: llm.ToolFunction{
			Name:        name,
			Description: desc,
			Parameters:  json.RawMessage(params),
		},
	}
}

// FallbackAck synthesizes the acknowledgement used when the model invokes a
// tool with empty prose. args is the raw argument document; only title/query
// are consulted.
func FallbackAck(a Action, args json.RawMessage) string {
	var fields struct {
		Title string `json:"title"`
		Query string `json:"query"`
	}
	_ = json.Unmarshal(args, &fields)
	title := fields.Title
	if title == "" {
		title = fields.Query
	}

	switch a {
	case ActionCreateEvent:
		return fmt.Sprintf("Got it! I'll create an event %q for you.", title)
	case ActionCreateAlarm:
		return fmt.Sprintf("Setting a reminder %q for you.", title)
	case ActionCreateTodo:
		return fmt.Sprintf("Added %q to your To-Do list.", title)
	case ActionReadEvents:
		if title != "" {
			return fmt.Sprintf("Let me check your schedule for %s.", title)
		}
		return "Let me check your schedule."
	case ActionListTodos:
		return "Here are your to-dos."
	case ActionDeleteEvent:
		return "I'll delete that event for you."
	case ActionUpdateTodo:
		return fmt.Sprintf("Updated to-do %q for you.", title)
	default:
		return fmt.Sprintf("I'll %s for you.", strings.ReplaceAll(string(a), "_", " "))
	}
}

// Typed parameter forms. The executor decodes the raw argument document into
// one of these and validates before touching storage.

type CreateEventParams struct {
	Title           string  `json:"title"`
	Datetime        string  `json:"datetime"`
	Description     *string `json:"description,omitempty"`
	Location        *string `json:"location,omitempty"`
	ReminderMinutes *int    `json:"reminder_minutes,omitempty"`
}

func (p *CreateEventParams) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: event title is required", model.ErrValidation)
	}
	if strings.TrimSpace(p.Datetime) == "" {
		return fmt.Errorf("%w: event datetime is required", model.ErrValidation)
	}
	if p.ReminderMinutes != nil && *p.ReminderMinutes < 0 {
		return fmt.Errorf("%w: reminder_minutes must not be negative", model.ErrValidation)
	}
	return nil
}

type ReadEventsParams struct {
	Query     string `json:"query"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// Validate always passes; an empty query means "all events".
func (p *ReadEventsParams) Validate() error { return nil }

type UpdateEventParams struct {
	EventID     int64   `json:"event_id"`
	Title       *string `json:"title,omitempty"`
	Datetime    *string `json:"datetime,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (p *UpdateEventParams) Validate() error {
	if p.EventID <= 0 {
		return fmt.Errorf("%w: event_id is required", model.ErrValidation)
	}
	if p.Title == nil && p.Datetime == nil && p.Description == nil {
		return fmt.Errorf("%w: nothing to update", model.ErrValidation)
	}
	return nil
}

type DeleteEventParams struct {
	EventID int64 `json:"event_id"`
}

func (p *DeleteEventParams) Validate() error {
	if p.EventID <= 0 {
		return fmt.Errorf("%w: event_id is required", model.ErrValidation)
	}
	return nil
}

type CreateTodoParams struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Priority    string  `json:"priority,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
}

func (p *CreateTodoParams) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: to-do title is required", model.ErrValidation)
	}
	if p.Priority != "" && !model.Priority(p.Priority).Valid() {
		return fmt.Errorf("%w: unknown priority %q", model.ErrValidation, p.Priority)
	}
	return nil
}

type CompleteTodoParams struct {
	TodoID int64 `json:"todo_id"`
}

func (p *CompleteTodoParams) Validate() error {
	if p.TodoID <= 0 {
		return fmt.Errorf("%w: todo_id is required", model.ErrValidation)
	}
	return nil
}

type ListTodosParams struct {
	ShowCompleted bool `json:"show_completed,omitempty"`
}

func (p *ListTodosParams) Validate() error { return nil }

type UpdateTodoParams struct {
	TodoID      int64   `json:"todo_id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
}

func (p *UpdateTodoParams) Validate() error {
	if p.TodoID <= 0 {
		return fmt.Errorf("%w: todo_id is required", model.ErrValidation)
	}
	if p.Title == nil && p.Description == nil && p.Priority == nil && p.DueDate == nil {
		return fmt.Errorf("%w: nothing to update", model.ErrValidation)
	}
	if p.Priority != nil && !model.Priority(*p.Priority).Valid() {
		return fmt.Errorf("%w: unknown priority %q", model.ErrValidation, *p.Priority)
	}
	return nil
}

type CreateAlarmParams struct {
	Title     string  `json:"title"`
	TriggerAt string  `json:"trigger_at"`
	Message   *string `json:"message,omitempty"`
	CallUser  bool    `json:"call_user,omitempty"`
}

func (p *CreateAlarmParams) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: alarm title is required", model.ErrValidation)
	}
	if strings.TrimSpace(p.TriggerAt) == "" {
		return fmt.Errorf("%w: alarm trigger_at is required", model.ErrValidation)
	}
	return nil
}
