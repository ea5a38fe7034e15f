// Package executor carries out resolved catalog actions against storage and
// produces the structured result that is spoken back, persisted with the chat
// turn, and returned to API callers.
package executor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/swunglabs/swung/internal/catalog"
	"github.com/swunglabs/swung/internal/logger"
	"github.com/swunglabs/swung/internal/model"
	"github.com/swunglabs/swung/internal/store"
	"github.com/swunglabs/swung/internal/timeutil"
)

// DefaultReminderMinutes is the event reminder lead time when the model
// doesn't specify one.
const DefaultReminderMinutes = 15

// Result is the outcome of one executed action. Expected failures (unknown
// row, bad parameters) surface as Success=false with Error set; only
// infrastructure faults come back as Go errors.
type Result struct {
	Success   bool           `json:"success"`
	Message   string         `json:"message,omitempty"`
	Error     string         `json:"error,omitempty"`
	Event     *model.Event   `json:"event,omitempty"`
	Events    []*model.Event `json:"events,omitempty"`
	Todo      *model.Todo    `json:"todo,omitempty"`
	Todos     []*model.Todo  `json:"todos,omitempty"`
	Alarm     *model.Alarm   `json:"alarm,omitempty"`
	Completed *bool          `json:"completed,omitempty"`
}

type Executor struct {
	store store.Store
	clock *timeutil.Clock
	log   zerolog.Logger
}

func New(st store.Store, clock *timeutil.Clock) *Executor {
	return &Executor{store: st, clock: clock, log: logger.New("executor")}
}

// Execute dispatches the action. The args document comes straight from the
// model, so every branch decodes defensively and validates before writing.
func (x *Executor) Execute(ctx context.Context, userID int64, action catalog.Action, args json.RawMessage) (*Result, error) {
	switch action {
	case catalog.ActionCreateEvent:
		return x.createEvent(ctx, userID, args)
	case catalog.ActionReadEvents:
		return x.readEvents(ctx, userID, args)
	case catalog.ActionUpdateEvent:
		return x.updateEvent(ctx, userID, args)
	case catalog.ActionDeleteEvent:
		return x.deleteEvent(ctx, userID, args)
	case catalog.ActionCreateTodo:
		return x.createTodo(ctx, userID, args)
	case catalog.ActionCompleteTodo:
		return x.completeTodo(ctx, userID, args)
	case catalog.ActionListTodos:
		return x.listTodos(ctx, userID, args)
	case catalog.ActionUpdateTodo:
		return x.updateTodo(ctx, userID, args)
	case catalog.ActionCreateAlarm:
		return x.createAlarm(ctx, userID, args)
	default:
		return fail("Unknown action"), nil
	}
}

func (x *Executor) createEvent(ctx context.Context, userID int64, args json.RawMessage) (*Result, error) {
	var p catalog.CreateEventParams
	if r := decode(args, &p); r != nil {
		return r, nil
	}
	normalized, err := x.clock.Normalize(p.Datetime)
	if err != nil {
		return fail(fmt.Sprintf("Invalid datetime %q", p.Datetime)), nil
	}

	ev, err := x.store.Events().Create(ctx, &model.Event{
		UserID:      userID,
		Title:       p.Title,
		Datetime:    normalized,
		Description: p.Description,
		Location:    p.Location,
	})
	if err != nil {
		return nil, err
	}

	// Best effort: a reminder failure never fails the event itself.
	reminder := DefaultReminderMinutes
	if p.ReminderMinutes != nil {
		reminder = *p.ReminderMinutes
	}
	if reminder > 0 {
		x.createEventReminder(ctx, ev, reminder)
	}

	return &Result{
		Success: true,
		Event:   ev,
		Message: fmt.Sprintf("Event %q created successfully!", ev.Title),
	}, nil
}

func (x *Executor) createEventReminder(ctx context.Context, ev *model.Event, minutes int) {
	start, err := x.clock.Parse(ev.Datetime)
	if err != nil {
		x.log.Warn().Err(err).Int64("event_id", ev.ID).Msg("skipping reminder for unparseable event time")
		return
	}
	msg := fmt.Sprintf("%s starts in %d minutes", ev.Title, minutes)
	_, err = x.store.Alarms().Create(ctx, &model.Alarm{
		UserID:    ev.UserID,
		EventID:   &ev.ID,
		Title:     "Reminder: " + ev.Title,
		Message:   &msg,
		TriggerAt: x.clock.Format(start.Add(-time.Duration(minutes) * time.Minute)),
	})
	if err != nil {
		x.log.Warn().Err(err).Int64("event_id", ev.ID).Msg("failed to create event reminder")
	}
}

func (x *Executor) readEvents(ctx context.Context, userID int64, args json.RawMessage) (*Result, error) {
	var p catalog.ReadEventsParams
	if r := decode(args, &p); r != nil {
		return r, nil
	}

	start, end, bounded := x.queryBounds(p)
	var (
		events []*model.Event
		err    error
	)
	if bounded {
		events, err = x.store.Events().ListRange(ctx, userID, start, end)
	} else {
		events, err = x.store.Events().List(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	msg := "No events found."
	if len(events) > 0 {
		msg = fmt.Sprintf("Found %d event(s).", len(events))
	}
	return &Result{Success: true, Events: events, Message: msg}, nil
}

// queryBounds maps the query keyword (or explicit dates) to an inclusive
// storage-form datetime range covering whole days.
func (x *Executor) queryBounds(p catalog.ReadEventsParams) (start, end string, bounded bool) {
	today := x.clock.Now().Format(timeutil.DateLayout)
	switch strings.ToLower(strings.TrimSpace(p.Query)) {
	case "today":
		return dayStart(today), dayEnd(today), true
	case "tomorrow":
		d := x.clock.Now().AddDate(0, 0, 1).Format(timeutil.DateLayout)
		return dayStart(d), dayEnd(d), true
	case "this week":
		d := x.clock.Now().AddDate(0, 0, 7).Format(timeutil.DateLayout)
		return dayStart(today), dayEnd(d), true
	default:
		if p.StartDate != "" && p.EndDate != "" {
			s, errS := x.clock.Parse(p.StartDate)
			e, errE := x.clock.Parse(p.EndDate)
			if errS == nil && errE == nil {
				return dayStart(s.Format(timeutil.DateLayout)), dayEnd(e.Format(timeutil.DateLayout)), true
			}
		}
		return "", "", false
	}
}

func dayStart(date string) string { return date + "T00:00:00" }
func dayEnd(date string) string   { return date + "T23:59:59" }

func (x *Executor) updateEvent(ctx context.Context, userID int64, args json.RawMessage) (*Result, error) {
	var p catalog.UpdateEventParams
	if r := decode(args, &p); r != nil {
		return r, nil
	}

	patch := map[string]string{}
	if p.Title != nil {
		patch["title"] = *p.Title
	}
	if p.Datetime != nil {
		normalized, err := x.clock.Normalize(*p.Datetime)
		if err != nil {
			return fail(fmt.Sprintf("Invalid datetime %q", *p.Datetime)), nil
		}
		patch["datetime"] = normalized
	}
	if p.Description != nil {
		patch["description"] = *p.Description
	}

	ev, err := x.store.Events().Update(ctx, userID, p.EventID, patch)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return fail("Event not found"), nil
		}
		if errors.Is(err, model.ErrValidation) {
			return fail("No updates provided"), nil
		}
		return nil, err
	}
	return &Result{Success: true, Event: ev, Message: "Event updated successfully!"}, nil
}

func (x *Executor) deleteEvent(ctx context.Context, userID int64, args json.RawMessage) (*Result, error) {
	var p catalog.DeleteEventParams
	if r := decode(args, &p); r != nil {
		return r, nil
	}

	ev, err := x.store.Events().Get(ctx, userID, p.EventID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return fail("Event not found"), nil
		}
		return nil, err
	}
	if err := x.store.Events().Delete(ctx, userID, p.EventID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return fail("Event not found"), nil
		}
		return nil, err
	}
	return &Result{Success: true, Message: fmt.Sprintf("Event %q deleted successfully!", ev.Title)}, nil
}

func (x *Executor) createTodo(ctx context.Context, userID int64, args json.RawMessage) (*Result, error) {
	var p catalog.CreateTodoParams
	if r := decode(args, &p); r != nil {
		return r, nil
	}

	td, err := x.store.Todos().Create(ctx, &model.Todo{
		UserID:      userID,
		Title:       p.Title,
		Description: p.Description,
		Priority:    model.Priority(p.Priority),
		DueDate:     p.DueDate,
	})
	if err != nil {
		return nil, err
	}
	return &Result{Success: true, Todo: td, Message: fmt.Sprintf("To-do %q created!", td.Title)}, nil
}

// completeTodo toggles: completing an open to-do stamps completed_at,
// completing an already-done one reopens it and clears the stamp.
func (x *Executor) completeTodo(ctx context.Context, userID int64, args json.RawMessage) (*Result, error) {
	var p catalog.CompleteTodoParams
	if r := decode(args, &p); r != nil {
		return r, nil
	}

	existing, err := x.store.Todos().Get(ctx, userID, p.TodoID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return fail("To-do not found"), nil
		}
		return nil, err
	}

	completed := !existing.Completed
	var completedAt *string
	if completed {
		now := x.clock.NowString()
		completedAt = &now
	}
	td, err := x.store.Todos().SetCompleted(ctx, userID, p.TodoID, completed, completedAt)
	if err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("To-do %q restored!", td.Title)
	if completed {
		msg = fmt.Sprintf("To-do %q completed!", td.Title)
	}
	return &Result{Success: true, Todo: td, Completed: &completed, Message: msg}, nil
}

func (x *Executor) listTodos(ctx context.Context, userID int64, args json.RawMessage) (*Result, error) {
	var p catalog.ListTodosParams
	if r := decode(args, &p); r != nil {
		return r, nil
	}

	todos, err := x.store.Todos().List(ctx, userID, p.ShowCompleted)
	if err != nil {
		return nil, err
	}
	msg := "No to-dos found."
	if len(todos) > 0 {
		msg = fmt.Sprintf("Found %d to-do(s).", len(todos))
	}
	return &Result{Success: true, Todos: todos, Message: msg}, nil
}

func (x *Executor) updateTodo(ctx context.Context, userID int64, args json.RawMessage) (*Result, error) {
	var p catalog.UpdateTodoParams
	if r := decode(args, &p); r != nil {
		return r, nil
	}

	patch := map[string]string{}
	if p.Title != nil {
		patch["title"] = *p.Title
	}
	if p.Description != nil {
		patch["description"] = *p.Description
	}
	if p.Priority != nil {
		patch["priority"] = *p.Priority
	}
	if p.DueDate != nil {
		patch["due_date"] = *p.DueDate
	}

	td, err := x.store.Todos().Update(ctx, userID, p.TodoID, patch)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return fail("To-do not found"), nil
		}
		if errors.Is(err, model.ErrValidation) {
			return fail("No updates provided"), nil
		}
		return nil, err
	}
	return &Result{Success: true, Todo: td, Message: "To-do updated successfully!"}, nil
}

func (x *Executor) createAlarm(ctx context.Context, userID int64, args json.RawMessage) (*Result, error) {
	var p catalog.CreateAlarmParams
	if r := decode(args, &p); r != nil {
		return r, nil
	}
	normalized, err := x.clock.Normalize(p.TriggerAt)
	if err != nil {
		return fail(fmt.Sprintf("Invalid datetime %q", p.TriggerAt)), nil
	}

	al, err := x.store.Alarms().Create(ctx, &model.Alarm{
		UserID:    userID,
		Title:     p.Title,
		Message:   p.Message,
		TriggerAt: normalized,
		CallUser:  p.CallUser,
	})
	if err != nil {
		return nil, err
	}
	return &Result{
		Success: true,
		Alarm:   al,
		Message: fmt.Sprintf("Alarm %q set for %s!", al.Title, x.clock.Human(al.TriggerAt)),
	}, nil
}

// decode unmarshals and validates; a non-nil Result is the failure to return.
func decode(args json.RawMessage, into interface{ Validate() error }) *Result {
	if len(args) > 0 {
		if err := json.Unmarshal(args, into); err != nil {
			return fail("Could not understand the request parameters")
		}
	}
	if err := into.Validate(); err != nil {
		return fail(trimValidation(err))
	}
	return nil
}

func trimValidation(err error) string {
	return strings.TrimPrefix(err.Error(), model.ErrValidation.Error()+": ")
}

func fail(msg string) *Result {
	return &Result{Success: false, Error: msg}
}
