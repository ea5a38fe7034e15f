package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/swunglabs/swung/internal/model"
	"github.com/swunglabs/swung/internal/store"
)

// Run exercises a compliance suite against a store.Store implementation.
// Implementations should provide a clean, isolated store from makeStore.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	// Two users, so ownership scoping is observable. Unique github IDs keep
	// the suite rerunnable against a shared database.
	ghAlice := "gh-" + uuid.New().String()
	ghBob := "gh-" + uuid.New().String()
	alice, err := s.Users().Create(ctx, &model.User{GithubID: ghAlice, Username: "alice", Name: "Alice"})
	if err != nil {
		t.Fatalf("CreateUser alice: %v", err)
	}
	bob, err := s.Users().Create(ctx, &model.User{GithubID: ghBob, Username: "bob"})
	if err != nil {
		t.Fatalf("CreateUser bob: %v", err)
	}
	if got, err := s.Users().GetByGithubID(ctx, ghAlice); err != nil || got.ID != alice.ID {
		t.Fatalf("GetByGithubID: got=%v err=%v", got, err)
	}
	if _, err := s.Users().Get(ctx, 99999); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetUser missing: want ErrNotFound, got %v", err)
	}

	// Events
	ev, err := s.Events().Create(ctx, &model.Event{UserID: alice.ID, Title: "dentist", Datetime: "2026-09-01T10:00:00"})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if ev.Category != "general" || ev.Color == "" {
		t.Fatalf("CreateEvent defaults: %+v", ev)
	}
	if _, err := s.Events().Create(ctx, &model.Event{UserID: alice.ID, Title: "standup", Datetime: "2026-09-01T09:00:00"}); err != nil {
		t.Fatalf("CreateEvent second: %v", err)
	}
	lst, err := s.Events().List(ctx, alice.ID)
	if err != nil || len(lst) != 2 {
		t.Fatalf("ListEvents: n=%d err=%v", len(lst), err)
	}
	if lst[0].Title != "standup" {
		t.Fatalf("ListEvents order: got %q first", lst[0].Title)
	}
	if ranged, err := s.Events().ListRange(ctx, alice.ID, "2026-09-01T09:30:00", "2026-09-01T23:59:59"); err != nil || len(ranged) != 1 || ranged[0].ID != ev.ID {
		t.Fatalf("ListRange: n=%d err=%v", len(ranged), err)
	}

	// Ownership: bob cannot see, update, or delete alice's event.
	if _, err := s.Events().Get(ctx, bob.ID, ev.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("cross-user GetEvent: want ErrNotFound, got %v", err)
	}
	if _, err := s.Events().Update(ctx, bob.ID, ev.ID, map[string]string{"title": "stolen"}); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("cross-user UpdateEvent: want ErrNotFound, got %v", err)
	}
	if err := s.Events().Delete(ctx, bob.ID, ev.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("cross-user DeleteEvent: want ErrNotFound, got %v", err)
	}

	upd, err := s.Events().Update(ctx, alice.ID, ev.ID, map[string]string{"title": "dentist (moved)", "datetime": "2026-09-02T10:00:00"})
	if err != nil || upd.Title != "dentist (moved)" || upd.Datetime != "2026-09-02T10:00:00" {
		t.Fatalf("UpdateEvent: got=%+v err=%v", upd, err)
	}
	if _, err := s.Events().Update(ctx, alice.ID, ev.ID, map[string]string{"color": "red"}); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("UpdateEvent unknown field: want ErrValidation, got %v", err)
	}

	// Event deletion cascades to linked alarms.
	linked, err := s.Alarms().Create(ctx, &model.Alarm{UserID: alice.ID, EventID: &ev.ID, Title: "Reminder: dentist", TriggerAt: "2026-09-02T09:45:00"})
	if err != nil {
		t.Fatalf("CreateAlarm linked: %v", err)
	}
	if err := s.Events().Delete(ctx, alice.ID, ev.ID); err != nil {
		t.Fatalf("DeleteEvent: %v", err)
	}
	if active, err := s.Alarms().ListActive(ctx, alice.ID); err != nil || len(active) != 0 {
		t.Fatalf("linked alarm should cascade: n=%d err=%v (id=%d)", len(active), err, linked.ID)
	}

	// Todos: defaults, ordering, toggle
	low, err := s.Todos().Create(ctx, &model.Todo{UserID: alice.ID, Title: "water plants", Priority: model.PriorityLow})
	if err != nil {
		t.Fatalf("CreateTodo low: %v", err)
	}
	urgent, err := s.Todos().Create(ctx, &model.Todo{UserID: alice.ID, Title: "file taxes", Priority: model.PriorityUrgent})
	if err != nil {
		t.Fatalf("CreateTodo urgent: %v", err)
	}
	defaulted, err := s.Todos().Create(ctx, &model.Todo{UserID: alice.ID, Title: "call mom"})
	if err != nil {
		t.Fatalf("CreateTodo default: %v", err)
	}
	if defaulted.Priority != model.PriorityMedium {
		t.Fatalf("CreateTodo default priority: got %q", defaulted.Priority)
	}

	todos, err := s.Todos().List(ctx, alice.ID, false)
	if err != nil || len(todos) != 3 {
		t.Fatalf("ListTodos: n=%d err=%v", len(todos), err)
	}
	// urgent > medium > low regardless of textual sort order.
	if todos[0].ID != urgent.ID || todos[2].ID != low.ID {
		t.Fatalf("ListTodos order: got [%q %q %q]", todos[0].Title, todos[1].Title, todos[2].Title)
	}

	completedAt := "2026-09-01T12:00:00"
	done, err := s.Todos().SetCompleted(ctx, alice.ID, low.ID, true, &completedAt)
	if err != nil || !done.Completed || done.CompletedAt == nil || *done.CompletedAt != completedAt {
		t.Fatalf("SetCompleted: got=%+v err=%v", done, err)
	}
	if open, err := s.Todos().List(ctx, alice.ID, false); err != nil || len(open) != 2 {
		t.Fatalf("ListTodos excludes completed: n=%d err=%v", len(open), err)
	}
	if all, err := s.Todos().List(ctx, alice.ID, true); err != nil || len(all) != 3 {
		t.Fatalf("ListTodos showCompleted: n=%d err=%v", len(all), err)
	}
	// Toggle back clears the timestamp.
	reopened, err := s.Todos().SetCompleted(ctx, alice.ID, low.ID, false, nil)
	if err != nil || reopened.Completed || reopened.CompletedAt != nil {
		t.Fatalf("SetCompleted toggle back: got=%+v err=%v", reopened, err)
	}

	if _, err := s.Todos().Update(ctx, bob.ID, urgent.ID, map[string]string{"title": "x"}); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("cross-user UpdateTodo: want ErrNotFound, got %v", err)
	}
	if _, err := s.Todos().Update(ctx, alice.ID, urgent.ID, map[string]string{"priority": "high", "due_date": "2026-09-10"}); err != nil {
		t.Fatalf("UpdateTodo: %v", err)
	}
	if err := s.Todos().Delete(ctx, alice.ID, defaulted.ID); err != nil {
		t.Fatalf("DeleteTodo: %v", err)
	}

	// Alarms: due selection, ordering, terminal trigger
	a1, err := s.Alarms().Create(ctx, &model.Alarm{UserID: alice.ID, Title: "late", TriggerAt: "2026-09-01T08:30:00"})
	if err != nil {
		t.Fatalf("CreateAlarm a1: %v", err)
	}
	a2, err := s.Alarms().Create(ctx, &model.Alarm{UserID: bob.ID, Title: "early", TriggerAt: "2026-09-01T08:00:00", CallUser: true})
	if err != nil {
		t.Fatalf("CreateAlarm a2: %v", err)
	}
	if _, err := s.Alarms().Create(ctx, &model.Alarm{UserID: alice.ID, Title: "future", TriggerAt: "2026-12-31T23:00:00"}); err != nil {
		t.Fatalf("CreateAlarm future: %v", err)
	}

	// ListDue is cross-user; index only this run's alarms so the suite stays
	// rerunnable against a shared database.
	due, err := s.Alarms().ListDue(ctx, "2026-09-01T08:30:00")
	if err != nil {
		t.Fatalf("ListDue: %v", err)
	}
	pos := func(id int64) int {
		for i, al := range due {
			if al.ID == id {
				return i
			}
		}
		return -1
	}
	p1, p2 := pos(a1.ID), pos(a2.ID)
	if p1 < 0 || p2 < 0 {
		t.Fatalf("ListDue missing alarms: p1=%d p2=%d", p1, p2)
	}
	// Earliest first, across users.
	if p2 > p1 {
		t.Fatalf("ListDue order: early alarm at %d, late at %d", p2, p1)
	}
	if !due[p2].CallUser {
		t.Fatalf("ListDue should carry call_user")
	}

	if err := s.Alarms().MarkTriggered(ctx, a2.ID); err != nil {
		t.Fatalf("MarkTriggered: %v", err)
	}
	due, err = s.Alarms().ListDue(ctx, "2026-09-01T08:30:00")
	if err != nil {
		t.Fatalf("ListDue after trigger: %v", err)
	}
	if pos(a2.ID) >= 0 {
		t.Fatalf("triggered alarm is terminal; ListDue returned it again")
	}
	if pos(a1.ID) < 0 {
		t.Fatalf("untriggered alarm should remain due")
	}
	if err := s.Alarms().Delete(ctx, bob.ID, a1.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("cross-user DeleteAlarm: want ErrNotFound, got %v", err)
	}
	if err := s.Alarms().Delete(ctx, alice.ID, a1.ID); err != nil {
		t.Fatalf("DeleteAlarm: %v", err)
	}

	// Chats: append, windowed history in display order, clear
	for _, msg := range []string{"one", "two", "three", "four"} {
		role := "user"
		if msg == "two" || msg == "four" {
			role = "assistant"
		}
		if _, err := s.Chats().Append(ctx, &model.ChatMessage{UserID: alice.ID, Role: role, Content: msg}); err != nil {
			t.Fatalf("AppendChat %q: %v", msg, err)
		}
	}
	hist, err := s.Chats().History(ctx, alice.ID, 2, 0)
	if err != nil || len(hist) != 2 {
		t.Fatalf("History: n=%d err=%v", len(hist), err)
	}
	// Latest two, oldest of the pair first.
	if hist[0].Content != "three" || hist[1].Content != "four" {
		t.Fatalf("History window: got [%q %q]", hist[0].Content, hist[1].Content)
	}
	if other, err := s.Chats().History(ctx, bob.ID, 10, 0); err != nil || len(other) != 0 {
		t.Fatalf("History isolation: n=%d err=%v", len(other), err)
	}
	if err := s.Chats().Clear(ctx, alice.ID); err != nil {
		t.Fatalf("ClearChats: %v", err)
	}
	if hist, err := s.Chats().History(ctx, alice.ID, 10, 0); err != nil || len(hist) != 0 {
		t.Fatalf("History after clear: n=%d err=%v", len(hist), err)
	}

	// Push tokens: upsert is idempotent per (user, token)
	tok := &model.PushToken{UserID: alice.ID, Token: "device-1", Platform: "android"}
	if err := s.PushTokens().Upsert(ctx, tok); err != nil {
		t.Fatalf("UpsertToken: %v", err)
	}
	if err := s.PushTokens().Upsert(ctx, tok); err != nil {
		t.Fatalf("UpsertToken repeat: %v", err)
	}
	if err := s.PushTokens().Upsert(ctx, &model.PushToken{UserID: alice.ID, Token: "device-2"}); err != nil {
		t.Fatalf("UpsertToken second: %v", err)
	}
	toks, err := s.PushTokens().ListByUser(ctx, alice.ID)
	if err != nil || len(toks) != 2 {
		t.Fatalf("ListTokens: n=%d err=%v", len(toks), err)
	}
	if err := s.PushTokens().Delete(ctx, alice.ID, "device-1"); err != nil {
		t.Fatalf("DeleteToken: %v", err)
	}
	if toks, err := s.PushTokens().ListByUser(ctx, alice.ID); err != nil || len(toks) != 1 || toks[0].Token != "device-2" {
		t.Fatalf("ListTokens after delete: n=%d err=%v", len(toks), err)
	}

	if err := s.HealthPing(ctx); err != nil {
		t.Fatalf("HealthPing: %v", err)
	}
}
