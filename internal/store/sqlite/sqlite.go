// Package sqlite implements store.Store on a local SQLite database using the
// pure-Go modernc driver. This is the default driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/swunglabs/swung/internal/model"
	"github.com/swunglabs/swung/internal/store"
)

// Open opens (or creates) the database at path, enables WAL and foreign keys,
// and bootstraps the schema. nowFn supplies storage-form timestamps for
// created_at/updated_at so every persisted time shares one convention.
func Open(path string, nowFn func() string) (store.Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// The database file is effectively single-writer; a single connection
	// serializes all writes through one path.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return New(db, nowFn), nil
}

// New wraps an already-open database. Exposed for tests that use ":memory:".
func New(db *sql.DB, nowFn func() string) store.Store {
	return &sqlStore{db: db, now: nowFn}
}

func ensureSchema(db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("schema: %w", err)
		}
	}
	return nil
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		github_id TEXT UNIQUE,
		username TEXT,
		name TEXT,
		email TEXT,
		avatar_url TEXT,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		datetime TEXT NOT NULL,
		end_datetime TEXT,
		location TEXT,
		category TEXT NOT NULL DEFAULT 'general',
		color TEXT NOT NULL DEFAULT '#3b82f6',
		is_all_day INTEGER NOT NULL DEFAULT 0,
		recurrence TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS alarms (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		event_id INTEGER,
		title TEXT NOT NULL,
		message TEXT,
		trigger_at TEXT NOT NULL,
		repeat_type TEXT NOT NULL DEFAULT 'once',
		is_triggered INTEGER NOT NULL DEFAULT 0,
		is_active INTEGER NOT NULL DEFAULT 1,
		call_user INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
		FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS todos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		priority TEXT NOT NULL DEFAULT 'medium',
		due_date TEXT,
		completed INTEGER NOT NULL DEFAULT 0,
		completed_at TEXT,
		category TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS chats (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		action_type TEXT,
		action_data TEXT,
		created_at TEXT NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS push_tokens (
		user_id INTEGER NOT NULL,
		token TEXT NOT NULL,
		platform TEXT NOT NULL DEFAULT 'web',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (user_id, token),
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_events_user_id ON events(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_events_datetime ON events(datetime)`,
	`CREATE INDEX IF NOT EXISTS idx_alarms_trigger_at ON alarms(trigger_at)`,
	`CREATE INDEX IF NOT EXISTS idx_todos_user_id ON todos(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_chats_user_id ON chats(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_push_tokens_user_id ON push_tokens(user_id)`,
}

type sqlStore struct {
	db  *sql.DB
	now func() string
}

func (s *sqlStore) Users() store.Users           { return &users{s} }
func (s *sqlStore) Events() store.Events         { return &events{s} }
func (s *sqlStore) Todos() store.Todos           { return &todos{s} }
func (s *sqlStore) Alarms() store.Alarms         { return &alarms{s} }
func (s *sqlStore) Chats() store.Chats           { return &chats{s} }
func (s *sqlStore) PushTokens() store.PushTokens { return &pushTokens{s} }

func (s *sqlStore) HealthPing(ctx context.Context) error { return s.db.PingContext(ctx) }
func (s *sqlStore) Close() error                         { return s.db.Close() }

// --- Users ---

type users struct{ p *sqlStore }

func (u *users) Create(ctx context.Context, m *model.User) (*model.User, error) {
	now := u.p.now()
	res, err := u.p.db.ExecContext(ctx, `
        INSERT INTO users (github_id, username, name, email, avatar_url, created_at)
        VALUES (?,?,?,?,?,?)
    `, nullStr(m.GithubID), nullStr(m.Username), nullStr(m.Name), nullStr(m.Email), m.AvatarURL, now)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	out := *m
	out.ID = id
	out.CreatedAt = now
	return &out, nil
}

func (u *users) Get(ctx context.Context, userID int64) (*model.User, error) {
	row := u.p.db.QueryRowContext(ctx, `
        SELECT id, COALESCE(github_id,''), COALESCE(username,''), COALESCE(name,''), COALESCE(email,''), avatar_url, created_at
        FROM users WHERE id=?
    `, userID)
	return scanUser(row)
}

func (u *users) GetByGithubID(ctx context.Context, githubID string) (*model.User, error) {
	row := u.p.db.QueryRowContext(ctx, `
        SELECT id, COALESCE(github_id,''), COALESCE(username,''), COALESCE(name,''), COALESCE(email,''), avatar_url, created_at
        FROM users WHERE github_id=?
    `, githubID)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*model.User, error) {
	var out model.User
	err := row.Scan(&out.ID, &out.GithubID, &out.Username, &out.Name, &out.Email, &out.AvatarURL, &out.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Events ---

type events struct{ p *sqlStore }

const eventCols = `id, user_id, title, description, datetime, end_datetime, location, category, color, is_all_day, recurrence, created_at, updated_at`

func (e *events) Create(ctx context.Context, m *model.Event) (*model.Event, error) {
	now := e.p.now()
	category := m.Category
	if category == "" {
		category = "general"
	}
	color := m.Color
	if color == "" {
		color = "#3b82f6"
	}
	res, err := e.p.db.ExecContext(ctx, `
        INSERT INTO events (user_id, title, description, datetime, end_datetime, location, category, color, is_all_day, recurrence, created_at, updated_at)
        VALUES (?,?,?,?,?,?,?,?,?,?,?,?)
    `, m.UserID, m.Title, m.Description, m.Datetime, m.EndDatetime, m.Location, category, color, boolInt(m.IsAllDay), m.Recurrence, now, now)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	out := *m
	out.ID = id
	out.Category = category
	out.Color = color
	out.CreatedAt = now
	out.UpdatedAt = now
	return &out, nil
}

func (e *events) Get(ctx context.Context, userID, eventID int64) (*model.Event, error) {
	row := e.p.db.QueryRowContext(ctx,
		`SELECT `+eventCols+` FROM events WHERE id=? AND user_id=?`, eventID, userID)
	return scanEventRow(row)
}

func (e *events) List(ctx context.Context, userID int64) ([]*model.Event, error) {
	rows, err := e.p.db.QueryContext(ctx,
		`SELECT `+eventCols+` FROM events WHERE user_id=? ORDER BY datetime ASC`, userID)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

func (e *events) ListRange(ctx context.Context, userID int64, start, end string) ([]*model.Event, error) {
	q := `SELECT ` + eventCols + ` FROM events WHERE user_id=?`
	args := []any{userID}
	if start != "" {
		q += ` AND datetime >= ?`
		args = append(args, start)
	}
	if end != "" {
		q += ` AND datetime <= ?`
		args = append(args, end)
	}
	q += ` ORDER BY datetime ASC`
	rows, err := e.p.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

var eventPatchCols = map[string]string{
	"title":       "title",
	"datetime":    "datetime",
	"description": "description",
	"location":    "location",
}

func (e *events) Update(ctx context.Context, userID, eventID int64, patch map[string]string) (*model.Event, error) {
	set, args, err := buildPatch(eventPatchCols, patch)
	if err != nil {
		return nil, err
	}
	set += ", updated_at = ?"
	args = append(args, e.p.now(), eventID, userID)
	res, err := e.p.db.ExecContext(ctx,
		`UPDATE events SET `+set+` WHERE id=? AND user_id=?`, args...)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.ErrNotFound
	}
	return e.Get(ctx, userID, eventID)
}

func (e *events) Delete(ctx context.Context, userID, eventID int64) error {
	tx, err := e.p.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Linked alarms go with the event.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM alarms WHERE event_id=? AND user_id=?`, eventID, userID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		`DELETE FROM events WHERE id=? AND user_id=?`, eventID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return tx.Commit()
}

func scanEventRow(row *sql.Row) (*model.Event, error) {
	var out model.Event
	var allDay int
	err := row.Scan(&out.ID, &out.UserID, &out.Title, &out.Description, &out.Datetime,
		&out.EndDatetime, &out.Location, &out.Category, &out.Color, &allDay,
		&out.Recurrence, &out.CreatedAt, &out.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	out.IsAllDay = allDay != 0
	return &out, nil
}

func collectEvents(rows *sql.Rows) ([]*model.Event, error) {
	defer func() { _ = rows.Close() }()
	var res []*model.Event
	for rows.Next() {
		var out model.Event
		var allDay int
		if err := rows.Scan(&out.ID, &out.UserID, &out.Title, &out.Description, &out.Datetime,
			&out.EndDatetime, &out.Location, &out.Category, &out.Color, &allDay,
			&out.Recurrence, &out.CreatedAt, &out.UpdatedAt); err != nil {
			return nil, err
		}
		out.IsAllDay = allDay != 0
		res = append(res, &out)
	}
	return res, rows.Err()
}

// --- Todos ---

type todos struct{ p *sqlStore }

const todoCols = `id, user_id, title, description, priority, due_date, completed, completed_at, category, created_at, updated_at`

// todoOrder ranks priority explicitly; a bare ORDER BY priority DESC would
// sort the text values and put "high" below "low".
const todoOrder = ` ORDER BY CASE priority
        WHEN 'urgent' THEN 4 WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END DESC,
    due_date IS NULL, due_date ASC, created_at DESC`

func (t *todos) Create(ctx context.Context, m *model.Todo) (*model.Todo, error) {
	now := t.p.now()
	priority := m.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	res, err := t.p.db.ExecContext(ctx, `
        INSERT INTO todos (user_id, title, description, priority, due_date, category, created_at, updated_at)
        VALUES (?,?,?,?,?,?,?,?)
    `, m.UserID, m.Title, m.Description, string(priority), m.DueDate, m.Category, now, now)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	out := *m
	out.ID = id
	out.Priority = priority
	out.CreatedAt = now
	out.UpdatedAt = now
	return &out, nil
}

func (t *todos) Get(ctx context.Context, userID, todoID int64) (*model.Todo, error) {
	row := t.p.db.QueryRowContext(ctx,
		`SELECT `+todoCols+` FROM todos WHERE id=? AND user_id=?`, todoID, userID)
	return scanTodoRow(row)
}

func (t *todos) List(ctx context.Context, userID int64, showCompleted bool) ([]*model.Todo, error) {
	q := `SELECT ` + todoCols + ` FROM todos WHERE user_id=?`
	if !showCompleted {
		q += ` AND completed=0`
	}
	q += todoOrder
	rows, err := t.p.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	return collectTodos(rows)
}

func (t *todos) SetCompleted(ctx context.Context, userID, todoID int64, completed bool, completedAt *string) (*model.Todo, error) {
	res, err := t.p.db.ExecContext(ctx, `
        UPDATE todos SET completed=?, completed_at=?, updated_at=? WHERE id=? AND user_id=?
    `, boolInt(completed), completedAt, t.p.now(), todoID, userID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.ErrNotFound
	}
	return t.Get(ctx, userID, todoID)
}

var todoPatchCols = map[string]string{
	"title":       "title",
	"description": "description",
	"priority":    "priority",
	"due_date":    "due_date",
}

func (t *todos) Update(ctx context.Context, userID, todoID int64, patch map[string]string) (*model.Todo, error) {
	set, args, err := buildPatch(todoPatchCols, patch)
	if err != nil {
		return nil, err
	}
	set += ", updated_at = ?"
	args = append(args, t.p.now(), todoID, userID)
	res, err := t.p.db.ExecContext(ctx,
		`UPDATE todos SET `+set+` WHERE id=? AND user_id=?`, args...)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.ErrNotFound
	}
	return t.Get(ctx, userID, todoID)
}

func (t *todos) Delete(ctx context.Context, userID, todoID int64) error {
	res, err := t.p.db.ExecContext(ctx,
		`DELETE FROM todos WHERE id=? AND user_id=?`, todoID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func scanTodoRow(row *sql.Row) (*model.Todo, error) {
	var out model.Todo
	var completed int
	var priority string
	err := row.Scan(&out.ID, &out.UserID, &out.Title, &out.Description, &priority,
		&out.DueDate, &completed, &out.CompletedAt, &out.Category, &out.CreatedAt, &out.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	out.Priority = model.Priority(priority)
	out.Completed = completed != 0
	return &out, nil
}

func collectTodos(rows *sql.Rows) ([]*model.Todo, error) {
	defer func() { _ = rows.Close() }()
	var res []*model.Todo
	for rows.Next() {
		var out model.Todo
		var completed int
		var priority string
		if err := rows.Scan(&out.ID, &out.UserID, &out.Title, &out.Description, &priority,
			&out.DueDate, &completed, &out.CompletedAt, &out.Category, &out.CreatedAt, &out.UpdatedAt); err != nil {
			return nil, err
		}
		out.Priority = model.Priority(priority)
		out.Completed = completed != 0
		res = append(res, &out)
	}
	return res, rows.Err()
}

// --- Alarms ---

type alarms struct{ p *sqlStore }

const alarmCols = `id, user_id, event_id, title, message, trigger_at, repeat_type, is_triggered, is_active, call_user, created_at`

func (a *alarms) Create(ctx context.Context, m *model.Alarm) (*model.Alarm, error) {
	now := a.p.now()
	repeat := m.RepeatType
	if repeat == "" {
		repeat = "once"
	}
	res, err := a.p.db.ExecContext(ctx, `
        INSERT INTO alarms (user_id, event_id, title, message, trigger_at, repeat_type, call_user, created_at)
        VALUES (?,?,?,?,?,?,?,?)
    `, m.UserID, m.EventID, m.Title, m.Message, m.TriggerAt, repeat, boolInt(m.CallUser), now)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	out := *m
	out.ID = id
	out.RepeatType = repeat
	out.Active = true
	out.Triggered = false
	out.CreatedAt = now
	return &out, nil
}

func (a *alarms) ListActive(ctx context.Context, userID int64) ([]*model.Alarm, error) {
	rows, err := a.p.db.QueryContext(ctx,
		`SELECT `+alarmCols+` FROM alarms WHERE user_id=? AND is_active=1 ORDER BY trigger_at ASC`, userID)
	if err != nil {
		return nil, err
	}
	return collectAlarms(rows)
}

func (a *alarms) ListDue(ctx context.Context, now string) ([]*model.Alarm, error) {
	rows, err := a.p.db.QueryContext(ctx, `
        SELECT `+alarmCols+` FROM alarms
        WHERE is_triggered=0 AND is_active=1 AND trigger_at <= ?
        ORDER BY trigger_at ASC
    `, now)
	if err != nil {
		return nil, err
	}
	return collectAlarms(rows)
}

func (a *alarms) MarkTriggered(ctx context.Context, alarmID int64) error {
	res, err := a.p.db.ExecContext(ctx,
		`UPDATE alarms SET is_triggered=1, is_active=0 WHERE id=?`, alarmID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (a *alarms) Delete(ctx context.Context, userID, alarmID int64) error {
	res, err := a.p.db.ExecContext(ctx,
		`DELETE FROM alarms WHERE id=? AND user_id=?`, alarmID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func collectAlarms(rows *sql.Rows) ([]*model.Alarm, error) {
	defer func() { _ = rows.Close() }()
	var res []*model.Alarm
	for rows.Next() {
		var out model.Alarm
		var triggered, active, callUser int
		if err := rows.Scan(&out.ID, &out.UserID, &out.EventID, &out.Title, &out.Message,
			&out.TriggerAt, &out.RepeatType, &triggered, &active, &callUser, &out.CreatedAt); err != nil {
			return nil, err
		}
		out.Triggered = triggered != 0
		out.Active = active != 0
		out.CallUser = callUser != 0
		res = append(res, &out)
	}
	return res, rows.Err()
}

// --- Chats ---

type chats struct{ p *sqlStore }

func (c *chats) Append(ctx context.Context, m *model.ChatMessage) (*model.ChatMessage, error) {
	now := c.p.now()
	var actionData any
	if len(m.ActionData) > 0 {
		actionData = string(m.ActionData)
	}
	res, err := c.p.db.ExecContext(ctx, `
        INSERT INTO chats (user_id, role, content, action_type, action_data, created_at)
        VALUES (?,?,?,?,?,?)
    `, m.UserID, m.Role, m.Content, m.ActionType, actionData, now)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	out := *m
	out.ID = id
	out.CreatedAt = now
	return &out, nil
}

func (c *chats) History(ctx context.Context, userID int64, limit, offset int) ([]*model.ChatMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	// Latest N (descending), reordered ascending for chat display.
	rows, err := c.p.db.QueryContext(ctx, `
        SELECT id, user_id, role, content, action_type, action_data, created_at FROM (
            SELECT * FROM chats WHERE user_id=? ORDER BY id DESC LIMIT ? OFFSET ?
        ) ORDER BY id ASC
    `, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []*model.ChatMessage
	for rows.Next() {
		var out model.ChatMessage
		var actionData *string
		if err := rows.Scan(&out.ID, &out.UserID, &out.Role, &out.Content,
			&out.ActionType, &actionData, &out.CreatedAt); err != nil {
			return nil, err
		}
		if actionData != nil {
			out.ActionData = []byte(*actionData)
		}
		res = append(res, &out)
	}
	return res, rows.Err()
}

func (c *chats) Clear(ctx context.Context, userID int64) error {
	_, err := c.p.db.ExecContext(ctx, `DELETE FROM chats WHERE user_id=?`, userID)
	return err
}

// --- Push tokens ---

type pushTokens struct{ p *sqlStore }

func (t *pushTokens) Upsert(ctx context.Context, m *model.PushToken) error {
	now := t.p.now()
	platform := m.Platform
	if platform == "" {
		platform = "web"
	}
	_, err := t.p.db.ExecContext(ctx, `
        INSERT INTO push_tokens (user_id, token, platform, created_at, updated_at)
        VALUES (?,?,?,?,?)
        ON CONFLICT (user_id, token) DO UPDATE SET platform=excluded.platform, updated_at=excluded.updated_at
    `, m.UserID, m.Token, platform, now, now)
	return err
}

func (t *pushTokens) ListByUser(ctx context.Context, userID int64) ([]*model.PushToken, error) {
	rows, err := t.p.db.QueryContext(ctx, `
        SELECT user_id, token, platform, created_at, updated_at
        FROM push_tokens WHERE user_id=? ORDER BY updated_at DESC
    `, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []*model.PushToken
	for rows.Next() {
		var out model.PushToken
		if err := rows.Scan(&out.UserID, &out.Token, &out.Platform, &out.CreatedAt, &out.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, &out)
	}
	return res, rows.Err()
}

func (t *pushTokens) Delete(ctx context.Context, userID int64, token string) error {
	_, err := t.p.db.ExecContext(ctx,
		`DELETE FROM push_tokens WHERE user_id=? AND token=?`, userID, token)
	return err
}

// --- helpers ---

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// buildPatch turns a whitelisted patch map into a SET clause. Unknown keys
// are rejected so callers can't write arbitrary columns.
func buildPatch(allowed map[string]string, patch map[string]string) (string, []any, error) {
	if len(patch) == 0 {
		return "", nil, fmt.Errorf("%w: no updates provided", model.ErrValidation)
	}
	set := ""
	var args []any
	// Deterministic order keeps queries stable for tests and logs.
	for _, key := range []string{"title", "datetime", "description", "location", "priority", "due_date"} {
		val, ok := patch[key]
		if !ok {
			continue
		}
		col, ok := allowed[key]
		if !ok {
			return "", nil, fmt.Errorf("%w: unknown field %q", model.ErrValidation, key)
		}
		if set != "" {
			set += ", "
		}
		set += col + " = ?"
		args = append(args, val)
	}
	if set == "" {
		return "", nil, fmt.Errorf("%w: no updates provided", model.ErrValidation)
	}
	for key := range patch {
		if _, ok := allowed[key]; !ok {
			return "", nil, fmt.Errorf("%w: unknown field %q", model.ErrValidation, key)
		}
	}
	return set, args, nil
}
