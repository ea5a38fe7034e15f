// Package postgres implements store.Store on PostgreSQL via the pgx stdlib
// adapter. Selected with SWUNG_DB_DRIVER=postgres.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/swunglabs/swung/internal/model"
	"github.com/swunglabs/swung/internal/store"
)

// Open connects with the given DSN and bootstraps the schema. nowFn supplies
// storage-form timestamps so persisted times share the service convention.
func Open(dsn string, nowFn func() string) (store.Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
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

// New wraps an already-open database, for tests.
func New(db *sql.DB, nowFn func() string) store.Store {
	return &pgStore{db: db, now: nowFn}
}

func ensureSchema(db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("schema: %w", err)
		}
	}
	return nil
}

// Datetimes are TEXT on purpose: the service's storage form is a naive local
// string whose lexicographic order is chronological, and the scheduler
// compares strings.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		github_id TEXT UNIQUE,
		username TEXT,
		name TEXT,
		email TEXT,
		avatar_url TEXT,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		description TEXT,
		datetime TEXT NOT NULL,
		end_datetime TEXT,
		location TEXT,
		category TEXT NOT NULL DEFAULT 'general',
		color TEXT NOT NULL DEFAULT '#3b82f6',
		is_all_day BOOLEAN NOT NULL DEFAULT FALSE,
		recurrence TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS alarms (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		event_id BIGINT REFERENCES events(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		message TEXT,
		trigger_at TEXT NOT NULL,
		repeat_type TEXT NOT NULL DEFAULT 'once',
		is_triggered BOOLEAN NOT NULL DEFAULT FALSE,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		call_user BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS todos (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		description TEXT,
		priority TEXT NOT NULL DEFAULT 'medium',
		due_date TEXT,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		completed_at TEXT,
		category TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS chats (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		action_type TEXT,
		action_data TEXT,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS push_tokens (
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		token TEXT NOT NULL,
		platform TEXT NOT NULL DEFAULT 'web',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (user_id, token)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_events_user_id ON events(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_events_datetime ON events(datetime)`,
	`CREATE INDEX IF NOT EXISTS idx_alarms_trigger_at ON alarms(trigger_at)`,
	`CREATE INDEX IF NOT EXISTS idx_todos_user_id ON todos(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_chats_user_id ON chats(user_id)`,
}

type pgStore struct {
	db  *sql.DB
	now func() string
}

func (s *pgStore) Users() store.Users           { return &users{s} }
func (s *pgStore) Events() store.Events         { return &events{s} }
func (s *pgStore) Todos() store.Todos           { return &todos{s} }
func (s *pgStore) Alarms() store.Alarms         { return &alarms{s} }
func (s *pgStore) Chats() store.Chats           { return &chats{s} }
func (s *pgStore) PushTokens() store.PushTokens { return &pushTokens{s} }

func (s *pgStore) HealthPing(ctx context.Context) error { return s.db.PingContext(ctx) }
func (s *pgStore) Close() error                         { return s.db.Close() }

// --- Users ---

type users struct{ p *pgStore }

func (u *users) Create(ctx context.Context, m *model.User) (*model.User, error) {
	now := u.p.now()
	out := *m
	out.CreatedAt = now
	err := u.p.db.QueryRowContext(ctx, `
        INSERT INTO users (github_id, username, name, email, avatar_url, created_at)
        VALUES ($1,$2,$3,$4,$5,$6) RETURNING id
    `, nullStr(m.GithubID), nullStr(m.Username), nullStr(m.Name), nullStr(m.Email), m.AvatarURL, now).Scan(&out.ID)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (u *users) Get(ctx context.Context, userID int64) (*model.User, error) {
	row := u.p.db.QueryRowContext(ctx, `
        SELECT id, COALESCE(github_id,''), COALESCE(username,''), COALESCE(name,''), COALESCE(email,''), avatar_url, created_at
        FROM users WHERE id=$1
    `, userID)
	return scanUser(row)
}

func (u *users) GetByGithubID(ctx context.Context, githubID string) (*model.User, error) {
	row := u.p.db.QueryRowContext(ctx, `
        SELECT id, COALESCE(github_id,''), COALESCE(username,''), COALESCE(name,''), COALESCE(email,''), avatar_url, created_at
        FROM users WHERE github_id=$1
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

type events struct{ p *pgStore }

const eventCols = `id, user_id, title, description, datetime, end_datetime, location, category, color, is_all_day, recurrence, created_at, updated_at`

func (e *events) Create(ctx context.Context, m *model.Event) (*model.Event, error) {
	now := e.p.now()
	out := *m
	if out.Category == "" {
		out.Category = "general"
	}
	if out.Color == "" {
		out.Color = "#3b82f6"
	}
	out.CreatedAt = now
	out.UpdatedAt = now
	err := e.p.db.QueryRowContext(ctx, `
        INSERT INTO events (user_id, title, description, datetime, end_datetime, location, category, color, is_all_day, recurrence, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12) RETURNING id
    `, m.UserID, m.Title, m.Description, m.Datetime, m.EndDatetime, m.Location,
		out.Category, out.Color, m.IsAllDay, m.Recurrence, now, now).Scan(&out.ID)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (e *events) Get(ctx context.Context, userID, eventID int64) (*model.Event, error) {
	row := e.p.db.QueryRowContext(ctx,
		`SELECT `+eventCols+` FROM events WHERE id=$1 AND user_id=$2`, eventID, userID)
	return scanEventRow(row)
}

func (e *events) List(ctx context.Context, userID int64) ([]*model.Event, error) {
	rows, err := e.p.db.QueryContext(ctx,
		`SELECT `+eventCols+` FROM events WHERE user_id=$1 ORDER BY datetime ASC`, userID)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

func (e *events) ListRange(ctx context.Context, userID int64, start, end string) ([]*model.Event, error) {
	q := `SELECT ` + eventCols + ` FROM events WHERE user_id=$1`
	args := []any{userID}
	if start != "" {
		args = append(args, start)
		q += fmt.Sprintf(` AND datetime >= $%d`, len(args))
	}
	if end != "" {
		args = append(args, end)
		q += fmt.Sprintf(` AND datetime <= $%d`, len(args))
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
	args = append(args, e.p.now())
	set += fmt.Sprintf(", updated_at = $%d", len(args))
	args = append(args, eventID, userID)
	res, err := e.p.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE events SET %s WHERE id=$%d AND user_id=$%d`, set, len(args)-1, len(args)), args...)
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

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM alarms WHERE event_id=$1 AND user_id=$2`, eventID, userID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		`DELETE FROM events WHERE id=$1 AND user_id=$2`, eventID, userID)
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
	err := row.Scan(&out.ID, &out.UserID, &out.Title, &out.Description, &out.Datetime,
		&out.EndDatetime, &out.Location, &out.Category, &out.Color, &out.IsAllDay,
		&out.Recurrence, &out.CreatedAt, &out.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func collectEvents(rows *sql.Rows) ([]*model.Event, error) {
	defer func() { _ = rows.Close() }()
	var res []*model.Event
	for rows.Next() {
		var out model.Event
		if err := rows.Scan(&out.ID, &out.UserID, &out.Title, &out.Description, &out.Datetime,
			&out.EndDatetime, &out.Location, &out.Category, &out.Color, &out.IsAllDay,
			&out.Recurrence, &out.CreatedAt, &out.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, &out)
	}
	return res, rows.Err()
}

// --- Todos ---

type todos struct{ p *pgStore }

const todoCols = `id, user_id, title, description, priority, due_date, completed, completed_at, category, created_at, updated_at`

const todoOrder = ` ORDER BY CASE priority
        WHEN 'urgent' THEN 4 WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END DESC,
    due_date IS NULL, due_date ASC, created_at DESC`

func (t *todos) Create(ctx context.Context, m *model.Todo) (*model.Todo, error) {
	now := t.p.now()
	out := *m
	if out.Priority == "" {
		out.Priority = model.PriorityMedium
	}
	out.CreatedAt = now
	out.UpdatedAt = now
	err := t.p.db.QueryRowContext(ctx, `
        INSERT INTO todos (user_id, title, description, priority, due_date, category, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8) RETURNING id
    `, m.UserID, m.Title, m.Description, string(out.Priority), m.DueDate, m.Category, now, now).Scan(&out.ID)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *todos) Get(ctx context.Context, userID, todoID int64) (*model.Todo, error) {
	row := t.p.db.QueryRowContext(ctx,
		`SELECT `+todoCols+` FROM todos WHERE id=$1 AND user_id=$2`, todoID, userID)
	return scanTodoRow(row)
}

func (t *todos) List(ctx context.Context, userID int64, showCompleted bool) ([]*model.Todo, error) {
	q := `SELECT ` + todoCols + ` FROM todos WHERE user_id=$1`
	if !showCompleted {
		q += ` AND completed=FALSE`
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
        UPDATE todos SET completed=$1, completed_at=$2, updated_at=$3 WHERE id=$4 AND user_id=$5
    `, completed, completedAt, t.p.now(), todoID, userID)
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
	args = append(args, t.p.now())
	set += fmt.Sprintf(", updated_at = $%d", len(args))
	args = append(args, todoID, userID)
	res, err := t.p.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE todos SET %s WHERE id=$%d AND user_id=$%d`, set, len(args)-1, len(args)), args...)
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
		`DELETE FROM todos WHERE id=$1 AND user_id=$2`, todoID, userID)
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
	var priority string
	err := row.Scan(&out.ID, &out.UserID, &out.Title, &out.Description, &priority,
		&out.DueDate, &out.Completed, &out.CompletedAt, &out.Category, &out.CreatedAt, &out.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	out.Priority = model.Priority(priority)
	return &out, nil
}

func collectTodos(rows *sql.Rows) ([]*model.Todo, error) {
	defer func() { _ = rows.Close() }()
	var res []*model.Todo
	for rows.Next() {
		var out model.Todo
		var priority string
		if err := rows.Scan(&out.ID, &out.UserID, &out.Title, &out.Description, &priority,
			&out.DueDate, &out.Completed, &out.CompletedAt, &out.Category, &out.CreatedAt, &out.UpdatedAt); err != nil {
			return nil, err
		}
		out.Priority = model.Priority(priority)
		res = append(res, &out)
	}
	return res, rows.Err()
}

// --- Alarms ---

type alarms struct{ p *pgStore }

const alarmCols = `id, user_id, event_id, title, message, trigger_at, repeat_type, is_triggered, is_active, call_user, created_at`

func (a *alarms) Create(ctx context.Context, m *model.Alarm) (*model.Alarm, error) {
	now := a.p.now()
	out := *m
	if out.RepeatType == "" {
		out.RepeatType = "once"
	}
	out.Active = true
	out.Triggered = false
	out.CreatedAt = now
	err := a.p.db.QueryRowContext(ctx, `
        INSERT INTO alarms (user_id, event_id, title, message, trigger_at, repeat_type, call_user, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8) RETURNING id
    `, m.UserID, m.EventID, m.Title, m.Message, m.TriggerAt, out.RepeatType, m.CallUser, now).Scan(&out.ID)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *alarms) ListActive(ctx context.Context, userID int64) ([]*model.Alarm, error) {
	rows, err := a.p.db.QueryContext(ctx,
		`SELECT `+alarmCols+` FROM alarms WHERE user_id=$1 AND is_active=TRUE ORDER BY trigger_at ASC`, userID)
	if err != nil {
		return nil, err
	}
	return collectAlarms(rows)
}

func (a *alarms) ListDue(ctx context.Context, now string) ([]*model.Alarm, error) {
	rows, err := a.p.db.QueryContext(ctx, `
        SELECT `+alarmCols+` FROM alarms
        WHERE is_triggered=FALSE AND is_active=TRUE AND trigger_at <= $1
        ORDER BY trigger_at ASC
    `, now)
	if err != nil {
		return nil, err
	}
	return collectAlarms(rows)
}

func (a *alarms) MarkTriggered(ctx context.Context, alarmID int64) error {
	res, err := a.p.db.ExecContext(ctx,
		`UPDATE alarms SET is_triggered=TRUE, is_active=FALSE WHERE id=$1`, alarmID)
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
		`DELETE FROM alarms WHERE id=$1 AND user_id=$2`, alarmID, userID)
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
		if err := rows.Scan(&out.ID, &out.UserID, &out.EventID, &out.Title, &out.Message,
			&out.TriggerAt, &out.RepeatType, &out.Triggered, &out.Active, &out.CallUser, &out.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &out)
	}
	return res, rows.Err()
}

// --- Chats ---

type chats struct{ p *pgStore }

func (c *chats) Append(ctx context.Context, m *model.ChatMessage) (*model.ChatMessage, error) {
	now := c.p.now()
	out := *m
	out.CreatedAt = now
	var actionData any
	if len(m.ActionData) > 0 {
		actionData = string(m.ActionData)
	}
	err := c.p.db.QueryRowContext(ctx, `
        INSERT INTO chats (user_id, role, content, action_type, action_data, created_at)
        VALUES ($1,$2,$3,$4,$5,$6) RETURNING id
    `, m.UserID, m.Role, m.Content, m.ActionType, actionData, now).Scan(&out.ID)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *chats) History(ctx context.Context, userID int64, limit, offset int) ([]*model.ChatMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := c.p.db.QueryContext(ctx, `
        SELECT id, user_id, role, content, action_type, action_data, created_at FROM (
            SELECT * FROM chats WHERE user_id=$1 ORDER BY id DESC LIMIT $2 OFFSET $3
        ) latest ORDER BY id ASC
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
	_, err := c.p.db.ExecContext(ctx, `DELETE FROM chats WHERE user_id=$1`, userID)
	return err
}

// --- Push tokens ---

type pushTokens struct{ p *pgStore }

func (t *pushTokens) Upsert(ctx context.Context, m *model.PushToken) error {
	now := t.p.now()
	platform := m.Platform
	if platform == "" {
		platform = "web"
	}
	_, err := t.p.db.ExecContext(ctx, `
        INSERT INTO push_tokens (user_id, token, platform, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5)
        ON CONFLICT (user_id, token) DO UPDATE SET platform=EXCLUDED.platform, updated_at=EXCLUDED.updated_at
    `, m.UserID, m.Token, platform, now, now)
	return err
}

func (t *pushTokens) ListByUser(ctx context.Context, userID int64) ([]*model.PushToken, error) {
	rows, err := t.p.db.QueryContext(ctx, `
        SELECT user_id, token, platform, created_at, updated_at
        FROM push_tokens WHERE user_id=$1 ORDER BY updated_at DESC
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
		`DELETE FROM push_tokens WHERE user_id=$1 AND token=$2`, userID, token)
	return err
}

// --- helpers ---

func nullStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func buildPatch(allowed map[string]string, patch map[string]string) (string, []any, error) {
	if len(patch) == 0 {
		return "", nil, fmt.Errorf("%w: no updates provided", model.ErrValidation)
	}
	set := ""
	var args []any
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
		args = append(args, val)
		set += fmt.Sprintf("%s = $%d", col, len(args))
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
