package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/leggal/leggal-agent/internal/domain"
)

// Store implements the user, task and message ports on a single SQLite file.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database file and applies the schema.
// An empty path defaults to "./data/leggal.db".
func New(ctx context.Context, dbPath string) (*Store, error) {
	if dbPath == "" {
		dbPath = "./data/leggal.db"
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	store := &Store{db: db}
	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		name TEXT DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id),
		title TEXT NOT NULL,
		description TEXT DEFAULT '',
		priority TEXT NOT NULL DEFAULT 'MEDIUM',
		status TEXT NOT NULL DEFAULT 'PENDING',
		raw_message TEXT DEFAULT '',
		ai_title TEXT DEFAULT '',
		ai_summary TEXT DEFAULT '',
		ai_priority TEXT DEFAULT '',
		ai_reasoning TEXT DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS chat_messages (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id),
		text TEXT NOT NULL,
		from_user INTEGER NOT NULL,
		task_id TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_user ON tasks(user_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(user_id, status);
	CREATE INDEX IF NOT EXISTS idx_messages_user ON chat_messages(user_id, created_at);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func (s *Store) Close() {
	s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// --- users ---

func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, string(user.ID), user.Email, user.PasswordHash, user.Name, user.CreatedAt, user.UpdatedAt)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return domain.ErrEmailTaken
	}
	return err
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, name, created_at, updated_at
		FROM users WHERE email = ?
	`, email))
}

func (s *Store) GetUserByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, name, created_at, updated_at
		FROM users WHERE id = ?
	`, string(id)))
}

func (s *Store) scanUser(row *sql.Row) (*domain.User, error) {
	user := &domain.User{}
	var id string
	err := row.Scan(&id, &user.Email, &user.PasswordHash, &user.Name, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	user.ID = domain.UserID(id)
	return user, nil
}

// --- tasks ---

const taskColumns = `id, user_id, title, description, priority, status,
	raw_message, ai_title, ai_summary, ai_priority, ai_reasoning, created_at, updated_at`

func (s *Store) CreateTask(ctx context.Context, task *domain.Task) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, string(task.ID), string(task.UserID), task.Title, task.Description,
		string(task.Priority), string(task.Status), task.RawMessage,
		task.AITitle, task.AISummary, string(task.AIPriority), task.AIReasoning,
		task.CreatedAt, task.UpdatedAt)
	return err
}

func (s *Store) GetTask(ctx context.Context, userID domain.UserID, id domain.TaskID) (*domain.Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+taskColumns+` FROM tasks WHERE id = ? AND user_id = ?
	`, string(id), string(userID))
	return scanTask(row)
}

func (s *Store) ListTasks(ctx context.Context, userID domain.UserID, filters domain.TaskFilters) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = ?`
	args := []any{string(userID)}

	if filters.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filters.Status))
	}
	if filters.Priority != "" {
		query += ` AND priority = ?`
		args = append(args, string(filters.Priority))
	}
	if filters.Search != "" {
		query += ` AND (lower(title) LIKE lower(?) OR lower(description) LIKE lower(?)
			OR lower(raw_message) LIKE lower(?) OR lower(ai_title) LIKE lower(?)
			OR lower(ai_summary) LIKE lower(?))`
		pattern := "%" + filters.Search + "%"
		args = append(args, pattern, pattern, pattern, pattern, pattern)
	}

	query += ` ORDER BY created_at DESC, id ASC`
	if filters.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filters.Limit)
	}
	if filters.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filters.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (s *Store) ListRecentTasks(ctx context.Context, userID domain.UserID, limit int) ([]*domain.Task, error) {
	return s.ListTasks(ctx, userID, domain.TaskFilters{Limit: limit})
}

func (s *Store) UpdateTask(ctx context.Context, task *domain.Task) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET title = ?, description = ?, priority = ?, status = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`, task.Title, task.Description, string(task.Priority), string(task.Status),
		task.UpdatedAt, string(task.ID), string(task.UserID))
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, userID domain.UserID, id domain.TaskID) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM tasks WHERE id = ? AND user_id = ?
	`, string(id), string(userID))
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) TaskStats(ctx context.Context, userID domain.UserID) (*domain.TaskStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT status, priority, COUNT(*) FROM tasks
		WHERE user_id = ? GROUP BY status, priority
	`, string(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &domain.TaskStats{
		ByStatus:   make(map[domain.TaskStatus]int),
		ByPriority: make(map[domain.Priority]int),
	}
	for rows.Next() {
		var status, priority string
		var count int
		if err := rows.Scan(&status, &priority, &count); err != nil {
			return nil, err
		}
		stats.ByStatus[domain.TaskStatus(status)] += count
		stats.ByPriority[domain.Priority(priority)] += count
		stats.Total += count
	}
	return stats, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	task := &domain.Task{}
	var id, userID, priority, status, aiPriority string
	err := row.Scan(&id, &userID, &task.Title, &task.Description, &priority, &status,
		&task.RawMessage, &task.AITitle, &task.AISummary, &aiPriority, &task.AIReasoning,
		&task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	task.ID = domain.TaskID(id)
	task.UserID = domain.UserID(userID)
	task.Priority = domain.Priority(priority)
	task.Status = domain.TaskStatus(status)
	task.AIPriority = domain.Priority(aiPriority)
	return task, nil
}

// --- chat messages ---

func (s *Store) AppendMessage(ctx context.Context, msg *domain.ChatMessage) error {
	var taskID any
	if msg.TaskID != nil {
		taskID = string(*msg.TaskID)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chat_messages (id, user_id, text, from_user, task_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, string(msg.ID), string(msg.UserID), msg.Text, msg.FromUser, taskID, msg.CreatedAt)
	return err
}

func (s *Store) ListRecentMessages(ctx context.Context, userID domain.UserID, limit int) ([]*domain.ChatMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, text, from_user, task_id, created_at
		FROM chat_messages WHERE user_id = ?
		ORDER BY created_at DESC, id DESC LIMIT ?
	`, string(userID), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := make([]*domain.ChatMessage, 0, limit)
	for rows.Next() {
		msg := &domain.ChatMessage{}
		var id, uid string
		var taskID sql.NullString
		if err := rows.Scan(&id, &uid, &msg.Text, &msg.FromUser, &taskID, &msg.CreatedAt); err != nil {
			return nil, err
		}
		msg.ID = domain.MessageID(id)
		msg.UserID = domain.UserID(uid)
		if taskID.Valid {
			tid := domain.TaskID(taskID.String)
			msg.TaskID = &tid
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}
