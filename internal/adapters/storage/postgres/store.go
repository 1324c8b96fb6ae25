package postgres

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leggal/leggal-agent/internal/domain"
)

// Store implements the user, task and message ports on PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	store := &Store{pool: pool}
	if err := store.initSchema(ctx); err != nil {
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
		created_at TIMESTAMPTZ DEFAULT now(),
		updated_at TIMESTAMPTZ DEFAULT now()
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
		created_at TIMESTAMPTZ DEFAULT now(),
		updated_at TIMESTAMPTZ DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS chat_messages (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id),
		text TEXT NOT NULL,
		from_user BOOLEAN NOT NULL,
		task_id TEXT,
		created_at TIMESTAMPTZ DEFAULT now()
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_user ON tasks(user_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(user_id, status);
	CREATE INDEX IF NOT EXISTS idx_messages_user ON chat_messages(user_id, created_at);
	`

	_, err := s.pool.Exec(ctx, schema)
	return err
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- users ---

func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, string(user.ID), user.Email, user.PasswordHash, user.Name, user.CreatedAt, user.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.ErrEmailTaken
	}
	return err
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.scanUser(s.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, name, created_at, updated_at
		FROM users WHERE email = $1
	`, email))
}

func (s *Store) GetUserByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	return s.scanUser(s.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, name, created_at, updated_at
		FROM users WHERE id = $1
	`, string(id)))
}

func (s *Store) scanUser(row pgx.Row) (*domain.User, error) {
	user := &domain.User{}
	var id string
	err := row.Scan(&id, &user.Email, &user.PasswordHash, &user.Name, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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
	_, err := s.pool.Exec(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, string(task.ID), string(task.UserID), task.Title, task.Description,
		string(task.Priority), string(task.Status), task.RawMessage,
		task.AITitle, task.AISummary, string(task.AIPriority), task.AIReasoning,
		task.CreatedAt, task.UpdatedAt)
	return err
}

func (s *Store) GetTask(ctx context.Context, userID domain.UserID, id domain.TaskID) (*domain.Task, error) {
	return scanTask(s.pool.QueryRow(ctx, `
		SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND user_id = $2
	`, string(id), string(userID)))
}

func (s *Store) ListTasks(ctx context.Context, userID domain.UserID, filters domain.TaskFilters) ([]*domain.Task, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1`)
	args := []any{string(userID)}

	if filters.Status != "" {
		args = append(args, string(filters.Status))
		sb.WriteString(` AND status = $` + strconv.Itoa(len(args)))
	}
	if filters.Priority != "" {
		args = append(args, string(filters.Priority))
		sb.WriteString(` AND priority = $` + strconv.Itoa(len(args)))
	}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		n := strconv.Itoa(len(args))
		sb.WriteString(` AND (title ILIKE $` + n + ` OR description ILIKE $` + n +
			` OR raw_message ILIKE $` + n + ` OR ai_title ILIKE $` + n +
			` OR ai_summary ILIKE $` + n + `)`)
	}

	sb.WriteString(` ORDER BY created_at DESC, id ASC`)
	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		sb.WriteString(` LIMIT $` + strconv.Itoa(len(args)))
	}
	if filters.Offset > 0 {
		args = append(args, filters.Offset)
		sb.WriteString(` OFFSET $` + strconv.Itoa(len(args)))
	}

	rows, err := s.pool.Query(ctx, sb.String(), args...)
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
	tag, err := s.pool.Exec(ctx, `
		UPDATE tasks SET title = $1, description = $2, priority = $3, status = $4, updated_at = $5
		WHERE id = $6 AND user_id = $7
	`, task.Title, task.Description, string(task.Priority), string(task.Status),
		task.UpdatedAt, string(task.ID), string(task.UserID))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, userID domain.UserID, id domain.TaskID) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM tasks WHERE id = $1 AND user_id = $2
	`, string(id), string(userID))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) TaskStats(ctx context.Context, userID domain.UserID) (*domain.TaskStats, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT status, priority, COUNT(*) FROM tasks
		WHERE user_id = $1 GROUP BY status, priority
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

func scanTask(row pgx.Row) (*domain.Task, error) {
	task := &domain.Task{}
	var id, userID, priority, status, aiPriority string
	err := row.Scan(&id, &userID, &task.Title, &task.Description, &priority, &status,
		&task.RawMessage, &task.AITitle, &task.AISummary, &aiPriority, &task.AIReasoning,
		&task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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
	var taskID *string
	if msg.TaskID != nil {
		v := string(*msg.TaskID)
		taskID = &v
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO chat_messages (id, user_id, text, from_user, task_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, string(msg.ID), string(msg.UserID), msg.Text, msg.FromUser, taskID, msg.CreatedAt)
	return err
}

func (s *Store) ListRecentMessages(ctx context.Context, userID domain.UserID, limit int) ([]*domain.ChatMessage, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, text, from_user, task_id, created_at
		FROM chat_messages WHERE user_id = $1
		ORDER BY created_at DESC, id DESC LIMIT $2
	`, string(userID), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := make([]*domain.ChatMessage, 0, limit)
	for rows.Next() {
		msg := &domain.ChatMessage{}
		var id, uid string
		var taskID *string
		if err := rows.Scan(&id, &uid, &msg.Text, &msg.FromUser, &taskID, &msg.CreatedAt); err != nil {
			return nil, err
		}
		msg.ID = domain.MessageID(id)
		msg.UserID = domain.UserID(uid)
		if taskID != nil {
			tid := domain.TaskID(*taskID)
			msg.TaskID = &tid
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

