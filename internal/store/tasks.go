package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mihailchern24-dot/taskhub/internal/models"
)

// TaskRepository persists tasks. All read paths are scoped by owner except
// ByID, which the handlers use for the not-found/forbidden distinction.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	ByID(ctx context.Context, id int64) (*models.Task, error)
	ListPage(ctx context.Context, userID int64, page, perPage int) ([]models.Task, int, error)
	OpenWithDue(ctx context.Context, userID int64) ([]models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id int64) error
}

type taskRepository struct {
	db *DB
}

func NewTaskRepository(db *DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	now := time.Now().UTC()
	task.UUID = uuid.NewString()
	task.CreatedAt = now
	task.UpdatedAt = now

	if r.db.Dialect == DialectPostgres {
		return r.db.QueryRowContext(ctx,
			`INSERT INTO tasks(uuid, user_id, title, description, due_iso, done, created_at, updated_at)
			VALUES($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id`,
			task.UUID, task.UserID, task.Title, task.Description,
			task.DueISO, task.Done, now, now).Scan(&task.ID)
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks(uuid, user_id, title, description, due_iso, done, created_at, updated_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8)`,
		task.UUID, task.UserID, task.Title, task.Description,
		task.DueISO, task.Done, now, now)
	if err != nil {
		return err
	}
	task.ID, err = result.LastInsertId()
	return err
}

const taskColumns = `id, uuid, user_id, title, description, due_iso, done, created_at, updated_at`

func (r *taskRepository) ByID(ctx context.Context, id int64) (*models.Task, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)

	task := &models.Task{}
	err := scanTask(row.Scan, task)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

// ListPage returns one page of the user's tasks plus the total count. Open
// tasks come first, then by due date with undated tasks leading, newest
// created first within that.
func (r *taskRepository) ListPage(ctx context.Context, userID int64, page, perPage int) ([]models.Task, int, error) {
	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks
		WHERE user_id = $1
		ORDER BY done ASC, due_iso ASC NULLS FIRST, created_at DESC
		LIMIT $2 OFFSET $3`,
		userID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tasks, err := collectTasks(rows)
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// OpenWithDue returns the user's unfinished tasks that carry a due date.
func (r *taskRepository) OpenWithDue(ctx context.Context, userID int64) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks
		WHERE user_id = $1 AND done = FALSE AND due_iso IS NOT NULL AND due_iso != ''`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTasks(rows)
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	task.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE tasks
		SET title = $1, description = $2, due_iso = $3, done = $4, updated_at = $5
		WHERE id = $6`,
		task.Title, task.Description, task.DueISO, task.Done, task.UpdatedAt, task.ID)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

func (r *taskRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

func scanTask(scan func(...any) error, task *models.Task) error {
	return scan(&task.ID, &task.UUID, &task.UserID, &task.Title,
		&task.Description, &task.DueISO, &task.Done,
		&task.CreatedAt, &task.UpdatedAt)
}

func collectTasks(rows *sql.Rows) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	for rows.Next() {
		task := models.Task{}
		if err := scanTask(rows.Scan, &task); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}
