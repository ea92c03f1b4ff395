package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TaskStore persists task records. Every read, update and delete is
// conjoined with an equality predicate on the owner id; there is no
// operation that touches a task without one. Absent rows are reported as
// (nil, nil).
type TaskStore interface {
	List(ctx context.Context, ownerID string) ([]Task, error)
	Insert(ctx context.Context, task *Task) error
	GetOwned(ctx context.Context, taskID, ownerID string) (*Task, error)
	Update(ctx context.Context, taskID, ownerID string, fields UpdateTaskRequest) (*Task, error)
	Delete(ctx context.Context, taskID, ownerID string) (bool, error)
}

// PgxTaskStore is the PostgreSQL implementation of TaskStore.
type PgxTaskStore struct {
	db *pgxpool.Pool
}

// NewPgxTaskStore creates a TaskStore backed by the given pool.
func NewPgxTaskStore(db *pgxpool.Pool) *PgxTaskStore {
	return &PgxTaskStore{db: db}
}

const taskColumns = "id, title, description, completed, user_id, created_at, updated_at"

func scanTask(row pgx.Row) (*Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.UserID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns the owner's tasks, newest first.
func (s *PgxTaskStore) List(ctx context.Context, ownerID string) ([]Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE user_id = $1 ORDER BY created_at DESC`, taskColumns)
	rows, err := s.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []Task{}
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.UserID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Insert persists a new task. The store assigns the timestamps.
func (s *PgxTaskStore) Insert(ctx context.Context, task *Task) error {
	query := `INSERT INTO tasks (id, title, description, completed, user_id)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING created_at, updated_at`
	return s.db.QueryRow(ctx, query, task.ID, task.Title, task.Description, task.Completed, task.UserID).
		Scan(&task.CreatedAt, &task.UpdatedAt)
}

// GetOwned returns the task only if both the id and the owner match. This is
// the chokepoint for the ownership invariant: a non-owner gets (nil, nil),
// indistinguishable from a task that does not exist.
func (s *PgxTaskStore) GetOwned(ctx context.Context, taskID, ownerID string) (*Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE id = $1 AND user_id = $2`, taskColumns)
	task, err := scanTask(s.db.QueryRow(ctx, query, taskID, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return task, nil
}

// Update applies the provided fields to the task matching both predicates
// and returns the updated row, or (nil, nil) when no row matched. The owner
// predicate rides on the UPDATE itself, so a concurrent delete cannot turn
// this into a cross-owner write.
func (s *PgxTaskStore) Update(ctx context.Context, taskID, ownerID string, fields UpdateTaskRequest) (*Task, error) {
	setClauses := []string{"updated_at = now()"}
	args := []interface{}{}
	argID := 1

	if fields.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", argID))
		args = append(args, *fields.Title)
		argID++
	}
	if fields.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", argID))
		args = append(args, *fields.Description)
		argID++
	}
	if fields.Completed != nil {
		setClauses = append(setClauses, fmt.Sprintf("completed = $%d", argID))
		args = append(args, *fields.Completed)
		argID++
	}

	query := fmt.Sprintf(`UPDATE tasks SET %s WHERE id = $%d AND user_id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argID, argID+1, taskColumns)
	args = append(args, taskID, ownerID)

	task, err := scanTask(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return task, nil
}

// Delete removes the task matching both predicates and reports whether a
// row was actually removed.
func (s *PgxTaskStore) Delete(ctx context.Context, taskID, ownerID string) (bool, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, taskID, ownerID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
