package tasks

import (
	"context"

	"github.com/google/uuid"

	"github.com/user/taskvault-go/apperror"
)

// Service implements the ownership-scoping contract over the store. The
// caller's identity id is always an explicit parameter, never inferred.
type Service struct {
	store TaskStore
}

// NewService creates a task Service.
func NewService(store TaskStore) *Service {
	return &Service{store: store}
}

// List returns all of the owner's tasks, newest first.
func (s *Service) List(ctx context.Context, ownerID string) ([]Task, error) {
	tasks, err := s.store.List(ctx, ownerID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list tasks", err)
	}
	return tasks, nil
}

// Create inserts a new, not-yet-completed task for the owner.
func (s *Service) Create(ctx context.Context, ownerID string, req CreateTaskRequest) (*Task, error) {
	task := &Task{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Completed:   false,
		UserID:      ownerID,
	}
	if err := s.store.Insert(ctx, task); err != nil {
		return nil, apperror.NewDatabaseError("failed to create task", err)
	}
	return task, nil
}

// GetOwned returns the task only if it exists and belongs to the owner;
// otherwise nil. A syntactically invalid id cannot match any record and is
// treated as absent rather than handed to the store.
func (s *Service) GetOwned(ctx context.Context, taskID, ownerID string) (*Task, error) {
	if uuid.Validate(taskID) != nil {
		return nil, nil
	}
	task, err := s.store.GetOwned(ctx, taskID, ownerID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to get task", err)
	}
	return task, nil
}

// Update applies the whitelisted partial fields to the owner's task and
// returns the updated record, or nil when no owned task matched.
func (s *Service) Update(ctx context.Context, taskID, ownerID string, req UpdateTaskRequest) (*Task, error) {
	if uuid.Validate(taskID) != nil {
		return nil, nil
	}
	task, err := s.store.Update(ctx, taskID, ownerID, req)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to update task", err)
	}
	return task, nil
}

// Delete removes the owner's task and reports whether a row was removed.
func (s *Service) Delete(ctx context.Context, taskID, ownerID string) (bool, error) {
	if uuid.Validate(taskID) != nil {
		return false, nil
	}
	removed, err := s.store.Delete(ctx, taskID, ownerID)
	if err != nil {
		return false, apperror.NewDatabaseError("failed to delete task", err)
	}
	return removed, nil
}
