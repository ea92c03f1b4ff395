// Package tasks owns ownership-scoped CRUD over task records. Every store
// query carries the owner predicate, so a task is never visible or mutable
// to anyone but its owner.
package tasks

import "time"

// Task represents a task record. UserID binds the task to its owner and is
// immutable after creation.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
