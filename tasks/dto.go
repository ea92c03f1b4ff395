// Data transfer objects for the task endpoints. Schema validation for the
// request payloads lives in the validation package.
package tasks

// CreateTaskRequest represents the create-task payload.
type CreateTaskRequest struct {
	Title       string `json:"title" example:"Buy groceries"`
	Description string `json:"description" example:"Milk, eggs, bread"`
}

// UpdateTaskRequest represents the partial-update payload. Pointer fields
// distinguish "not provided" from zero values; only these three fields are
// updatable.
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// ListTasksResponse is the GET /tasks envelope.
type ListTasksResponse struct {
	Status  string    `json:"status" example:"success"`
	Results int       `json:"results"`
	Data    TasksData `json:"data"`
}

// TasksData wraps the task list inside the response envelope.
type TasksData struct {
	Tasks []Task `json:"tasks"`
}

// TaskResponse is the single-task envelope used by create and update.
type TaskResponse struct {
	Status string   `json:"status" example:"success"`
	Data   TaskData `json:"data"`
}

// TaskData wraps one task inside the response envelope.
type TaskData struct {
	Task *Task `json:"task"`
}

// DeleteTaskResponse is the DELETE /tasks/{id} envelope.
type DeleteTaskResponse struct {
	Status  string          `json:"status" example:"success"`
	Message string          `json:"message" example:"Task deleted successfully"`
	Data    DeletedTaskData `json:"data"`
}

// DeletedTaskData carries the id of the removed task.
type DeletedTaskData struct {
	DeletedTaskID string `json:"deletedTaskId"`
}
