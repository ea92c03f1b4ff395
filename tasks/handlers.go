package tasks

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/taskvault-go/apperror"
	"github.com/user/taskvault-go/auth"
)

const taskNotFoundMessage = "No task found with that ID"

// Handlers wraps the task Service with HTTP handlers. All routes sit behind
// the authentication gate, so the caller identity is read from the request
// context.
type Handlers struct {
	service *Service
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// currentUser pulls the gate-attached identity out of the context. Its
// absence on a gated route is a wiring bug, reported as 401 rather than a
// panic.
func currentUser(w http.ResponseWriter, r *http.Request) (*auth.CurrentUser, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthError("User not authenticated", nil))
		return nil, false
	}
	return user, true
}

// HandleListTasks godoc
// @Summary List tasks
// @Description Returns all of the caller's tasks, newest first.
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} tasks.ListTasksResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Router /tasks [get]
func (h *Handlers) HandleListTasks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(w, r)
		if !ok {
			return
		}

		list, err := h.service.List(r.Context(), user.ID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, ListTasksResponse{
			Status:  "success",
			Results: len(list),
			Data:    TasksData{Tasks: list},
		})
	}
}

// HandleCreateTask godoc
// @Summary Create a task
// @Description Creates a task owned by the caller.
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param taskBody body tasks.CreateTaskRequest true "Task to create"
// @Success 201 {object} tasks.TaskResponse
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Router /tasks [post]
func (h *Handlers) HandleCreateTask() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(w, r)
		if !ok {
			return
		}

		var req CreateTaskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		task, err := h.service.Create(r.Context(), user.ID, req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusCreated, TaskResponse{
			Status: "success",
			Data:   TaskData{Task: task},
		})
	}
}

// HandleUpdateTask godoc
// @Summary Update a task
// @Description Applies a partial update to one of the caller's tasks.
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Param taskBody body tasks.UpdateTaskRequest true "Fields to update"
// @Success 200 {object} tasks.TaskResponse
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse "Not found or not owned"
// @Router /tasks/{id} [patch]
func (h *Handlers) HandleUpdateTask() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(w, r)
		if !ok {
			return
		}
		taskID := chi.URLParam(r, "id")

		var req UpdateTaskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		// Existence check first so a missing or foreign task gets a 404
		// before any mutation is attempted.
		existing, err := h.service.GetOwned(r.Context(), taskID, user.ID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		if existing == nil {
			auth.WriteError(w, r, apperror.NewNotFoundError(taskNotFoundMessage, nil))
			return
		}

		task, err := h.service.Update(r.Context(), taskID, user.ID, req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		if task == nil {
			// Deleted between the check and the update; the ownership
			// predicate on the UPDATE keeps the race benign.
			auth.WriteError(w, r, apperror.NewNotFoundError(taskNotFoundMessage, nil))
			return
		}

		auth.WriteJSON(w, http.StatusOK, TaskResponse{
			Status: "success",
			Data:   TaskData{Task: task},
		})
	}
}

// HandleDeleteTask godoc
// @Summary Delete a task
// @Description Deletes one of the caller's tasks.
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} tasks.DeleteTaskResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse "Not found or not owned"
// @Router /tasks/{id} [delete]
func (h *Handlers) HandleDeleteTask() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(w, r)
		if !ok {
			return
		}
		taskID := chi.URLParam(r, "id")

		existing, err := h.service.GetOwned(r.Context(), taskID, user.ID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		if existing == nil {
			auth.WriteError(w, r, apperror.NewNotFoundError(taskNotFoundMessage, nil))
			return
		}

		if _, err := h.service.Delete(r.Context(), taskID, user.ID); err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, DeleteTaskResponse{
			Status:  "success",
			Message: "Task deleted successfully",
			Data:    DeletedTaskData{DeletedTaskID: taskID},
		})
	}
}
