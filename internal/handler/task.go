package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/employee-task-tracker/internal/logging"
	"github.com/iliyamo/employee-task-tracker/internal/metrics"
	"github.com/iliyamo/employee-task-tracker/internal/model"
	"github.com/iliyamo/employee-task-tracker/internal/queue"
	"github.com/iliyamo/employee-task-tracker/internal/repository"
	"github.com/iliyamo/employee-task-tracker/internal/service"
)

// TaskHandler bundles dependencies for the task endpoints. A task is visible
// only to its creator and assignee; lookups outside that window answer 404
// whether or not the row exists.
type TaskHandler struct {
	Tasks *repository.TaskRepo
	Users *repository.UserRepo
}

func NewTaskHandler(tasks *repository.TaskRepo, users *repository.UserRepo) *TaskHandler {
	if tasks == nil || users == nil {
		panic("nil repository passed to NewTaskHandler")
	}
	return &TaskHandler{Tasks: tasks, Users: users}
}

// ----- DTOs -----

type createTaskReq struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Progress    *int    `json:"progress"`
	AssignedTo  *uint64 `json:"assigned_to"`
}

type updateTaskReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Progress    *int    `json:"progress"`
}

// validateOptionals checks the shared optional fields of create/assign.
func (h *TaskHandler) validateOptionals(errs fieldErrors, status *string, progress *int) {
	if status != nil && !model.ValidStatus(*status) {
		errs.add("status", msgSelectedInvalid("status"))
	}
	if progress != nil {
		errs.checkProgress(*progress)
	}
}

// List handles GET /api/tasks.
func (h *TaskHandler) List(c echo.Context) error {
	user, _ := currentUser(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tasks, err := h.Tasks.ListVisible(ctx, user.ID)
	if err != nil {
		logging.Logger.WithError(err).Error("list tasks failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "Failed to retrieve tasks.",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": tasks})
}

// Get handles GET /api/tasks/:id under the same visibility filter as List.
func (h *TaskHandler) Get(c echo.Context) error {
	user, _ := currentUser(c)
	id, err := pathID(c)
	if err != nil {
		return taskNotFound(c, "view")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	task, err := h.Tasks.GetVisible(ctx, id, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return taskNotFound(c, "view")
		}
		logging.Logger.WithError(err).Error("get task failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "Failed to retrieve task.",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": task})
}

// Create handles POST /api/tasks. The creator is the current user; an
// optional assignee must reference an existing user.
func (h *TaskHandler) Create(c echo.Context) error {
	user, _ := currentUser(c)

	var req createTaskReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid request body."})
	}
	req.Title = strings.TrimSpace(req.Title)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	errs := fieldErrors{}
	if errs.checkRequired("title", req.Title) {
		errs.checkMax("title", req.Title, 255)
	}
	h.validateOptionals(errs, req.Status, req.Progress)
	if req.AssignedTo != nil {
		ok, err := h.Users.Exists(ctx, *req.AssignedTo)
		if err != nil {
			logging.Logger.WithError(err).Error("create task: assignee lookup failed")
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"success": false, "message": "Failed to create task.",
			})
		}
		if !ok {
			errs.add("assigned_to", msgSelectedInvalid("assigned to"))
		}
	}
	if errs.any() {
		return validationFailed(c, errs)
	}

	status := model.StatusFuture
	if req.Status != nil {
		status = *req.Status
	}
	progress := 0
	if req.Progress != nil {
		progress = *req.Progress
	}

	task, err := h.Tasks.Create(ctx, user.ID, req.AssignedTo, req.Title, req.Description, status, progress)
	if err != nil {
		logging.Logger.WithError(err).Error("create task failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "Failed to create task.",
		})
	}

	metrics.TasksCreated.WithLabelValues("create").Inc()
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true, "message": "Task created successfully.", "data": task,
	})
}

// Update handles PUT /api/tasks/:id. An assignee who is not the creator may
// only change status and progress; title and description sent by such a
// caller are ignored rather than rejected, matching the original behavior.
func (h *TaskHandler) Update(c echo.Context) error {
	user, _ := currentUser(c)
	id, err := pathID(c)
	if err != nil {
		return taskNotFound(c, "update")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	task, err := h.Tasks.GetVisible(ctx, id, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return taskNotFound(c, "update")
		}
		logging.Logger.WithError(err).Error("update task: lookup failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "Failed to update task.",
		})
	}

	var req updateTaskReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid request body."})
	}

	assigneeOnly := task.UserID != user.ID // visible and not creator -> assignee

	errs := fieldErrors{}
	if !assigneeOnly && req.Title != nil {
		t := strings.TrimSpace(*req.Title)
		if errs.checkRequired("title", t) {
			errs.checkMax("title", t, 255)
		}
		req.Title = &t
	}
	h.validateOptionals(errs, req.Status, req.Progress)
	if errs.any() {
		return validationFailed(c, errs)
	}

	upd := repository.TaskUpdate{Status: req.Status, Progress: req.Progress}
	if !assigneeOnly {
		upd.Title = req.Title
		upd.Description = req.Description
	}

	if err := h.Tasks.Update(ctx, id, upd); err != nil {
		logging.Logger.WithError(err).Error("update task failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "Failed to update task.",
		})
	}

	task, err = h.Tasks.GetVisible(ctx, id, user.ID)
	if err != nil {
		logging.Logger.WithError(err).Error("update task: reload failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "Failed to update task.",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true, "message": "Task updated successfully.", "data": task,
	})
}

// Delete handles DELETE /api/tasks/:id. Only the creator may delete; for
// everyone else, assignee included, the task simply is not there.
func (h *TaskHandler) Delete(c echo.Context) error {
	user, _ := currentUser(c)
	id, err := pathID(c)
	if err != nil {
		return taskNotFound(c, "delete")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tasks.Delete(ctx, id, user.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return taskNotFound(c, "delete")
		}
		logging.Logger.WithError(err).Error("delete task failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "Failed to delete task.",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Task deleted successfully."})
}

// Assign handles POST /api/tasks/assign: managers create a task with a
// mandatory assignee. A task.assigned event is published for the
// notification consumer; publish failures are logged, never surfaced.
func (h *TaskHandler) Assign(c echo.Context) error {
	user, _ := currentUser(c)
	if user.Role != model.RoleManager {
		return c.JSON(http.StatusForbidden, echo.Map{
			"success": false, "message": "Only managers can assign tasks.",
		})
	}

	var req createTaskReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid request body."})
	}
	req.Title = strings.TrimSpace(req.Title)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	errs := fieldErrors{}
	if errs.checkRequired("title", req.Title) {
		errs.checkMax("title", req.Title, 255)
	}
	h.validateOptionals(errs, req.Status, req.Progress)
	if req.AssignedTo == nil {
		errs.add("assigned_to", msgRequired("assigned to"))
	} else {
		ok, err := h.Users.Exists(ctx, *req.AssignedTo)
		if err != nil {
			logging.Logger.WithError(err).Error("assign task: assignee lookup failed")
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"success": false, "message": "Failed to assign task.",
			})
		}
		if !ok {
			errs.add("assigned_to", msgSelectedInvalid("assigned to"))
		}
	}
	if errs.any() {
		return validationFailed(c, errs)
	}

	status := model.StatusFuture
	if req.Status != nil {
		status = *req.Status
	}
	progress := 0
	if req.Progress != nil {
		progress = *req.Progress
	}

	task, err := h.Tasks.Create(ctx, user.ID, req.AssignedTo, req.Title, req.Description, status, progress)
	if err != nil {
		logging.Logger.WithError(err).Error("assign task failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "Failed to assign task.",
		})
	}

	metrics.TasksCreated.WithLabelValues("assign").Inc()

	ev := queue.TaskAssignedEvent{
		TaskID:     task.ID,
		Title:      task.Title,
		AssignedBy: user.ID,
		AssignedTo: *req.AssignedTo,
		Status:     task.Status,
		AssignedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if task.Assignee != nil {
		ev.AssigneeName = task.Assignee.Name
	}
	ev.AssignerName = user.Name
	go func() {
		if err := service.PublishTaskAssigned(context.Background(), ev); err != nil {
			logging.Logger.WithError(err).Warn("task.assigned publish failed")
		}
	}()

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true, "message": "Task assigned successfully.", "data": task,
	})
}

// taskNotFound writes the collapsed not-found/forbidden response. The verb
// names the attempted action, mirroring the original message strings.
func taskNotFound(c echo.Context, verb string) error {
	return c.JSON(http.StatusNotFound, echo.Map{
		"success": false,
		"message": "Task not found or you do not have permission to " + verb + " it.",
	})
}
