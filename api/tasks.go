package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"task-tracker/models"
	"task-tracker/store"
)

// ListTasks handles GET /tasks.
func ListTasks(st store.Store, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tasks, err := st.List(c.Request.Context())
		if err != nil {
			logger.Error("failed to list tasks", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks"})
			return
		}
		c.JSON(http.StatusOK, tasks)
	}
}

// CreateTask handles POST /tasks. The body fields go to the store as sent.
func CreateTask(st store.Store, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		in, ok := bindTaskInput(c, logger)
		if !ok {
			return
		}

		task, err := st.Create(c.Request.Context(), in)
		if err != nil {
			logger.Error("failed to create task", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add task"})
			return
		}
		c.JSON(http.StatusCreated, task)
	}
}

// DeleteTask handles DELETE /tasks/:id. A missing id is not an error.
func DeleteTask(st store.Store, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := st.Delete(c.Request.Context(), id); err != nil {
			logger.Error("failed to delete task", "id", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// UpdateTask handles PATCH /tasks/:id with partial merge semantics. The
// response body is null when the id does not exist.
func UpdateTask(st store.Store, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		in, ok := bindTaskInput(c, logger)
		if !ok {
			return
		}

		task, err := st.Update(c.Request.Context(), id, in)
		if err != nil {
			logger.Error("failed to update task", "id", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
			return
		}
		c.JSON(http.StatusOK, task)
	}
}

// bindTaskInput reads the raw body. It writes a 400 and returns false when
// the body is not a JSON object.
func bindTaskInput(c *gin.Context, logger *slog.Logger) (models.TaskInput, bool) {
	body, err := c.GetRawData()
	if err != nil {
		logger.Warn("failed to read request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return nil, false
	}

	in, err := models.ParseTaskInput(body)
	if err != nil {
		logger.Warn("rejected request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return nil, false
	}
	return in, true
}
