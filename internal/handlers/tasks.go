package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mihailchern24-dot/taskhub/internal/middleware"
	"github.com/mihailchern24-dot/taskhub/internal/models"
	"github.com/mihailchern24-dot/taskhub/internal/store"
)

type listMeta struct {
	Page    int  `json:"page"`
	PerPage int  `json:"per_page"`
	Total   int  `json:"total"`
	Pages   int  `json:"pages"`
	HasNext bool `json:"has_next"`
	HasPrev bool `json:"has_prev"`
}

func (h *Handler) ListTasks(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	page := positiveIntQuery(c, "page", 1)
	perPage := positiveIntQuery(c, "per_page", h.cfg.ItemsPerPage)

	tasks, total, err := h.tasks.ListPage(c.Request.Context(), user.ID, page, perPage)
	if err != nil {
		h.serverError(c, "tasks: list", err)
		return
	}

	now := time.Now().UTC()
	items := make([]models.TaskPayload, 0, len(tasks))
	for i := range tasks {
		items = append(items, tasks[i].Payload(now))
	}

	pages := 0
	if total > 0 {
		pages = (total + perPage - 1) / perPage
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"meta": listMeta{
			Page:    page,
			PerPage: perPage,
			Total:   total,
			Pages:   pages,
			HasNext: page < pages,
			HasPrev: page > 1,
		},
	})
}

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueISO      string `json:"due_iso"`
}

func (h *Handler) CreateTask(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	request := createTaskRequest{}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	title := strings.TrimSpace(request.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	if request.DueISO != "" {
		if _, err := models.ParseDueISO(request.DueISO); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due date format"})
			return
		}
	}

	task := &models.Task{
		UserID:      user.ID,
		Title:       title,
		Description: optional(strings.TrimSpace(request.Description)),
		DueISO:      optional(request.DueISO),
	}
	if err := h.tasks.Create(c.Request.Context(), task); err != nil {
		h.serverError(c, "tasks: create", err)
		return
	}

	c.JSON(http.StatusCreated, task.Payload(time.Now().UTC()))
}

func (h *Handler) UpdateTask(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	task, ok := h.ownedTask(c, user.ID)
	if !ok {
		return
	}

	fields := map[string]any{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	// Only the fields present in the request are applied.
	if v, present := fields["title"]; present {
		task.Title = strings.TrimSpace(stringValue(v))
	}
	if v, present := fields["description"]; present {
		task.Description = optional(strings.TrimSpace(stringValue(v)))
	}
	if v, present := fields["due_iso"]; present {
		task.DueISO = optional(stringValue(v))
	}
	if v, present := fields["done"]; present {
		task.Done = doneValue(v)
	}

	if err := h.tasks.Update(c.Request.Context(), task); err != nil {
		h.serverError(c, "tasks: update", err)
		return
	}

	c.JSON(http.StatusOK, task.Payload(time.Now().UTC()))
}

func (h *Handler) DeleteTask(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	task, ok := h.ownedTask(c, user.ID)
	if !ok {
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), task.ID); err != nil {
		h.serverError(c, "tasks: delete", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "id": strconv.FormatInt(task.ID, 10)})
}

// ownedTask loads the task in the id path parameter and enforces the
// not-found-then-forbidden check order.
func (h *Handler) ownedTask(c *gin.Context, userID int64) (*models.Task, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return nil, false
	}

	task, err := h.tasks.ByID(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return nil, false
	}
	if err != nil {
		h.serverError(c, "tasks: load", err)
		return nil, false
	}

	if task.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return nil, false
	}
	return task, true
}

func positiveIntQuery(c *gin.Context, name string, fallback int) int {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func stringValue(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// doneValue interprets the done field of an update. Anything in the truthy
// set, after stringifying JSON booleans and numbers, flips the flag on.
func doneValue(v any) bool {
	switch strings.ToLower(stringValue(v)) {
	case "true", "1", "yes", "y":
		return true
	}
	return false
}
