package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mihailchern24-dot/taskhub/internal/middleware"
	"github.com/mihailchern24-dot/taskhub/internal/models"
)

// reminderWindow is how far ahead a due date may lie to trigger a reminder.
const reminderWindow = 5 * time.Minute

// CheckReminders returns the user's open tasks that come due within the
// next five minutes. Tasks already past due and tasks whose due string does
// not parse are left out.
func (h *Handler) CheckReminders(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	tasks, err := h.tasks.OpenWithDue(c.Request.Context(), user.ID)
	if err != nil {
		h.serverError(c, "reminders: list", err)
		return
	}

	now := time.Now().UTC()
	reminders := make([]models.ReminderPayload, 0)
	for i := range tasks {
		until, ok := tasks[i].DueIn(now)
		if ok && until >= 0 && until <= reminderWindow {
			reminders = append(reminders, tasks[i].Reminder())
		}
	}

	c.JSON(http.StatusOK, gin.H{"reminders": reminders})
}
