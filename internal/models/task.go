package models

import (
	"strconv"
	"time"
)

type Task struct {
	ID          int64
	UUID        string
	UserID      int64
	Title       string
	Description *string
	DueISO      *string
	Done        bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// dueLayouts are tried in order. Layouts without a zone are taken as UTC.
var dueLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDueISO parses a stored due-date string. A trailing Z or a numeric
// offset is honored; a naive timestamp is assumed to be UTC.
func ParseDueISO(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range dueLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// IsOverdue reports whether the task's due date has passed. Done tasks and
// tasks whose due string does not parse are never overdue.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.Done || t.DueISO == nil || *t.DueISO == "" {
		return false
	}
	due, err := ParseDueISO(*t.DueISO)
	if err != nil {
		return false
	}
	return due.Before(now)
}

// DueIn returns the time remaining until the task is due. ok is false when
// there is no due date or it does not parse.
func (t *Task) DueIn(now time.Time) (time.Duration, bool) {
	if t.DueISO == nil || *t.DueISO == "" {
		return 0, false
	}
	due, err := ParseDueISO(*t.DueISO)
	if err != nil {
		return 0, false
	}
	return due.Sub(now), true
}

// TaskPayload is the wire shape of a task. Existing clients expect the done
// flag as a capitalized "True"/"False" string.
type TaskPayload struct {
	ID          string  `json:"id"`
	UUID        string  `json:"uuid"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	DueISO      *string `json:"due_iso"`
	Done        string  `json:"done"`
	CreatedAt   *string `json:"created_at"`
	IsOverdue   bool    `json:"is_overdue"`
}

// ReminderPayload is one entry of the check_reminders response.
type ReminderPayload struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	DueISO      *string `json:"due_iso"`
}

func (t *Task) Payload(now time.Time) TaskPayload {
	p := TaskPayload{
		ID:        strconv.FormatInt(t.ID, 10),
		UUID:      t.UUID,
		Title:     t.Title,
		DueISO:    t.DueISO,
		Done:      doneString(t.Done),
		IsOverdue: t.IsOverdue(now),
	}
	if t.Description != nil {
		p.Description = *t.Description
	}
	if !t.CreatedAt.IsZero() {
		created := t.CreatedAt.UTC().Format(time.RFC3339)
		p.CreatedAt = &created
	}
	return p
}

func (t *Task) Reminder() ReminderPayload {
	p := ReminderPayload{
		ID:     strconv.FormatInt(t.ID, 10),
		Title:  t.Title,
		DueISO: t.DueISO,
	}
	if t.Description != nil {
		p.Description = *t.Description
	}
	return p
}

func doneString(done bool) string {
	if done {
		return "True"
	}
	return "False"
}
