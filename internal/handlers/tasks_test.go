package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTasksRequireSession(t *testing.T) {
	app := newTestApp(t)

	for _, call := range []struct{ method, path string }{
		{http.MethodGet, "/api/tasks"},
		{http.MethodPost, "/api/tasks"},
		{http.MethodPut, "/api/tasks/1"},
		{http.MethodDelete, "/api/tasks/1"},
		{http.MethodGet, "/api/check_reminders"},
	} {
		w := app.do(t, call.method, call.path, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", call.method, call.path)
		assert.Equal(t, "unauthorized", decodeJSON(t, w)["error"])
	}
}

func TestCreateTask(t *testing.T) {
	app := newTestApp(t)
	cookie := app.register(t, "alice", "pw123")

	w := app.do(t, http.MethodPost, "/api/tasks", map[string]any{
		"title":       "  Buy milk  ",
		"description": "semi-skimmed",
		"due_iso":     "2030-01-01T00:00:00Z",
	}, cookie)
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeJSON(t, w)
	assert.Equal(t, "Buy milk", body["title"], "title is trimmed")
	assert.Equal(t, "semi-skimmed", body["description"])
	assert.Equal(t, "2030-01-01T00:00:00Z", body["due_iso"])
	assert.Equal(t, "False", body["done"])
	assert.Equal(t, false, body["is_overdue"])
	assert.NotEmpty(t, body["uuid"])
	assert.NotEmpty(t, body["id"])
	assert.NotNil(t, body["created_at"])
}

func TestCreateTaskValidation(t *testing.T) {
	app := newTestApp(t)
	cookie := app.register(t, "alice", "pw123")

	w := app.do(t, http.MethodPost, "/api/tasks", map[string]any{"title": ""}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodPost, "/api/tasks", map[string]any{"title": "   "}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodPost, "/api/tasks", map[string]any{
		"title": "ok", "due_iso": "next tuesday"}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// A task without any due date is fine.
	w = app.do(t, http.MethodPost, "/api/tasks", map[string]any{"title": "ok"}, cookie)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Nil(t, decodeJSON(t, w)["due_iso"])
}

func TestListTasksPagination(t *testing.T) {
	app := newTestApp(t)
	cookie := app.register(t, "alice", "pw123")

	for i := 0; i < 5; i++ {
		w := app.do(t, http.MethodPost, "/api/tasks",
			map[string]any{"title": fmt.Sprintf("task %d", i)}, cookie)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := app.do(t, http.MethodGet, "/api/tasks?page=1&per_page=2", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeJSON(t, w)
	assert.Len(t, body["items"], 2)

	meta := body["meta"].(map[string]any)
	assert.Equal(t, float64(1), meta["page"])
	assert.Equal(t, float64(2), meta["per_page"])
	assert.Equal(t, float64(5), meta["total"])
	assert.Equal(t, float64(3), meta["pages"])
	assert.Equal(t, true, meta["has_next"])
	assert.Equal(t, false, meta["has_prev"])

	w = app.do(t, http.MethodGet, "/api/tasks?page=3&per_page=2", nil, cookie)
	body = decodeJSON(t, w)
	assert.Len(t, body["items"], 1)
	meta = body["meta"].(map[string]any)
	assert.Equal(t, false, meta["has_next"])
	assert.Equal(t, true, meta["has_prev"])
}

func TestListTasksBadParamsFallBack(t *testing.T) {
	app := newTestApp(t)
	cookie := app.register(t, "alice", "pw123")

	w := app.do(t, http.MethodGet, "/api/tasks?page=abc&per_page=-3", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	meta := decodeJSON(t, w)["meta"].(map[string]any)
	assert.Equal(t, float64(1), meta["page"])
	assert.Equal(t, float64(20), meta["per_page"])
}

func TestUpdateTaskPartial(t *testing.T) {
	app := newTestApp(t)
	cookie := app.register(t, "alice", "pw123")

	w := app.do(t, http.MethodPost, "/api/tasks", map[string]any{
		"title":       "Buy milk",
		"description": "from the corner shop",
		"due_iso":     "2030-01-01T00:00:00Z",
	}, cookie)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeJSON(t, w)["id"].(string)

	// Only done is sent; everything else must survive.
	w = app.do(t, http.MethodPut, "/api/tasks/"+id, map[string]any{"done": "true"}, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeJSON(t, w)
	assert.Equal(t, "True", body["done"])
	assert.Equal(t, "Buy milk", body["title"])
	assert.Equal(t, "from the corner shop", body["description"])
	assert.Equal(t, "2030-01-01T00:00:00Z", body["due_iso"])

	// A JSON boolean works too, and other fields can change in one call.
	w = app.do(t, http.MethodPut, "/api/tasks/"+id, map[string]any{
		"done":  false,
		"title": "  Buy oat milk  ",
	}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeJSON(t, w)
	assert.Equal(t, "False", body["done"])
	assert.Equal(t, "Buy oat milk", body["title"])

	// Clearing description and due date.
	w = app.do(t, http.MethodPut, "/api/tasks/"+id, map[string]any{
		"description": "   ",
		"due_iso":     nil,
	}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeJSON(t, w)
	assert.Equal(t, "", body["description"])
	assert.Nil(t, body["due_iso"])
}

func TestUpdateTaskNotFound(t *testing.T) {
	app := newTestApp(t)
	cookie := app.register(t, "alice", "pw123")

	w := app.do(t, http.MethodPut, "/api/tasks/9999", map[string]any{"done": "true"}, cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(t, http.MethodPut, "/api/tasks/not-a-number", map[string]any{"done": "true"}, cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaskOwnershipIsolation(t *testing.T) {
	app := newTestApp(t)
	alice := app.register(t, "alice", "pw123")
	bob := app.register(t, "bob", "pw456")

	w := app.do(t, http.MethodPost, "/api/tasks", map[string]any{"title": "alice's task"}, alice)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeJSON(t, w)["id"].(string)

	w = app.do(t, http.MethodPut, "/api/tasks/"+id, map[string]any{"done": "true"}, bob)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(t, http.MethodDelete, "/api/tasks/"+id, nil, bob)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Bob never sees it, and it is unchanged for alice.
	w = app.do(t, http.MethodGet, "/api/tasks", nil, bob)
	assert.Empty(t, decodeJSON(t, w)["items"])

	w = app.do(t, http.MethodGet, "/api/tasks", nil, alice)
	items := decodeJSON(t, w)["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "False", items[0].(map[string]any)["done"])
}

func TestDeleteTask(t *testing.T) {
	app := newTestApp(t)
	cookie := app.register(t, "alice", "pw123")

	w := app.do(t, http.MethodPost, "/api/tasks", map[string]any{"title": "short-lived"}, cookie)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeJSON(t, w)["id"].(string)

	w = app.do(t, http.MethodDelete, "/api/tasks/"+id, nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeJSON(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, id, body["id"])

	w = app.do(t, http.MethodDelete, "/api/tasks/"+id, nil, cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(t, http.MethodGet, "/api/tasks", nil, cookie)
	assert.Empty(t, decodeJSON(t, w)["items"])
}

func TestCreateThenCompleteScenario(t *testing.T) {
	app := newTestApp(t)
	cookie := app.register(t, "alice", "pw123")

	w := app.do(t, http.MethodPost, "/api/tasks", map[string]any{"title": "Buy milk"}, cookie)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeJSON(t, w)["id"].(string)

	w = app.do(t, http.MethodGet, "/api/tasks", nil, cookie)
	items := decodeJSON(t, w)["items"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.Equal(t, "False", item["done"])
	assert.Equal(t, false, item["is_overdue"])

	w = app.do(t, http.MethodPut, "/api/tasks/"+id, map[string]any{"done": "true"}, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodGet, "/api/tasks", nil, cookie)
	items = decodeJSON(t, w)["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "True", items[0].(map[string]any)["done"])
}
