package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mihailchern24-dot/taskhub/internal/auth"
	"github.com/mihailchern24-dot/taskhub/internal/config"
	"github.com/mihailchern24-dot/taskhub/internal/store"
)

type Handler struct {
	cfg      *config.Config
	log      *zap.Logger
	sessions *auth.Sessions
	users    store.UserRepository
	tasks    store.TaskRepository
}

func New(cfg *config.Config, log *zap.Logger, sessions *auth.Sessions,
	users store.UserRepository, tasks store.TaskRepository) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{cfg: cfg, log: log, sessions: sessions, users: users, tasks: tasks}
}

func (h *Handler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetCookie(auth.CookieName, token, maxAge, "/", "", false, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetCookie(auth.CookieName, "", -1, "/", "", false, true)
}

// safeNext accepts only same-origin paths as a post-login redirect target.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") ||
		strings.HasPrefix(next, "//") || strings.ContainsAny(next, "\\\r\n") {
		return "/"
	}
	return next
}
