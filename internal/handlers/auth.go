package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mihailchern24-dot/taskhub/internal/middleware"
	"github.com/mihailchern24-dot/taskhub/internal/models"
	"github.com/mihailchern24-dot/taskhub/internal/store"
)

func (h *Handler) ShowRegister(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{"Flash": popFlash(c)})
}

func (h *Handler) Register(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	if username == "" || password == "" {
		setFlash(c, "error", "Username and password are required")
		c.Redirect(http.StatusFound, "/register")
		return
	}

	ctx := c.Request.Context()
	_, err := h.users.ByUsername(ctx, username)
	if err == nil {
		setFlash(c, "error", "That username is already taken")
		c.Redirect(http.StatusFound, "/register")
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		h.serverError(c, "register: lookup", err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.serverError(c, "register: hash", err)
		return
	}

	user := &models.User{Username: username, PasswordHash: string(hashed)}
	if err := h.users.Create(ctx, user); err != nil {
		// Two registrations can race past the lookup above.
		if store.IsUniqueViolation(err) {
			setFlash(c, "error", "That username is already taken")
			c.Redirect(http.StatusFound, "/register")
			return
		}
		h.serverError(c, "register: create", err)
		return
	}

	token, maxAge, err := h.sessions.Issue(user.ID, false)
	if err != nil {
		h.serverError(c, "register: session", err)
		return
	}
	h.setSessionCookie(c, token, maxAge)

	setFlash(c, "success", "Registration successful!")
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) ShowLogin(c *gin.Context) {
	if _, ok := middleware.CurrentUser(c); ok {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Flash": popFlash(c),
		"Next":  c.Query("next"),
	})
}

func (h *Handler) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	ctx := c.Request.Context()
	user, err := h.users.ByUsername(ctx, username)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		h.serverError(c, "login: lookup", err)
		return
	}

	// Same message for unknown user and wrong password.
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		setFlash(c, "error", "Invalid username or password")
		c.Redirect(http.StatusFound, c.Request.URL.RequestURI())
		return
	}

	remember := rememberValue(c.PostForm("remember"))
	token, maxAge, err := h.sessions.Issue(user.ID, remember)
	if err != nil {
		h.serverError(c, "login: session", err)
		return
	}
	h.setSessionCookie(c, token, maxAge)

	if err := h.users.RecordLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		h.log.Warn("recording last login failed",
			zap.Int64("user_id", user.ID), zap.Error(err))
	}

	setFlash(c, "success", "Logged in successfully!")
	c.Redirect(http.StatusFound, safeNext(c.Query("next")))
}

func (h *Handler) Logout(c *gin.Context) {
	h.clearSessionCookie(c)
	setFlash(c, "info", "You have been logged out")
	c.Redirect(http.StatusFound, "/login")
}

func rememberValue(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes", "y", "on":
		return true
	}
	return false
}
