package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mihailchern24-dot/taskhub/internal/middleware"
)

func (h *Handler) Index(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Flash":    popFlash(c),
		"Username": user.Username,
	})
}

func (h *Handler) About(c *gin.Context) {
	c.HTML(http.StatusOK, "about.html", nil)
}

func (h *Handler) NotFound(c *gin.Context) {
	if isAPIRequest(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.HTML(http.StatusNotFound, "404.html", nil)
}

// Recovered renders the 500 page after a panic; by then any statement the
// request ran has already rolled back with its failed transaction.
func (h *Handler) Recovered(c *gin.Context, err any) {
	h.log.Error("panic in handler",
		zap.String("path", c.Request.URL.Path), zap.Any("error", err))
	if isAPIRequest(c) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.Abort()
	c.HTML(http.StatusInternalServerError, "500.html", nil)
}

// serverError logs an unexpected failure and answers with the 500 surface
// appropriate to the route.
func (h *Handler) serverError(c *gin.Context, op string, err error) {
	h.log.Error(op, zap.Error(err))
	if isAPIRequest(c) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.HTML(http.StatusInternalServerError, "500.html", nil)
}

func isAPIRequest(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/")
}
