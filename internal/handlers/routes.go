package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mihailchern24-dot/taskhub/internal/middleware"
	"github.com/mihailchern24-dot/taskhub/internal/web"
)

// Router assembles the full route table over the handler set.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.CustomRecovery(h.Recovered))
	r.Use(middleware.Resolve(h.sessions, h.users))
	r.SetHTMLTemplate(web.Templates())
	r.StaticFS("/static", http.FS(web.Static()))

	r.GET("/health", h.Health)
	r.GET("/about", h.About)
	r.GET("/register", h.ShowRegister)
	r.POST("/register", h.Register)
	r.GET("/login", h.ShowLogin)
	r.POST("/login", h.Login)

	pages := r.Group("/", middleware.RequireUser())
	pages.GET("", h.Index)
	pages.GET("logout", h.Logout)

	api := r.Group("/api", middleware.RequireAPIUser())
	api.GET("/tasks", h.ListTasks)
	api.POST("/tasks", h.CreateTask)
	api.PUT("/tasks/:id", h.UpdateTask)
	api.DELETE("/tasks/:id", h.DeleteTask)
	api.GET("/check_reminders", h.CheckReminders)

	r.NoRoute(h.NotFound)
	return r
}
