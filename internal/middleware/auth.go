package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/mihailchern24-dot/taskhub/internal/auth"
	"github.com/mihailchern24-dot/taskhub/internal/models"
	"github.com/mihailchern24-dot/taskhub/internal/store"
)

const userKey = "currentUser"

// Resolve reads the session cookie, verifies it and loads the user into the
// request context. It never rejects; the Require* gates below do that.
func Resolve(sessions *auth.Sessions, users store.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(auth.CookieName)
		if err != nil || token == "" {
			return
		}

		userID, err := sessions.Verify(token)
		if err != nil {
			return
		}

		user, err := users.ByID(c.Request.Context(), userID)
		if err != nil {
			return
		}
		c.Set(userKey, user)
	}
}

// CurrentUser returns the authenticated user, if any.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

// RequireUser gates page routes: unauthenticated requests are sent to the
// login page with the intended destination preserved in next.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); ok {
			c.Next()
			return
		}
		c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
		c.Abort()
	}
}

// RequireAPIUser gates API routes with a 401 JSON body.
func RequireAPIUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); ok {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
}
