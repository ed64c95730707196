package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const flashCookie = "flash"

// Flash is a one-shot message surfaced on the next rendered page.
type Flash struct {
	Category string
	Message  string
}

func setFlash(c *gin.Context, category, message string) {
	c.SetCookie(flashCookie, category+":"+message, 60, "/", "", false, true)
}

// popFlash reads and clears the flash cookie.
func popFlash(c *gin.Context) *Flash {
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return nil
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)

	category, message, found := strings.Cut(raw, ":")
	if !found {
		return &Flash{Category: "info", Message: raw}
	}
	return &Flash{Category: category, Message: message}
}
