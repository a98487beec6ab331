package handler

import (
	"net/http"

	"ghibli-service/internal/session"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Logout(c *gin.Context) {
	// Destroy the web session (best-effort) before clearing auth state.
	if cookie, err := c.Request.Cookie(session.CookieName); err == nil && cookie.Value != "" {
		_ = h.sessionStore.Delete(c.Request.Context(), cookie.Value)
	}

	_ = h.coord.SignOut(c.Request.Context())

	session.ClearCookie(c.Writer)

	// Idempotent: logging out while logged out succeeds.
	c.Status(http.StatusNoContent)
}
