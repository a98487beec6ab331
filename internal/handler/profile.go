package handler

import (
	"errors"
	"net/http"

	"ghibli-service/internal/middleware"
	"ghibli-service/internal/profile"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Me(c *gin.Context) {
	uid, ok := middleware.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	p, err := h.profiles.Get(c.Request.Context(), uid)
	if errors.Is(err, profile.ErrNotFound) {
		c.JSON(http.StatusOK, gin.H{"uid": uid})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, p)
}
