package handler

import (
	"net/http"

	"ghibli-service/internal/logger"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	sess, err := h.coord.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		status, msg := identityErrorStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	// Best-effort: the sign-in itself already succeeded.
	if err := h.profiles.RecordSignIn(c.Request.Context(), sess.UID, sess.Email); err != nil {
		logger.Warn("failed to record sign-in on profile", map[string]any{
			"user_id": sess.UID,
			"error":   err.Error(),
		})
	}

	if err := h.issueWebSession(c, sess.UID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "logged_in"})
}
