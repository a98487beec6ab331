package handler

import (
	"net/http"

	"ghibli-service/internal/logger"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	sess, err := h.coord.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		status, msg := identityErrorStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	if err := h.profiles.Create(c.Request.Context(), sess.UID, sess.Email, req.Username); err != nil {
		// The account exists; the profile document can be recreated on
		// the next sign-in.
		logger.Warn("failed to create profile document", map[string]any{
			"user_id": sess.UID,
			"error":   err.Error(),
		})
	}

	if err := h.issueWebSession(c, sess.UID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "registered"})
}
