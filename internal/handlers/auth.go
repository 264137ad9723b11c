package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"issue-tracker/internal/apperrors"
	"issue-tracker/internal/services"
)

func (h *Handlers) Register(c *gin.Context) {
	var in services.RegisterInput
	if err := c.ShouldBind(&in); err != nil {
		h.renderError(c, "register", apperrors.NewValidationError("username, email, password & role are required", err.Error()))
		return
	}

	res, err := h.auth.Register(c.Request.Context(), in)
	if err != nil {
		h.renderError(c, "register", err)
		return
	}

	renderOK(c, http.StatusCreated, gin.H{
		"userId":    res.UserID,
		"username":  res.Username,
		"user_role": res.UserRole,
	})
}

func (h *Handlers) Login(c *gin.Context) {
	var in services.LoginInput
	if err := c.ShouldBind(&in); err != nil {
		h.renderError(c, "login", apperrors.NewValidationError("Username and password required", err.Error()))
		return
	}

	res, err := h.auth.Login(c.Request.Context(), in)
	if err != nil {
		h.renderError(c, "login", err)
		return
	}

	sess := sessions.Default(c)
	sess.Set("user_id", res.UserID)
	if res.UserRole != nil {
		sess.Set("role", *res.UserRole)
	}
	if err := sess.Save(); err != nil {
		h.log.Warn("failed to save session", "user_id", res.UserID, "error", err)
	}

	renderOK(c, http.StatusOK, gin.H{
		"userId":    res.UserID,
		"username":  res.Username,
		"role":      res.Role,
		"user_role": res.UserRole,
	})
}

func (h *Handlers) Logout(c *gin.Context) {
	sess := sessions.Default(c)
	sess.Clear()
	_ = sess.Save()
	renderMessage(c, "Logged out")
}
