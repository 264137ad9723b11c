package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"issue-tracker/internal/apperrors"
	"issue-tracker/internal/services"
)

func (h *Handlers) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.renderError(c, "list users", err)
		return
	}
	renderData(c, http.StatusOK, users)
}

func (h *Handlers) CreateUser(c *gin.Context) {
	var in services.CreateUserInput
	if err := c.ShouldBind(&in); err != nil {
		h.renderError(c, "create user", apperrors.NewValidationError("tenant_id, username, email, password and role are required", err.Error()))
		return
	}

	id, err := h.users.Create(c.Request.Context(), in)
	if err != nil {
		h.renderError(c, "create user", err)
		return
	}
	renderOK(c, http.StatusCreated, gin.H{"userId": id})
}

func (h *Handlers) GetUser(c *gin.Context) {
	id, err := parseID(c.Param("id"), "Invalid user ID")
	if err != nil {
		h.renderError(c, "get user", err)
		return
	}

	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, "get user", err)
		return
	}
	renderData(c, http.StatusOK, user)
}

func (h *Handlers) UpdateUser(c *gin.Context) {
	id, err := parseID(c.Param("id"), "Invalid user ID")
	if err != nil {
		h.renderError(c, "update user", err)
		return
	}

	var in services.UpdateUserInput
	if err := c.ShouldBind(&in); err != nil {
		h.renderError(c, "update user", apperrors.NewValidationError("tenant_id, username, email and role are required", err.Error()))
		return
	}

	if err := h.users.Update(c.Request.Context(), id, in); err != nil {
		h.renderError(c, "update user", err)
		return
	}
	renderMessage(c, "User updated")
}

func (h *Handlers) DeleteUser(c *gin.Context) {
	id, err := parseID(c.Param("id"), "Invalid user ID")
	if err != nil {
		h.renderError(c, "delete user", err)
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		h.renderError(c, "delete user", err)
		return
	}
	renderMessage(c, "User and related data deleted")
}
