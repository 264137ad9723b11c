package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"issue-tracker/internal/apperrors"
	"issue-tracker/internal/models"
	"issue-tracker/internal/services"
)

func (h *Handlers) ListIssues(c *gin.Context) {
	issues, err := h.issues.List(c.Request.Context(), c.Query("username"))
	if err != nil {
		h.renderError(c, "list issues", err)
		return
	}
	renderData(c, http.StatusOK, issues)
}

func (h *Handlers) ListIssuesByReporter(c *gin.Context) {
	h.listByUser(c, "list reported issues", h.issues.ListByReporter)
}

func (h *Handlers) ListIssuesByAssignee(c *gin.Context) {
	h.listByUser(c, "list assigned issues", h.issues.ListByAssignee)
}

func (h *Handlers) listByUser(c *gin.Context, op string, list func(ctx context.Context, userID uint) ([]models.Issue, error)) {
	userID, err := parseID(c.Param("userId"), "Invalid user ID")
	if err != nil {
		h.renderError(c, op, err)
		return
	}

	issues, err := list(c.Request.Context(), userID)
	if err != nil {
		h.renderError(c, op, err)
		return
	}
	renderData(c, http.StatusOK, issues)
}

func (h *Handlers) ListIssuesByAssigneeUsername(c *gin.Context) {
	issues, err := h.issues.ListByAssigneeUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		h.renderError(c, "list assigned issues", err)
		return
	}
	renderData(c, http.StatusOK, issues)
}

func (h *Handlers) CreateIssue(c *gin.Context) {
	var in services.CreateIssueInput
	if err := c.ShouldBind(&in); err != nil {
		h.renderError(c, "create issue", apperrors.NewValidationError("user_id, title, description, issue_type and status are required", err.Error()))
		return
	}

	stored, err := h.storeUpload(c)
	if err != nil {
		h.renderError(c, "create issue", err)
		return
	}
	in.Attachment = stored

	issue, err := h.issues.Create(c.Request.Context(), in)
	if err != nil {
		h.discardUpload(stored)
		h.renderError(c, "create issue", err)
		return
	}
	renderData(c, http.StatusCreated, issue)
}

type assignRequest struct {
	Username string `json:"username" form:"username"`
}

func (h *Handlers) AssignIssue(c *gin.Context) {
	id, err := parseID(c.Param("id"), "Invalid issue ID")
	if err != nil {
		h.renderError(c, "assign issue", err)
		return
	}

	var req assignRequest
	if err := c.ShouldBind(&req); err != nil && !errors.Is(err, io.EOF) {
		h.renderError(c, "assign issue", apperrors.NewValidationError("username is required", err.Error()))
		return
	}

	if err := h.issues.Assign(c.Request.Context(), id, req.Username); err != nil {
		h.renderError(c, "assign issue", err)
		return
	}
	renderMessage(c, "Issue assigned")
}

func (h *Handlers) CloseIssue(c *gin.Context) {
	id, err := parseID(c.Param("id"), "Invalid issue ID")
	if err != nil {
		h.renderError(c, "close issue", err)
		return
	}

	if err := h.issues.Close(c.Request.Context(), id); err != nil {
		h.renderError(c, "close issue", err)
		return
	}
	renderMessage(c, "Issue closed")
}

type updateIssueRequest struct {
	Description string `json:"description" form:"description"`
}

func (h *Handlers) UpdateIssue(c *gin.Context) {
	id, err := parseID(c.Param("id"), "Invalid issue ID")
	if err != nil {
		h.renderError(c, "update issue", err)
		return
	}

	var req updateIssueRequest
	if err := c.ShouldBind(&req); err != nil && !errors.Is(err, io.EOF) {
		h.renderError(c, "update issue", apperrors.NewValidationError("Nothing to update", err.Error()))
		return
	}

	stored, err := h.storeUpload(c)
	if err != nil {
		h.renderError(c, "update issue", err)
		return
	}

	if err := h.issues.Update(c.Request.Context(), id, req.Description, stored); err != nil {
		h.discardUpload(stored)
		h.renderError(c, "update issue", err)
		return
	}
	renderMessage(c, "Issue updated")
}

func (h *Handlers) PatchIssue(c *gin.Context) {
	id, err := parseID(c.Param("id"), "Invalid issue ID")
	if err != nil {
		h.renderError(c, "patch issue", err)
		return
	}

	var in services.PatchIssueInput
	if err := c.ShouldBindJSON(&in); err != nil && !errors.Is(err, io.EOF) {
		h.renderError(c, "patch issue", apperrors.NewValidationError("Invalid request body", err.Error()))
		return
	}

	if err := h.issues.Patch(c.Request.Context(), id, in); err != nil {
		h.renderError(c, "patch issue", err)
		return
	}
	renderMessage(c, "Issue updated")
}

func (h *Handlers) IssueAttachment(c *gin.Context) {
	id, err := parseID(c.Param("id"), "Invalid issue ID")
	if err != nil {
		h.renderError(c, "issue attachment", err)
		return
	}

	path, err := h.issues.AttachmentPath(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, "issue attachment", err)
		return
	}
	h.sendFile(c, path)
}
