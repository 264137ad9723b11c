package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"issue-tracker/internal/apperrors"
	"issue-tracker/internal/middleware"
	"issue-tracker/internal/services"
)

func (h *Handlers) ListConversations(c *gin.Context) {
	issueID, err := parseID(c.Param("id"), "Invalid issue ID")
	if err != nil {
		h.renderError(c, "list conversations", err)
		return
	}

	msgs, err := h.conversations.List(c.Request.Context(), issueID, requestBaseURL(c))
	if err != nil {
		h.renderError(c, "list conversations", err)
		return
	}
	renderData(c, http.StatusOK, msgs)
}

type createMessageRequest struct {
	SenderID    flexID `json:"sender_id" form:"sender_id"`
	MessageType string `json:"message_type" form:"message_type"`
	MessageText string `json:"message_text" form:"message_text"`
}

// CreateConversation posts a message on an issue. The sender is taken from
// the X-User-Id header, then the body, then the session.
func (h *Handlers) CreateConversation(c *gin.Context) {
	var req createMessageRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderError(c, "create conversation", apperrors.NewValidationError(services.ErrMessageInputMsg, err.Error()))
		return
	}

	issueID, err := parseID(c.Param("id"), services.ErrMessageInputMsg)
	if err != nil {
		h.renderError(c, "create conversation", err)
		return
	}

	rawSender := c.GetHeader(middleware.ViewerHeader)
	if rawSender == "" {
		rawSender = string(req.SenderID)
	}
	if rawSender == "" {
		rawSender = middleware.Viewer(c)
	}
	senderID, err := parseID(rawSender, services.ErrMessageInputMsg)
	if err != nil {
		h.renderError(c, "create conversation", err)
		return
	}

	stored, err := h.storeUpload(c)
	if err != nil {
		h.renderError(c, "create conversation", err)
		return
	}

	msg, err := h.conversations.Create(c.Request.Context(), services.CreateMessageInput{
		IssueID:     issueID,
		SenderID:    senderID,
		MessageType: req.MessageType,
		MessageText: req.MessageText,
		Attachment:  stored,
	}, requestBaseURL(c))
	if err != nil {
		h.discardUpload(stored)
		h.renderError(c, "create conversation", err)
		return
	}
	renderData(c, http.StatusCreated, msg)
}

func (h *Handlers) ConversationAttachment(c *gin.Context) {
	convID, err := parseID(c.Param("convId"), "Invalid conversation ID")
	if err != nil {
		h.renderError(c, "conversation attachment", err)
		return
	}
	viewerID, err := parseID(middleware.Viewer(c), "Invalid viewer ID")
	if err != nil {
		h.renderError(c, "conversation attachment", err)
		return
	}

	path, err := h.conversations.AttachmentPath(c.Request.Context(), convID, viewerID)
	if err != nil {
		h.renderError(c, "conversation attachment", err)
		return
	}
	h.sendFile(c, path)
}
