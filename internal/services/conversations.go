package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"issue-tracker/internal/apperrors"
	"issue-tracker/internal/metrics"
	"issue-tracker/internal/models"
)

// ErrMessageInputMsg is reported for every malformed create-message request.
const ErrMessageInputMsg = "issue ID, sender_id and either message_text or attachment are required"

type ConversationService struct {
	db    *gorm.DB
	files PathResolver
}

func NewConversationService(db *gorm.DB, files PathResolver) *ConversationService {
	return &ConversationService{db: db, files: files}
}

// Message is a conversation row enriched with its sender's username and a
// retrieval URL for the attachment.
type Message struct {
	ID            uint      `json:"id"`
	IssueID       uint      `json:"issue_id"`
	SenderID      uint      `json:"sender_id"`
	SenderName    *string   `json:"sender_name"`
	MessageType   string    `json:"message_type"`
	MessageText   string    `json:"message_text"`
	Attachment    *string   `json:"attachment"`
	AttachmentURL *string   `json:"attachment_url" gorm:"-"`
	CreatedAt     time.Time `json:"created_at"`
}

// ThreadMessage additionally carries the participants of the parent issue.
type ThreadMessage struct {
	Message
	ReporterID   uint    `json:"reporter_id"`
	AssigneeID   *uint   `json:"assignee_id"`
	AssigneeName *string `json:"assignee_name"`
}

func isParticipant(userID, reporterID uint, assigneeID *uint) bool {
	return userID == reporterID || (assigneeID != nil && userID == *assigneeID)
}

// AttachmentURL is the authorization-checked download location of a
// message attachment.
func AttachmentURL(baseURL string, convID uint) string {
	return strings.TrimRight(baseURL, "/") + "/conversations/" + strconv.FormatUint(uint64(convID), 10) + "/attachment"
}

func (m *Message) expand(baseURL string) {
	if m.Attachment != nil && *m.Attachment != "" {
		u := AttachmentURL(baseURL, m.ID)
		m.AttachmentURL = &u
	}
}

// List returns the thread of an issue, oldest first.
func (s *ConversationService) List(ctx context.Context, issueID uint, baseURL string) ([]ThreadMessage, error) {
	rows := []ThreadMessage{}
	err := s.db.WithContext(ctx).
		Table("issue_conversations AS c").
		Select(`c.id, c.issue_id, i.user_id AS reporter_id, i.assignee_id, c.sender_id,
			sender.username AS sender_name, assignee.username AS assignee_name,
			c.message_type, c.message_text, c.attachment, c.created_at`).
		Joins("INNER JOIN issues i ON c.issue_id = i.id").
		Joins("LEFT JOIN users sender ON c.sender_id = sender.id").
		Joins("LEFT JOIN users assignee ON i.assignee_id = assignee.id").
		Where("c.issue_id = ?", issueID).
		Order("c.created_at ASC").
		Order("c.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	for i := range rows {
		rows[i].expand(baseURL)
	}
	return rows, nil
}

type CreateMessageInput struct {
	IssueID     uint
	SenderID    uint
	MessageType string
	MessageText string
	Attachment  string
}

type issueParticipants struct {
	ReporterID uint
	AssigneeID *uint
}

// Create posts a message on behalf of one of the issue's participants.
func (s *ConversationService) Create(ctx context.Context, in CreateMessageInput, baseURL string) (*Message, error) {
	text := strings.TrimSpace(in.MessageText)
	if text == "" && in.Attachment == "" {
		return nil, apperrors.NewValidationError(ErrMessageInputMsg)
	}

	var p issueParticipants
	res := s.db.WithContext(ctx).Model(&models.Issue{}).
		Select("user_id AS reporter_id, assignee_id").
		Where("id = ?", in.IssueID).
		Limit(1).
		Scan(&p)
	if res.Error != nil {
		return nil, fmt.Errorf("load issue participants: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.NewNotFoundError("Issue not found")
	}
	if !isParticipant(in.SenderID, p.ReporterID, p.AssigneeID) {
		return nil, apperrors.NewForbiddenError("Not authorized")
	}

	conv := models.Conversation{
		IssueID:     in.IssueID,
		SenderID:    in.SenderID,
		MessageType: in.MessageType,
		MessageText: text,
	}
	if in.Attachment != "" {
		conv.Attachment = &in.Attachment
	}
	if err := s.db.WithContext(ctx).Create(&conv).Error; err != nil {
		return nil, fmt.Errorf("insert conversation: %w", err)
	}
	metrics.MessageCreated()

	// enrichment is best effort; the sender may disappear in between
	msg := Message{
		ID:          conv.ID,
		IssueID:     conv.IssueID,
		SenderID:    conv.SenderID,
		MessageType: conv.MessageType,
		MessageText: conv.MessageText,
		Attachment:  conv.Attachment,
		CreatedAt:   conv.CreatedAt,
	}
	var sender models.User
	err := s.db.WithContext(ctx).Select("id", "username").Where("id = ?", conv.SenderID).Take(&sender).Error
	switch {
	case err == nil:
		msg.SenderName = &sender.Username
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("load sender: %w", err)
	}

	msg.expand(baseURL)
	return &msg, nil
}

type attachmentAccess struct {
	Attachment *string
	ReporterID uint
	AssigneeID *uint
}

// AttachmentPath returns the stored file of a message, only to a participant
// of the parent issue.
func (s *ConversationService) AttachmentPath(ctx context.Context, convID, viewerID uint) (string, error) {
	var a attachmentAccess
	res := s.db.WithContext(ctx).
		Table("issue_conversations AS ic").
		Select("ic.attachment, i.user_id AS reporter_id, i.assignee_id").
		Joins("INNER JOIN issues i ON ic.issue_id = i.id").
		Where("ic.id = ?", convID).
		Limit(1).
		Scan(&a)
	if res.Error != nil {
		return "", fmt.Errorf("load conversation: %w", res.Error)
	}
	if res.RowsAffected == 0 || a.Attachment == nil || *a.Attachment == "" {
		return "", apperrors.NewNotFoundError("Attachment not found")
	}
	if !isParticipant(viewerID, a.ReporterID, a.AssigneeID) {
		return "", apperrors.NewForbiddenError("Not authorized")
	}
	return s.files.Path(*a.Attachment), nil
}
