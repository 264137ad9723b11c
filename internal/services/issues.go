package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"issue-tracker/internal/apperrors"
	"issue-tracker/internal/metrics"
	"issue-tracker/internal/models"
	"issue-tracker/internal/validation"
)

// PathResolver maps a stored attachment name to a filesystem path.
type PathResolver interface {
	Path(name string) string
}

type IssueService struct {
	db    *gorm.DB
	files PathResolver
}

func NewIssueService(db *gorm.DB, files PathResolver) *IssueService {
	return &IssueService{db: db, files: files}
}

func (s *IssueService) newestFirst(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Order("issues.created_at DESC").Order("issues.id DESC")
}

// List returns every issue, or only those reported by username when given.
func (s *IssueService) List(ctx context.Context, username string) ([]models.Issue, error) {
	q := s.newestFirst(ctx)
	if username != "" {
		q = q.Joins("JOIN users u ON issues.user_id = u.id").Where("u.username = ?", username)
	}
	return s.find(q, "list issues")
}

func (s *IssueService) ListByReporter(ctx context.Context, userID uint) ([]models.Issue, error) {
	return s.find(s.newestFirst(ctx).Where("issues.user_id = ?", userID), "list reporter issues")
}

func (s *IssueService) ListByAssignee(ctx context.Context, userID uint) ([]models.Issue, error) {
	return s.find(s.newestFirst(ctx).Where("issues.assignee_id = ?", userID), "list assigned issues")
}

func (s *IssueService) ListByAssigneeUsername(ctx context.Context, username string) ([]models.Issue, error) {
	q := s.newestFirst(ctx).
		Joins("JOIN users u ON issues.assignee_id = u.id").
		Where("u.username = ?", username)
	return s.find(q, "list assigned issues by username")
}

func (s *IssueService) find(q *gorm.DB, op string) ([]models.Issue, error) {
	issues := []models.Issue{}
	if err := q.Find(&issues).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return issues, nil
}

type CreateIssueInput struct {
	UserID      uint   `json:"user_id" form:"user_id" validate:"required"`
	Title       string `json:"title" form:"title" validate:"notblank"`
	Description string `json:"description" form:"description" validate:"notblank"`
	IssueType   string `json:"issue_type" form:"issue_type" validate:"required,issue_type"`
	Status      string `json:"status" form:"status" validate:"required,issue_status"`
	Attachment  string `json:"-" form:"-"`
}

func (s *IssueService) Create(ctx context.Context, in CreateIssueInput) (*models.Issue, error) {
	if err := validation.Struct(in, "user_id, title, description, issue_type and status are required"); err != nil {
		return nil, err
	}

	issue := models.Issue{
		UserID:      in.UserID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		IssueType:   models.IssueType(in.IssueType),
		Status:      models.IssueStatus(in.Status),
	}
	if in.Attachment != "" {
		issue.Attachment = &in.Attachment
	}

	if err := s.db.WithContext(ctx).Create(&issue).Error; err != nil {
		return nil, fmt.Errorf("insert issue: %w", err)
	}
	metrics.IssueCreated()
	return &issue, nil
}

// Assign hands the issue to the named user and marks it allocated.
func (s *IssueService) Assign(ctx context.Context, issueID uint, username string) error {
	if username == "" {
		return apperrors.NewValidationError("username is required")
	}

	var assignee models.User
	err := s.db.WithContext(ctx).Select("id").Where("username = ?", username).Take(&assignee).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NewNotFoundError("User not found")
	}
	if err != nil {
		return fmt.Errorf("find assignee: %w", err)
	}

	return s.update(ctx, issueID, map[string]any{
		"assignee_id": assignee.ID,
		"status":      models.StatusAllocated,
	}, "assign issue")
}

// Close marks the issue closed whatever its current status.
func (s *IssueService) Close(ctx context.Context, issueID uint) error {
	return s.update(ctx, issueID, map[string]any{"status": models.StatusClosed}, "close issue")
}

// Update replaces the description and/or the attachment. A blank description
// is ignored.
func (s *IssueService) Update(ctx context.Context, issueID uint, description, attachment string) error {
	fields := map[string]any{}
	if d := strings.TrimSpace(description); d != "" {
		fields["description"] = d
	}
	if attachment != "" {
		fields["attachment"] = attachment
	}
	if len(fields) == 0 {
		return apperrors.NewValidationError("Nothing to update")
	}
	return s.update(ctx, issueID, fields, "update issue")
}

// OptionalID distinguishes an absent JSON key from an explicit null.
type OptionalID struct {
	Set   bool
	Value *uint
}

func (o *OptionalID) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Value = nil
		return nil
	}
	var v uint
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// PatchIssueInput is the generic partial update. Values are written as
// given; status is not checked against the status set on this path.
type PatchIssueInput struct {
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	AssigneeID  OptionalID `json:"assignee_id"`
}

func (s *IssueService) Patch(ctx context.Context, issueID uint, in PatchIssueInput) error {
	fields := map[string]any{}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Status != nil {
		fields["status"] = *in.Status
	}
	if in.AssigneeID.Set {
		fields["assignee_id"] = nil
		if in.AssigneeID.Value != nil {
			fields["assignee_id"] = *in.AssigneeID.Value
		}
	}
	if len(fields) == 0 {
		return apperrors.NewValidationError("Nothing to update")
	}
	return s.update(ctx, issueID, fields, "patch issue")
}

func (s *IssueService) update(ctx context.Context, issueID uint, fields map[string]any, op string) error {
	res := s.db.WithContext(ctx).Model(&models.Issue{}).Where("id = ?", issueID).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("%s: %w", op, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFoundError("Issue not found")
	}
	return nil
}

// AttachmentPath returns where the issue's attachment is stored.
func (s *IssueService) AttachmentPath(ctx context.Context, issueID uint) (string, error) {
	var issue models.Issue
	err := s.db.WithContext(ctx).Select("id", "attachment").Where("id = ?", issueID).Take(&issue).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("get issue attachment: %w", err)
	}
	if err != nil || issue.Attachment == nil || *issue.Attachment == "" {
		return "", apperrors.NewNotFoundError("Attachment not found")
	}
	return s.files.Path(*issue.Attachment), nil
}
