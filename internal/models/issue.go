package models

import "time"

type IssueType string
type IssueStatus string

const (
	IssueTypeIT             IssueType = "it"
	IssueTypeStudent        IssueType = "student"
	IssueTypeInfrastructure IssueType = "infrastructure"

	StatusOpen          IssueStatus = "open"
	StatusAllocated     IssueStatus = "allocated"
	StatusInProgress    IssueStatus = "work in progress"
	StatusSubmittedBack IssueStatus = "submitted back to owner"
	StatusClosed        IssueStatus = "closed"
)

var IssueTypes = []IssueType{IssueTypeIT, IssueTypeStudent, IssueTypeInfrastructure}

// IssueStatuses is ordered by lifecycle.
var IssueStatuses = []IssueStatus{StatusOpen, StatusAllocated, StatusInProgress, StatusSubmittedBack, StatusClosed}

func (t IssueType) Valid() bool {
	for _, v := range IssueTypes {
		if v == t {
			return true
		}
	}
	return false
}

func (s IssueStatus) Valid() bool {
	for _, v := range IssueStatuses {
		if v == s {
			return true
		}
	}
	return false
}

type Issue struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	UserID      uint        `gorm:"not null;index" json:"user_id"`
	AssigneeID  *uint       `gorm:"index" json:"assignee_id"`
	Title       string      `gorm:"size:255;not null" json:"title"`
	Description string      `gorm:"type:text;not null" json:"description"`
	IssueType   IssueType   `gorm:"size:50;not null" json:"issue_type"`
	Status      IssueStatus `gorm:"size:50;not null" json:"status"`
	Attachment  *string     `gorm:"size:255" json:"attachment"`
	CreatedAt   time.Time   `json:"created_at"`
}
