package models

import "time"

// Conversation is one message in an issue thread.
type Conversation struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	IssueID     uint      `gorm:"not null;index" json:"issue_id"`
	SenderID    uint      `gorm:"not null;index" json:"sender_id"`
	MessageType string    `gorm:"size:50" json:"message_type"`
	MessageText string    `gorm:"type:text;not null" json:"message_text"`
	Attachment  *string   `gorm:"size:255" json:"attachment"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

func (Conversation) TableName() string {
	return "issue_conversations"
}
