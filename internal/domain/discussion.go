// File: internal/domain/discussion.go
package domain

import "time"

// Discussion is a private message thread from one sender to one or more recipients.
type Discussion struct {
	ID              uint       `json:"id" gorm:"primarykey"`
	SenderID        uint       `json:"sender_id" gorm:"not null;index"`
	Subject         string     `json:"subject" gorm:"size:255;not null"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	SenderDeletedAt *time.Time `json:"sender_deleted_at,omitempty"` // non-nil means the sender has hidden the thread from their own view
	LatestMessageID *uint      `json:"latest_message_id,omitempty"`

	// Cached counts, recomputed after every row mutation. They may lag
	// briefly; list views never need exact numbers.
	RecipientsCount int `json:"recipients_count"`
	MessagesCount   int `json:"messages_count"`

	Sender *User `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
}

// IsSenderDeleted reports whether the sender has hidden the discussion.
func (d *Discussion) IsSenderDeleted() bool {
	return d.SenderDeletedAt != nil
}
