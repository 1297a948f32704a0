// File: internal/domain/message.go
package domain

import (
	"strings"
	"time"
)

// Message is a single message within a discussion. Messages are append-only;
// there is no edit operation.
type Message struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	SenderID     uint      `json:"sender_id" gorm:"not null;index"`
	DiscussionID uint      `json:"discussion_id" gorm:"not null;index"`
	Body         string    `json:"body" gorm:"type:text;not null"`
	SentAt       time.Time `json:"sent_at" gorm:"autoCreateTime"`

	Sender *User `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
}

// Excerpt returns the first ten words of the body, used for list rendering.
func (m *Message) Excerpt() string {
	words := strings.Fields(m.Body)
	if len(words) <= 10 {
		return m.Body
	}
	return strings.Join(words[:10], " ") + "..."
}
