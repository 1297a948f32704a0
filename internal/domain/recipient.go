// File: internal/domain/recipient.go
package domain

import "time"

// RecipientStatus is the authoritative read/unread/deleted state of a
// recipient row. ReadAt/DeletedAt are informational timestamps set alongside
// the matching transition.
type RecipientStatus int

const (
	StatusRead RecipientStatus = iota
	StatusUnread
	StatusDeleted
)

func (s RecipientStatus) String() string {
	switch s {
	case StatusRead:
		return "read"
	case StatusUnread:
		return "unread"
	case StatusDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Recipient is one user's private view-state over one discussion. There is
// exactly one row per (discussion, user) pair, including the sender.
type Recipient struct {
	ID           uint            `json:"id" gorm:"primarykey"`
	UserID       uint            `json:"user_id" gorm:"not null;index"`
	DiscussionID uint            `json:"discussion_id" gorm:"not null;index"`
	FolderID     *uint           `json:"folder_id,omitempty"`
	ReadAt       *time.Time      `json:"read_at,omitempty"`
	DeletedAt    *time.Time      `json:"deleted_at,omitempty"`
	Status       RecipientStatus `json:"status" gorm:"default:1;index"`

	User       *User       `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Discussion *Discussion `json:"discussion,omitempty" gorm:"foreignKey:DiscussionID"`
}

func (r *Recipient) IsRead() bool {
	return r.Status == StatusRead
}

func (r *Recipient) IsDeleted() bool {
	return r.Status == StatusDeleted
}

// MarkAsRead flips the row to read. Marking an already-read row again is a
// harmless no-op in effect.
func (r *Recipient) MarkAsRead(now time.Time) {
	r.ReadAt = &now
	r.Status = StatusRead
}

// MarkAsUnread flips the row back to unread. ReadAt is kept as a historical
// timestamp.
func (r *Recipient) MarkAsUnread() {
	r.Status = StatusUnread
}

// MarkAsDeleted hides the discussion from the user's lists. The row itself
// survives; only Leave removes it.
func (r *Recipient) MarkAsDeleted(now time.Time) {
	r.DeletedAt = &now
	r.Status = StatusDeleted
}

// Restore undoes a deletion. The row comes back as read, not as its
// pre-deletion status; the prior status is not recorded anywhere.
func (r *Recipient) Restore(now time.Time) {
	r.DeletedAt = nil
	r.MarkAsRead(now)
}
