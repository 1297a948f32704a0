// File: internal/domain/contact.go
package domain

// Contact records that two users have exchanged discussions. The pair is
// stored in canonical order (FromUserID < ToUserID) so a single unique index
// guarantees at most one row per unordered pair.
type Contact struct {
	ID                 uint `json:"id" gorm:"primarykey"`
	FromUserID         uint `json:"from_user_id" gorm:"not null;uniqueIndex:idx_contact_pair"`
	ToUserID           uint `json:"to_user_id" gorm:"not null;uniqueIndex:idx_contact_pair"`
	LatestDiscussionID uint `json:"latest_discussion_id" gorm:"not null"`

	FromUser         *User       `json:"from_user,omitempty" gorm:"foreignKey:FromUserID"`
	ToUser           *User       `json:"to_user,omitempty" gorm:"foreignKey:ToUserID"`
	LatestDiscussion *Discussion `json:"latest_discussion,omitempty" gorm:"foreignKey:LatestDiscussionID"`
}

// OppositeUserID returns the other side of the pair.
func (c *Contact) OppositeUserID(userID uint) uint {
	if c.FromUserID == userID {
		return c.ToUserID
	}
	return c.FromUserID
}

// CanonicalPair orders two user ids the way Contact stores them.
func CanonicalPair(a, b uint) (uint, uint) {
	if a > b {
		return b, a
	}
	return a, b
}
