package contact

import (
	"context"

	"go-discussions/internal/domain"
)

// ContactRepository handles the deduplicated record of user pairs that have
// exchanged discussions.
type ContactRepository interface {
	// GetOrCreate finds the contact for the unordered {fromID, toID} pair,
	// creating it with the given discussion when absent. The boolean reports
	// whether a row was created.
	GetOrCreate(ctx context.Context, fromID, toID, discussionID uint) (*domain.Contact, bool, error)
	UpdateLatestDiscussion(ctx context.Context, contactID, discussionID uint) error
	FindForUser(ctx context.Context, userID uint) ([]domain.Contact, error)
}
