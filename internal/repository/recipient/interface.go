package recipient

import (
	"context"

	"go-discussions/internal/domain"
)

// RecipientRepository handles the per-(discussion, user) ledger rows.
type RecipientRepository interface {
	Create(ctx context.Context, recipient *domain.Recipient) (*domain.Recipient, error)
	CreateInBatch(ctx context.Context, recipients []*domain.Recipient) error
	FindByDiscussionAndUser(ctx context.Context, discussionID, userID uint) (*domain.Recipient, error)
	FindByDiscussionID(ctx context.Context, discussionID uint) ([]domain.Recipient, error)

	// Bulk status flips scoped to the acting user's own rows. Rows of
	// discussions the user is not part of are never touched; the returned
	// count is how many rows actually changed.
	MarkRead(ctx context.Context, userID uint, discussionIDs []uint) (int64, error)
	MarkUnread(ctx context.Context, userID uint, discussionIDs []uint) (int64, error)
	MarkDeleted(ctx context.Context, userID uint, discussionIDs []uint) (int64, error)
	Restore(ctx context.Context, userID uint, discussionIDs []uint) (int64, error)

	// ResetUnreadExcept re-surfaces a discussion after new activity: every
	// row except the author's becomes unread, whatever its prior state.
	ResetUnreadExcept(ctx context.Context, discussionID, exceptUserID uint) error

	MoveToFolder(ctx context.Context, userID uint, discussionIDs []uint, folderID *uint) (int64, error)
	Delete(ctx context.Context, discussionID, userID uint) (bool, error)
	DetachFolder(ctx context.Context, folderID uint) error

	CountUnreadForUser(ctx context.Context, userID uint) (int64, error)
	CountUnreadBetween(ctx context.Context, toUserID, fromUserID uint) (int64, error)

	// Read-side listing views, newest discussion activity first.
	FindInboxPage(ctx context.Context, userID uint, limit, offset int) ([]domain.Recipient, int64, error)
	FindFolderPage(ctx context.Context, userID, folderID uint, limit, offset int) ([]domain.Recipient, int64, error)
	FindByStatusPage(ctx context.Context, userID uint, status domain.RecipientStatus, limit, offset int) ([]domain.Recipient, int64, error)
	FindSentPage(ctx context.Context, userID uint, limit, offset int) ([]domain.Recipient, int64, error)
	FindConversationPage(ctx context.Context, userID, otherUserID uint, limit, offset int) ([]domain.Recipient, int64, error)
}
