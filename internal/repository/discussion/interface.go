package discussion

import (
	"context"
	"time"

	"go-discussions/internal/domain"
)

// DiscussionRepository handles discussion data operations.
type DiscussionRepository interface {
	Create(ctx context.Context, discussion *domain.Discussion) (*domain.Discussion, error)
	FindByID(ctx context.Context, id uint) (*domain.Discussion, error)
	FindByIDs(ctx context.Context, ids []uint) ([]domain.Discussion, error)
	SetSenderDeletedAt(ctx context.Context, discussionID uint, deletedAt *time.Time) error
	SetLatestMessage(ctx context.Context, discussionID, messageID uint) error
	TouchUpdatedAt(ctx context.Context, discussionID uint) error
	UpdateCounters(ctx context.Context, discussionID uint) error
	Delete(ctx context.Context, discussionID uint) error
}
