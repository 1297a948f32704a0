package message

import (
	"context"

	"go-discussions/internal/domain"
)

// MessageRepository handles the append-only message log.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) (*domain.Message, error)
	FindByDiscussionID(ctx context.Context, discussionID uint) ([]domain.Message, error)
	FindByDiscussionIDWithPagination(ctx context.Context, discussionID uint, limit, offset int) ([]domain.Message, int64, error)
	CountByDiscussionID(ctx context.Context, discussionID uint) (int64, error)
}
