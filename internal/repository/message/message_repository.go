package message

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"go-discussions/internal/domain"
	"gorm.io/gorm"
)

var ErrMessageNotFound = errors.New("message not found")

type gormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

// Create - Enhanced with comprehensive input validation and secure logging
func (r *gormMessageRepository) Create(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	if err := r.validateMessageInput(message); err != nil {
		log.Printf("[MessageRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		// Secure logging - no message content exposed
		log.Printf("[MessageRepository] Database error during message creation for discussion ID %d: %v", message.DiscussionID, err)
		return nil, errors.New("database error creating message")
	}

	log.Printf("[MessageRepository] Message created successfully with ID: %d for discussion: %d", message.ID, message.DiscussionID)
	return message, nil
}

// FindByDiscussionID returns the full log in display order (oldest first).
func (r *gormMessageRepository) FindByDiscussionID(ctx context.Context, discussionID uint) ([]domain.Message, error) {
	if discussionID == 0 {
		return nil, errors.New("invalid discussion ID")
	}

	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("discussion_id = ?", discussionID).
		Order("sent_at asc, id asc").
		Find(&messages).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error finding messages for discussion ID %d: %v", discussionID, err)
		return nil, errors.New("database error fetching messages")
	}

	return messages, nil
}

// FindByDiscussionIDWithPagination - Memory safety: prevents OOM with long threads
func (r *gormMessageRepository) FindByDiscussionIDWithPagination(ctx context.Context, discussionID uint, limit, offset int) ([]domain.Message, int64, error) {
	if discussionID == 0 {
		return nil, 0, errors.New("invalid discussion ID")
	}

	if limit <= 0 || limit > 1000 {
		return nil, 0, errors.New("invalid limit: must be between 1 and 1000")
	}
	if offset < 0 {
		return nil, 0, errors.New("invalid offset: must be >= 0")
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Message{}).
		Where("discussion_id = ?", discussionID).
		Count(&total).Error; err != nil {
		log.Printf("[MessageRepository] Database error counting messages for discussion ID %d: %v", discussionID, err)
		return nil, 0, errors.New("database error counting messages")
	}

	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("discussion_id = ?", discussionID).
		Order("sent_at asc, id asc").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error in paginated query for discussion ID %d: %v", discussionID, err)
		return nil, 0, errors.New("database error retrieving paginated messages")
	}

	return messages, total, nil
}

func (r *gormMessageRepository) CountByDiscussionID(ctx context.Context, discussionID uint) (int64, error) {
	if discussionID == 0 {
		return 0, errors.New("invalid discussion ID")
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Message{}).
		Where("discussion_id = ?", discussionID).
		Count(&count).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error counting messages for discussion ID %d: %v", discussionID, err)
		return 0, errors.New("database error counting messages")
	}

	return count, nil
}

// validateMessageInput - Comprehensive input validation
func (r *gormMessageRepository) validateMessageInput(message *domain.Message) error {
	if message == nil {
		return errors.New("message cannot be nil")
	}

	if message.SenderID == 0 {
		return errors.New("sender ID is required")
	}

	if message.DiscussionID == 0 {
		return errors.New("discussion ID is required")
	}

	if strings.TrimSpace(message.Body) == "" {
		return errors.New("message body cannot be empty")
	}

	return nil
}
