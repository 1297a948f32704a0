package discussion

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go-discussions/internal/domain"
	"gorm.io/gorm"
)

var ErrDiscussionNotFound = errors.New("discussion not found")

type gormDiscussionRepository struct {
	db *gorm.DB
}

func NewDiscussionRepository(db *gorm.DB) DiscussionRepository {
	return &gormDiscussionRepository{db: db}
}

// Create - Enhanced with input validation and secure logging
func (r *gormDiscussionRepository) Create(ctx context.Context, discussion *domain.Discussion) (*domain.Discussion, error) {
	if err := r.validateDiscussionInput(discussion); err != nil {
		log.Printf("[DiscussionRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(discussion).Error; err != nil {
		log.Printf("[DiscussionRepository] Database error during discussion creation for sender ID %d: %v", discussion.SenderID, err)
		return nil, errors.New("database error creating discussion")
	}

	log.Printf("[DiscussionRepository] Discussion created successfully with ID: %d for sender: %d", discussion.ID, discussion.SenderID)
	return discussion, nil
}

func (r *gormDiscussionRepository) FindByID(ctx context.Context, id uint) (*domain.Discussion, error) {
	if id == 0 {
		return nil, errors.New("invalid discussion ID")
	}

	var discussion domain.Discussion
	err := r.db.WithContext(ctx).Preload("Sender").First(&discussion, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDiscussionNotFound
		}
		log.Printf("[DiscussionRepository] FindByID database error: %v", err)
		return nil, errors.New("database query failed")
	}

	return &discussion, nil
}

// FindByIDs loads a batch of discussions; ids with no matching row are
// silently absent from the result.
func (r *gormDiscussionRepository) FindByIDs(ctx context.Context, ids []uint) ([]domain.Discussion, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var discussions []domain.Discussion
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&discussions).Error
	if err != nil {
		log.Printf("[DiscussionRepository] Database error loading discussion batch: %v", err)
		return nil, errors.New("database error loading discussions")
	}

	return discussions, nil
}

// SetSenderDeletedAt hides (non-nil) or restores (nil) the discussion in the
// sender's own view. The thread itself is never destroyed here.
func (r *gormDiscussionRepository) SetSenderDeletedAt(ctx context.Context, discussionID uint, deletedAt *time.Time) error {
	if discussionID == 0 {
		return errors.New("invalid discussion ID")
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Discussion{}).
		Where("id = ?", discussionID).
		Update("sender_deleted_at", deletedAt)

	if result.Error != nil {
		log.Printf("[DiscussionRepository] Database error updating sender_deleted_at for discussion ID %d: %v", discussionID, result.Error)
		return errors.New("database error updating discussion")
	}

	if result.RowsAffected == 0 {
		return ErrDiscussionNotFound
	}

	return nil
}

func (r *gormDiscussionRepository) SetLatestMessage(ctx context.Context, discussionID, messageID uint) error {
	if discussionID == 0 || messageID == 0 {
		return errors.New("invalid discussion ID or message ID")
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Discussion{}).
		Where("id = ?", discussionID).
		Update("latest_message_id", messageID)

	if result.Error != nil {
		log.Printf("[DiscussionRepository] Database error setting latest message for discussion ID %d: %v", discussionID, result.Error)
		return errors.New("database error updating discussion")
	}

	if result.RowsAffected == 0 {
		return ErrDiscussionNotFound
	}

	return nil
}

func (r *gormDiscussionRepository) TouchUpdatedAt(ctx context.Context, discussionID uint) error {
	if discussionID == 0 {
		return errors.New("invalid discussion ID")
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Discussion{}).
		Where("id = ?", discussionID).
		Update("updated_at", time.Now())

	if result.Error != nil {
		log.Printf("[DiscussionRepository] Database error updating timestamp for discussion ID %d: %v", discussionID, result.Error)
		return errors.New("database error updating discussion timestamp")
	}

	if result.RowsAffected == 0 {
		return ErrDiscussionNotFound
	}

	return nil
}

// UpdateCounters recomputes recipients_count and messages_count from the live
// rows and persists only those two fields. Counters are display caches;
// a stale value self-heals on the next mutation.
func (r *gormDiscussionRepository) UpdateCounters(ctx context.Context, discussionID uint) error {
	if discussionID == 0 {
		return errors.New("invalid discussion ID")
	}

	var recipientCount int64
	if err := r.db.WithContext(ctx).Model(&domain.Recipient{}).
		Where("discussion_id = ?", discussionID).
		Count(&recipientCount).Error; err != nil {
		log.Printf("[DiscussionRepository] Database error counting recipients for discussion ID %d: %v", discussionID, err)
		return errors.New("database error counting recipients")
	}

	var messageCount int64
	if err := r.db.WithContext(ctx).Model(&domain.Message{}).
		Where("discussion_id = ?", discussionID).
		Count(&messageCount).Error; err != nil {
		log.Printf("[DiscussionRepository] Database error counting messages for discussion ID %d: %v", discussionID, err)
		return errors.New("database error counting messages")
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Discussion{}).
		Where("id = ?", discussionID).
		Updates(map[string]interface{}{
			"recipients_count": recipientCount,
			"messages_count":   messageCount,
		})

	if result.Error != nil {
		log.Printf("[DiscussionRepository] Database error persisting counters for discussion ID %d: %v", discussionID, result.Error)
		return errors.New("database error updating counters")
	}

	return nil
}

// Delete destroys the discussion and cascades to its recipient rows.
// Messages stay in place; they simply become unreachable.
func (r *gormDiscussionRepository) Delete(ctx context.Context, discussionID uint) error {
	if discussionID == 0 {
		return errors.New("invalid discussion ID")
	}

	if err := r.db.WithContext(ctx).
		Where("discussion_id = ?", discussionID).
		Delete(&domain.Recipient{}).Error; err != nil {
		log.Printf("[DiscussionRepository] Database error deleting recipient rows for discussion ID %d: %v", discussionID, err)
		return errors.New("database error deleting discussion recipients")
	}

	result := r.db.WithContext(ctx).Delete(&domain.Discussion{}, discussionID)
	if result.Error != nil {
		log.Printf("[DiscussionRepository] Database error deleting discussion ID %d: %v", discussionID, result.Error)
		return errors.New("database error deleting discussion")
	}

	if result.RowsAffected == 0 {
		return ErrDiscussionNotFound
	}

	log.Printf("[DiscussionRepository] Discussion deleted successfully: ID %d", discussionID)
	return nil
}

// validateDiscussionInput - Comprehensive input validation
func (r *gormDiscussionRepository) validateDiscussionInput(discussion *domain.Discussion) error {
	if discussion == nil {
		return errors.New("discussion cannot be nil")
	}

	if discussion.SenderID == 0 {
		return errors.New("sender ID is required")
	}

	if len(discussion.Subject) > 255 {
		return errors.New("subject must be 255 characters or less")
	}

	return nil
}
