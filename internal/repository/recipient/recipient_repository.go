package recipient

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go-discussions/internal/domain"
	"gorm.io/gorm"
)

var ErrRecipientNotFound = errors.New("recipient not found")

type gormRecipientRepository struct {
	db *gorm.DB
}

func NewRecipientRepository(db *gorm.DB) RecipientRepository {
	return &gormRecipientRepository{db: db}
}

// Create - Enhanced with input validation and secure logging
func (r *gormRecipientRepository) Create(ctx context.Context, recipient *domain.Recipient) (*domain.Recipient, error) {
	if err := r.validateRecipientInput(recipient); err != nil {
		log.Printf("[RecipientRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(recipient).Error; err != nil {
		log.Printf("[RecipientRepository] Database error during recipient creation for discussion ID %d: %v", recipient.DiscussionID, err)
		return nil, errors.New("database error creating recipient")
	}

	return recipient, nil
}

// CreateInBatch seeds the recipient rows for a new discussion in one pass.
func (r *gormRecipientRepository) CreateInBatch(ctx context.Context, recipients []*domain.Recipient) error {
	if len(recipients) == 0 {
		return nil
	}

	for i, recipient := range recipients {
		if err := r.validateRecipientInput(recipient); err != nil {
			return fmt.Errorf("validation failed for recipient %d: %w", i, err)
		}
	}

	if err := r.db.WithContext(ctx).CreateInBatches(recipients, 100).Error; err != nil {
		log.Printf("[RecipientRepository] Batch creation failed: %v", err)
		return errors.New("database error creating recipients")
	}

	log.Printf("[RecipientRepository] Created %d recipient rows", len(recipients))
	return nil
}

func (r *gormRecipientRepository) FindByDiscussionAndUser(ctx context.Context, discussionID, userID uint) (*domain.Recipient, error) {
	if discussionID == 0 || userID == 0 {
		return nil, errors.New("invalid discussion ID or user ID")
	}

	var recipient domain.Recipient
	err := r.db.WithContext(ctx).
		Where("discussion_id = ? AND user_id = ?", discussionID, userID).
		First(&recipient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipientNotFound
		}
		log.Printf("[RecipientRepository] FindByDiscussionAndUser database error: %v", err)
		return nil, errors.New("database query failed")
	}

	return &recipient, nil
}

func (r *gormRecipientRepository) FindByDiscussionID(ctx context.Context, discussionID uint) ([]domain.Recipient, error) {
	if discussionID == 0 {
		return nil, errors.New("invalid discussion ID")
	}

	var recipients []domain.Recipient
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("discussion_id = ?", discussionID).
		Find(&recipients).Error
	if err != nil {
		log.Printf("[RecipientRepository] Database error finding recipients for discussion ID %d: %v", discussionID, err)
		return nil, errors.New("database error fetching recipients")
	}

	return recipients, nil
}

// MarkRead flips the user's rows to read. Already-read rows are left alone,
// which keeps the operation idempotent and the changed-row count meaningful.
func (r *gormRecipientRepository) MarkRead(ctx context.Context, userID uint, discussionIDs []uint) (int64, error) {
	if len(discussionIDs) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Recipient{}).
		Where("user_id = ? AND discussion_id IN ? AND status <> ?", userID, discussionIDs, domain.StatusRead).
		Updates(map[string]interface{}{
			"status":  domain.StatusRead,
			"read_at": time.Now(),
		})

	if result.Error != nil {
		log.Printf("[RecipientRepository] Database error marking read for user ID %d: %v", userID, result.Error)
		return 0, errors.New("database error marking recipients read")
	}

	return result.RowsAffected, nil
}

func (r *gormRecipientRepository) MarkUnread(ctx context.Context, userID uint, discussionIDs []uint) (int64, error) {
	if len(discussionIDs) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Recipient{}).
		Where("user_id = ? AND discussion_id IN ? AND status <> ?", userID, discussionIDs, domain.StatusUnread).
		Update("status", domain.StatusUnread)

	if result.Error != nil {
		log.Printf("[RecipientRepository] Database error marking unread for user ID %d: %v", userID, result.Error)
		return 0, errors.New("database error marking recipients unread")
	}

	return result.RowsAffected, nil
}

func (r *gormRecipientRepository) MarkDeleted(ctx context.Context, userID uint, discussionIDs []uint) (int64, error) {
	if len(discussionIDs) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Recipient{}).
		Where("user_id = ? AND discussion_id IN ?", userID, discussionIDs).
		Updates(map[string]interface{}{
			"status":     domain.StatusDeleted,
			"deleted_at": time.Now(),
		})

	if result.Error != nil {
		log.Printf("[RecipientRepository] Database error marking deleted for user ID %d: %v", userID, result.Error)
		return 0, errors.New("database error marking recipients deleted")
	}

	return result.RowsAffected, nil
}

// Restore undoes a mark-deleted. Rows come back as read; the pre-deletion
// status is not stored anywhere.
func (r *gormRecipientRepository) Restore(ctx context.Context, userID uint, discussionIDs []uint) (int64, error) {
	if len(discussionIDs) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Recipient{}).
		Where("user_id = ? AND discussion_id IN ? AND status = ?", userID, discussionIDs, domain.StatusDeleted).
		Updates(map[string]interface{}{
			"status":     domain.StatusRead,
			"read_at":    time.Now(),
			"deleted_at": nil,
		})

	if result.Error != nil {
		log.Printf("[RecipientRepository] Database error restoring recipients for user ID %d: %v", userID, result.Error)
		return 0, errors.New("database error restoring recipients")
	}

	return result.RowsAffected, nil
}

// ResetUnreadExcept implements the re-surface-on-new-activity policy: a new
// message makes the discussion unread again for everyone but its author,
// including recipients who had deleted it.
func (r *gormRecipientRepository) ResetUnreadExcept(ctx context.Context, discussionID, exceptUserID uint) error {
	if discussionID == 0 {
		return errors.New("invalid discussion ID")
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Recipient{}).
		Where("discussion_id = ? AND user_id <> ?", discussionID, exceptUserID).
		Updates(map[string]interface{}{
			"status":     domain.StatusUnread,
			"deleted_at": nil,
		})

	if result.Error != nil {
		log.Printf("[RecipientRepository] Database error resetting unread for discussion ID %d: %v", discussionID, result.Error)
		return errors.New("database error resetting recipients")
	}

	return nil
}

func (r *gormRecipientRepository) MoveToFolder(ctx context.Context, userID uint, discussionIDs []uint, folderID *uint) (int64, error) {
	if len(discussionIDs) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Recipient{}).
		Where("user_id = ? AND discussion_id IN ?", userID, discussionIDs).
		Update("folder_id", folderID)

	if result.Error != nil {
		log.Printf("[RecipientRepository] Database error moving recipients for user ID %d: %v", userID, result.Error)
		return 0, errors.New("database error moving recipients")
	}

	return result.RowsAffected, nil
}

// Delete physically removes the (discussion, user) association. This is the
// "leave" operation; the caller must refuse it for the discussion's sender.
func (r *gormRecipientRepository) Delete(ctx context.Context, discussionID, userID uint) (bool, error) {
	if discussionID == 0 || userID == 0 {
		return false, errors.New("invalid discussion ID or user ID")
	}

	result := r.db.WithContext(ctx).
		Where("discussion_id = ? AND user_id = ?", discussionID, userID).
		Delete(&domain.Recipient{})

	if result.Error != nil {
		log.Printf("[RecipientRepository] Database error deleting recipient row for discussion ID %d, user ID %d: %v", discussionID, userID, result.Error)
		return false, errors.New("database error deleting recipient")
	}

	return result.RowsAffected > 0, nil
}

// DetachFolder nulls out the folder reference on every row pointing at the
// folder. Rows are never deleted with their folder.
func (r *gormRecipientRepository) DetachFolder(ctx context.Context, folderID uint) error {
	if folderID == 0 {
		return errors.New("invalid folder ID")
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Recipient{}).
		Where("folder_id = ?", folderID).
		Update("folder_id", nil)

	if result.Error != nil {
		log.Printf("[RecipientRepository] Database error detaching folder ID %d: %v", folderID, result.Error)
		return errors.New("database error detaching folder")
	}

	log.Printf("[RecipientRepository] Detached %d recipient rows from folder %d", result.RowsAffected, folderID)
	return nil
}

func (r *gormRecipientRepository) CountUnreadForUser(ctx context.Context, userID uint) (int64, error) {
	if userID == 0 {
		return 0, errors.New("invalid user ID")
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Recipient{}).
		Where("user_id = ? AND status = ?", userID, domain.StatusUnread).
		Count(&count).Error
	if err != nil {
		log.Printf("[RecipientRepository] Database error counting unread for user ID %d: %v", userID, err)
		return 0, errors.New("database error counting unread recipients")
	}

	return count, nil
}

func (r *gormRecipientRepository) CountUnreadBetween(ctx context.Context, toUserID, fromUserID uint) (int64, error) {
	if toUserID == 0 || fromUserID == 0 {
		return 0, errors.New("invalid user ID")
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Recipient{}).
		Joins("JOIN discussions ON discussions.id = recipients.discussion_id").
		Where("recipients.user_id = ? AND recipients.status = ? AND discussions.sender_id = ?",
			toUserID, domain.StatusUnread, fromUserID).
		Count(&count).Error
	if err != nil {
		log.Printf("[RecipientRepository] Database error counting unread between users %d and %d: %v", toUserID, fromUserID, err)
		return 0, errors.New("database error counting unread recipients")
	}

	return count, nil
}

// ===== LISTING VIEWS =====

// baseQuery is the shared listing queryset: the user's own rows joined to
// their discussions, newest activity first.
func (r *gormRecipientRepository) baseQuery(ctx context.Context, userID uint) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&domain.Recipient{}).
		Joins("JOIN discussions ON discussions.id = recipients.discussion_id").
		Where("recipients.user_id = ?", userID).
		Order("discussions.updated_at DESC, discussions.created_at DESC")
}

func (r *gormRecipientRepository) FindInboxPage(ctx context.Context, userID uint, limit, offset int) ([]domain.Recipient, int64, error) {
	q := r.baseQuery(ctx, userID).
		Where("recipients.status <> ?", domain.StatusDeleted).
		Where("recipients.folder_id IS NULL")

	return r.page(q, userID, limit, offset)
}

func (r *gormRecipientRepository) FindFolderPage(ctx context.Context, userID, folderID uint, limit, offset int) ([]domain.Recipient, int64, error) {
	q := r.baseQuery(ctx, userID).
		Where("recipients.status <> ?", domain.StatusDeleted).
		Where("recipients.folder_id = ?", folderID)

	return r.page(q, userID, limit, offset)
}

func (r *gormRecipientRepository) FindByStatusPage(ctx context.Context, userID uint, status domain.RecipientStatus, limit, offset int) ([]domain.Recipient, int64, error) {
	q := r.baseQuery(ctx, userID).
		Where("recipients.status = ?", status)

	return r.page(q, userID, limit, offset)
}

func (r *gormRecipientRepository) FindSentPage(ctx context.Context, userID uint, limit, offset int) ([]domain.Recipient, int64, error) {
	q := r.baseQuery(ctx, userID).
		Where("discussions.sender_id = ?", userID).
		Where("recipients.status <> ?", domain.StatusDeleted)

	return r.page(q, userID, limit, offset)
}

// FindConversationPage lists the user's rows for discussions exchanged with
// the other user in either direction: threads the other user sent to this
// user, and threads this user sent that the other user received.
func (r *gormRecipientRepository) FindConversationPage(ctx context.Context, userID, otherUserID uint, limit, offset int) ([]domain.Recipient, int64, error) {
	q := r.baseQuery(ctx, userID).
		Where("(discussions.sender_id = ? OR (discussions.sender_id = ? AND discussions.id IN (?)))",
			otherUserID, userID,
			r.db.Model(&domain.Recipient{}).Select("discussion_id").Where("user_id = ?", otherUserID))

	return r.page(q, userID, limit, offset)
}

// page runs the shared count-then-load pattern over a prepared query.
func (r *gormRecipientRepository) page(q *gorm.DB, userID uint, limit, offset int) ([]domain.Recipient, int64, error) {
	if limit <= 0 || limit > 1000 {
		return nil, 0, errors.New("invalid limit: must be between 1 and 1000")
	}
	if offset < 0 {
		return nil, 0, errors.New("invalid offset: must be >= 0")
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		log.Printf("[RecipientRepository] Database error counting listing for user ID %d: %v", userID, err)
		return nil, 0, errors.New("database error counting recipients")
	}

	var recipients []domain.Recipient
	err := q.Session(&gorm.Session{}).
		Preload("Discussion").
		Preload("Discussion.Sender").
		Limit(limit).
		Offset(offset).
		Find(&recipients).Error
	if err != nil {
		log.Printf("[RecipientRepository] Database error in paginated listing for user ID %d: %v", userID, err)
		return nil, 0, errors.New("database error retrieving recipients")
	}

	return recipients, total, nil
}

// validateRecipientInput - Comprehensive input validation
func (r *gormRecipientRepository) validateRecipientInput(recipient *domain.Recipient) error {
	if recipient == nil {
		return errors.New("recipient cannot be nil")
	}

	if recipient.UserID == 0 {
		return errors.New("user ID is required")
	}

	if recipient.DiscussionID == 0 {
		return errors.New("discussion ID is required")
	}

	return nil
}
