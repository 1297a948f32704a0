package contact

import (
	"context"
	"errors"
	"log"

	"go-discussions/internal/domain"
	"gorm.io/gorm"
)

var ErrContactNotFound = errors.New("contact not found")

type gormContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &gormContactRepository{db: db}
}

// GetOrCreate canonicalizes the pair before the lookup, so a single query and
// the unique index cover both orderings.
func (r *gormContactRepository) GetOrCreate(ctx context.Context, fromID, toID, discussionID uint) (*domain.Contact, bool, error) {
	if fromID == 0 || toID == 0 || discussionID == 0 {
		return nil, false, errors.New("invalid user or discussion ID")
	}
	if fromID == toID {
		return nil, false, errors.New("contact requires two distinct users")
	}

	lowID, highID := domain.CanonicalPair(fromID, toID)

	var contact domain.Contact
	err := r.db.WithContext(ctx).
		Where("from_user_id = ? AND to_user_id = ?", lowID, highID).
		First(&contact).Error
	if err == nil {
		return &contact, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[ContactRepository] Database error looking up contact pair (%d, %d): %v", lowID, highID, err)
		return nil, false, errors.New("database error looking up contact")
	}

	contact = domain.Contact{
		FromUserID:         lowID,
		ToUserID:           highID,
		LatestDiscussionID: discussionID,
	}
	if err := r.db.WithContext(ctx).Create(&contact).Error; err != nil {
		log.Printf("[ContactRepository] Database error creating contact pair (%d, %d): %v", lowID, highID, err)
		return nil, false, errors.New("database error creating contact")
	}

	log.Printf("[ContactRepository] Contact created with ID: %d for pair (%d, %d)", contact.ID, lowID, highID)
	return &contact, true, nil
}

func (r *gormContactRepository) UpdateLatestDiscussion(ctx context.Context, contactID, discussionID uint) error {
	if contactID == 0 || discussionID == 0 {
		return errors.New("invalid contact ID or discussion ID")
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Contact{}).
		Where("id = ?", contactID).
		Update("latest_discussion_id", discussionID)

	if result.Error != nil {
		log.Printf("[ContactRepository] Database error updating latest discussion for contact ID %d: %v", contactID, result.Error)
		return errors.New("database error updating contact")
	}

	if result.RowsAffected == 0 {
		return ErrContactNotFound
	}

	return nil
}

// FindForUser returns every pair the user is part of, on either side.
func (r *gormContactRepository) FindForUser(ctx context.Context, userID uint) ([]domain.Contact, error) {
	if userID == 0 {
		return nil, errors.New("invalid user ID")
	}

	var contacts []domain.Contact
	err := r.db.WithContext(ctx).
		Preload("FromUser").
		Preload("ToUser").
		Where("from_user_id = ? OR to_user_id = ?", userID, userID).
		Order("latest_discussion_id DESC").
		Find(&contacts).Error
	if err != nil {
		log.Printf("[ContactRepository] Database error finding contacts for user ID %d: %v", userID, err)
		return nil, errors.New("database error fetching contacts")
	}

	return contacts, nil
}
