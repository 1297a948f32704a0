package services

import (
	"context"

	"go-discussions/internal/domain"
	contactrepo "go-discussions/internal/repository/contact"
	discussionservice "go-discussions/internal/services/discussion"
)

// ContactService tracks which users have exchanged discussions.
type ContactService struct {
	contactRepo contactrepo.ContactRepository
	logger      Logger
}

func NewContactService(contactRepo contactrepo.ContactRepository, logger Logger) *ContactService {
	if logger == nil {
		logger = &NoOpLogger{}
	}
	return &ContactService{contactRepo: contactRepo, logger: logger}
}

// UpdateContact records that a discussion passed between two users: the pair
// gets one contact row no matter which direction it was created from, and an
// existing row's latest-discussion pointer is refreshed.
func (s *ContactService) UpdateContact(ctx context.Context, fromID, toID, discussionID uint) (*domain.Contact, error) {
	contact, created, err := s.contactRepo.GetOrCreate(ctx, fromID, toID, discussionID)
	if err != nil {
		return nil, discussionservice.NewStorageError("update_contact", "could not get or create contact", err)
	}

	if !created {
		if err := s.contactRepo.UpdateLatestDiscussion(ctx, contact.ID, discussionID); err != nil {
			return nil, discussionservice.NewStorageError("update_contact", "could not refresh contact", err)
		}
		contact.LatestDiscussionID = discussionID
	}

	return contact, nil
}

// ContactsFor lists the users this user has exchanged discussions with.
func (s *ContactService) ContactsFor(ctx context.Context, userID uint) ([]domain.Contact, error) {
	contacts, err := s.contactRepo.FindForUser(ctx, userID)
	if err != nil {
		return nil, discussionservice.NewStorageError("contacts_for", "could not load contacts", err)
	}
	return contacts, nil
}
