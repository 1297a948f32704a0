package services

import (
	"context"
	"strings"
	"time"

	"go-discussions/internal/domain"
	contactrepo "go-discussions/internal/repository/contact"
	discussionrepo "go-discussions/internal/repository/discussion"
	messagerepo "go-discussions/internal/repository/message"
	recipientrepo "go-discussions/internal/repository/recipient"
	userrepo "go-discussions/internal/repository/user"
	discussionservice "go-discussions/internal/services/discussion"
)

// DiscussionService owns the discussion lifecycle: compose, reply, the
// per-recipient status ledger, folder moves and the cached counters.
type DiscussionService struct {
	config         *discussionservice.Config
	discussionRepo discussionrepo.DiscussionRepository
	recipientRepo  recipientrepo.RecipientRepository
	messageRepo    messagerepo.MessageRepository
	contactRepo    contactrepo.ContactRepository
	userRepo       userrepo.UserRepository
	logger         Logger
}

func NewDiscussionService(
	discussionRepo discussionrepo.DiscussionRepository,
	recipientRepo recipientrepo.RecipientRepository,
	messageRepo messagerepo.MessageRepository,
	contactRepo contactrepo.ContactRepository,
	userRepo userrepo.UserRepository,
	config *discussionservice.Config,
	logger Logger,
) (*DiscussionService, error) {
	// Validate dependencies
	if discussionRepo == nil {
		return nil, discussionservice.NewValidationError("constructor", "discussion repository is required")
	}
	if recipientRepo == nil {
		return nil, discussionservice.NewValidationError("constructor", "recipient repository is required")
	}
	if messageRepo == nil {
		return nil, discussionservice.NewValidationError("constructor", "message repository is required")
	}
	if contactRepo == nil {
		return nil, discussionservice.NewValidationError("constructor", "contact repository is required")
	}
	if userRepo == nil {
		return nil, discussionservice.NewValidationError("constructor", "user repository is required")
	}

	if config == nil {
		config = discussionservice.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, discussionservice.NewValidationError("config", err.Error())
	}

	if logger == nil {
		logger = &NoOpLogger{}
	}

	return &DiscussionService{
		config:         config,
		discussionRepo: discussionRepo,
		recipientRepo:  recipientRepo,
		messageRepo:    messageRepo,
		contactRepo:    contactRepo,
		userRepo:       userRepo,
		logger:         logger,
	}, nil
}

// SendMessage opens a new discussion from sender to recipientIDs. The sender
// is always seeded as a recipient of their own discussion, so it shows up in
// their sent view. An empty recipient list yields a self-discussion; whether
// that is allowed is the caller's call.
func (s *DiscussionService) SendMessage(ctx context.Context, senderID uint, recipientIDs []uint, subject, body string) (*domain.Discussion, error) {
	if senderID == 0 {
		return nil, discussionservice.NewValidationError("send_message", "sender is required")
	}
	if strings.TrimSpace(subject) == "" {
		return nil, discussionservice.NewValidationError("send_message", "subject cannot be empty")
	}
	if len(subject) > s.config.MaxSubjectLength {
		subject = subject[:s.config.MaxSubjectLength]
	}
	if strings.TrimSpace(body) == "" {
		return nil, discussionservice.NewValidationError("send_message", "message body cannot be empty")
	}
	if len(body) > s.config.MaxBodyLength {
		return nil, discussionservice.NewValidationError("send_message", "message body too long")
	}

	created, err := s.discussionRepo.Create(ctx, &domain.Discussion{
		SenderID: senderID,
		Subject:  subject,
	})
	if err != nil {
		return nil, discussionservice.NewStorageError("send_message", "could not create discussion", err)
	}

	// One row per user: recipients ∪ {sender}, duplicates collapsed.
	rows := make([]*domain.Recipient, 0, len(recipientIDs)+1)
	seen := map[uint]bool{senderID: true}
	rows = append(rows, &domain.Recipient{
		UserID:       senderID,
		DiscussionID: created.ID,
		Status:       domain.StatusUnread,
	})
	for _, userID := range recipientIDs {
		if userID == 0 || seen[userID] {
			continue
		}
		seen[userID] = true
		rows = append(rows, &domain.Recipient{
			UserID:       userID,
			DiscussionID: created.ID,
			Status:       domain.StatusUnread,
		})
	}
	if err := s.recipientRepo.CreateInBatch(ctx, rows); err != nil {
		return nil, discussionservice.NewStorageError("send_message", "could not seed recipients", err)
	}

	if _, err := s.appendMessage(ctx, created, senderID, body); err != nil {
		return nil, err
	}

	if s.config.EnableContacts {
		s.updateContacts(ctx, senderID, recipientIDs, created.ID)
	}

	if err := s.discussionRepo.UpdateCounters(ctx, created.ID); err != nil {
		s.logger.Warn("counter update failed after send", "discussion_id", created.ID, "error", err)
	}

	s.logger.Info("discussion created",
		"discussion_id", created.ID,
		"sender_id", senderID,
		"recipients", len(rows))

	return s.discussionRepo.FindByID(ctx, created.ID)
}

// AddMessage appends a reply. A zero senderID means the discussion's own
// sender is replying.
func (s *DiscussionService) AddMessage(ctx context.Context, discussionID, senderID uint, body string) (*domain.Message, error) {
	if strings.TrimSpace(body) == "" {
		return nil, discussionservice.NewValidationError("add_message", "message body cannot be empty")
	}
	if len(body) > s.config.MaxBodyLength {
		return nil, discussionservice.NewValidationError("add_message", "message body too long")
	}

	discussionRecord, err := s.discussionRepo.FindByID(ctx, discussionID)
	if err != nil {
		return nil, discussionservice.NewNotFoundError(senderID, discussionID)
	}

	if senderID == 0 {
		senderID = discussionRecord.SenderID
	}

	return s.appendMessage(ctx, discussionRecord, senderID, body)
}

// appendMessage is the shared tail of compose and reply: append to the log,
// make sure the author has a ledger row, re-surface the thread for everyone
// else, refresh the thread metadata and counters.
func (s *DiscussionService) appendMessage(ctx context.Context, discussionRecord *domain.Discussion, senderID uint, body string) (*domain.Message, error) {
	message, err := s.messageRepo.Create(ctx, &domain.Message{
		SenderID:     senderID,
		DiscussionID: discussionRecord.ID,
		Body:         body,
	})
	if err != nil {
		return nil, discussionservice.NewStorageError("add_message", "could not create message", err)
	}

	// A replying recipient should always have a row, but seed one if the
	// ledger somehow lost it.
	if _, err := s.recipientRepo.FindByDiscussionAndUser(ctx, discussionRecord.ID, senderID); err != nil {
		if _, err := s.recipientRepo.Create(ctx, &domain.Recipient{
			UserID:       senderID,
			DiscussionID: discussionRecord.ID,
			Status:       domain.StatusUnread,
		}); err != nil {
			return nil, discussionservice.NewStorageError("add_message", "could not seed author recipient row", err)
		}
	}

	if err := s.recipientRepo.ResetUnreadExcept(ctx, discussionRecord.ID, senderID); err != nil {
		return nil, discussionservice.NewStorageError("add_message", "could not reset recipients", err)
	}

	if err := s.discussionRepo.SetLatestMessage(ctx, discussionRecord.ID, message.ID); err != nil {
		s.logger.Warn("latest message pointer update failed", "discussion_id", discussionRecord.ID, "error", err)
	}
	if err := s.discussionRepo.TouchUpdatedAt(ctx, discussionRecord.ID); err != nil {
		s.logger.Warn("timestamp update failed", "discussion_id", discussionRecord.ID, "error", err)
	}
	if err := s.discussionRepo.UpdateCounters(ctx, discussionRecord.ID); err != nil {
		s.logger.Warn("counter update failed after message", "discussion_id", discussionRecord.ID, "error", err)
	}

	return message, nil
}

func (s *DiscussionService) updateContacts(ctx context.Context, senderID uint, recipientIDs []uint, discussionID uint) {
	for _, userID := range recipientIDs {
		if userID == 0 || userID == senderID {
			continue
		}
		contact, createdNew, err := s.contactRepo.GetOrCreate(ctx, senderID, userID, discussionID)
		if err != nil {
			s.logger.Warn("contact update failed", "sender_id", senderID, "user_id", userID, "error", err)
			continue
		}
		if !createdNew {
			if err := s.contactRepo.UpdateLatestDiscussion(ctx, contact.ID, discussionID); err != nil {
				s.logger.Warn("contact refresh failed", "contact_id", contact.ID, "error", err)
			}
		}
	}
}

// GetDetail returns the full view of a discussion for a user and marks the
// user's ledger row read as a side effect of viewing. Users who are neither
// sender nor recipient get a not-found, never a forbidden.
func (s *DiscussionService) GetDetail(ctx context.Context, userID, discussionID uint) (*discussionservice.Detail, error) {
	discussionRecord, err := s.discussionRepo.FindByID(ctx, discussionID)
	if err != nil {
		return nil, discussionservice.NewNotFoundError(userID, discussionID)
	}

	if !s.canView(ctx, discussionRecord, userID) {
		return nil, discussionservice.NewNotFoundError(userID, discussionID)
	}

	if _, err := s.recipientRepo.MarkRead(ctx, userID, []uint{discussionID}); err != nil {
		s.logger.Warn("mark read on view failed", "discussion_id", discussionID, "user_id", userID, "error", err)
	}

	recipients, err := s.recipientRepo.FindByDiscussionID(ctx, discussionID)
	if err != nil {
		return nil, discussionservice.NewStorageError("get_detail", "could not load recipients", err)
	}

	messages, err := s.messageRepo.FindByDiscussionID(ctx, discussionID)
	if err != nil {
		return nil, discussionservice.NewStorageError("get_detail", "could not load messages", err)
	}

	return &discussionservice.Detail{
		Discussion: discussionRecord,
		Recipients: recipients,
		Messages:   messages,
	}, nil
}

func (s *DiscussionService) canView(ctx context.Context, discussionRecord *domain.Discussion, userID uint) bool {
	if userID == 0 {
		return false
	}
	if discussionRecord.SenderID == userID {
		return true
	}
	_, err := s.recipientRepo.FindByDiscussionAndUser(ctx, discussionRecord.ID, userID)
	return err == nil
}

// MarkRead flips the user's rows for the given discussions to read. Rows of
// discussions the user is not part of are silently unaffected.
func (s *DiscussionService) MarkRead(ctx context.Context, userID uint, discussionIDs []uint) (int64, error) {
	return s.recipientRepo.MarkRead(ctx, userID, discussionIDs)
}

func (s *DiscussionService) MarkUnread(ctx context.Context, userID uint, discussionIDs []uint) (int64, error) {
	return s.recipientRepo.MarkUnread(ctx, userID, discussionIDs)
}

// Remove hides discussions from the user's view: as sender by stamping
// sender_deleted_at, as recipient by marking the ledger row deleted. One
// batch can hit both roles across different discussion ids. Undo reverses
// exactly the same two operations; a restored row comes back read.
func (s *DiscussionService) Remove(ctx context.Context, userID uint, discussionIDs []uint, undo bool) (*discussionservice.RemoveResult, error) {
	result := &discussionservice.RemoveResult{}
	if len(discussionIDs) == 0 {
		return result, nil
	}

	discussions, err := s.discussionRepo.FindByIDs(ctx, discussionIDs)
	if err != nil {
		return nil, discussionservice.NewStorageError("remove", "could not load discussions", err)
	}

	now := time.Now()
	changed := map[uint]bool{}

	for i := range discussions {
		d := &discussions[i]

		if d.SenderID == userID {
			var stamp *time.Time
			if !undo {
				stamp = &now
			}
			if err := s.discussionRepo.SetSenderDeletedAt(ctx, d.ID, stamp); err != nil {
				return nil, discussionservice.NewStorageError("remove", "could not update sender state", err)
			}
			changed[d.ID] = true
		}

		var affected int64
		if undo {
			affected, err = s.recipientRepo.Restore(ctx, userID, []uint{d.ID})
		} else {
			affected, err = s.recipientRepo.MarkDeleted(ctx, userID, []uint{d.ID})
		}
		if err != nil {
			return nil, discussionservice.NewStorageError("remove", "could not update recipient state", err)
		}
		if affected > 0 {
			changed[d.ID] = true
		}
	}

	for id := range changed {
		result.Changed = append(result.Changed, id)
	}

	s.logger.Info("discussions removed/restored",
		"user_id", userID,
		"undo", undo,
		"changed", len(result.Changed))

	return result, nil
}

// Leave permanently removes the user's recipient association. The sender can
// never leave their own discussion; the outcome records the refusal instead
// of erroring so a bulk batch keeps going.
func (s *DiscussionService) Leave(ctx context.Context, userID uint, discussionIDs []uint) ([]discussionservice.LeaveOutcome, error) {
	if len(discussionIDs) == 0 {
		return nil, nil
	}

	discussions, err := s.discussionRepo.FindByIDs(ctx, discussionIDs)
	if err != nil {
		return nil, discussionservice.NewStorageError("leave", "could not load discussions", err)
	}

	outcomes := make([]discussionservice.LeaveOutcome, 0, len(discussions))
	for i := range discussions {
		d := &discussions[i]
		left, err := s.DeleteRecipient(ctx, d, userID)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, discussionservice.LeaveOutcome{DiscussionID: d.ID, Left: left})
	}

	return outcomes, nil
}

// DeleteRecipient removes userID's row from the discussion. Returns false
// without touching anything when the user is the discussion's sender; the
// owner leaving would orphan the thread.
func (s *DiscussionService) DeleteRecipient(ctx context.Context, discussionRecord *domain.Discussion, userID uint) (bool, error) {
	if discussionRecord.SenderID == userID {
		return false, nil
	}

	removed, err := s.recipientRepo.Delete(ctx, discussionRecord.ID, userID)
	if err != nil {
		return false, discussionservice.NewStorageError("leave", "could not delete recipient row", err)
	}

	if removed {
		if err := s.discussionRepo.UpdateCounters(ctx, discussionRecord.ID); err != nil {
			s.logger.Warn("counter update failed after leave", "discussion_id", discussionRecord.ID, "error", err)
		}
	}

	return removed, nil
}

// Move re-folders the user's rows. A nil folderID moves them back out of any
// folder. Folder ownership is the caller's concern.
func (s *DiscussionService) Move(ctx context.Context, userID uint, discussionIDs []uint, folderID *uint) (int64, error) {
	return s.recipientRepo.MoveToFolder(ctx, userID, discussionIDs, folderID)
}

func (s *DiscussionService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.recipientRepo.CountUnreadForUser(ctx, userID)
}

// ===== LISTING VIEWS =====

func (s *DiscussionService) Inbox(ctx context.Context, userID uint, page int) (*discussionservice.Page, error) {
	limit, offset := s.pageBounds(page)
	items, total, err := s.recipientRepo.FindInboxPage(ctx, userID, limit, offset)
	return s.wrapPage(items, total, page, err)
}

func (s *DiscussionService) FolderListing(ctx context.Context, userID, folderID uint, page int) (*discussionservice.Page, error) {
	limit, offset := s.pageBounds(page)
	items, total, err := s.recipientRepo.FindFolderPage(ctx, userID, folderID, limit, offset)
	return s.wrapPage(items, total, page, err)
}

func (s *DiscussionService) Sent(ctx context.Context, userID uint, page int) (*discussionservice.Page, error) {
	limit, offset := s.pageBounds(page)
	items, total, err := s.recipientRepo.FindSentPage(ctx, userID, limit, offset)
	return s.wrapPage(items, total, page, err)
}

func (s *DiscussionService) Unread(ctx context.Context, userID uint, page int) (*discussionservice.Page, error) {
	limit, offset := s.pageBounds(page)
	items, total, err := s.recipientRepo.FindByStatusPage(ctx, userID, domain.StatusUnread, limit, offset)
	return s.wrapPage(items, total, page, err)
}

func (s *DiscussionService) Read(ctx context.Context, userID uint, page int) (*discussionservice.Page, error) {
	limit, offset := s.pageBounds(page)
	items, total, err := s.recipientRepo.FindByStatusPage(ctx, userID, domain.StatusRead, limit, offset)
	return s.wrapPage(items, total, page, err)
}

func (s *DiscussionService) Trash(ctx context.Context, userID uint, page int) (*discussionservice.Page, error) {
	limit, offset := s.pageBounds(page)
	items, total, err := s.recipientRepo.FindByStatusPage(ctx, userID, domain.StatusDeleted, limit, offset)
	return s.wrapPage(items, total, page, err)
}

// ConversationWith lists the discussions exchanged between the user and
// another user named by username.
func (s *DiscussionService) ConversationWith(ctx context.Context, userID uint, username string, page int) (*discussionservice.Page, error) {
	other, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, discussionservice.NewNotFoundError(userID, 0)
	}

	limit, offset := s.pageBounds(page)
	items, total, err := s.recipientRepo.FindConversationPage(ctx, userID, other.ID, limit, offset)
	return s.wrapPage(items, total, page, err)
}

// ResolveUsernames maps usernames to users for the compose form. Unknown
// names are reported back so the form can flag them as field errors.
func (s *DiscussionService) ResolveUsernames(ctx context.Context, usernames []string) ([]domain.User, []string, error) {
	users, err := s.userRepo.FindByUsernames(ctx, usernames)
	if err != nil {
		return nil, nil, discussionservice.NewStorageError("resolve_usernames", "could not resolve usernames", err)
	}

	found := make(map[string]bool, len(users))
	for _, u := range users {
		found[u.Username] = true
	}

	var unknown []string
	for _, name := range usernames {
		if !found[name] {
			unknown = append(unknown, name)
		}
	}

	return users, unknown, nil
}

func (s *DiscussionService) pageBounds(page int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	return s.config.PageSize, (page - 1) * s.config.PageSize
}

func (s *DiscussionService) wrapPage(items []domain.Recipient, total int64, page int, err error) (*discussionservice.Page, error) {
	if err != nil {
		return nil, discussionservice.NewStorageError("listing", "could not load listing page", err)
	}
	if page < 1 {
		page = 1
	}
	return &discussionservice.Page{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: s.config.PageSize,
	}, nil
}
