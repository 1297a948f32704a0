package discussion

import "go-discussions/internal/domain"

// Logger defines the logging interface used across discussion services
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Page is one page of a recipient listing view.
type Page struct {
	Items    []domain.Recipient `json:"items"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}

// Detail is the full view of one discussion for one user.
type Detail struct {
	Discussion *domain.Discussion `json:"discussion"`
	Recipients []domain.Recipient `json:"recipients"`
	Messages   []domain.Message   `json:"messages"`
}

// RemoveResult reports how a bulk remove/unremove batch landed.
type RemoveResult struct {
	Changed []uint `json:"changed"` // discussion ids touched as sender or recipient
}

// LeaveOutcome reports one discussion of a bulk leave batch.
type LeaveOutcome struct {
	DiscussionID uint `json:"discussion_id"`
	Left         bool `json:"left"` // false when the user is the sender and cannot leave
}
