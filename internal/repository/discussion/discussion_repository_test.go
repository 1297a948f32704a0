package discussion

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-discussions/internal/domain"
)

func newTestRepo(t *testing.T) (DiscussionRepository, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Discussion{}, &domain.Message{}, &domain.Recipient{}))

	return NewDiscussionRepository(db), db
}

func Test_UpdateCounters(t *testing.T) {
	repo, db := newTestRepo(t)
	ctx := context.Background()

	d, err := repo.Create(ctx, &domain.Discussion{SenderID: 1, Subject: "counting"})
	require.NoError(t, err)

	require.NoError(t, db.Create(&domain.Recipient{UserID: 1, DiscussionID: d.ID, Status: domain.StatusUnread}).Error)
	require.NoError(t, db.Create(&domain.Recipient{UserID: 2, DiscussionID: d.ID, Status: domain.StatusUnread}).Error)
	require.NoError(t, db.Create(&domain.Message{SenderID: 1, DiscussionID: d.ID, Body: "hello"}).Error)

	require.NoError(t, repo.UpdateCounters(ctx, d.ID))

	fresh, err := repo.FindByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, fresh.RecipientsCount)
	assert.Equal(t, 1, fresh.MessagesCount)
}

func Test_SetSenderDeletedAt(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	d, err := repo.Create(ctx, &domain.Discussion{SenderID: 1, Subject: "hide me"})
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, repo.SetSenderDeletedAt(ctx, d.ID, &now))

	fresh, err := repo.FindByID(ctx, d.ID)
	require.NoError(t, err)
	assert.True(t, fresh.IsSenderDeleted())

	require.NoError(t, repo.SetSenderDeletedAt(ctx, d.ID, nil))

	fresh, err = repo.FindByID(ctx, d.ID)
	require.NoError(t, err)
	assert.False(t, fresh.IsSenderDeleted())

	assert.ErrorIs(t, repo.SetSenderDeletedAt(ctx, 99999, &now), ErrDiscussionNotFound)
}

func Test_Delete_CascadesToRecipients(t *testing.T) {
	repo, db := newTestRepo(t)
	ctx := context.Background()

	d, err := repo.Create(ctx, &domain.Discussion{SenderID: 1, Subject: "doomed"})
	require.NoError(t, err)
	require.NoError(t, db.Create(&domain.Recipient{UserID: 2, DiscussionID: d.ID, Status: domain.StatusUnread}).Error)

	require.NoError(t, repo.Delete(ctx, d.ID))

	_, err = repo.FindByID(ctx, d.ID)
	assert.ErrorIs(t, err, ErrDiscussionNotFound)

	var count int64
	require.NoError(t, db.Model(&domain.Recipient{}).Where("discussion_id = ?", d.ID).Count(&count).Error)
	assert.Zero(t, count)
}
