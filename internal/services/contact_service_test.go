package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-discussions/internal/domain"
)

func Test_UpdateContact_Canonicalizes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	first, err := env.discussions.SendMessage(ctx, alice.ID, []uint{bob.ID}, "a to b", "hi")
	require.NoError(t, err)

	t.Run("both directions share one row", func(t *testing.T) {
		second, err := env.discussions.SendMessage(ctx, bob.ID, []uint{alice.ID}, "b to a", "hi back")
		require.NoError(t, err)

		aliceContacts, err := env.contacts.ContactsFor(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, aliceContacts, 1)

		bobContacts, err := env.contacts.ContactsFor(ctx, bob.ID)
		require.NoError(t, err)
		require.Len(t, bobContacts, 1)
		assert.Equal(t, aliceContacts[0].ID, bobContacts[0].ID)

		lo, hi := domain.CanonicalPair(alice.ID, bob.ID)
		assert.Equal(t, lo, aliceContacts[0].FromUserID)
		assert.Equal(t, hi, aliceContacts[0].ToUserID)

		assert.Equal(t, second.ID, aliceContacts[0].LatestDiscussionID)
		assert.NotEqual(t, first.ID, aliceContacts[0].LatestDiscussionID)
	})

	t.Run("a repeat exchange refreshes the latest discussion", func(t *testing.T) {
		third, err := env.contacts.UpdateContact(ctx, bob.ID, alice.ID, 4242)
		require.NoError(t, err)
		assert.EqualValues(t, 4242, third.LatestDiscussionID)

		contacts, err := env.contacts.ContactsFor(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, contacts, 1)
	})
}

func Test_OppositeUserID(t *testing.T) {
	c := domain.Contact{FromUserID: 3, ToUserID: 9}
	assert.EqualValues(t, 9, c.OppositeUserID(3))
	assert.EqualValues(t, 3, c.OppositeUserID(9))
}
