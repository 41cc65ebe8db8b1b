package dao

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chathub-backend/errs"
	"chathub-backend/models"
)

func TestConversationDAOCreateAndGet(t *testing.T) {
	d := NewConversationDAO(openTestDB(t))

	convo, err := d.CreateConversation(1, "Hello, how are you?", "gemini-2.0-flash")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, convo.ID)

	got, err := d.GetConversationByID(convo.ID)
	require.NoError(t, err)
	assert.Equal(t, convo.ID, got.ID)
	assert.Equal(t, uint64(1), got.UserID)
	assert.Equal(t, "Hello, how are you?", got.Title)
}

func TestConversationDAOGetMissing(t *testing.T) {
	d := NewConversationDAO(openTestDB(t))

	_, err := d.GetConversationByID(uuid.New())
	assert.True(t, errs.IsKind(err, errs.NotFound))
}

func TestConversationDAOListOrderedByRecency(t *testing.T) {
	db := openTestDB(t)
	d := NewConversationDAO(db)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		convo, err := d.CreateConversation(7, "chat", "m")
		require.NoError(t, err)
		require.NoError(t, db.Model(convo).Update("created_at", base.Add(time.Duration(i)*time.Minute)).Error)
		ids = append(ids, convo.ID)
	}
	// A different user's conversation never shows up in the listing.
	_, err := d.CreateConversation(8, "other", "m")
	require.NoError(t, err)

	convos, err := d.GetConversationsByUserID(7)
	require.NoError(t, err)
	require.Len(t, convos, 3)
	assert.Equal(t, ids[2], convos[0].ID)
	assert.Equal(t, ids[1], convos[1].ID)
	assert.Equal(t, ids[0], convos[2].ID)
}

func TestConversationDAODeleteCascades(t *testing.T) {
	db := openTestDB(t)
	d := NewConversationDAO(db)
	m := NewMessageDAO(db)

	convo, err := d.CreateConversation(1, "doomed", "m")
	require.NoError(t, err)
	_, err = m.CreateMessage(convo.ID, models.RoleUser, "a")
	require.NoError(t, err)
	_, err = m.CreateMessage(convo.ID, models.RoleModel, "b")
	require.NoError(t, err)

	removed, err := d.DeleteConversation(convo.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = d.GetConversationByID(convo.ID)
	assert.True(t, errs.IsKind(err, errs.NotFound))

	msgs, err := m.GetMessagesByConversationID(convo.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestConversationDAODeleteAbsent(t *testing.T) {
	d := NewConversationDAO(openTestDB(t))

	removed, err := d.DeleteConversation(uuid.New())
	require.NoError(t, err)
	assert.Equal(t, int64(0), removed)
}
