package dao

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chathub-backend/models"
)

func TestMessageDAOInsertionOrderPreserved(t *testing.T) {
	db := openTestDB(t)
	convoDAO := NewConversationDAO(db)
	msgDAO := NewMessageDAO(db)

	convo, err := convoDAO.CreateConversation(1, "ordering", "m")
	require.NoError(t, err)

	// Appends land within the same timestamp tick; the id tiebreak must keep
	// insertion order regardless.
	for i := 0; i < 10; i++ {
		role := models.RoleUser
		if i%2 == 1 {
			role = models.RoleModel
		}
		_, err := msgDAO.CreateMessage(convo.ID, role, fmt.Sprintf("msg-%d", i))
		require.NoError(t, err)
	}

	msgs, err := msgDAO.GetMessagesByConversationID(convo.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 10)
	for i, msg := range msgs {
		assert.Equal(t, fmt.Sprintf("msg-%d", i), msg.Content)
		assert.False(t, i > 0 && msg.CreatedAt.Before(msgs[i-1].CreatedAt), "timestamps must be non-decreasing")
	}
}

func TestMessageDAOScopedToConversation(t *testing.T) {
	db := openTestDB(t)
	convoDAO := NewConversationDAO(db)
	msgDAO := NewMessageDAO(db)

	first, err := convoDAO.CreateConversation(1, "one", "m")
	require.NoError(t, err)
	second, err := convoDAO.CreateConversation(1, "two", "m")
	require.NoError(t, err)

	_, err = msgDAO.CreateMessage(first.ID, models.RoleUser, "in first")
	require.NoError(t, err)
	_, err = msgDAO.CreateMessage(second.ID, models.RoleUser, "in second")
	require.NoError(t, err)

	msgs, err := msgDAO.GetMessagesByConversationID(first.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "in first", msgs[0].Content)
}
