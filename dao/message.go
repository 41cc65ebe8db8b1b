package dao

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"chathub-backend/models"
)

// MessageDAO handles message-related database operations
type MessageDAO struct {
	db *gorm.DB
}

func NewMessageDAO(db *gorm.DB) *MessageDAO {
	return &MessageDAO{db: db}
}

// CreateMessage appends a message to a conversation.
func (d *MessageDAO) CreateMessage(conversationID uuid.UUID, role, content string) (*models.Message, error) {
	msg := &models.Message{
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
	}
	if err := d.db.Create(msg).Error; err != nil {
		return nil, errors.Wrap(err, "create message")
	}
	return msg, nil
}

// GetMessagesByConversationID retrieves all messages in a conversation in
// insertion order. The id tiebreak keeps order stable when timestamps collide.
func (d *MessageDAO) GetMessagesByConversationID(conversationID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	if err := d.db.Where("conversation_id = ?", conversationID).
		Order("created_at ASC").Order("id ASC").Find(&messages).Error; err != nil {
		return nil, errors.Wrap(err, "list messages")
	}
	return messages, nil
}
