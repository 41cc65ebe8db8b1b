package dao

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"chathub-backend/errs"
	"chathub-backend/models"
)

// ConversationDAO handles conversation-related database operations
type ConversationDAO struct {
	db *gorm.DB
}

func NewConversationDAO(db *gorm.DB) *ConversationDAO {
	return &ConversationDAO{db: db}
}

// CreateConversation creates a new conversation and assigns its durable id.
func (d *ConversationDAO) CreateConversation(userID uint64, title, model string) (*models.Conversation, error) {
	convo := &models.Conversation{
		ID:     uuid.New(),
		UserID: userID,
		Title:  title,
		Model:  model,
	}
	if err := d.db.Create(convo).Error; err != nil {
		return nil, errors.Wrap(err, "create conversation")
	}
	return convo, nil
}

// GetConversationsByUserID retrieves a user's conversations, most recent first.
func (d *ConversationDAO) GetConversationsByUserID(userID uint64) ([]models.Conversation, error) {
	var convos []models.Conversation
	if err := d.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&convos).Error; err != nil {
		return nil, errors.Wrap(err, "list conversations")
	}
	return convos, nil
}

// GetConversationByID retrieves a single conversation.
func (d *ConversationDAO) GetConversationByID(id uuid.UUID) (*models.Conversation, error) {
	var convo models.Conversation
	if err := d.db.Where("id = ?", id).First(&convo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Wrap(errs.NotFound, err, "conversation not found")
		}
		return nil, errors.Wrap(err, "get conversation")
	}
	return &convo, nil
}

// DeleteConversation removes a conversation and all of its messages in one
// transaction, and reports how many conversation rows were removed. Zero rows
// means the conversation was already absent.
func (d *ConversationDAO) DeleteConversation(id uuid.UUID) (int64, error) {
	var removed int64
	err := d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Conversation{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, errors.Wrap(err, "delete conversation")
	}
	return removed, nil
}
