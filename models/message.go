package models

import (
	"time"

	"github.com/google/uuid"
)

// Message roles. RoleUser marks input, RoleModel marks generated replies.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Message is one immutable entry in a conversation transcript. Insertion order
// is conversational order; messages are only removed by the conversation
// delete cascade.
type Message struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationID uuid.UUID `gorm:"type:uuid;not null;index" json:"conversation_id"`
	Role           string    `gorm:"not null" json:"role"`
	Content        string    `gorm:"not null" json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}
