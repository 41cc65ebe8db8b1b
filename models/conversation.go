package models

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is a titled message thread owned by exactly one user. The title
// is derived from the first user message; only message appends mutate the
// thread afterwards.
type Conversation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uint64    `gorm:"not null;index" json:"user_id"`
	Title     string    `gorm:"not null" json:"title"`
	Model     string    `gorm:"not null" json:"model"`
	CreatedAt time.Time `json:"created_at"`
}
