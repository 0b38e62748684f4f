package types

import (
	"time"

	"github.com/google/uuid"
)

// UserRecord is a registered account as held by the user store.
type UserRecord struct {
	ID           uuid.UUID `json:"id" example:"d290f1ee-6c54-4b01-90e6-d701748f0851"` // Assigned by the store.
	Email        string    `json:"email" example:"john.doe@example.com"`              // Unique, case-sensitive as stored.
	PasswordHash string    `json:"-"`                                                 // bcrypt digest, never the raw password.
	Name         string    `json:"name" example:"John Doe"`
	CreatedAt    time.Time `json:"created_at"`
}
