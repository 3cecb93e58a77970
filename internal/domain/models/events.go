package models

import (
	"time"

	"github.com/google/uuid"
)

// UserCreatedMessage is the payload published after a successful
// registration so the downstream user service can build its read-model.
// Public-safe fields only: the password hash never leaves this service.
type UserCreatedMessage struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserCreatedMessage builds the event payload from a stored credential.
func NewUserCreatedMessage(u *UserCredentials) UserCreatedMessage {
	return UserCreatedMessage{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
