package models

import (
	"time"

	"github.com/google/uuid"
)

// UserCreateRequest carries validated registration input into the service layer.
type UserCreateRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// UserCredentials is a stored identity record. The password field always
// holds a bcrypt digest once the registration flow has run; it is unexported
// so it can never leak through JSON marshalling.
type UserCredentials struct {
	ID           uuid.UUID `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	passwordHash string
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at,omitzero"`
}

func (u *UserCredentials) GetPasswordHash() string {
	return u.passwordHash
}

func (u *UserCredentials) SetPasswordHash(hash string) {
	u.passwordHash = hash
}
