package models

import (
	"time"
)

// CustomClaims is the decoded, verified content of an access token.
// Tokens are self-contained: nothing here is persisted server-side.
type CustomClaims struct {
	Subject   string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Extra     map[string]any
}
