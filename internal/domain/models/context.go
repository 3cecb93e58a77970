package models

import "context"

// userCtxKey is an unexported type for the request-scoped identity key.
type userCtxKey struct{}

var userKey = userCtxKey{}

// anonymous is the sentinel identity for requests carrying no token.
var anonymous = &UserCredentials{}

// AnonymousUser returns the shared unauthenticated identity.
func AnonymousUser() *UserCredentials {
	return anonymous
}

// IsAnonymous reports whether this identity is the anonymous sentinel.
func (u *UserCredentials) IsAnonymous() bool {
	return u == anonymous
}

// WithUser attaches the authenticated identity to the request context.
// The identity is owned by the request: it is never shared across requests.
func WithUser(ctx context.Context, user *UserCredentials) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the identity attached by the authentication gate,
// or nil when no gate has run for this context.
func UserFromContext(ctx context.Context) *UserCredentials {
	user, ok := ctx.Value(userKey).(*UserCredentials)
	if !ok {
		return nil
	}
	return user
}
