package types

// ServiceName labels logs and metrics emitted by this service.
const ServiceName = "user-auth-service"

// Enum for user roles stored on a credential record
type UserRole string

func (r UserRole) String() string {
	return string(r)
}

const (
	UserRoleUser  UserRole = "USER"
	UserRoleAdmin UserRole = "ADMIN"
)

// IsValidRole reports whether the given role is one of the known roles.
func IsValidRole(role string) bool {
	switch UserRole(role) {
	case UserRoleUser, UserRoleAdmin:
		return true
	default:
		return false
	}
}
