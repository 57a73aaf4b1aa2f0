package domain

import "fmt"

// Role is a caller's role claim as issued by the identity provider.
type Role string

const (
	RoleStudent Role = "student"
	RoleFaculty Role = "faculty"
	RoleAdmin   Role = "admin"
)

// ParseRole validates a role string from an external claim.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleStudent, RoleFaculty, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Caller identifies an authenticated user invoking an engine operation.
// The engine trusts the claim and performs no credential verification itself;
// services take the caller explicitly rather than reading ambient session
// state.
type Caller struct {
	ID   string
	Role Role
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated caller.
type TokenIssuer interface {
	Issue(caller Caller) (string, error)
}

// TokenVerifier verifies a token and returns the caller it identifies.
type TokenVerifier interface {
	Verify(token string) (Caller, error)
}
