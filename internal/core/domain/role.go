package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Role string

const (
	RoleTourist Role = "Tourist"
	RoleAgency  Role = "Agency"
	RoleAdmin   Role = "Admin"
)

// ParseRole accepts any casing and surrounding whitespace.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tourist":
		return RoleTourist, nil
	case "agency":
		return RoleAgency, nil
	case "admin":
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, s)
}

// Principal is the authenticated caller of a single request.
type Principal struct {
	UserID uuid.UUID
	Role   Role
}
