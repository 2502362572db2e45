package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type Tourist struct {
	ID            uuid.UUID `json:"id" db:"id"`
	FullName      string    `json:"full_name" db:"full_name"`
	Email         string    `json:"email" db:"email"`
	PasswordHash  string    `json:"-" db:"password_hash"`
	ContactNumber *string   `json:"contact_number,omitempty" db:"contact_number"`
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

type TravelAgency struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	ContactInfo     string    `json:"contact_info" db:"contact_info"`
	Description     string    `json:"description" db:"description"`
	ServicesOffered string    `json:"services_offered" db:"services_offered"`
	ProfileImage    string    `json:"profile_image" db:"profile_image"`
	UserID          uuid.UUID `json:"user_id" db:"user_id"`
}

// Normalize is the form emails and usernames are compared in.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
