package model

import (
	"time"

	"boardinghouse/internal/auth"
)

// User is an account of any role. Only whitelisted users can sign in.
type User struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	GoogleID     *string   `db:"google_id" json:"-"`
	Role         auth.Role `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Principal is the authorization view of the user.
func (u *User) Principal() auth.Principal {
	return auth.Principal{UserID: u.ID, Email: u.Email, Role: u.Role}
}

// UserSummary is a user joined with the room counts shown in listings.
type UserSummary struct {
	User
	RoomsOwned int     `db:"rooms_owned" json:"rooms_owned"`
	RoomNumber *string `db:"room_number" json:"room_number,omitempty"`
}
