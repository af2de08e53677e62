package models

import "time"

type User struct {
	ID                       string     `json:"id"`
	Username                 string     `json:"username"`
	Email                    string     `json:"email"`
	PasswordHash             string     `json:"-"`
	EmailVerified            bool       `json:"emailVerified"`
	VerificationTokenHash    *string    `json:"-"`
	VerificationTokenExpires *time.Time `json:"-"`
	ResetTokenHash           *string    `json:"-"`
	ResetTokenExpires        *time.Time `json:"-"`
	CreatedAt                time.Time  `json:"createdAt"`
	UpdatedAt                time.Time  `json:"updatedAt"`
}

// PublicUser is the shape of a user returned to clients.
type PublicUser struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
}
