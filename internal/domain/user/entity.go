package user

import "time"

type User struct {
	ID            string
	Email         string
	PasswordHash  *string
	DisplayName   string
	AvatarURL     *string
	GoogleID      *string
	IsAdmin       bool
	EmailVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
