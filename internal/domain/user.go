package domain

import "time"

// User is a registered account. PasswordHash is a bcrypt digest and is never
// serialized outward.
type User struct {
	ID           UserID
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
