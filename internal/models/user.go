package models

import "time"

// User is an account that can authenticate. PasswordHash is a bcrypt hash;
// the plaintext password never leaves the login/registration path.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
