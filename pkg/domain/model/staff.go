package model

import "time"

// Staff is an officer account able to process cases
type Staff struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash string
	CreatedAt    time.Time
}
