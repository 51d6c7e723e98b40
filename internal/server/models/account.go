// Package models defines server-side data models persisted in the database.
package models

import "time"

// Account is a registered user. Username keeps the casing given at
// registration; uniqueness is case-insensitive.
type Account struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
