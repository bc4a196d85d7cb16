package entity

import "time"

// User usuario del back-office (login con email y contraseña).
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
