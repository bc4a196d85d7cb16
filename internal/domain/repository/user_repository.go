package repository

import "github.com/tu-usuario/cartera-pro/internal/domain/entity"

// UserRepository puerto de persistencia de usuarios (auth).
type UserRepository interface {
	Create(user *entity.User) error
	// FindByEmail devuelve (nil, nil) si no existe.
	FindByEmail(email string) (*entity.User, error)
}
