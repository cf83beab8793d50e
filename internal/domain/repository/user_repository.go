package repository

import (
	"context"

	"github.com/jhoicas/Rentabilidad-api/internal/domain/entity"
)

// UserRepository puerto de lectura del directorio de usuarios.
type UserRepository interface {
	// FindFirstByRole devuelve el primer usuario (por fecha de creación) con el rol dado.
	// businessID vacío busca en toda la plataforma. Devuelve (nil, nil) si no hay ninguno.
	FindFirstByRole(ctx context.Context, businessID, role string) (*entity.User, error)
}
