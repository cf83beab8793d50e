package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo lectura del directorio de usuarios sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// FindFirstByRole devuelve el usuario más antiguo con el rol dado. businessID vacío no filtra por negocio.
func (r *UserRepo) FindFirstByRole(ctx context.Context, businessID, role string) (*entity.User, error) {
	query := `
		SELECT id, COALESCE(business_id::text, ''), email, name, role, created_at
		FROM users
		WHERE role = $1 AND ($2 = '' OR business_id::text = $2)
		ORDER BY created_at, id
		LIMIT 1`
	var u entity.User
	err := r.q.QueryRow(ctx, query, role, businessID).Scan(
		&u.ID, &u.BusinessID, &u.Email, &u.Name, &u.Role, &u.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user by role: %w", err)
	}
	return &u, nil
}
