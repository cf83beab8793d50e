package repository

import (
	"context"

	"github.com/jhoicas/Rentabilidad-api/internal/domain/entity"
)

// BusinessRepository puerto de lectura de negocios (tenants).
type BusinessRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Business, error)
	List(ctx context.Context) ([]*entity.Business, error)
}
