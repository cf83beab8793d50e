package migration

import (
	"context"

	"github.com/jhoicas/Rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/repository"
)

// ActorResolver devuelve el usuario a registrar como changed_by en las entradas creadas
// por la migración de un negocio. "" significa que no hay actor válido.
type ActorResolver func(ctx context.Context, businessID string) (string, error)

// DirectoryActorResolver busca en el directorio: primer business_admin del negocio,
// si no hay, primer super_admin de la plataforma.
func DirectoryActorResolver(users repository.UserRepository) ActorResolver {
	return func(ctx context.Context, businessID string) (string, error) {
		u, err := users.FindFirstByRole(ctx, businessID, entity.RoleBusinessAdmin)
		if err != nil {
			return "", err
		}
		if u != nil {
			return u.ID, nil
		}
		u, err = users.FindFirstByRole(ctx, "", entity.RoleSuperAdmin)
		if err != nil {
			return "", err
		}
		if u != nil {
			return u.ID, nil
		}
		return "", nil
	}
}

// StaticActor usa siempre el mismo actor (flag -actor-id del comando).
func StaticActor(userID string) ActorResolver {
	return func(context.Context, string) (string, error) { return userID, nil }
}
