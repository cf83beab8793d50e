// Package lock serializa la migración de costos por negocio entre procesos usando Redis.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Rentabilidad-api/internal/application/migration"
	"github.com/jhoicas/Rentabilidad-api/pkg/config"
	"github.com/jhoicas/Rentabilidad-api/pkg/logger"
)

var _ migration.TenantLocker = (*RedisTenantLocker)(nil)

const keyPrefix = "rentabilidad:cost-migration"

// NewRedisClient abre y verifica la conexión a Redis.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

// RedisTenantLocker toma un lock por negocio con TTL; no reintenta. Mientras el lock está
// tomado se renueva cada ttl/2, así una migración larga no lo pierde al vencer el TTL.
type RedisTenantLocker struct {
	locker *redislock.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewRedisTenantLocker construye el locker sobre un cliente go-redis.
func NewRedisTenantLocker(rdb redislock.RedisClient, ttl time.Duration, log *logger.Logger) *RedisTenantLocker {
	return &RedisTenantLocker{locker: redislock.New(rdb), ttl: ttl, log: log.Component("tenant_lock")}
}

// Key clave de Redis del lock de un negocio.
func Key(businessID string) string {
	return keyPrefix + ":" + businessID
}

// Lock obtiene el lock del negocio o devuelve migration.ErrTenantLocked si otro proceso lo tiene.
func (l *RedisTenantLocker) Lock(ctx context.Context, businessID string) (func(), error) {
	lk, err := l.locker.Obtain(ctx, Key(businessID), l.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: %s", migration.ErrTenantLocked, businessID)
	}
	if err != nil {
		return nil, fmt.Errorf("obtener lock de %s: %w", businessID, err)
	}
	refreshCtx, stop := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		keepAlive(refreshCtx, lk, l.ttl, l.log, businessID)
	}()

	return func() {
		stop()
		<-done
		// context.Background: el lock se libera aunque ctx ya esté cancelado.
		if err := lk.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.log.Warn().Err(err).Str("business_id", businessID).Msg("no se pudo liberar el lock")
		}
	}, nil
}

type refresher interface {
	Refresh(ctx context.Context, ttl time.Duration, opt *redislock.Options) error
}

// keepAlive renueva el lock cada ttl/2 hasta que ctx se cancela o una renovación falla.
func keepAlive(ctx context.Context, lk refresher, ttl time.Duration, log *logger.Logger, businessID string) {
	ticker := time.NewTicker(ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := lk.Refresh(ctx, ttl, nil); err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Error().Err(err).Str("business_id", businessID).Msg("lock de migración perdido: otro proceso puede tomar el negocio")
				return
			}
		}
	}
}
