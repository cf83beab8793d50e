package lock

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bsm/redislock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Rentabilidad-api/pkg/logger"
)

type fakeLock struct {
	refreshes atomic.Int32
	lastTTL   atomic.Int64
	err       error
}

func (f *fakeLock) Refresh(_ context.Context, ttl time.Duration, _ *redislock.Options) error {
	f.refreshes.Add(1)
	f.lastTTL.Store(int64(ttl))
	return f.err
}

func TestKey(t *testing.T) {
	assert.Equal(t, "rentabilidad:cost-migration:biz-1", Key("biz-1"))
}

func TestKeepAlive_RenuevaHastaCancelar(t *testing.T) {
	lk := &fakeLock{}
	ttl := 20 * time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		keepAlive(ctx, lk, ttl, logger.Nop(), "biz-1")
	}()

	require.Eventually(t, func() bool { return lk.refreshes.Load() >= 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int64(ttl), lk.lastTTL.Load(), "cada renovación extiende el TTL completo")

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("keepAlive no terminó al cancelar el contexto")
	}
}

func TestKeepAlive_TerminaSiElLockSePierde(t *testing.T) {
	lk := &fakeLock{err: redislock.ErrNotObtained}
	done := make(chan struct{})
	go func() {
		defer close(done)
		keepAlive(context.Background(), lk, 10*time.Millisecond, logger.Nop(), "biz-1")
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("keepAlive siguió renovando un lock perdido")
	}
	assert.Equal(t, int32(1), lk.refreshes.Load())
}
