package memcache_fx

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"eezlegal/internal/config"
	mem "eezlegal/pkg/memcache"
)

var Module = fx.Provide(provideStateStore)

// provideStateStore shares OAuth state through Redis when REDIS_URL is set,
// so any replica can finish a login another one started.
func provideStateStore(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (mem.StateStore, error) {
	if cfg.RedisURL == "" {
		log.Info("oauth state kept in memory")
		return mem.NewMemoryStore(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	store, err := mem.NewRedisStore(ctx, cfg.RedisURL)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return store.Close()
		},
	})
	log.Info("oauth state kept in redis")
	return store, nil
}
