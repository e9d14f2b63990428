package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"

	"github.com/roach88/cricscore/internal/config"
	"github.com/roach88/cricscore/internal/engine"
	"github.com/roach88/cricscore/internal/publish"
	"github.com/roach88/cricscore/internal/store"
)

// openStore opens the match store named by the config.
func openStore(cfg config.Config, opts ...store.Option) (*store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		st, err := store.OpenPostgres(cfg.Store.DSN, opts...)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to open postgres store", err)
		}
		return st, nil
	default:
		if dir := filepath.Dir(cfg.Store.Path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, WrapExitError(ExitCommandError, "failed to create store directory", err)
			}
		}
		st, err := store.Open(cfg.Store.Path, opts...)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, fmt.Sprintf("failed to open store %s", cfg.Store.Path), err)
		}
		return st, nil
	}
}

// newRecorder binds the store to the configured user and, when a Redis
// address is set, decorates it with stream publishing. The returned close
// function releases the Redis client.
func newRecorder(ctx context.Context, cfg config.Config, st *store.Store, logger *slog.Logger) (engine.Recorder, func() error) {
	rec := st.RecorderFor(cfg.User)
	if cfg.Redis.Addr == "" {
		return rec, func() error { return nil }
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, finished matches will not be published",
			"addr", cfg.Redis.Addr,
			"error", err,
		)
	}
	publisher := publish.NewStreamPublisher(client, cfg.Redis.Stream)
	return publish.NewRecorder(rec, publisher, logger), client.Close
}

// logger returns the root logger, or a discarding one when the command
// runs without the root pre-run hook.
func (o *RootOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}
