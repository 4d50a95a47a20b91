package storage

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/config"
)

// New 根据配置创建状态存储
func New(ctx context.Context, cfg config.StorageConfig, log logrus.FieldLogger) (Store, error) {
	switch cfg.Driver {
	case "", "file":
		return NewFileStore(cfg.Dir, log), nil
	case "sqlite":
		path := cfg.DSN
		if path == "" {
			path = "reports.db"
		}
		return OpenSQLite(ctx, path, log)
	case "postgres":
		return OpenPostgres(ctx, cfg.PostgresDSN(), log)
	case "redis":
		return DialRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Prefix, log)
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Driver)
	}
}
