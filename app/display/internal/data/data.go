package data

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/config"
	rlogger "github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/logger"
	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/storage"
	"github.com/iWorld-y/controversy_radar/app/display/internal/conf"
)

type Data struct {
	store storage.Store
}

// StorageConfig 将 internal/conf.Data 转换为 pkg/config.StorageConfig
func StorageConfig(c *conf.Data) config.StorageConfig {
	sc := config.StorageConfig{
		Driver: c.Driver,
		Dir:    c.Dir,
		DSN:    c.Dsn,
	}
	if c.Db != nil {
		sc.DB = config.DBConfig{
			Host:     c.Db.Host,
			Port:     int(c.Db.Port),
			User:     c.Db.User,
			Password: c.Db.Password,
			Name:     c.Db.Name,
		}
	}
	if c.Redis != nil {
		sc.Redis = config.RedisConfig{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       int(c.Redis.Db),
			Prefix:   c.Redis.Prefix,
		}
	}
	if sc.Dir == "" {
		sc.Dir = "reports"
	}
	if sc.Redis.Prefix == "" {
		sc.Redis.Prefix = "controversy_radar:"
	}
	return sc
}

func NewData(c *conf.Data, logger log.Logger) (*Data, func(), error) {
	store, err := storage.New(context.Background(), StorageConfig(c), rlogger.Discard())
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		log.NewHelper(logger).Info("closing the data resources")
		store.Close()
	}
	return &Data{store: store}, cleanup, nil
}

// NewDataWithStore 直接使用已有的存储，供测试使用
func NewDataWithStore(store storage.Store) *Data {
	return &Data{store: store}
}
