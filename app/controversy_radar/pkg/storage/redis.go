package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/model"
)

// RedisStore 周报存到 {prefix}report:{key}，周期键索引存在有序集合 {prefix}reports 中
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	log    logrus.FieldLogger
	now    func() time.Time
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore 使用已有客户端创建存储
func NewRedisStore(client redis.UniversalClient, prefix string, log logrus.FieldLogger) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, log: log, now: time.Now}
}

// DialRedis 连接 Redis 并检查连通性
func DialRedis(ctx context.Context, addr, password string, db int, prefix string, log logrus.FieldLogger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, wrap("ping", addr, err)
	}
	return NewRedisStore(client, prefix, log), nil
}

func (s *RedisStore) reportKey(key string) string { return s.prefix + "report:" + key }
func (s *RedisStore) indexKey() string            { return s.prefix + "reports" }

// Save 在同一个事务中写入周报和索引
func (s *RedisStore) Save(ctx context.Context, key string, report *model.Report) error {
	if err := validateKey(key); err != nil {
		return err
	}
	body, err := json.Marshal(report)
	if err != nil {
		return wrap("save", key, err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.reportKey(key), body, 0)
		pipe.ZAdd(ctx, s.indexKey(), redis.Z{Score: float64(s.now().Unix()), Member: key})
		return nil
	})
	if err != nil {
		return wrap("save", key, err)
	}
	s.log.Infof("周报已保存到 Redis [%s]", key)
	return nil
}

// Load 读取周报，键不存在时返回 (nil, nil)
func (s *RedisStore) Load(ctx context.Context, key string) (*model.Report, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	body, err := s.client.Get(ctx, s.reportKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			s.log.Infof("未找到周期 %s 的历史周报", key)
			return nil, nil
		}
		return nil, wrap("load", key, err)
	}

	var report model.Report
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, wrap("load", key, err)
	}
	return &report, nil
}

// List 按保存时间倒序返回周期键
func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	keys, err := s.client.ZRevRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, wrap("list", s.indexKey(), err)
	}
	if keys == nil {
		keys = []string{}
	}
	return keys, nil
}

// Close 关闭客户端
func (s *RedisStore) Close() error {
	return s.client.Close()
}
