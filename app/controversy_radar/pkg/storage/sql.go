package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/model"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS reports (
	period_key  TEXT PRIMARY KEY,
	week_ending TEXT NOT NULL,
	body        TEXT NOT NULL,
	saved_at    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reports_saved_at ON reports(saved_at DESC);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS reports (
	period_key  TEXT PRIMARY KEY,
	week_ending TEXT NOT NULL,
	body        JSONB NOT NULL,
	saved_at    BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reports_saved_at ON reports(saved_at DESC);
`

// SQLStore 基于 sqlx 的周报存储，支持 SQLite 和 PostgreSQL
type SQLStore struct {
	db  *sqlx.DB
	log logrus.FieldLogger
	now func() time.Time
}

var _ Store = (*SQLStore)(nil)

// NewSQLStore 包装已有连接，不执行建表
func NewSQLStore(db *sqlx.DB, log logrus.FieldLogger) *SQLStore {
	return &SQLStore{db: db, log: log, now: time.Now}
}

// OpenSQLite 打开 SQLite 数据库并建表
func OpenSQLite(ctx context.Context, path string, log logrus.FieldLogger) (*SQLStore, error) {
	connStr := path
	if path == ":memory:" {
		connStr = "file::memory:?cache=shared"
	}
	db, err := sqlx.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite: %w", ErrPersistence, err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	} else if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: enable WAL mode: %w", ErrPersistence, err)
	}
	s := NewSQLStore(db, log)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// OpenPostgres 连接 PostgreSQL 并建表
func OpenPostgres(ctx context.Context, dsn string, log logrus.FieldLogger) (*SQLStore, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database connection: %w", ErrPersistence, err)
	}
	s := NewSQLStore(db, log)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate 创建 reports 表
func (s *SQLStore) Migrate(ctx context.Context) error {
	schema := sqliteSchema
	if s.db.DriverName() == "postgres" {
		schema = postgresSchema
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%w: failed to initialize schema: %w", ErrPersistence, err)
	}
	return nil
}

// Save 按周期键写入，已存在时覆盖
func (s *SQLStore) Save(ctx context.Context, key string, report *model.Report) error {
	if err := validateKey(key); err != nil {
		return err
	}
	body, err := json.Marshal(report)
	if err != nil {
		return wrap("save", key, err)
	}

	q := s.db.Rebind(`
		INSERT INTO reports (period_key, week_ending, body, saved_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (period_key) DO UPDATE SET
			week_ending = excluded.week_ending,
			body        = excluded.body,
			saved_at    = excluded.saved_at`)
	if _, err := s.db.ExecContext(ctx, q, key, report.WeekEnding, string(body), s.now().UnixNano()); err != nil {
		return wrap("save", key, err)
	}
	s.log.Infof("周报已保存到数据库 [%s]", key)
	return nil
}

// Load 读取周报，不存在时返回 (nil, nil)
func (s *SQLStore) Load(ctx context.Context, key string) (*model.Report, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	var body []byte
	err := s.db.GetContext(ctx, &body, s.db.Rebind(`SELECT body FROM reports WHERE period_key = ?`), key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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
func (s *SQLStore) List(ctx context.Context) ([]string, error) {
	keys := []string{}
	if err := s.db.SelectContext(ctx, &keys, `SELECT period_key FROM reports ORDER BY saved_at DESC, period_key DESC`); err != nil {
		return nil, wrap("list", "reports", err)
	}
	return keys, nil
}

// Close 关闭数据库连接
func (s *SQLStore) Close() error {
	return s.db.Close()
}
