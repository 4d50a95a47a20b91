package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/model"
)

const (
	filePrefix = "report-"
	fileSuffix = ".json"
)

// FileStore 以 {dir}/report-{key}.json 的形式保存周报
type FileStore struct {
	dir string
	log logrus.FieldLogger
}

// NewFileStore 创建文件存储，目录在首次保存时创建
func NewFileStore(dir string, log logrus.FieldLogger) *FileStore {
	return &FileStore{dir: dir, log: log}
}

var _ Store = (*FileStore)(nil)

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, filePrefix+key+fileSuffix)
}

// Save 先写临时文件并 fsync，再原子重命名，写失败不会破坏上一次成功保存的内容
func (s *FileStore) Save(_ context.Context, key string, report *model.Report) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return wrap("save", key, err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return wrap("save", key, err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+filePrefix+key+"-*.tmp")
	if err != nil {
		return wrap("save", key, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return wrap("save", key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return wrap("save", key, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return wrap("save", key, err)
	}

	target := s.path(key)
	if err := os.Rename(tmpName, target); err != nil {
		cleanup()
		return wrap("save", key, err)
	}
	s.log.Infof("周报已保存到 %s", target)
	return nil
}

// Load 读取周报，文件不存在时返回 (nil, nil)
func (s *FileStore) Load(_ context.Context, key string) (*model.Report, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	target := s.path(key)
	data, err := os.ReadFile(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Infof("未找到周期 %s 的历史周报", key)
			return nil, nil
		}
		return nil, wrap("load", key, err)
	}

	var report model.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, wrap("load", key, fmt.Errorf("decode %s: %w", target, err))
	}
	s.log.Infof("已从 %s 加载历史周报", target)
	return &report, nil
}

// List 按修改时间倒序返回已保存的周期键
func (s *FileStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, wrap("list", s.dir, err)
	}

	type item struct {
		key   string
		mtime int64
	}
	var items []item
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, wrap("list", name, err)
		}
		items = append(items, item{
			key:   strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix),
			mtime: info.ModTime().UnixNano(),
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].mtime == items[j].mtime {
			return items[i].key > items[j].key
		}
		return items[i].mtime > items[j].mtime
	})

	keys := make([]string, 0, len(items))
	for _, it := range items {
		keys = append(keys, it.key)
	}
	return keys, nil
}

// Close 文件存储无需释放资源
func (s *FileStore) Close() error { return nil }
