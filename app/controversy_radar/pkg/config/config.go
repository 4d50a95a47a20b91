package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/model"
	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/period"
)

// Config 项目配置结构体
type Config struct {
	Portfolio   PortfolioConfig   `yaml:"portfolio"`
	LLM         LLMConfig         `yaml:"llm"`
	Search      SearchConfig      `yaml:"search"`
	Storage     StorageConfig     `yaml:"storage"`
	Output      OutputConfig      `yaml:"output"`
	Email       EmailConfig       `yaml:"email"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
}

// PortfolioConfig 投资组合配置，File 与 Companies 二选一
type PortfolioConfig struct {
	Label     string          `yaml:"label"`
	File      string          `yaml:"file"`
	Companies []model.Company `yaml:"companies"`
}

// LLMConfig 分析后端配置
type LLMConfig struct {
	Provider    string  `yaml:"provider"` // mock | eino | openai | anthropic | google
	BaseURL     string  `yaml:"base_url"`
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	MaxRetries  int     `yaml:"max_retries"`
}

// SearchConfig 搜索相关配置
type SearchConfig struct {
	Provider    string        `yaml:"provider"` // mock | tavily | searxng | rss
	MaxResults  int           `yaml:"max_results"`
	MaxArticles int           `yaml:"max_articles"`
	FetchBody   bool          `yaml:"fetch_body"`
	Breaker     bool          `yaml:"breaker"`
	Tavily      TavilyConfig  `yaml:"tavily"`
	SearXNG     SearXNGConfig `yaml:"searxng"`
	RSS         RSSConfig     `yaml:"rss"`
}

// TavilyConfig Tavily 配置
type TavilyConfig struct {
	APIKey string `yaml:"api_key"`
}

// SearXNGConfig SearXNG 配置
type SearXNGConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout"`
}

// RSSConfig RSS 搜索配置，URLTemplate 中的 %s 会被替换为转义后的查询
type RSSConfig struct {
	URLTemplate string `yaml:"url_template"`
	Language    string `yaml:"language"`
}

// StorageConfig 周报状态存储配置
type StorageConfig struct {
	Driver string      `yaml:"driver"` // file | sqlite | postgres | redis
	Dir    string      `yaml:"dir"`
	DSN    string      `yaml:"dsn"`
	DB     DBConfig    `yaml:"db"`
	Redis  RedisConfig `yaml:"redis"`
}

// DBConfig 数据库相关配置
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// OutputConfig 输出文件配置
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// EmailConfig 邮件配置
type EmailConfig struct {
	Enabled    bool     `yaml:"enabled"`
	APIKey     string   `yaml:"api_key"`
	From       string   `yaml:"from"`
	Recipients []string `yaml:"recipients"`
}

// MetricsConfig Prometheus Pushgateway 配置，URL 为空时不推送
type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgateway_url"`
	Job            string `yaml:"job"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig 并发控制配置
type ConcurrencyConfig struct {
	QPS     int `yaml:"qps"`
	RPM     int `yaml:"rpm"`
	Workers int `yaml:"workers"`
}

// LoadConfig 从指定路径加载配置，支持 ${ENV} 形式的环境变量引用
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse 解析 YAML 配置并填充默认值
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default 返回只包含默认值的配置
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Portfolio.Label == "" {
		c.Portfolio.Label = "PortfolioName"
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "mock"
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 4096
	}
	if c.LLM.MaxRetries == 0 {
		c.LLM.MaxRetries = 3
	}
	if c.Search.Provider == "" {
		c.Search.Provider = "mock"
	}
	if c.Search.MaxResults == 0 {
		c.Search.MaxResults = 20
	}
	if c.Search.MaxArticles == 0 {
		c.Search.MaxArticles = 10
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "file"
	}
	if c.Storage.Dir == "" {
		c.Storage.Dir = "reports"
	}
	if c.Storage.Redis.Prefix == "" {
		c.Storage.Redis.Prefix = "controversy_radar:"
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "output"
	}
	if c.Metrics.Job == "" {
		c.Metrics.Job = "controversy_radar"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Concurrency.RPM == 0 {
		c.Concurrency.RPM = 30
	}
	if c.Concurrency.QPS == 0 {
		c.Concurrency.QPS = 1
	}
	if c.Concurrency.Workers == 0 {
		c.Concurrency.Workers = 1
	}
}

// Validate 校验配置取值
func (c *Config) Validate() error {
	if !period.ValidKey(c.Portfolio.Label) {
		return fmt.Errorf("portfolio.label %q may only contain letters, digits, '.', '_' and '-'", c.Portfolio.Label)
	}
	switch c.LLM.Provider {
	case "mock", "eino", "openai", "anthropic", "google":
	default:
		return fmt.Errorf("unknown llm provider: %s", c.LLM.Provider)
	}
	switch c.Search.Provider {
	case "mock", "tavily", "searxng", "rss":
	default:
		return fmt.Errorf("unknown search provider: %s", c.Search.Provider)
	}
	switch c.Storage.Driver {
	case "file", "sqlite", "postgres", "redis":
	default:
		return fmt.Errorf("unknown storage driver: %s", c.Storage.Driver)
	}
	if c.Concurrency.Workers < 1 {
		return fmt.Errorf("concurrency.workers must be >= 1, got %d", c.Concurrency.Workers)
	}
	if c.Email.Enabled && (c.Email.From == "" || len(c.Email.Recipients) == 0) {
		return fmt.Errorf("email enabled but from or recipients missing")
	}
	return nil
}

// PostgresDSN 拼接 lib/pq 连接串，优先使用 storage.dsn
func (s StorageConfig) PostgresDSN() string {
	if s.DSN != "" {
		return s.DSN
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		s.DB.Host, s.DB.Port, s.DB.User, s.DB.Password, s.DB.Name)
}
