package config

import (
	"fmt"
	"os"
	"strconv"

	pkglogger "github.com/agencypack/blog-backend/pkg/logger"
	"gopkg.in/yaml.v3"
)

// Config holds the full application configuration
type Config struct {
	App           AppConfig           `yaml:"app"`
	Database      DatabaseConfig      `yaml:"database"`
	Redis         RedisConfig         `yaml:"redis"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	CORS          CORSConfig          `yaml:"cors"`
	Blog          BlogConfig          `yaml:"blog"`
}

// AppConfig general application settings
type AppConfig struct {
	Env  string `yaml:"env"`
	Port int    `yaml:"port"`
}

// DatabaseConfig MySQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Charset  string `yaml:"charset"`
}

// DSN builds the MySQL DSN
func (d DatabaseConfig) DSN() string {
	charset := d.Charset
	if charset == "" {
		charset = "utf8mb4"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		d.User, d.Password, d.Host, d.Port, d.Name, charset)
}

// RedisConfig Redis connection settings
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// ElasticsearchConfig optional search backend settings
type ElasticsearchConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Addresses []string `yaml:"addresses"`
	Username  string   `yaml:"username"`
	Password  string   `yaml:"password"`
	PostIndex string   `yaml:"post_index"`
}

// CORSConfig CORS settings
type CORSConfig struct {
	AllowOrigins string `yaml:"allow_origins"`
}

// BlogConfig blog extension settings
type BlogConfig struct {
	// StorageIDs is the storage scope: allowed parent locations for
	// blog records. Empty means no storage restriction.
	StorageIDs []uint64         `yaml:"storage_ids"`
	Related    RelatedConfig    `yaml:"related"`
	Comments   CommentsConfig   `yaml:"comments"`
	Languages  []LanguageConfig `yaml:"languages"`
}

// RelatedConfig related-posts ranking weights
type RelatedConfig struct {
	CategoryWeight int `yaml:"category_weight"`
	TagWeight      int `yaml:"tag_weight"`
	Limit          int `yaml:"limit"`
}

// CommentsConfig comment intake settings
type CommentsConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequireModeration bool `yaml:"require_moderation"`
}

// LanguageConfig one site language with its fallback chain
type LanguageConfig struct {
	ID        int   `yaml:"id"`
	Fallbacks []int `yaml:"fallbacks"`
}

// FallbacksFor returns the fallback language chain for languageID
func (b BlogConfig) FallbacksFor(languageID int) []int {
	for _, l := range b.Languages {
		if l.ID == languageID {
			return l.Fallbacks
		}
	}
	return nil
}

// Load reads a YAML config file and applies environment variable overrides
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.App.Env, "APP_ENV")
	overrideInt(&cfg.App.Port, "APP_PORT")

	overrideString(&cfg.Database.Host, "DB_HOST")
	overrideInt(&cfg.Database.Port, "DB_PORT")
	overrideString(&cfg.Database.User, "DB_USER")
	overrideString(&cfg.Database.Password, "DB_PASSWORD")
	overrideString(&cfg.Database.Name, "DB_NAME")

	overrideString(&cfg.Redis.Host, "REDIS_HOST")
	overrideInt(&cfg.Redis.Port, "REDIS_PORT")
	overrideString(&cfg.Redis.Password, "REDIS_PASSWORD")

	overrideString(&cfg.Elasticsearch.Username, "ES_USERNAME")
	overrideString(&cfg.Elasticsearch.Password, "ES_PASSWORD")
}

func applyDefaults(cfg *Config) {
	if cfg.App.Env == "" {
		cfg.App.Env = "local"
	}
	if cfg.App.Port == 0 {
		cfg.App.Port = 8080
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = 10
	}
	if cfg.Elasticsearch.PostIndex == "" {
		cfg.Elasticsearch.PostIndex = "blog_posts"
	}
	if cfg.Blog.Related.Limit == 0 {
		cfg.Blog.Related.Limit = 5
	}
}

func overrideString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, env string) {
	if v := os.Getenv(env); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// IsDevelopment reports whether the app runs in a development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development" || c.App.Env == "dev" || c.App.Env == "local"
}

// LogResolved logs the resolved configuration (without secrets)
func LogResolved(cfg *Config) {
	pkglogger.GetLogger().Info().
		Str("env", cfg.App.Env).
		Int("port", cfg.App.Port).
		Str("db_host", cfg.Database.Host).
		Str("db_name", cfg.Database.Name).
		Str("redis_host", cfg.Redis.Host).
		Bool("es_enabled", cfg.Elasticsearch.Enabled).
		Msg("configuration resolved")
}
