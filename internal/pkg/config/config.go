package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 全局配置结构体
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Session   SessionConfig   `mapstructure:"session"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Content   ContentConfig   `mapstructure:"content"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Log       LogConfig       `mapstructure:"log"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Chat      ChatConfig      `mapstructure:"chat"`
	Worker    WorkerConfig    `mapstructure:"worker"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

// DatabaseConfig URL 形如 postgres://... 或 sqlite://path
type DatabaseConfig struct {
	URL          string `mapstructure:"url"`
	AutoMigrate  bool   `mapstructure:"auto_migrate"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type AdminConfig struct {
	Key           string `mapstructure:"key"`
	JWTSecret     string `mapstructure:"jwt_secret"`
	TokenTTLHours int64  `mapstructure:"token_ttl_hours"`
}

type SessionConfig struct {
	Secret     string `mapstructure:"secret"`
	CookieName string `mapstructure:"cookie_name"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// ClassLimit 单个动作类别的滑动窗口配置
type ClassLimit struct {
	Limit  int           `mapstructure:"limit"`
	Window time.Duration `mapstructure:"window"`
}

type RateLimitConfig struct {
	Backend       string                `mapstructure:"backend"` // memory | redis
	SweepInterval time.Duration         `mapstructure:"sweep_interval"`
	IdleTTL       time.Duration         `mapstructure:"idle_ttl"`
	Classes       map[string]ClassLimit `mapstructure:"classes"`
}

type ContentConfig struct {
	NameMaxLength     int    `mapstructure:"name_max_length"`
	PostMaxLength     int    `mapstructure:"post_max_length"`
	CommentMaxLength  int    `mapstructure:"comment_max_length"`
	ReasonMaxLength   int    `mapstructure:"reason_max_length"`
	ChatMaxLength     int    `mapstructure:"chat_max_length"`
	PenNameMaxLength  int    `mapstructure:"pen_name_max_length"`
	EscapeHTML        bool   `mapstructure:"escape_html"`
	DeviceLikeCheck   bool   `mapstructure:"device_like_check"`
	PollMultiSelect   bool   `mapstructure:"poll_multi_select"`
	PollMinOptions    int    `mapstructure:"poll_min_options"`
	PollMaxOptions    int    `mapstructure:"poll_max_options"`
	SlurMask          string `mapstructure:"slur_mask"`
	BannedWordsTTLSec int    `mapstructure:"banned_words_ttl_sec"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	FrontendURL    string   `mapstructure:"frontend_url"`
	AllowVercel    bool     `mapstructure:"allow_vercel"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type ChatConfig struct {
	HistoryLimit      int     `mapstructure:"history_limit"`
	MessagesPerSecond float64 `mapstructure:"messages_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type WorkerConfig struct {
	Workers   int `mapstructure:"workers"`
	QueueSize int `mapstructure:"queue_size"`
	MaxRetry  int `mapstructure:"max_retry"`
}

var GlobalConfig Config

// IsProduction 是否生产环境
func (c *Config) IsProduction() bool {
	return c.App.Env == "prod" || c.App.Env == "production"
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.Admin.Key == "" {
		return errors.New("admin key is required (ADMIN_KEY)")
	}

	if c.IsProduction() {
		if len(c.Session.Secret) < 32 {
			return errors.New("session secret should be at least 32 characters in production")
		}
		if len(c.Admin.JWTSecret) < 32 {
			return errors.New("admin JWT secret should be at least 32 characters in production")
		}
	}

	if c.Database.URL == "" {
		return errors.New("database url is required")
	}

	switch c.RateLimit.Backend {
	case "memory":
	case "redis":
		if !c.Redis.Enabled {
			return errors.New("redis rate limit backend requires redis.enabled")
		}
	default:
		return fmt.Errorf("unknown rate limit backend %q", c.RateLimit.Backend)
	}

	for name, cl := range c.RateLimit.Classes {
		if cl.Limit <= 0 || cl.Window <= 0 {
			return fmt.Errorf("rate limit class %q needs a positive limit and window", name)
		}
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return errors.New("kafka is enabled but no brokers are configured")
	}

	return nil
}

// setDefaults 设置默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("app.env", "dev")

	v.SetDefault("database.url", "sqlite://freedomwall.db")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.max_idle_conns", 10)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("admin.token_ttl_hours", 12)

	v.SetDefault("session.cookie_name", "freedomwall_session")
	v.SetDefault("session.max_age_days", 30)

	v.SetDefault("ratelimit.backend", "memory")
	v.SetDefault("ratelimit.sweep_interval", 5*time.Minute)
	v.SetDefault("ratelimit.idle_ttl", 5*time.Minute)
	v.SetDefault("ratelimit.classes", map[string]interface{}{
		"post":    map[string]interface{}{"limit": 5, "window": time.Minute},
		"comment": map[string]interface{}{"limit": 10, "window": time.Minute},
		"like":    map[string]interface{}{"limit": 30, "window": time.Minute},
		"report":  map[string]interface{}{"limit": 10, "window": time.Minute},
		"contact": map[string]interface{}{"limit": 5, "window": time.Hour},
		"read":    map[string]interface{}{"limit": 100, "window": time.Minute},
	})

	v.SetDefault("content.name_max_length", 100)
	v.SetDefault("content.post_max_length", 1000)
	v.SetDefault("content.comment_max_length", 200)
	v.SetDefault("content.reason_max_length", 200)
	v.SetDefault("content.chat_max_length", 500)
	v.SetDefault("content.pen_name_max_length", 20)
	v.SetDefault("content.escape_html", true)
	v.SetDefault("content.device_like_check", false)
	v.SetDefault("content.poll_multi_select", false)
	v.SetDefault("content.poll_min_options", 2)
	v.SetDefault("content.poll_max_options", 6)
	v.SetDefault("content.slur_mask", "*****")
	v.SetDefault("content.banned_words_ttl_sec", 60)

	v.SetDefault("cors.allow_vercel", true)
	v.SetDefault("log.level", "info")

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.topic", "freedomwall.events")

	v.SetDefault("chat.history_limit", 50)
	v.SetDefault("chat.messages_per_second", 1)
	v.SetDefault("chat.burst", 5)

	v.SetDefault("worker.workers", 4)
	v.SetDefault("worker.queue_size", 1024)
	v.SetDefault("worker.max_retry", 3)
}

// applyEnvOverrides 手动覆盖，兼容部署平台常用的环境变量名
func applyEnvOverrides(c *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv("ADMIN_KEY"); v != "" {
		c.Admin.Key = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Admin.JWTSecret = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		c.Session.Secret = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
		c.Redis.Enabled = true
	}
	if v := os.Getenv("FRONTEND_URL"); v != "" {
		c.CORS.FrontendURL = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.CORS.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = splitList(v)
		c.Kafka.Enabled = true
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		c.App.Env = v
	}

	// 未配置签名密钥时回退到 admin key，仅开发环境可用（Validate 会拦截生产环境）
	if c.Session.Secret == "" {
		c.Session.Secret = c.Admin.Key
	}
	if c.Admin.JWTSecret == "" {
		c.Admin.JWTSecret = c.Admin.Key
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load 从指定目录读取配置，不做 fatal 处理，便于测试
func Load(paths ...string) (Config, error) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}

	// 根据环境选择配置文件
	configName := "config"
	if env != "dev" {
		configName = "config." + env
	}

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Printf("Warning: Config file not found, using defaults or env vars: %v", err)
	}

	// 绑定环境变量 (server.port -> SERVER_PORT)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unable to decode config: %w", err)
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadConfig 加载配置到 GlobalConfig
func LoadConfig() {
	cfg, err := Load("./configs", ".")
	if err != nil {
		log.Fatalf("%v", err)
	}
	GlobalConfig = cfg
	log.Printf("Configuration loaded and validated successfully. Environment: %s", GlobalConfig.App.Env)
}
