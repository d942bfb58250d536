package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"ViralGen/pkg/logger"
	"ViralGen/pkg/util"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Sink types for committed generation results.
const (
	SinkNone       = "none"
	SinkKafka      = "kafka"
	SinkClickHouse = "clickhouse"
)

// Queue backends for detached tasks.
const (
	QueueLocal = "local"
	QueueRedis = "redis"
)

type ServerConfig struct {
	Host            string        `yaml:"host" default:"0.0.0.0"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"5m"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	StaticDir       string        `yaml:"static_dir"`
}

type GeminiConfig struct {
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url" default:"https://generativelanguage.googleapis.com/v1beta"`
	TextModel   string        `yaml:"text_model" default:"gemini-3-flash-preview"`
	ImageModel  string        `yaml:"image_model" default:"gemini-2.5-flash-image"`
	SpeechModel string        `yaml:"speech_model" default:"gemini-2.5-flash-preview-tts"`
	Voice       string        `yaml:"voice" default:"Puck"`
	Timeout     time.Duration `yaml:"timeout" default:"90s"`
}

type BinanceConfig struct {
	BaseURL string        `yaml:"base_url" default:"https://api.binance.com"`
	Symbols []string      `yaml:"symbols" default:"[\"BTCUSDT\",\"ETHUSDT\",\"SOLUSDT\",\"PEPEUSDT\",\"SHIBUSDT\",\"DOGEUSDT\"]"`
	Timeout time.Duration `yaml:"timeout" default:"10s"`
}

type SignalsConfig struct {
	AutoPilot       bool          `yaml:"auto_pilot"`
	IntervalMinutes int           `yaml:"interval_minutes" default:"15"`
	HistoryCap      int           `yaml:"history_cap" default:"15"`
	LogCap          int           `yaml:"log_cap" default:"50"`
	CallTimeout     time.Duration `yaml:"call_timeout" default:"60s"`
}

type FactoryConfig struct {
	Category        string        `yaml:"category" default:"Stoic Discipline"`
	HistoryCap      int           `yaml:"history_cap"`
	LogCap          int           `yaml:"log_cap" default:"5"`
	CallTimeout     time.Duration `yaml:"call_timeout" default:"90s"`
	StatusInterval  time.Duration `yaml:"status_interval" default:"45s"`
	SettingsKey     string        `yaml:"settings_key" default:"viralgen_vault_secure_v13"`
	BackendURL      string        `yaml:"backend_url" default:"https://viralgen-1.onrender.com"`
	Frequency       int           `yaml:"frequency" default:"20"`
	AssetTTL        time.Duration `yaml:"asset_ttl" default:"24h"`
	ViewsMin        int           `yaml:"views_min" default:"5000"`
	ViewsMax        int           `yaml:"views_max" default:"805000"`
	NotifyTimeout   time.Duration `yaml:"notify_timeout" default:"15s"`
	MinMasterKeyLen int           `yaml:"min_master_key_len" default:"6"`
}

type CompanionConfig struct {
	HistoryCap int `yaml:"history_cap" default:"50"`
}

type TelegramConfig struct {
	Token   string        `yaml:"token"`
	ChatID  string        `yaml:"chat_id"`
	BaseURL string        `yaml:"base_url" default:"https://api.telegram.org"`
	Timeout time.Duration `yaml:"timeout" default:"10s"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host" default:"localhost"`
	Port     int    `yaml:"port" default:"6379"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix" default:"viralgen"`
}

type QueueConfig struct {
	Backend    string        `yaml:"backend" default:"local"`
	Workers    int           `yaml:"workers" default:"2"`
	QueueSize  int           `yaml:"queue_size" default:"64"`
	RetryLimit int           `yaml:"retry_limit" default:"2"`
	RetryDelay time.Duration `yaml:"retry_delay" default:"10s"`
}

type KafkaConfig struct {
	Brokers      []string `yaml:"brokers"`
	RequiredAcks int      `yaml:"required_acks" default:"-1"`
	Compression  string   `yaml:"compression" default:"gzip"`
	Topics       struct {
		Signals  string `yaml:"signals" default:"viralgen.signals"`
		Content  string `yaml:"content" default:"viralgen.content"`
		AutoPost string `yaml:"autopost" default:"viralgen.autopost"`
	} `yaml:"topics"`
	Producer struct {
		MaxAttempts  int           `yaml:"max_attempts" default:"3"`
		Linger       time.Duration `yaml:"linger" default:"200ms"`
		BatchSize    int           `yaml:"batch_size" default:"100"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
		Async        bool          `yaml:"async"`
	} `yaml:"producer"`
	Consumer struct {
		GroupID    string        `yaml:"group_id" default:"viralgen-archiver"`
		Workers    int           `yaml:"workers" default:"2"`
		BufferSize int           `yaml:"buffer_size" default:"64"`
		RetryMax   int           `yaml:"retry_max" default:"3"`
		BackoffMin time.Duration `yaml:"backoff_min" default:"50ms"`
		BackoffMax time.Duration `yaml:"backoff_max" default:"2s"`
		DLQTopic   string        `yaml:"dlq_topic"`
		MinBytes   int           `yaml:"min_bytes" default:"1"`
		MaxBytes   int           `yaml:"max_bytes" default:"10000000"`
	} `yaml:"consumer"`
}

type ClickHouseConfig struct {
	Host        string        `yaml:"host" default:"localhost"`
	Port        int           `yaml:"port" default:"9000"`
	Database    string        `yaml:"database" default:"viralgen"`
	User        string        `yaml:"user" default:"default"`
	Password    string        `yaml:"password"`
	UseHTTP     bool          `yaml:"use_http"`
	DialTimeout time.Duration `yaml:"dial_timeout" default:"5s"`
	ReadTimeout time.Duration `yaml:"read_timeout" default:"10s"`
}

type Config struct {
	Environment string        `yaml:"environment" default:"development"`
	Log         logger.Config `yaml:"log"`
	Metrics     struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Servers struct {
		Signals   ServerConfig `yaml:"signals"`
		Factory   ServerConfig `yaml:"factory"`
		Companion ServerConfig `yaml:"companion"`
	} `yaml:"servers"`
	Gemini     GeminiConfig     `yaml:"gemini"`
	Binance    BinanceConfig    `yaml:"binance"`
	Signals    SignalsConfig    `yaml:"signals"`
	Factory    FactoryConfig    `yaml:"factory"`
	Companion  CompanionConfig  `yaml:"companion"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Redis      RedisConfig      `yaml:"redis"`
	Queue      QueueConfig      `yaml:"queue"`
	Sink       struct {
		Type string `yaml:"type" default:"none"`
	} `yaml:"sink"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	ClickHouse ClickHouseConfig `yaml:"clickhouse"`
}

// Default returns a configuration with every default applied.
func Default() (*Config, error) {
	var c Config
	if err := c.applyDefaults(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load reads and parses a YAML configuration file. An empty path yields defaults.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := c.applyDefaults(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads .env (if present), then YAML, then applies environment overrides.
func LoadWithEnv(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	c.applyEnv()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyDefaults() error {
	if err := defaults.Set(c); err != nil {
		return fmt.Errorf("config defaults: %w", err)
	}
	if c.Servers.Signals.Port == 0 {
		c.Servers.Signals.Port = 3000
	}
	if c.Servers.Factory.Port == 0 {
		c.Servers.Factory.Port = 8080
	}
	if c.Servers.Companion.Port == 0 {
		c.Servers.Companion.Port = 10000
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := firstEnv("GEMINI_API_KEY", "API_KEY"); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if p := util.ParseIntDefault(v, 0); p > 0 {
			c.Servers.Signals.Port = p
			c.Servers.Factory.Port = p
			c.Servers.Companion.Port = p
		}
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		c.Binance.Symbols = splitList(v)
	}
	if v := os.Getenv("SINK"); v != "" {
		c.Sink.Type = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = splitList(v)
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		host, port, ok := strings.Cut(v, ":")
		c.Redis.Enabled = true
		c.Redis.Host = host
		if ok {
			c.Redis.Port = util.ParseIntDefault(port, c.Redis.Port)
		}
	}
	if v := os.Getenv("TELEGRAM_TOKEN"); v != "" {
		c.Telegram.Token = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("BACKEND_URL"); v != "" {
		c.Factory.BackendURL = v
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if len(c.Binance.Symbols) == 0 {
		return fmt.Errorf("binance.symbols cannot be empty")
	}
	if c.Signals.IntervalMinutes <= 0 {
		return fmt.Errorf("signals.interval_minutes must be positive, got %d", c.Signals.IntervalMinutes)
	}
	if c.Factory.Frequency < 10 || c.Factory.Frequency > 360 || c.Factory.Frequency%10 != 0 {
		return fmt.Errorf("factory.frequency must be a multiple of 10 between 10 and 360, got %d", c.Factory.Frequency)
	}
	if c.Factory.Category == "" {
		return fmt.Errorf("factory.category is required")
	}
	if c.Factory.ViewsMin < 0 || c.Factory.ViewsMax < c.Factory.ViewsMin {
		return fmt.Errorf("factory views range invalid: [%d, %d]", c.Factory.ViewsMin, c.Factory.ViewsMax)
	}
	switch c.Sink.Type {
	case SinkNone:
	case SinkKafka:
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka.brokers required for sink.type=kafka")
		}
	case SinkClickHouse:
		if c.ClickHouse.Host == "" {
			return fmt.Errorf("clickhouse.host required for sink.type=clickhouse")
		}
	default:
		return fmt.Errorf("sink.type must be 'none', 'kafka' or 'clickhouse', got '%s'", c.Sink.Type)
	}
	switch c.Queue.Backend {
	case QueueLocal:
	case QueueRedis:
		if !c.Redis.Enabled {
			return fmt.Errorf("queue.backend=redis requires redis.enabled")
		}
	default:
		return fmt.Errorf("queue.backend must be 'local' or 'redis', got '%s'", c.Queue.Backend)
	}
	return nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
