package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Log         struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
	Server struct {
		Port            int           `yaml:"port" default:"3000"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		StaticDir       string        `yaml:"static_dir"`
		WSSendBuffer    int           `yaml:"ws_send_buffer" default:"64"`
		RateLimit       struct {
			RPS   float64 `yaml:"rps" default:"10"`
			Burst int     `yaml:"burst" default:"40"`
		} `yaml:"rate_limit"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Finnhub struct {
		APIKey            string        `yaml:"api_key"`
		RestURL           string        `yaml:"rest_url" default:"https://finnhub.io/api/v1"`
		WebSocketURL      string        `yaml:"websocket_url" default:"wss://ws.finnhub.io"`
		Timeout           time.Duration `yaml:"timeout" default:"10s"`
		RequestsPerSecond float64       `yaml:"requests_per_second" default:"1"`
		Burst             int           `yaml:"burst" default:"30"`
		ReconnectDelay    time.Duration `yaml:"reconnect_delay" default:"5s"`
		PingInterval      time.Duration `yaml:"ping_interval" default:"30s"`
	} `yaml:"finnhub"`
	AlphaVantage struct {
		APIKey  string        `yaml:"api_key"`
		RestURL string        `yaml:"rest_url" default:"https://www.alphavantage.co/query"`
		Timeout time.Duration `yaml:"timeout" default:"15s"`
	} `yaml:"alphavantage"`
	Briefing struct {
		Timeout time.Duration `yaml:"timeout" default:"15s"`
	} `yaml:"briefing"`
	Cache struct {
		Backend       string `yaml:"backend" default:"memory"`
		MemoryMaxSize int    `yaml:"memory_max_size" default:"2000"`
		TTL           struct {
			Quote    time.Duration `yaml:"quote" default:"10s"`
			News     time.Duration `yaml:"news" default:"2m"`
			Calendar time.Duration `yaml:"calendar" default:"5m"`
			Profile  time.Duration `yaml:"profile" default:"1h"`
			Search   time.Duration `yaml:"search" default:"10m"`
		} `yaml:"ttl"`
		Redis struct {
			Host     string `yaml:"host" default:"localhost"`
			Port     int    `yaml:"port" default:"6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix" default:"marketpulse"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Tape struct {
		Backend    string `yaml:"backend" default:"none"`
		BatchSize  int    `yaml:"batch_size" default:"200"`
		MaxRPS     int    `yaml:"max_rps" default:"50"`
		BufferSize int    `yaml:"buffer_size" default:"2000"`
	} `yaml:"tape"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic" default:"marketpulse.trades"`
		RequiredAcks int      `yaml:"required_acks" default:"-1"`
		Compression  string   `yaml:"compression" default:"snappy"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			Linger       time.Duration `yaml:"linger" default:"200ms"`
			BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
			BatchSize    int           `yaml:"batch_size" default:"500"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
			Async        bool          `yaml:"async" default:"true"`
		} `yaml:"producer"`
		Consumer struct {
			Enabled    bool          `yaml:"enabled"`
			GroupID    string        `yaml:"group_id" default:"marketpulse-tape"`
			Workers    int           `yaml:"workers" default:"4"`
			BufferSize int           `yaml:"buffer_size" default:"256"`
			RetryMax   int           `yaml:"retry_max" default:"3"`
			BackoffMin time.Duration `yaml:"backoff_min" default:"50ms"`
			BackoffMax time.Duration `yaml:"backoff_max" default:"2s"`
			DLQTopic   string        `yaml:"dlq_topic"`
			MinBytes   int           `yaml:"min_bytes" default:"1"`
			MaxBytes   int           `yaml:"max_bytes" default:"10000000"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"marketpulse"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert" default:"true"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"30s"`
	} `yaml:"clickhouse"`
}

// Load reads a YAML configuration file and applies defaults.
// A missing file yields a config built from defaults alone.
func Load(path string) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML, overrides it with environment variables and validates the result.
func LoadWithEnv(path string) (*Config, error) {
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

func (c *Config) applyEnv() {
	if v := os.Getenv("FINNHUB_API_KEY"); v != "" {
		c.Finnhub.APIKey = v
	}
	if v := os.Getenv("ALPHA_VANTAGE_API_KEY"); v != "" {
		c.AlphaVantage.APIKey = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("CACHE_BACKEND"); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		host, port, ok := strings.Cut(v, ":")
		c.Cache.Redis.Host = host
		if ok {
			if p, err := strconv.Atoi(port); err == nil {
				c.Cache.Redis.Port = p
			}
		}
	}
	if v := os.Getenv("TAPE_BACKEND"); v != "" {
		c.Tape.Backend = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Finnhub.APIKey == "" {
		return fmt.Errorf("finnhub.api_key is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	switch c.Cache.Backend {
	case "memory", "redis", "layered":
	default:
		return fmt.Errorf("cache.backend must be 'memory', 'redis' or 'layered', got '%s'", c.Cache.Backend)
	}
	switch c.Tape.Backend {
	case "none":
	case "kafka":
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka.brokers cannot be empty when tape.backend is 'kafka'")
		}
		if c.Kafka.Topic == "" {
			return fmt.Errorf("kafka.topic is required when tape.backend is 'kafka'")
		}
		if c.Kafka.Consumer.Enabled && c.ClickHouse.Host == "" {
			return fmt.Errorf("clickhouse.host is required when kafka.consumer.enabled is set")
		}
	case "clickhouse":
		if c.ClickHouse.Host == "" {
			return fmt.Errorf("clickhouse.host is required when tape.backend is 'clickhouse'")
		}
	default:
		return fmt.Errorf("tape.backend must be 'none', 'kafka' or 'clickhouse', got '%s'", c.Tape.Backend)
	}
	return nil
}

// TapeEnabled reports whether relayed trades are archived.
func (c *Config) TapeEnabled() bool { return c.Tape.Backend != "none" }

// ClickHouseEnabled reports whether a ClickHouse connection is needed.
func (c *Config) ClickHouseEnabled() bool {
	return c.Tape.Backend == "clickhouse" || (c.Tape.Backend == "kafka" && c.Kafka.Consumer.Enabled) || c.ClickHouse.Host != ""
}
