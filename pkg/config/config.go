package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Feed names an RSS news source.
type Feed struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Storage struct {
		Type         string `yaml:"type"` // "file" or "clickhouse"
		FilePath     string `yaml:"file_path"`
		HistoryLimit int    `yaml:"history_limit"`
	} `yaml:"storage"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		LogsTopic    string   `yaml:"logs_topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			GroupID    string        `yaml:"group_id"`
			Workers    int           `yaml:"workers"`
			BufferSize int           `yaml:"buffer_size"`
			RetryMax   int           `yaml:"retry_max"`
			BackoffMin time.Duration `yaml:"backoff_min"`
			BackoffMax time.Duration `yaml:"backoff_max"`
			DLQTopic   string        `yaml:"dlq_topic"`
			MinBytes   int           `yaml:"min_bytes"`
			MaxBytes   int           `yaml:"max_bytes"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	Cache struct {
		QuickTTL time.Duration `yaml:"quick_ttl"`
		Redis    struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Telegram struct {
		Token   string   `yaml:"token"`
		ChatIDs []string `yaml:"chat_ids"`
		DryRun  bool     `yaml:"dry_run"`
	} `yaml:"telegram"`
	Tracker struct {
		Symbol         string  `yaml:"symbol"`  // e.g. SOLUSDT
		CoinID         string  `yaml:"coin_id"` // e.g. solana
		Timeframe      string  `yaml:"timeframe"`
		NeutralBandPct float64 `yaml:"neutral_band_pct"`
	} `yaml:"tracker"`
	Sources struct {
		CoinGeckoURL     string        `yaml:"coingecko_url"`
		CoinGeckoAPIKey  string        `yaml:"coingecko_api_key"`
		BinanceURL       string        `yaml:"binance_url"`
		FearGreedURL     string        `yaml:"fear_greed_url"`
		DefiLlamaURL     string        `yaml:"defillama_url"`
		DefiLlamaChain   string        `yaml:"defillama_chain"`
		DexScreenerURL   string        `yaml:"dexscreener_url"`
		DexScreenerChain string        `yaml:"dexscreener_chain"`
		LunarCrushURL    string        `yaml:"lunarcrush_url"`
		LunarCrushAPIKey string        `yaml:"lunarcrush_api_key"`
		NewsFeeds        []Feed        `yaml:"news_feeds"`
		Subreddits       []string      `yaml:"subreddits"`
		YouTubeChannels  []string      `yaml:"youtube_channels"`
		MaxAgeHours      int           `yaml:"max_age_hours"`
		RequestTimeout   time.Duration `yaml:"request_timeout"`
		MaxRPS           float64       `yaml:"max_rps"`
	} `yaml:"sources"`
	Weights    map[string]float64 `yaml:"weights"`
	Confidence struct {
		High   float64 `yaml:"high"`
		Medium float64 `yaml:"medium"`
		Low    float64 `yaml:"low"`
	} `yaml:"confidence"`
	Keywords struct {
		Bullish []string `yaml:"bullish"`
		Bearish []string `yaml:"bearish"`
	} `yaml:"keywords"`
	Sentiment struct {
		ServiceURL string        `yaml:"service_url"`
		Timeout    time.Duration `yaml:"timeout"`
	} `yaml:"sentiment"`
	Stream struct {
		Enabled        bool          `yaml:"enabled"`
		WebSocketURL   string        `yaml:"websocket_url"`
		Symbols        []string      `yaml:"symbols"`
		ReconnectDelay time.Duration `yaml:"reconnect_delay"`
		PingInterval   time.Duration `yaml:"ping_interval"`
	} `yaml:"stream"`
	Scheduler struct {
		Enabled bool   `yaml:"enabled"`
		Cron    string `yaml:"cron"`
	} `yaml:"scheduler"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.Token = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_IDS"); v != "" {
		c.Telegram.ChatIDs = strings.Split(v, ",")
	}
	if v := os.Getenv("COINGECKO_API_KEY"); v != "" {
		c.Sources.CoinGeckoAPIKey = v
	}
	if v := os.Getenv("LUNARCRUSH_API_KEY"); v != "" {
		c.Sources.LunarCrushAPIKey = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("STORAGE"); v != "" {
		c.Storage.Type = v
	}
	if v := os.Getenv("DRY_RUN"); strings.EqualFold(v, "true") {
		c.Telegram.DryRun = true
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Storage.Type == "" {
		return fmt.Errorf("storage.type is required")
	}
	if c.Storage.Type != "file" && c.Storage.Type != "clickhouse" {
		return fmt.Errorf("storage.type must be 'file' or 'clickhouse', got '%s'", c.Storage.Type)
	}
	if c.Tracker.Symbol == "" {
		return fmt.Errorf("tracker.symbol is required")
	}
	if c.Tracker.CoinID == "" {
		return fmt.Errorf("tracker.coin_id is required")
	}
	if len(c.Weights) == 0 {
		return fmt.Errorf("weights cannot be empty")
	}
	var sum float64
	for _, w := range c.Weights {
		if w < 0 {
			return fmt.Errorf("weights must be non-negative")
		}
		sum += w
	}
	if sum <= 0 {
		return fmt.Errorf("weights must sum to a positive value")
	}
	return nil
}

// TrackerTimeframe returns the prediction timeframe, defaulting to 24h.
func (c *Config) TrackerTimeframe() string {
	if c.Tracker.Timeframe == "" {
		return "24h"
	}
	return c.Tracker.Timeframe
}
