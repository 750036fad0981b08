// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App          AppConfig          `mapstructure:"app"`
	CoreDAO      CoreDAOConfig      `mapstructure:"coredao"`
	Scanner      ScannerConfig      `mapstructure:"scanner"`
	Decision     DecisionConfig     `mapstructure:"decision"`
	Gas          GasConfig          `mapstructure:"gas"`
	Intelligence IntelligenceConfig `mapstructure:"intelligence"`
	Execution    ExecutionConfig    `mapstructure:"execution"`
	Telemetry    TelemetryConfig    `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// CoreDAOConfig holds Core blockchain node configuration.
type CoreDAOConfig struct {
	RPCURL         string        `mapstructure:"rpc_url"`
	ChainID        uint64        `mapstructure:"chain_id"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	InitialBackoff time.Duration `mapstructure:"initial_backoff"`
	MaxBackoff     time.Duration `mapstructure:"max_backoff"`
}

// PoolConfig describes a single liquidity pool to watch.
type PoolConfig struct {
	Name    string `mapstructure:"name"`
	Address string `mapstructure:"address"`
	Venue   string `mapstructure:"venue"`
}

// AddressHex returns the pool address as common.Address.
func (p *PoolConfig) AddressHex() common.Address {
	return common.HexToAddress(p.Address)
}

// ScannerConfig holds detection loop configuration.
type ScannerConfig struct {
	Interval      time.Duration `mapstructure:"interval"`
	FetchTimeout  time.Duration `mapstructure:"fetch_timeout"`
	MaxHops       int           `mapstructure:"max_hops"`
	BaseToken     string        `mapstructure:"base_token"`
	Notional      float64       `mapstructure:"notional"`
	MaxPosition   float64       `mapstructure:"max_position"`
	SwapFeeFactor float64       `mapstructure:"swap_fee_factor"`
	Pools         []PoolConfig  `mapstructure:"pools"`
}

// NotionalDecimal returns the probe trade size as decimal.Decimal.
func (c *ScannerConfig) NotionalDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.Notional)
}

// MaxPositionDecimal returns the position cap as decimal.Decimal.
func (c *ScannerConfig) MaxPositionDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.MaxPosition)
}

// SwapFeeFactorDecimal returns the per-swap fee retention factor
// (e.g. 0.997 for a 0.3% fee) as decimal.Decimal.
func (c *ScannerConfig) SwapFeeFactorDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.SwapFeeFactor)
}

// DecisionConfig holds decision policy thresholds.
type DecisionConfig struct {
	MinProfitRatio      float64 `mapstructure:"min_profit_ratio"`
	RiskReduction       float64 `mapstructure:"risk_reduction"`
	MinSizeFactor       float64 `mapstructure:"min_size_factor"`
	LowConfidenceFactor float64 `mapstructure:"low_confidence_factor"`
}

// MinProfitRatioDecimal returns the profitability floor as decimal.Decimal.
func (c *DecisionConfig) MinProfitRatioDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.MinProfitRatio)
}

// RiskReductionDecimal returns the risk-flag size factor as decimal.Decimal.
func (c *DecisionConfig) RiskReductionDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.RiskReduction)
}

// MinSizeFactorDecimal returns the sentiment sizing floor as decimal.Decimal.
func (c *DecisionConfig) MinSizeFactorDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.MinSizeFactor)
}

// LowConfidenceFactorDecimal returns the low-tier size factor as decimal.Decimal.
func (c *DecisionConfig) LowConfidenceFactorDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.LowConfidenceFactor)
}

// GasConfig holds gas cost model configuration.
type GasConfig struct {
	UnitsPerSwap  uint64        `mapstructure:"units_per_swap"`
	MaxPriceGwei  float64       `mapstructure:"max_price_gwei"`
	FallbackGwei  float64       `mapstructure:"fallback_gwei"`
	OracleTimeout time.Duration `mapstructure:"oracle_timeout"`
}

// MaxPriceWei returns the gas price ceiling in wei as decimal.Decimal.
func (c *GasConfig) MaxPriceWei() decimal.Decimal {
	return decimal.NewFromFloat(c.MaxPriceGwei).Mul(decimal.New(1, 9))
}

// FallbackWei returns the fallback gas price in wei as decimal.Decimal.
func (c *GasConfig) FallbackWei() decimal.Decimal {
	return decimal.NewFromFloat(c.FallbackGwei).Mul(decimal.New(1, 9))
}

// IntelligenceConfig holds market signal feed configuration.
type IntelligenceConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	RSSFeeds         []string      `mapstructure:"rss_feeds"`
	RSSRatePerMinute int           `mapstructure:"rss_rate_per_minute"`
	GammaURL         string        `mapstructure:"gamma_url"`
	CLOBWebSocketURL string        `mapstructure:"clob_websocket_url"`
	MarketSlugs      []string      `mapstructure:"market_slugs"`
	RefreshInterval  time.Duration `mapstructure:"refresh_interval"`
	StalenessBound   time.Duration `mapstructure:"staleness_bound"`
	FetchTimeout     time.Duration `mapstructure:"fetch_timeout"`
}

// Execution modes.
const (
	ExecutionModeConsole  = "console"
	ExecutionModeSimulate = "simulate"
	ExecutionModeTUI      = "tui"
)

// ExecutionConfig holds execution sink configuration.
type ExecutionConfig struct {
	Mode string `mapstructure:"mode"` // console, simulate, tui
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	OTLPHeaders    string `mapstructure:"otlp_headers"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("SHOGUN")
	v.AutomaticEnv()

	// Bind env vars to config keys
	bindEnvVars(v)

	// Set defaults
	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "SHOGUN_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "SHOGUN_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "SHOGUN_LOG_LEVEL", "LOG_LEVEL")

	// CoreDAO
	v.BindEnv("coredao.rpc_url", "SHOGUN_CORE_RPC_URL", "CORE_RPC_URL")
	v.BindEnv("coredao.chain_id", "SHOGUN_CORE_CHAIN_ID", "CORE_CHAIN_ID")

	// Scanner
	v.BindEnv("scanner.interval", "SHOGUN_SCAN_INTERVAL")
	v.BindEnv("scanner.base_token", "SHOGUN_BASE_TOKEN")
	v.BindEnv("scanner.notional", "SHOGUN_NOTIONAL")
	v.BindEnv("scanner.max_position", "SHOGUN_MAX_POSITION")

	// Decision
	v.BindEnv("decision.min_profit_ratio", "SHOGUN_MIN_PROFIT_RATIO")

	// Intelligence
	v.BindEnv("intelligence.enabled", "SHOGUN_INTEL_ENABLED")
	v.BindEnv("intelligence.gamma_url", "SHOGUN_GAMMA_URL")
	v.BindEnv("intelligence.clob_websocket_url", "SHOGUN_CLOB_WS_URL")

	// Execution
	v.BindEnv("execution.mode", "SHOGUN_EXECUTION_MODE")

	// Telemetry
	v.BindEnv("telemetry.enabled", "SHOGUN_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "SHOGUN_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "SHOGUN_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "shogun-core-ai")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// CoreDAO mainnet defaults
	v.SetDefault("coredao.rpc_url", "https://rpc.coredao.org")
	v.SetDefault("coredao.chain_id", 1116)
	v.SetDefault("coredao.max_reconnects", 0) // infinite
	v.SetDefault("coredao.initial_backoff", "1s")
	v.SetDefault("coredao.max_backoff", "30s")

	// Scanner defaults
	v.SetDefault("scanner.interval", "10s")
	v.SetDefault("scanner.fetch_timeout", "5s")
	v.SetDefault("scanner.max_hops", 3)
	v.SetDefault("scanner.base_token", "WCORE")
	v.SetDefault("scanner.notional", 100)
	v.SetDefault("scanner.max_position", 1000)
	v.SetDefault("scanner.swap_fee_factor", 0.997)
	v.SetDefault("scanner.pools", []map[string]any{
		{"name": "WCORE-ICE", "address": "0x8A0bdE131F5e4f6a54c93A1e394D975dB8A5A22B", "venue": "icecreamswap"},
		{"name": "ICE-SCORE", "address": "0x2C91e4f163718206A2E70ee5e8B396a9dd493394", "venue": "icecreamswap"},
		{"name": "SCORE-WCORE", "address": "0x6a2B8d9Ec8A54e7d5Be0dA20C9171FD087900AbF", "venue": "icecreamswap"},
		{"name": "WCORE-USDT", "address": "0xF5617D45Bb2b6689918d6dDbc4BAb1a573968318", "venue": "icecreamswap"},
	})

	// Decision defaults
	v.SetDefault("decision.min_profit_ratio", 0.003)
	v.SetDefault("decision.risk_reduction", 0.4)
	v.SetDefault("decision.min_size_factor", 0.2)
	v.SetDefault("decision.low_confidence_factor", 0.5)

	// Gas defaults
	v.SetDefault("gas.units_per_swap", 150000)
	v.SetDefault("gas.max_price_gwei", 100)
	v.SetDefault("gas.fallback_gwei", 30)
	v.SetDefault("gas.oracle_timeout", "3s")

	// Intelligence defaults
	v.SetDefault("intelligence.enabled", true)
	v.SetDefault("intelligence.rss_feeds", []string{
		"https://cointelegraph.com/rss",
		"https://www.coindesk.com/arc/outboundfeeds/rss/",
	})
	v.SetDefault("intelligence.rss_rate_per_minute", 10)
	v.SetDefault("intelligence.gamma_url", "https://gamma-api.polymarket.com")
	v.SetDefault("intelligence.clob_websocket_url", "wss://ws-subscriptions-clob.polymarket.com/ws/market")
	v.SetDefault("intelligence.refresh_interval", "60s")
	v.SetDefault("intelligence.staleness_bound", "10m")
	v.SetDefault("intelligence.fetch_timeout", "10s")

	// Execution defaults
	v.SetDefault("execution.mode", "console")

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "shogun-core-ai")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.CoreDAO.RPCURL == "" {
		return fmt.Errorf("coredao.rpc_url is required")
	}
	if c.Scanner.Interval <= 0 {
		return fmt.Errorf("scanner.interval must be positive")
	}
	if c.Scanner.MaxHops < 2 || c.Scanner.MaxHops > 3 {
		return fmt.Errorf("scanner.max_hops must be 2 or 3, got %d", c.Scanner.MaxHops)
	}
	if c.Scanner.Notional <= 0 {
		return fmt.Errorf("scanner.notional must be positive")
	}
	if c.Scanner.SwapFeeFactor <= 0 || c.Scanner.SwapFeeFactor > 1 {
		return fmt.Errorf("scanner.swap_fee_factor must be in (0,1], got %f", c.Scanner.SwapFeeFactor)
	}
	if len(c.Scanner.Pools) == 0 {
		return fmt.Errorf("scanner.pools cannot be empty")
	}
	for i, p := range c.Scanner.Pools {
		if !common.IsHexAddress(p.Address) {
			return fmt.Errorf("invalid scanner.pools[%d].address: %s", i, p.Address)
		}
	}
	if c.Decision.MinProfitRatio < 0 {
		return fmt.Errorf("decision.min_profit_ratio cannot be negative")
	}
	if c.Decision.RiskReduction <= 0 || c.Decision.RiskReduction > 1 {
		return fmt.Errorf("decision.risk_reduction must be in (0,1], got %f", c.Decision.RiskReduction)
	}
	switch c.Execution.Mode {
	case ExecutionModeConsole, ExecutionModeSimulate, ExecutionModeTUI:
	default:
		return fmt.Errorf("execution.mode must be console, simulate, or tui, got %q", c.Execution.Mode)
	}
	return nil
}
