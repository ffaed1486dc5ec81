package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Log        LogConfig        `mapstructure:"log"`
	TON        TONConfig        `mapstructure:"ton"`
	CryptoPay  CryptoPayConfig  `mapstructure:"cryptopay"`
	Worker     WorkerConfig     `mapstructure:"worker"`
	Admin      AdminConfig      `mapstructure:"admin"`
	HTTPClient HTTPClientConfig `mapstructure:"http_client"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	Migrate         bool          `mapstructure:"migrate"`
	LockTimeout     time.Duration `mapstructure:"lock_timeout"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// TONConfig describes the treasury wallet and the chain indexer.
type TONConfig struct {
	TreasuryAddress  string `mapstructure:"treasury_address"`
	TreasuryMnemonic string `mapstructure:"treasury_mnemonic"` // never logged
	Testnet          bool   `mapstructure:"testnet"`
	ToncenterBaseURL string `mapstructure:"toncenter_base_url"`
	ToncenterAPIKey  string `mapstructure:"toncenter_api_key"`
	IndexerPageSize  int    `mapstructure:"indexer_page_size"`
	LiteServers      string `mapstructure:"lite_servers"` // optional "ip:port:key" list, comma separated
}

// DepositsEnabled reports whether on-chain deposit reconciliation can run.
func (t TONConfig) DepositsEnabled() bool {
	return strings.TrimSpace(t.TreasuryAddress) != "" && strings.TrimSpace(t.ToncenterBaseURL) != ""
}

// WithdrawalsEnabled reports whether the treasury can sign payouts.
func (t TONConfig) WithdrawalsEnabled() bool {
	return strings.TrimSpace(t.TreasuryAddress) != "" && strings.TrimSpace(t.TreasuryMnemonic) != ""
}

// CryptoPayConfig describes the custodial invoice provider.
type CryptoPayConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	APIToken    string `mapstructure:"api_token"` // never logged
	Asset       string `mapstructure:"asset"`
	Description string `mapstructure:"description"`
}

// Enabled reports whether invoice deposits are configured.
func (c CryptoPayConfig) Enabled() bool {
	return strings.TrimSpace(c.BaseURL) != "" && strings.TrimSpace(c.APIToken) != ""
}

type WorkerConfig struct {
	DepositPollInterval  time.Duration `mapstructure:"deposit_poll_interval"`
	WithdrawPollInterval time.Duration `mapstructure:"withdraw_poll_interval"`
	MinPollInterval      time.Duration `mapstructure:"min_poll_interval"`
	TickTimeout          time.Duration `mapstructure:"tick_timeout"`
	ClockSkew            time.Duration `mapstructure:"clock_skew"`
	MinWithdrawTON       string        `mapstructure:"min_withdraw_ton"`
	PendingBatchSize     int           `mapstructure:"pending_batch_size"`
	LeaseEnabled         bool          `mapstructure:"lease_enabled"`
}

type AdminConfig struct {
	Token string `mapstructure:"token"` // empty disables the admin API
}

type HTTPClientConfig struct {
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
}

// Load reads configuration from file, an optional runtime override file and
// environment variables. Environment variables override both files.
// Prefix: PAYW_. Nested keys use underscore: PAYW_TON_TREASURY_MNEMONIC, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "payments")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.migrate", true)
	v.SetDefault("database.lock_timeout", "5s")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("ton.treasury_address", "")
	v.SetDefault("ton.treasury_mnemonic", "")
	v.SetDefault("ton.testnet", false)
	v.SetDefault("ton.toncenter_base_url", "https://toncenter.com/api/v2")
	v.SetDefault("ton.toncenter_api_key", "")
	v.SetDefault("ton.indexer_page_size", 80)
	v.SetDefault("ton.lite_servers", "")
	v.SetDefault("cryptopay.base_url", "https://pay.crypt.bot")
	v.SetDefault("cryptopay.api_token", "")
	v.SetDefault("cryptopay.asset", "TON")
	v.SetDefault("cryptopay.description", "Balance deposit")
	v.SetDefault("worker.deposit_poll_interval", "6s")
	v.SetDefault("worker.withdraw_poll_interval", "4s")
	v.SetDefault("worker.min_poll_interval", "2s")
	v.SetDefault("worker.tick_timeout", "30s")
	v.SetDefault("worker.clock_skew", "120s")
	v.SetDefault("worker.min_withdraw_ton", "1")
	v.SetDefault("worker.pending_batch_size", 50)
	v.SetDefault("worker.lease_enabled", true)
	v.SetDefault("admin.token", "")
	v.SetDefault("http_client.timeout", "10s")
	v.SetDefault("http_client.max_retries", 2)
	v.SetDefault("http_client.retry_delay", "500ms")
	v.SetDefault("runtime_config", "config.runtime.yaml")

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: PAYW_TON_TREASURY_ADDRESS -> ton.treasury_address
	v.SetEnvPrefix("PAYW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required, env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// Runtime overrides written by operators take precedence over the base file.
	if runtimePath := v.GetString("runtime_config"); runtimePath != "" {
		if _, err := os.Stat(runtimePath); err == nil {
			v.SetConfigFile(runtimePath)
			if err := v.MergeInConfig(); err != nil {
				return nil, fmt.Errorf("merging runtime config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.Worker.MinPollInterval <= 0 {
		cfg.Worker.MinPollInterval = 2 * time.Second
	}

	return &cfg, nil
}
