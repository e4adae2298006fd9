package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/stellar/go/network"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Log        LogConfig        `mapstructure:"log"`
	Stellar    StellarConfig    `mapstructure:"stellar"`
	Federation FederationConfig `mapstructure:"federation"`
	Directory  DirectoryConfig  `mapstructure:"directory"`
	Payments   PaymentsConfig   `mapstructure:"payments"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// StellarConfig selects the ledger network and its endpoints.
type StellarConfig struct {
	Network        string        `mapstructure:"network"` // testnet, public
	HorizonURL     string        `mapstructure:"horizon_url"`
	FaucetURL      string        `mapstructure:"faucet_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	FaucetTimeout  time.Duration `mapstructure:"faucet_timeout"`
	BaseFee        int64         `mapstructure:"base_fee"`   // stroops per operation
	TxTimeout      time.Duration `mapstructure:"tx_timeout"` // transaction time bounds
	FundOnCreate   bool          `mapstructure:"fund_on_create"`
}

// Passphrase returns the network passphrase transactions are signed for.
func (s StellarConfig) Passphrase() string {
	if s.IsPublic() {
		return network.PublicNetworkPassphrase
	}
	return network.TestNetworkPassphrase
}

// IsPublic reports whether the configured network is the production ledger.
func (s StellarConfig) IsPublic() bool {
	switch strings.ToLower(s.Network) {
	case "public", "pubnet", "mainnet":
		return true
	}
	return false
}

// FederationConfig configures the federation domain this service is
// authoritative for and the remote federation server it mirrors to.
type FederationConfig struct {
	Domain       string        `mapstructure:"domain"`
	ServerURL    string        `mapstructure:"server_url"` // empty = no remote federation server
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	SharedSecret string        `mapstructure:"shared_secret"`
	FailOpen     bool          `mapstructure:"fail_open"`
	SyncInterval time.Duration `mapstructure:"sync_interval"`
}

type DirectoryConfig struct {
	Backend  string `mapstructure:"backend"` // file, redis, postgres
	Path     string `mapstructure:"path"`
	RedisKey string `mapstructure:"redis_key"`
}

type PaymentsConfig struct {
	SerializePerWallet bool          `mapstructure:"serialize_per_wallet"`
	InflightTTL        time.Duration `mapstructure:"inflight_ttl"`
	ResultTTL          time.Duration `mapstructure:"result_ttl"`
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: CHAPPI_.
// Nested keys use underscore: CHAPPI_STELLAR_NETWORK, CHAPPI_JWT_SECRET, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "chappi_wallet")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "24h")
	v.SetDefault("jwt.issuer", "chappi-wallet")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("stellar.network", "testnet")
	v.SetDefault("stellar.horizon_url", "https://horizon-testnet.stellar.org")
	v.SetDefault("stellar.faucet_url", "https://friendbot.stellar.org")
	v.SetDefault("stellar.request_timeout", "15s")
	v.SetDefault("stellar.faucet_timeout", "10s")
	v.SetDefault("stellar.base_fee", 100)
	v.SetDefault("stellar.tx_timeout", "5m")
	v.SetDefault("stellar.fund_on_create", true)
	v.SetDefault("federation.domain", "chappi.com")
	v.SetDefault("federation.server_url", "")
	v.SetDefault("federation.read_timeout", "5s")
	v.SetDefault("federation.write_timeout", "10s")
	v.SetDefault("federation.shared_secret", "")
	v.SetDefault("federation.fail_open", false)
	v.SetDefault("federation.sync_interval", "30s")
	v.SetDefault("directory.backend", "file")
	v.SetDefault("directory.path", "data/federation_directory.json")
	v.SetDefault("directory.redis_key", "federation:directory")
	v.SetDefault("payments.serialize_per_wallet", true)
	v.SetDefault("payments.inflight_ttl", "2m")
	v.SetDefault("payments.result_ttl", "24h")

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: CHAPPI_STELLAR_NETWORK -> stellar.network
	v.SetEnvPrefix("CHAPPI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required; env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Directory.Backend {
	case "file", "redis", "postgres":
	default:
		return fmt.Errorf("unknown directory backend %q", c.Directory.Backend)
	}
	if c.Directory.Backend == "redis" && !c.Redis.Enabled {
		return fmt.Errorf("directory backend redis requires redis.enabled")
	}
	if c.Directory.Backend == "postgres" && !c.Database.Enabled {
		return fmt.Errorf("directory backend postgres requires database.enabled")
	}
	if c.Federation.Domain == "" {
		return fmt.Errorf("federation.domain must be set")
	}
	if c.Stellar.RequestTimeout <= 0 {
		return fmt.Errorf("stellar.request_timeout must be positive")
	}
	return nil
}
