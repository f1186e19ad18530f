package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// ShippingPolicy decides what the assembler does with the carrier/method
// the marketplace reports.
type ShippingPolicy string

const (
	// ShippingPassthrough keeps the marketplace carrier and method.
	ShippingPassthrough ShippingPolicy = "passthrough"
	// ShippingFixedFree forces the free-shipping carrier/method while
	// keeping the marketplace cost.
	ShippingFixedFree ShippingPolicy = "fixed_free"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	SkyHub   SkyHubConfig   `mapstructure:"skyhub"`
	Stores   []StoreScope   `mapstructure:"stores"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type PostgresConfig struct {
	URL string `mapstructure:"url"`
}

type KafkaConfig struct {
	Brokers       []string `mapstructure:"brokers"`
	ImportedTopic string   `mapstructure:"imported_topic"`
	FailedTopic   string   `mapstructure:"failed_topic"`
}

type SkyHubConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	UserEmail      string `mapstructure:"user_email"`
	APIKey         string `mapstructure:"api_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// StoreScope is the store-dependent configuration every import step reads.
// It is resolved once per reference and passed explicitly; there is no
// process-wide "current store".
type StoreScope struct {
	StoreID               int64          `mapstructure:"store_id"`
	WebsiteID             int64          `mapstructure:"website_id"`
	StreetLines           int            `mapstructure:"street_lines"`
	DefaultCountry        string         `mapstructure:"default_country"`
	ShippingPolicy        ShippingPolicy `mapstructure:"shipping_policy"`
	PaymentMethod         string         `mapstructure:"payment_method"`
	UseDefaultIncrementID bool           `mapstructure:"use_default_increment_id"`
}

// Load reads the given YAML config file, with SKYHUB_-prefixed environment
// variables taking precedence.
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("SKYHUB")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config failed: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}

	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Kafka.ImportedTopic == "" {
		cfg.Kafka.ImportedTopic = "order.imported"
	}
	if cfg.Kafka.FailedTopic == "" {
		cfg.Kafka.FailedTopic = "order.import.failed"
	}
	if cfg.SkyHub.TimeoutSeconds == 0 {
		cfg.SkyHub.TimeoutSeconds = 10
	}

	for i := range cfg.Stores {
		applyStoreDefaults(&cfg.Stores[i])
	}

	return &cfg, nil
}

// LoadDefault loads config/config.yaml.
func LoadDefault() (*Config, error) {
	return Load("config/config.yaml")
}

func applyStoreDefaults(scope *StoreScope) {
	if scope.StreetLines < 1 || scope.StreetLines > 4 {
		scope.StreetLines = 4
	}
	if scope.DefaultCountry == "" {
		scope.DefaultCountry = "BR"
	}
	if scope.ShippingPolicy == "" {
		scope.ShippingPolicy = ShippingFixedFree
	}
	if scope.PaymentMethod == "" {
		scope.PaymentMethod = "skyhub_standard"
	}
}

func (c *Config) Validate() error {
	if c.Postgres.URL == "" {
		return fmt.Errorf("postgres url is required")
	}
	if c.SkyHub.BaseURL == "" {
		return fmt.Errorf("skyhub base_url is required")
	}
	if c.SkyHub.UserEmail == "" {
		return fmt.Errorf("skyhub user_email is required")
	}
	if c.SkyHub.APIKey == "" {
		return fmt.Errorf("skyhub api_key is required")
	}
	if len(c.Stores) == 0 {
		return fmt.Errorf("at least one store scope is required")
	}
	for _, scope := range c.Stores {
		switch scope.ShippingPolicy {
		case ShippingPassthrough, ShippingFixedFree:
		default:
			return fmt.Errorf("store %d: unknown shipping_policy %q", scope.StoreID, scope.ShippingPolicy)
		}
	}
	return nil
}

// Scope returns the store scope for the given store id, or nil when the
// store is not configured.
func (c *Config) Scope(storeID int64) *StoreScope {
	for i := range c.Stores {
		if c.Stores[i].StoreID == storeID {
			return &c.Stores[i]
		}
	}
	return nil
}
