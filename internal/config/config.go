// Package config holds the application's root configuration, loaded once from
// viper and shared through a process wide singleton.
package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/xkilldash9x/owl2lpg/api/schemas"
)

var (
	instance *Config
	once     sync.Once
	loadErr  error
)

// EnvPrefix prefixes every environment override, e.g. OWL2LPG_STORE_BACKEND.
const EnvPrefix = "OWL2LPG"

// Store backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendNeo4j    = "neo4j"
)

// Identifier sources for translation sessions.
const (
	IDSourceUUID       = "uuid"
	IDSourceSequential = "sequential"
)

// Config is the root configuration structure for the entire application.
type Config struct {
	Logger      LoggerConfig            `mapstructure:"logger"`
	Store       StoreConfig             `mapstructure:"store"`
	Postgres    PostgresConfig          `mapstructure:"postgres"`
	Neo4j       Neo4jConfig             `mapstructure:"neo4j"`
	Context     schemas.DocumentContext `mapstructure:"context"`
	Translation TranslationConfig       `mapstructure:"translation"`
	Decoder     DecoderConfig           `mapstructure:"decoder"`
	Writer      WriterConfig            `mapstructure:"writer"`
}

// ColorConfig defines the color settings for different log levels.
// These are used for console output to make logs more readable.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" json:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" json:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" json:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" json:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" json:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" json:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" json:"fatal" yaml:"fatal"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" json:"level" yaml:"level"`
	Format      string      `mapstructure:"format" json:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" json:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" json:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" json:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" json:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" json:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" json:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" json:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" json:"colors" yaml:"colors"`
}

// StoreConfig selects the graph backend.
type StoreConfig struct {
	Backend string `mapstructure:"backend"`
}

// PostgresConfig holds settings for the database connection.
type PostgresConfig struct {
	URL string `mapstructure:"url"`
}

// Neo4jConfig holds the Bolt connection settings.
type Neo4jConfig struct {
	URI      string `mapstructure:"uri"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

// TranslationConfig tunes translation sessions.
type TranslationConfig struct {
	IDSource string `mapstructure:"id_source"`
}

// DecoderConfig bounds reads. Zero or less means unbounded for the depth
// settings.
type DecoderConfig struct {
	ReadDepth     int `mapstructure:"read_depth"`
	ReloadHops    int `mapstructure:"reload_hops"`
	ReferenceHops int `mapstructure:"reference_hops"`
}

// WriterConfig tunes the statement writer.
type WriterConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "owl2lpg")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "magenta")

	// Empty defaults keep these keys visible to AutomaticEnv during Unmarshal.
	v.SetDefault("store.backend", BackendMemory)
	v.SetDefault("postgres.url", "")
	v.SetDefault("neo4j.uri", "")
	v.SetDefault("neo4j.username", "")
	v.SetDefault("neo4j.password", "")
	v.SetDefault("neo4j.database", "neo4j")
	v.SetDefault("context.project_id", "default")
	v.SetDefault("context.branch_id", "main")
	v.SetDefault("context.document_id", "default")
	v.SetDefault("translation.id_source", IDSourceUUID)
	v.SetDefault("decoder.read_depth", 0)
	v.SetDefault("decoder.reload_hops", 0)
	v.SetDefault("decoder.reference_hops", 8)
	v.SetDefault("writer.concurrency", 4)
}

// BindEnv makes every key overridable through OWL2LPG_ prefixed variables.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Validate checks the loaded configuration for consistency.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory:
	case BackendPostgres:
		if c.Postgres.URL == "" {
			return fmt.Errorf("postgres.url is required for the %s backend", BackendPostgres)
		}
	case BackendNeo4j:
		if c.Neo4j.URI == "" {
			return fmt.Errorf("neo4j.uri is required for the %s backend", BackendNeo4j)
		}
	default:
		return fmt.Errorf("store.backend must be one of %s, %s or %s (got %q)", BackendMemory, BackendPostgres, BackendNeo4j, c.Store.Backend)
	}
	if err := c.Context.Validate(); err != nil {
		return fmt.Errorf("context: %w", err)
	}
	switch c.Translation.IDSource {
	case IDSourceUUID, IDSourceSequential:
	default:
		return fmt.Errorf("translation.id_source must be %s or %s (got %q)", IDSourceUUID, IDSourceSequential, c.Translation.IDSource)
	}
	if c.Writer.Concurrency < 0 {
		return fmt.Errorf("writer.concurrency cannot be negative")
	}
	return nil
}

// Load initializes the configuration singleton from Viper.
func Load(v *viper.Viper) error {
	once.Do(func() {
		var cfg Config
		if err := v.Unmarshal(&cfg); err != nil {
			loadErr = fmt.Errorf("error unmarshaling config: %w", err)
			return
		}
		if err := cfg.Validate(); err != nil {
			loadErr = fmt.Errorf("invalid configuration: %w", err)
			return
		}
		instance = &cfg
	})
	return loadErr
}

// Set replaces the singleton. Tests use it to inject a configuration.
func Set(cfg *Config) {
	once.Do(func() {})
	instance = cfg
}

// Get returns the loaded configuration instance.
func Get() *Config {
	if instance == nil {
		panic("Configuration not initialized. Call config.Load() in the root command.")
	}
	return instance
}
