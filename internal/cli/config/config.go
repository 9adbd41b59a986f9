package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/conduit-lang/objconv/internal/converter"
)

// Config represents the objconv configuration
type Config struct {
	Serializer SerializerConfig `mapstructure:"serializer"`
	Schema     SchemaConfig     `mapstructure:"schema"`
	Log        LogConfig        `mapstructure:"log"`
}

// SerializerConfig represents the converter settings
type SerializerConfig struct {
	DiscriminatorKey     string `mapstructure:"discriminator_key"`
	Polymorphing         string `mapstructure:"polymorphing"`
	Strict               bool   `mapstructure:"strict"`
	RequireAllProperties bool   `mapstructure:"require_all_properties"`
	AllowNull            bool   `mapstructure:"allow_null"`
	WrapperCacheSize     int    `mapstructure:"wrapper_cache_size"`
}

// SchemaConfig represents the type definition settings
type SchemaConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// flagKeys maps command line flags onto configuration keys
var flagKeys = map[string]string{
	"schema":       "schema.path",
	"strict":       "serializer.strict",
	"polymorphing": "serializer.polymorphing",
}

// Load loads the configuration from path, or from objconv.yml in the
// current directory or the nearest parent holding one. Environment
// variables prefixed with OBJCONV_ and any flags set in flags override
// the file.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("serializer.discriminator_key", converter.DefaultDiscriminatorKey)
	v.SetDefault("serializer.polymorphing", converter.PolymorphingEnabled.String())
	v.SetDefault("serializer.strict", false)
	v.SetDefault("serializer.require_all_properties", false)
	v.SetDefault("serializer.allow_null", false)
	v.SetDefault("serializer.wrapper_cache_size", 256)
	v.SetDefault("schema.path", "types.yml")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("objconv")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if root, err := FindProjectRoot(); err == nil {
			v.AddConfigPath(root)
		}
	}

	// Enable environment variable support
	v.SetEnvPrefix("OBJCONV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
				}
			}
		}
	}

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// FindProjectRoot walks up from the working directory to the nearest
// directory holding objconv.yml or objconv.yaml.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "objconv.yml")); err == nil {
			return dir, nil
		}
		if _, err := os.Stat(filepath.Join(dir, "objconv.yaml")); err == nil {
			return dir, nil
		}

		// Move up one directory
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no objconv.yml found")
		}
		dir = parent
	}
}

// ConverterConfig returns the object converter settings
func (c *Config) ConverterConfig() (converter.Config, error) {
	mode, err := converter.ParsePolymorphing(c.Serializer.Polymorphing)
	if err != nil {
		return converter.Config{}, err
	}
	return converter.Config{
		DiscriminatorKey:     c.Serializer.DiscriminatorKey,
		Polymorphing:         mode,
		Strict:               c.Serializer.Strict,
		RequireAllProperties: c.Serializer.RequireAllProperties,
		AllowNull:            c.Serializer.AllowNull,
		WrapperCacheSize:     c.Serializer.WrapperCacheSize,
	}, nil
}

// NewLogger builds a zap logger for the configured level. Logs go to
// stderr so command output stays clean.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}

	var zc zap.Config
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}

	return zc.Build()
}

func parseLevel(s string) (zapcore.Level, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("log.level must be one of debug, info, warn, error, got: %s", s)
	}
	return level, nil
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if _, err := converter.ParsePolymorphing(cfg.Serializer.Polymorphing); err != nil {
		return fmt.Errorf("serializer.polymorphing: %w", err)
	}
	if strings.TrimSpace(cfg.Serializer.DiscriminatorKey) == "" {
		return fmt.Errorf("serializer.discriminator_key must not be empty")
	}
	if cfg.Serializer.WrapperCacheSize < 0 {
		return fmt.Errorf("serializer.wrapper_cache_size must not be negative, got: %d", cfg.Serializer.WrapperCacheSize)
	}
	if _, err := parseLevel(cfg.Log.Level); err != nil {
		return err
	}
	return nil
}
