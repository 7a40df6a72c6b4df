package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/conduit-lang/records/pkg/record"
)

// EnvPrefix prefixes the environment variables that override config keys,
// e.g. RECORDS_POLICY_FROZEN=true
const EnvPrefix = "RECORDS"

// Config represents the records CLI configuration
type Config struct {
	Policy       PolicyConfig `mapstructure:"policy"`
	Log          LogConfig    `mapstructure:"log"`
	UI           UIConfig     `mapstructure:"ui"`
	Declarations []string     `mapstructure:"declarations"`
}

// PolicyConfig is the default synthesis policy for declarations that do not
// set their own options
type PolicyConfig struct {
	Init   bool   `mapstructure:"init"`
	Repr   bool   `mapstructure:"repr"`
	Eq     bool   `mapstructure:"eq"`
	Order  bool   `mapstructure:"order"`
	Frozen bool   `mapstructure:"frozen"`
	Hash   string `mapstructure:"hash" validate:"oneof=derive suppress always"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
}

// UIConfig represents terminal output configuration
type UIConfig struct {
	NoColor bool `mapstructure:"no_color"`
}

// Load loads the configuration. If path is empty it looks for records.yml
// or records.yaml in the current directory and falls back to the defaults
// when there is none.
func Load(path string) (*Config, error) {
	v := viper.New()

	defaults := record.DefaultOptions()
	v.SetDefault("policy.init", defaults.Init)
	v.SetDefault("policy.repr", defaults.Repr)
	v.SetDefault("policy.eq", defaults.Eq)
	v.SetDefault("policy.order", defaults.Order)
	v.SetDefault("policy.frozen", defaults.Frozen)
	v.SetDefault("policy.hash", defaults.Hash.String())
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("ui.no_color", false)
	v.SetDefault("declarations", []string{})

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("records")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// FindConfigFile returns the first records.yml or records.yaml found in dir
// or one of its parents
func FindConfigFile(dir string) (string, error) {
	for {
		for _, name := range []string{"records.yml", "records.yaml"} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no records.yml found in %s or any parent directory", dir)
		}
		dir = parent
	}
}

// Options returns the policy as engine options
func (p PolicyConfig) Options() (record.Options, error) {
	hash, err := record.ParseHashMode(p.Hash)
	if err != nil {
		return record.Options{}, err
	}
	return record.Options{
		Init:   p.Init,
		Repr:   p.Repr,
		Eq:     p.Eq,
		Order:  p.Order,
		Hash:   hash,
		Frozen: p.Frozen,
	}, nil
}

// Logger builds the zap logger described by the config
func (l LogConfig) Logger() (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", l.Level, err)
	}

	cfg := zap.NewDevelopmentConfig()
	if l.Format == "json" {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		messages := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			messages = append(messages, fmt.Sprintf("%s must be one of [%s], got %q",
				configKey(fe.Namespace()), fe.Param(), fe.Value()))
		}
		return fmt.Errorf("invalid configuration: %s", strings.Join(messages, "; "))
	}
	return nil
}

// configKey turns a validator namespace such as Config.Log.Level into the
// config key log.level
func configKey(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	return strings.ToLower(strings.Join(parts, "."))
}
