// Package config loads okc settings from ~/.okc/config.toml and OKC_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/okc-cli/internal/domain"
	"github.com/bnema/okc-cli/internal/logging"
	"github.com/bnema/okc-cli/internal/protocol"
	"github.com/spf13/viper"
)

const (
	EnvPrefix  = "OKC"
	configDir  = ".okc"
	configName = "config"
	configType = "toml"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Accounts AccountsConfig `mapstructure:"accounts"`
	Secrets  SecretsConfig  `mapstructure:"secrets"`
	Avatars  AvatarsConfig  `mapstructure:"avatars"`
	Server   ServerConfig   `mapstructure:"server"`
	Poll     PollConfig     `mapstructure:"poll"`
	Send     SendConfig     `mapstructure:"send"`
	Log      LogConfig      `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type AccountsConfig struct {
	Path string `mapstructure:"path"`
}

type SecretsConfig struct {
	Dir string `mapstructure:"dir"`
}

type AvatarsConfig struct {
	Dir string `mapstructure:"dir"`
}

type ServerConfig struct {
	Scheme     string `mapstructure:"scheme"`
	Host       string `mapstructure:"host"`
	AvatarHost string `mapstructure:"avatar_host"`
	MailboxURL string `mapstructure:"mailbox_url"`
}

// BaseURL is where instant-event requests are sent.
func (s ServerConfig) BaseURL() string {
	return s.Scheme + "://" + s.Host
}

type PollConfig struct {
	MinInterval time.Duration `mapstructure:"min_interval"`
	// Timeout bounds a single long poll.
	Timeout time.Duration `mapstructure:"timeout"`
}

type SendConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	RetryBase   time.Duration `mapstructure:"retry_base"`
	RetryMax    time.Duration `mapstructure:"retry_max"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	// Addr enables the /metrics listener of okc sync when set.
	Addr string `mapstructure:"addr"`
}

// Load registers defaults on v, reads the config file and the environment,
// and returns the validated result. A config file set on v beforehand
// with SetConfigFile must exist; the default one is optional.
func Load(v *viper.Viper) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve home directory: %w", err)
	}
	setDefaults(v, filepath.Join(homeDir, configDir))

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := v.ConfigFileUsed() != ""
	if !explicit {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath(filepath.Join(homeDir, configDir))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault("accounts.path", filepath.Join(dir, "accounts.toml"))
	v.SetDefault("secrets.dir", filepath.Join(dir, "secrets"))
	v.SetDefault("avatars.dir", filepath.Join(dir, "avatars"))
	v.SetDefault("server.scheme", "https")
	v.SetDefault("server.host", "www.okcupid.com")
	v.SetDefault("server.avatar_host", domain.DefaultAvatarHost)
	v.SetDefault("server.mailbox_url", protocol.MailboxURL)
	v.SetDefault("poll.min_interval", 3*time.Second)
	v.SetDefault("poll.timeout", 65*time.Second)
	v.SetDefault("send.max_attempts", 5)
	v.SetDefault("send.retry_base", time.Second)
	v.SetDefault("send.retry_max", 30*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", string(logging.FormatAuto))
	v.SetDefault("metrics.addr", "")
}

func (c Config) Validate() error {
	var errs []error

	switch c.Server.Scheme {
	case "http", "https":
	default:
		errs = append(errs, fmt.Errorf("server.scheme must be http or https, got %q", c.Server.Scheme))
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		errs = append(errs, errors.New("server.host is empty"))
	}
	if c.Poll.MinInterval <= 0 {
		errs = append(errs, errors.New("poll.min_interval must be positive"))
	}
	if c.Poll.Timeout < c.Poll.MinInterval {
		errs = append(errs, errors.New("poll.timeout must not be shorter than poll.min_interval"))
	}
	if c.Send.MaxAttempts < 1 {
		errs = append(errs, errors.New("send.max_attempts must be at least 1"))
	}
	if c.Send.RetryBase < 0 {
		errs = append(errs, errors.New("send.retry_base must not be negative"))
	}
	if c.Send.RetryMax < c.Send.RetryBase {
		errs = append(errs, errors.New("send.retry_max must not be shorter than send.retry_base"))
	}
	switch logging.Format(c.Log.Format) {
	case logging.FormatAuto, logging.FormatPretty, logging.FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("log.format must be auto, pretty or json, got %q", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
