// Package config loads the service configuration from an optional YAML file and
// WAYWARD_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"go.uber.org/fx"

	"github.com/xtding233/wayward-coins/internal/cart"
	"github.com/xtding233/wayward-coins/internal/catalog"
	"github.com/xtding233/wayward-coins/internal/log"
	"github.com/xtding233/wayward-coins/internal/rpc"
	"github.com/xtding233/wayward-coins/internal/server"
	"github.com/xtding233/wayward-coins/internal/store"
)

const EnvPrefix = "WAYWARD"

type Config struct {
	fx.Out `yaml:"-" json:"-"`

	Server  server.Config      `conf:"server" yaml:"server" json:"server"`
	GRPC    rpc.Config         `conf:"grpc" yaml:"grpc" json:"grpc"`
	Log     log.Config         `conf:"log" yaml:"log" json:"log"`
	Catalog catalog.Config     `conf:"catalog" yaml:"catalog" json:"catalog"`
	Session cart.SessionConfig `conf:"session" yaml:"session" json:"session"`
	Store   store.Config       `conf:"store" yaml:"store" json:"store"`
}

// Load reads config.yaml from the working directory, ./conf or /etc/wayward-coins. A
// missing file is not an error.
func Load() (Config, error) {
	return load("")
}

// LoadFile reads the configuration from path.
func LoadFile(path string) (Config, error) {
	return load(path)
}

func load(path string) (Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./conf")
		v.AddConfigPath("/etc/wayward-coins/")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "conf"
	})
	if err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.name", "wayward-coins")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.request_timeout", 30*time.Second)
	v.SetDefault("server.debug", false)
	v.SetDefault("server.cors.enabled", false)
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.cors.allowed_methods", []string{"GET", "POST", "DELETE", "OPTIONS"})
	v.SetDefault("server.cors.allowed_headers", []string{"Content-Type"})
	v.SetDefault("server.cors.allow_credentials", true)
	v.SetDefault("server.cors.max_age", 12*time.Hour)

	v.SetDefault("grpc.enabled", true)
	v.SetDefault("grpc.host", "0.0.0.0")
	v.SetDefault("grpc.port", 8091)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("catalog.file", "")
	v.SetDefault("catalog.reload_interval", 5*time.Second)

	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("session.cleanup_interval", 10*time.Minute)
	v.SetDefault("session.cookie_name", server.DefaultSessionCookie)

	v.SetDefault("store.mode", store.ModeMemory)
	v.SetDefault("store.expiration", 24*time.Hour)
	v.SetDefault("store.redis.url", "")
	v.SetDefault("store.redis.addr", "")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
}
