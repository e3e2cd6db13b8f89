package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pacsforge/siteserver/pkg/dbpool"
	"github.com/pacsforge/siteserver/pkg/mediacache"
	"github.com/pacsforge/siteserver/pkg/session"
)

var configFile string

// userConfig is one bootstrap login the server accepts. Larger
// deployments front the server with an identity provider; these entries
// cover standalone installations.
type userConfig struct {
	Login         string `mapstructure:"login"`
	Password      string `mapstructure:"password"`
	UserID        string `mapstructure:"user_id"`
	SiteID        string `mapstructure:"site_id"`
	Superuser     bool   `mapstructure:"superuser"`
	PreferenceSet string `mapstructure:"preference_set"`
}

type serverConfig struct {
	Server struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"server"`

	Database struct {
		Dialect string `mapstructure:"dialect"` // postgres, mysql, sqlite
		DSN     string `mapstructure:"dsn"`
	} `mapstructure:"database"`

	Pool struct {
		MaxSize int `mapstructure:"max_size"`
	} `mapstructure:"pool"`

	Session struct {
		TimeoutMinutes  int    `mapstructure:"timeout_minutes"`
		CleanupMinutes  int    `mapstructure:"cleanup_minutes"`
		TokenTTLMinutes int    `mapstructure:"token_ttl_minutes"`
		TokenSecret     string `mapstructure:"token_secret"`
	} `mapstructure:"session"`

	Media struct {
		CheckSeconds int `mapstructure:"check_seconds"`
	} `mapstructure:"media"`

	Log struct {
		Level  string `mapstructure:"level"`  // debug, info, warn, error
		Format string `mapstructure:"format"` // text, json
	} `mapstructure:"log"`

	Users []userConfig `mapstructure:"users"`
}

// loadConfig reads the config file (when present) and the SITESERVER_*
// environment, applying defaults for everything unset.
func loadConfig() (*serverConfig, error) {
	v := viper.New()

	// Defaults come from the resource packages themselves, so the binary
	// and direct package users cannot drift apart.
	poolCfg := dbpool.DefaultConfig()
	sessCfg := session.DefaultConfig()
	mediaCfg := mediacache.DefaultConfig()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("database.dialect", "postgres")
	v.SetDefault("pool.max_size", poolCfg.MaxSize)
	v.SetDefault("session.timeout_minutes", int(sessCfg.Timeout/time.Minute))
	v.SetDefault("session.cleanup_minutes", int(sessCfg.CleanupInterval/time.Minute))
	v.SetDefault("session.token_ttl_minutes", int(sessCfg.TokenTTL/time.Minute))
	v.SetDefault("media.check_seconds", int(mediaCfg.CheckInterval/time.Second))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetEnvPrefix("SITESERVER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("siteserver")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/siteserver")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg serverConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Database.DSN == "" {
		return nil, fmt.Errorf("database.dsn is required")
	}
	if cfg.Session.TokenSecret == "" {
		return nil, fmt.Errorf("session.token_secret is required")
	}
	return &cfg, nil
}
