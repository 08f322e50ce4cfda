// Package config handles loading and parsing application configuration.
// Values come from an optional YAML file (CONFIG_PATH or --config) with
// environment-variable overrides; every field has a working default so the
// app boots with no configuration at all.
package config

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root configuration structure.
type Config struct {
	// Env controls log format and verbosity. Valid values: "dev", "prod".
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	// StoragePath is the filesystem path to the SQLite .db file.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-default:"./alunos.db"`

	// HTTPAddr is the TCP address the server listens on.
	HTTPAddr string `yaml:"http_addr" env:"HTTP_ADDR" env-default:":8080"`

	// SessionSecret signs the session cookie. The default mirrors the
	// fixed application secret of the original deployment; override it
	// in any real environment.
	SessionSecret string `yaml:"session_secret" env:"SESSION_SECRET" env-default:"Ehqb_E._Uhlv_LL"`

	// SessionTTL bounds how long an authenticated session stays valid.
	SessionTTL time.Duration `yaml:"session_ttl" env:"SESSION_TTL" env-default:"24h"`

	// AdminUsername/AdminPassword describe the bootstrap admin account
	// created at startup when it does not exist yet.
	AdminUsername string `yaml:"admin_username" env:"ADMIN_USERNAME" env-default:"bybenb"`
	AdminPassword string `yaml:"admin_password" env:"ADMIN_PASSWORD" env-default:"raizoku"`
}

// MustLoad reads, validates, and returns the application config.
// It terminates the process on malformed input; if it returns, the
// config is usable.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		flagPath := flag.String("config", "", "path to the configuration YAML file")
		flag.Parse()
		configPath = *flagPath
	}

	var cfg Config
	if configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			log.Fatalf("config file does not exist: %s", configPath)
		}
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			log.Fatalf("cannot read config %s: %s", configPath, err)
		}
		return &cfg
	}

	// No file given: defaults plus environment overrides.
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("cannot read config from environment: %s", err)
	}
	return &cfg
}
