package api

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Bind      string `yaml:"bind" env:"DEPOT_BIND"`
		RateLimit int    `yaml:"rateLimit" env:"DEPOT_RATE_LIMIT"`
	} `yaml:"server"`

	Auth struct {
		Token string `yaml:"token" env:"DEPOT_AUTH_TOKEN"`
	} `yaml:"auth"`

	Storage StorageConfig `yaml:"storage"`

	Log struct {
		Level  string `yaml:"level" env:"DEPOT_LOG_LEVEL"`
		Pretty bool   `yaml:"pretty" env:"DEPOT_LOG_PRETTY"`
	} `yaml:"log"`

	Purge  PurgeConfig  `yaml:"purge"`
	Backup BackupConfig `yaml:"backup"`
}

type StorageConfig struct {
	Location       string `yaml:"location" env:"DEPOT_STORAGE_LOCATION"`
	MaxUploadBytes int64  `yaml:"maxUploadBytes" env:"DEPOT_MAX_UPLOAD_BYTES"`
	PurgeOnStart   bool   `yaml:"purgeOnStart" env:"DEPOT_PURGE_ON_START"`
}

type PurgeConfig struct {
	Enabled     bool   `yaml:"enabled" env:"DEPOT_PURGE_ENABLED"`
	Daily       string `yaml:"daily" env:"DEPOT_PURGE_DAILY"`
	BackupFirst bool   `yaml:"backupFirst" env:"DEPOT_PURGE_BACKUP_FIRST"`
}

type BackupConfig struct {
	Enabled bool     `yaml:"enabled" env:"DEPOT_BACKUP_ENABLED"`
	S3      S3Config `yaml:"s3"`
}

type S3Config struct {
	Endpoint       string `yaml:"endpoint" env:"DEPOT_S3_ENDPOINT"`
	Region         string `yaml:"region" env:"DEPOT_S3_REGION"`
	Bucket         string `yaml:"bucket" env:"DEPOT_S3_BUCKET"`
	AccessKey      string `yaml:"accessKey" env:"DEPOT_S3_ACCESS_KEY"`
	SecretKey      string `yaml:"secretKey" env:"DEPOT_S3_SECRET_KEY"`
	Prefix         string `yaml:"prefix" env:"DEPOT_S3_PREFIX"`
	ForcePathStyle bool   `yaml:"forcePathStyle" env:"DEPOT_S3_FORCE_PATH_STYLE"`
}

// LoadConfig reads the YAML file at path, if any, then applies DEPOT_*
// environment overrides and defaults.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.Server.Bind == "" {
		cfg.Server.Bind = ":8080"
	}
	if cfg.Server.RateLimit <= 0 {
		cfg.Server.RateLimit = 100
	}
	if cfg.Storage.Location == "" {
		cfg.Storage.Location = "upload-dir"
	}
	if cfg.Storage.MaxUploadBytes <= 0 {
		cfg.Storage.MaxUploadBytes = 10 << 20
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Purge.Daily == "" {
		cfg.Purge.Daily = "03:30"
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Backup.Enabled && (c.Backup.S3.Bucket == "" || c.Backup.S3.Region == "") {
		return errors.New("backup enabled but s3 bucket or region missing")
	}
	if c.Purge.BackupFirst && !c.Backup.Enabled {
		return errors.New("purge.backupFirst requires backup.enabled")
	}
	return nil
}
