// Package config loads application configuration from TOML files,
// with a multi-path lookup so binaries can run from the repo root or a
// cmd subdirectory.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// MainConfig holds the basic server identity and listen address. When
// Https is on, the cert pair is served directly and plain requests are
// redirected.
type MainConfig struct {
	AppName  string `toml:"appName"`
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Https    bool   `toml:"https"`
	CertFile string `toml:"certFile"`
	KeyFile  string `toml:"keyFile"`
}

// MysqlConfig holds the document store connection settings.
type MysqlConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	DatabaseName string `toml:"databaseName"`
}

// RedisConfig holds the cache/presence store connection settings.
type RedisConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Password string `toml:"password"`
	Db       int    `toml:"db"`
}

// LogConfig configures zap output and lumberjack rotation.
type LogConfig struct {
	LogPath    string `toml:"logPath"`
	FileName   string `toml:"fileName"`
	MaxSize    int    `toml:"maxSize"`
	MaxBackups int    `toml:"maxBackups"`
	MaxAge     int    `toml:"maxAge"`
	Level      string `toml:"level"`
}

// KafkaConfig selects the broker mode and Kafka connection settings.
// MessageMode is "channel" (in-process) or "kafka".
type KafkaConfig struct {
	MessageMode string `toml:"messageMode"`
	HostPort    string `toml:"hostPort"`
	ChatTopic   string `toml:"chatTopic"`
	Partition   int    `toml:"partition"`
	Timeout     int    `toml:"timeout"` // seconds
}

// JWTConfig configures token signing.
type JWTConfig struct {
	Secret             string `toml:"secret"`
	AccessTokenExpiry  int    `toml:"accessTokenExpiry"`  // minutes
	RefreshTokenExpiry int    `toml:"refreshTokenExpiry"` // hours
}

// SnowflakeConfig configures the message id generator node.
type SnowflakeConfig struct {
	MachineID int64 `toml:"machineId"`
}

// Config aggregates all sections.
type Config struct {
	MainConfig      `toml:"mainConfig"`
	MysqlConfig     `toml:"mysqlConfig"`
	RedisConfig     `toml:"redisConfig"`
	LogConfig       `toml:"logConfig"`
	KafkaConfig     `toml:"kafkaConfig"`
	JWTConfig       `toml:"jwtConfig"`
	SnowflakeConfig `toml:"snowflakeConfig"`
}

var config *Config

// LoadConfig reads the first config file found among the candidate
// paths.
func LoadConfig() error {
	config = new(Config)
	paths := []string{
		"configs/config_local.toml",
		"configs/config.toml",
		"../../configs/config_local.toml",
		"../../configs/config.toml",
	}
	for _, path := range paths {
		if _, err := toml.DecodeFile(path, config); err == nil {
			return nil
		}
	}
	return fmt.Errorf("no config file found in %v", paths)
}

// GetConfig returns the loaded configuration, loading it on first use.
func GetConfig() *Config {
	if config == nil {
		if err := LoadConfig(); err != nil {
			panic(err)
		}
	}
	return config
}
