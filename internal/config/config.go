// Package config is the flag-driven Config the ambient stack calls for,
// mirroring librescoot-pm-service/internal/config: a New() with sane
// defaults and a Parse() that registers flags over those defaults.
package config

import (
	"flag"
	"fmt"

	"github.com/librescoot/hmi-state-controller/internal/hmistate"
	"github.com/librescoot/hmi-state-controller/internal/logger"
)

type Config struct {
	RedisHost string
	RedisPort int

	DefaultHMILevel     string
	AttenuatedSupported bool

	MetricsAddr string
	LogLevel    string
}

func New() *Config {
	return &Config{
		RedisHost:           "localhost",
		RedisPort:           6379,
		DefaultHMILevel:     "NONE",
		AttenuatedSupported: true,
		MetricsAddr:         ":9107",
		LogLevel:            "info",
	}
}

func (c *Config) Parse() {
	flag.StringVar(&c.RedisHost, "redis-host", c.RedisHost, "Redis host")
	flag.IntVar(&c.RedisPort, "redis-port", c.RedisPort, "Redis port")

	flag.StringVar(&c.DefaultHMILevel, "default-hmi-level", c.DefaultHMILevel,
		"Default HMI level assigned to newly registered applications (FULL, LIMITED, BACKGROUND, NONE)")
	flag.BoolVar(&c.AttenuatedSupported, "attenuated-supported", c.AttenuatedSupported,
		"Whether the platform supports ducking (ATTENUATED) audio during TTS playback")

	flag.StringVar(&c.MetricsAddr, "metrics-addr", c.MetricsAddr, "Address to serve Prometheus metrics on")
	flag.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level (none, error, warning, info, debug)")

	flag.Parse()
}

// ParsedDefaultLevel resolves DefaultHMILevel to an hmistate.HmiLevel,
// falling back to NONE for anything unrecognized.
func (c *Config) ParsedDefaultLevel() hmistate.HmiLevel {
	switch c.DefaultHMILevel {
	case "FULL":
		return hmistate.LevelFull
	case "LIMITED":
		return hmistate.LevelLimited
	case "BACKGROUND":
		return hmistate.LevelBackground
	case "NONE":
		return hmistate.LevelNone
	default:
		return hmistate.LevelNone
	}
}

// ParsedLogLevel resolves LogLevel to a logger.LogLevel, falling back to
// Info for anything unrecognized.
func (c *Config) ParsedLogLevel() logger.LogLevel {
	switch c.LogLevel {
	case "none":
		return logger.LogLevelNone
	case "error":
		return logger.LogLevelError
	case "warning":
		return logger.LogLevelWarning
	case "info":
		return logger.LogLevelInfo
	case "debug":
		return logger.LogLevelDebug
	default:
		return logger.LogLevelInfo
	}
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}
