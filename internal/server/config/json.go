package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/snippets/internal/flagx"
	"github.com/dmitrijs2005/snippets/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration so both "90s" and integer nanoseconds are accepted.
type JsonConfig struct {
	HTTPAddr                    string         `json:"http_addr"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	PasswordHashAlgorithm       string         `json:"password_hash_algorithm"`
	BcryptCost                  int            `json:"bcrypt_cost"`
	AuthRateLimit               float64        `json:"auth_rate_limit"`
	AuthRateBurst               int            `json:"auth_rate_burst"`
	TrustedProxies              []string       `json:"trusted_proxies"`
	ShutdownTimeout             timex.Duration `json:"shutdown_timeout"`
	LogLevel                    string         `json:"log_level"`
	LogFormat                   string         `json:"log_format"`
}

// parseJson loads the file named by -c or -config in args, if any. Keys
// missing from the file keep their current values.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFile(args)

	// nothing to load
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	// seed with the current values so absent keys are left alone
	c := &JsonConfig{
		HTTPAddr:                    config.HTTPAddr,
		DatabaseDSN:                 config.DatabaseDSN,
		SecretKey:                   config.SecretKey,
		AccessTokenValidityDuration: timex.Duration{Duration: config.AccessTokenValidityDuration},
		PasswordHashAlgorithm:       config.PasswordHashAlgorithm,
		BcryptCost:                  config.BcryptCost,
		AuthRateLimit:               config.AuthRateLimit,
		AuthRateBurst:               config.AuthRateBurst,
		TrustedProxies:              config.TrustedProxies,
		ShutdownTimeout:             timex.Duration{Duration: config.ShutdownTimeout},
		LogLevel:                    config.LogLevel,
		LogFormat:                   config.LogFormat,
	}

	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	config.HTTPAddr = c.HTTPAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	config.PasswordHashAlgorithm = c.PasswordHashAlgorithm
	config.BcryptCost = c.BcryptCost
	config.AuthRateLimit = c.AuthRateLimit
	config.AuthRateBurst = c.AuthRateBurst
	config.TrustedProxies = c.TrustedProxies
	config.ShutdownTimeout = c.ShutdownTimeout.Duration
	config.LogLevel = c.LogLevel
	config.LogFormat = c.LogFormat

	return nil
}
