package config

import (
	"flag"
	"io"
	"strings"

	"github.com/dmitrijs2005/snippets/internal/flagx"
)

// Flags recognised by parseFlags. Anything else in args is ignored so
// subcommand arguments can share the same list.
var flagNames = []string{
	"-a", "-d", "-s", "-t", "-alg", "-cost", "-rate", "-burst", "-trusted-proxies", "-shutdown", "-log-level", "-log-format",
}

// parseFlags overlays Config fields from command-line flags:
//
//	-a string         HTTP bind address (e.g. ":8888")
//	-d string         PostgreSQL DSN
//	-s string         token signing secret
//	-t duration       access token validity (0 disables expiry)
//	-alg string       password hash algorithm for new hashes (bcrypt, argon2id)
//	-cost int         bcrypt cost
//	-rate float       auth requests per second per client
//	-burst int        auth burst per client
//	-trusted-proxies  comma-separated IPs/CIDRs allowed to set X-Forwarded-For
//	-shutdown dur     graceful shutdown timeout
//	-log-level string debug, info, warn or error
//	-log-format str   json or text
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, flagNames)

	fs := flag.NewFlagSet("snippets", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "token signing secret")
	fs.DurationVar(&config.AccessTokenValidityDuration, "t", config.AccessTokenValidityDuration, "access token validity")
	fs.StringVar(&config.PasswordHashAlgorithm, "alg", config.PasswordHashAlgorithm, "password hash algorithm")
	fs.IntVar(&config.BcryptCost, "cost", config.BcryptCost, "bcrypt cost")
	fs.Float64Var(&config.AuthRateLimit, "rate", config.AuthRateLimit, "auth requests per second per client")
	fs.IntVar(&config.AuthRateBurst, "burst", config.AuthRateBurst, "auth burst per client")
	fs.Func("trusted-proxies", "comma-separated trusted proxy IPs or CIDRs", func(v string) error {
		config.TrustedProxies = strings.Split(v, ",")
		return nil
	})
	fs.DurationVar(&config.ShutdownTimeout, "shutdown", config.ShutdownTimeout, "graceful shutdown timeout")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")
	fs.StringVar(&config.LogFormat, "log-format", config.LogFormat, "log format")

	return fs.Parse(args)
}
