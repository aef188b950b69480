package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-m string   JWT signing method ("HS256" or "HS512")
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-q int      refresh threshold, minutes
//	-l int      session limit per user
//	-k bool     mark credential cookies Secure
//	-o string   cookie domain
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - Duration flags are accepted as integers in minutes and then converted
//     to time.Duration values.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-m", "-t", "-r", "-q", "-l", "-k", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.SigningMethod, "m", config.SigningMethod, "JWT signing method")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	refreshTokenValidityDuration := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh_token_validity_duration (in minutes)")
	refreshThreshold := fs.Int("q", int(config.RefreshThreshold.Minutes()), "refresh_threshold (in minutes)")

	fs.IntVar(&config.SessionLimit, "l", config.SessionLimit, "max concurrent sessions per user")
	fs.BoolVar(&config.CookieSecure, "k", config.CookieSecure, "mark credential cookies Secure")
	fs.StringVar(&config.CookieDomain, "o", config.CookieDomain, "cookie domain")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidityDuration) * time.Minute
	config.RefreshThreshold = time.Duration(*refreshThreshold) * time.Minute
}
