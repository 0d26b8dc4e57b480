package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/shadowinterview/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     HTTP bind address (e.g., ":5000")
//	-m string     gRPC health bind address (e.g., ":50051")
//	-d string     PostgreSQL DSN
//	-s string     JWT HMAC secret key
//	-t int        access token validity, minutes
//	-r int        refresh token validity, minutes
//	-o string     recordings directory
//	-k duration   recordings retention (e.g., "720h"; 0 keeps files forever)
//	-i string     PulseAudio source name
//	-l string     log level
//	-x bool       open admin registration (use -x=false to disable)
//	-u string     S3 root user
//	-p string     S3 root password
//	-b string     S3 bucket name
//	-g string     S3 region
//	-e string     S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// API keys are deliberately not accepted on the command line.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-m", "-d", "-s", "-t", "-r", "-o", "-k", "-i", "-l", "-x", "-u", "-p", "-b", "-g", "-e",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run the HTTP API")
	fs.StringVar(&config.EndpointAddrGRPC, "m", config.EndpointAddrGRPC, "address and port to run the gRPC health service")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	refreshTokenValidityDuration := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh_token_validity_duration (in minutes)")

	fs.StringVar(&config.RecordingsDir, "o", config.RecordingsDir, "recordings directory")
	fs.DurationVar(&config.RecordingsRetention, "k", config.RecordingsRetention, "recordings retention")
	fs.StringVar(&config.AudioSource, "i", config.AudioSource, "PulseAudio source name")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.BoolVar(&config.OpenAdminRegistration, "x", config.OpenAdminRegistration, "allow role=admin on registration")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidityDuration) * time.Minute
}
