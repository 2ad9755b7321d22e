package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/ccoutinho/letterfy/internal/logger"
	"github.com/ccoutinho/letterfy/internal/spotify"
)

const (
	defaultListenAddr    = "localhost:8000"
	defaultLoggingLevel  = logger.LevelInfo
	defaultEnvironment   = logger.EnvProduction
	defaultSpotifyAPIURL = "https://api.spotify.com/v1"
)

type Config struct {
	// Default logging level
	LogLevel string

	// Address on which the letterfy service will be run
	ListenAddr string

	// Database to connect to
	DatabaseDSN string

	// Secret key
	// Some internal parts (like signing JWT tokens) uses symmetric encryption, so this key is used for that purpose
	SecretKey string

	// Spotify application credentials and endpoints
	SpotifyClientID     string
	SpotifyClientSecret string
	SpotifyAuthURL      string
	SpotifyAPIURL       string

	// Environment
	Environment string
}

func NewConfig() *Config {
	return &Config{
		LogLevel:       defaultLoggingLevel,
		ListenAddr:     defaultListenAddr,
		Environment:    defaultEnvironment,
		SpotifyAuthURL: spotify.DefaultAuthURL,
		SpotifyAPIURL:  defaultSpotifyAPIURL,
	}
}

// Load variable from '.env' file (should be located at working directory)
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))

	switch {
	case err == nil:
		c.LoadEnv(func(key string) string {
			return envMap[key]
		})
		return nil
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

func (c *Config) LoadEnv(getenv func(string) string) {
	// Set option to value if it not empty
	setString := func(o *string) func(value string) {
		return func(value string) {
			if value != "" {
				*o = value
			}
		}
	}

	envMap := map[string]func(string){
		"RUN_ADDRESS":           setString(&c.ListenAddr),
		"DATABASE_URI":          setString(&c.DatabaseDSN),
		"SECRET_KEY":            setString(&c.SecretKey),
		"LOG_LEVEL":             setString(&c.LogLevel),
		"SPOTIFY_CLIENT_ID":     setString(&c.SpotifyClientID),
		"SPOTIFY_CLIENT_SECRET": setString(&c.SpotifyClientSecret),
		"SPOTIFY_AUTH_URL":      setString(&c.SpotifyAuthURL),
		"SPOTIFY_API_URL":       setString(&c.SpotifyAPIURL),
		"ENVIRONMENT":           setString(&c.Environment),
	}

	for key, parseFn := range envMap {
		parseFn(getenv(key))
	}
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("letterfy", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string")
	fs.StringVarP(&c.SecretKey, "secret-key", "s", c.SecretKey, "Secret key")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.Environment, "environment", "e", c.Environment, "Environment (dev, prod)")
	fs.StringVar(&c.SpotifyClientID, "spotify-client-id", c.SpotifyClientID, "Spotify application client id")
	fs.StringVar(&c.SpotifyClientSecret, "spotify-client-secret", c.SpotifyClientSecret, "Spotify application client secret")
	fs.StringVar(&c.SpotifyAuthURL, "spotify-auth-url", c.SpotifyAuthURL, "Spotify token endpoint")
	fs.StringVar(&c.SpotifyAPIURL, "spotify-api-url", c.SpotifyAPIURL, "Spotify API base URL")

	return fs.Parse(args)
}
