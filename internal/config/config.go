package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	DefaultAPIURL         = "https://forkify-api.herokuapp.com/api/v2/recipes"
	DefaultTimeout        = 10 * time.Second
	DefaultResultsPerPage = 10
	DefaultPort           = "8080"

	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config holds the configuration for the application.
type Config struct {
	APIURL         string
	APIKey         string
	Timeout        time.Duration
	ResultsPerPage int

	// Bookmark persistence
	BookmarkBackend string
	BookmarkPath    string
	RedisAddr       string
	RedisKey        string

	LogLevel string
	Port     string
}

// NewFromEnv creates a new Config object from environment variables and the
// optional $HOME/.recipe-finder.yaml file.
func NewFromEnv() (*Config, error) {
	return Load("")
}

// Load reads configuration from cfgFile (or the default file in $HOME when
// empty), with environment variables taking precedence.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("forkify_api_url", DefaultAPIURL)
	v.SetDefault("forkify_api_key", "")
	v.SetDefault("timeout_sec", int(DefaultTimeout/time.Second))
	v.SetDefault("res_per_page", DefaultResultsPerPage)
	v.SetDefault("bookmark_backend", BackendFile)
	v.SetDefault("bookmark_path", "")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_key", "bookmarks")
	v.SetDefault("log_level", "info")
	v.SetDefault("port", DefaultPort)

	home, err := homedir.Dir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %w", err)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(home)
		v.SetConfigName(".recipe-finder")
		v.SetConfigType("yaml")
	}

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	apiKey := v.GetString("forkify_api_key")
	if apiKey == "" {
		return nil, fmt.Errorf("FORKIFY_API_KEY environment variable not set")
	}

	perPage := v.GetInt("res_per_page")
	if perPage <= 0 {
		return nil, fmt.Errorf("RES_PER_PAGE must be positive, got %d", perPage)
	}

	timeoutSec := v.GetInt("timeout_sec")
	if timeoutSec <= 0 {
		return nil, fmt.Errorf("TIMEOUT_SEC must be positive, got %d", timeoutSec)
	}

	backend := v.GetString("bookmark_backend")
	switch backend {
	case BackendFile, BackendSQLite, BackendRedis:
	default:
		return nil, fmt.Errorf("unknown BOOKMARK_BACKEND %q", backend)
	}

	bookmarkPath := v.GetString("bookmark_path")
	if bookmarkPath == "" {
		bookmarkPath = defaultBookmarkPath(home, backend)
	}

	return &Config{
		APIURL:          v.GetString("forkify_api_url"),
		APIKey:          apiKey,
		Timeout:         time.Duration(timeoutSec) * time.Second,
		ResultsPerPage:  perPage,
		BookmarkBackend: backend,
		BookmarkPath:    bookmarkPath,
		RedisAddr:       v.GetString("redis_addr"),
		RedisKey:        v.GetString("redis_key"),
		LogLevel:        v.GetString("log_level"),
		Port:            v.GetString("port"),
	}, nil
}

func defaultBookmarkPath(home, backend string) string {
	dir := filepath.Join(home, ".recipe-finder")
	if backend == BackendSQLite {
		return filepath.Join(dir, "bookmarks.db")
	}
	return filepath.Join(dir, "bookmarks.json")
}
