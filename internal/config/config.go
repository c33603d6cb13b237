package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all client configuration
type Config struct {
	// Backend settings
	APIBaseURL    string
	Timeout       time.Duration
	RetryAttempts int
	RetryDelay    time.Duration

	// Session settings
	SearchDebounce    time.Duration
	DownloadDir       string
	UploadConcurrency int
	FilterCacheSize   int
	FilterCacheTTL    time.Duration

	// Commands
	WatchSchedule  string
	MetricsAddress string
	Debug          bool
}

type LoadOptions struct {
	// ConfigFile is an explicit config file path. Empty means search the default locations.
	ConfigFile string
	// EnvFile is loaded into the environment before anything else. Empty means ".env".
	EnvFile string
	// Flags are command-line flags overriding every other source.
	Flags *pflag.FlagSet
}

// flagMappings binds config keys to command-line flag names
var flagMappings = map[string]string{
	"APIBaseURL":     "api-url",
	"Debug":          "debug",
	"MetricsAddress": "metrics-addr",
	"DownloadDir":    "dir",
	"WatchSchedule":  "schedule",
}

// LoadConfig loads configuration from .env, config files, environment variables and flags
func LoadConfig(opts LoadOptions) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}

	if err := godotenv.Load(envFile); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading env file: %w", err)
		}
	} else {
		log.Debug().Msgf("Loaded environment from %s", envFile)
	}

	v := viper.New()

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvPrefix("FILEVAULT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envMappings := map[string]string{
		"APIBaseURL":        "FILEVAULT_API_URL",
		"Timeout":           "FILEVAULT_TIMEOUT",
		"RetryAttempts":     "FILEVAULT_RETRY_ATTEMPTS",
		"RetryDelay":        "FILEVAULT_RETRY_DELAY",
		"SearchDebounce":    "FILEVAULT_SEARCH_DEBOUNCE",
		"DownloadDir":       "FILEVAULT_DOWNLOAD_DIR",
		"UploadConcurrency": "FILEVAULT_UPLOAD_CONCURRENCY",
		"FilterCacheSize":   "FILEVAULT_FILTER_CACHE_SIZE",
		"FilterCacheTTL":    "FILEVAULT_FILTER_CACHE_TTL",
		"WatchSchedule":     "FILEVAULT_WATCH_SCHEDULE",
		"MetricsAddress":    "FILEVAULT_METRICS_ADDRESS",
		"Debug":             "FILEVAULT_DEBUG",
	}

	for configKey, envVar := range envMappings {
		if err := v.BindEnv(configKey, envVar); err != nil {
			log.Warn().Err(err).Msgf("Failed to bind environment variable %s for %s", envVar, configKey)
		}
	}

	if opts.Flags != nil {
		for configKey, flagName := range flagMappings {
			flag := opts.Flags.Lookup(flagName)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(configKey, flag); err != nil {
				return nil, fmt.Errorf("failed to bind flag --%s: %w", flagName, err)
			}
		}
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("filevault")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.filevault")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		log.Debug().Msg("Config file not found, using environment variables and defaults")
	} else {
		log.Debug().Msgf("Using config file: %s", v.ConfigFileUsed())
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.APIBaseURL = strings.TrimRight(strings.TrimSpace(config.APIBaseURL), "/")

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	log.Debug().Msgf("Config loaded: APIBaseURL=%s, Timeout=%s, SearchDebounce=%s",
		config.APIBaseURL, config.Timeout, config.SearchDebounce)

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APIBaseURL", "http://localhost:8000/api")
	v.SetDefault("Timeout", 30*time.Second)
	v.SetDefault("RetryAttempts", 0)
	v.SetDefault("RetryDelay", time.Second)

	v.SetDefault("SearchDebounce", 300*time.Millisecond)
	v.SetDefault("DownloadDir", ".")
	v.SetDefault("UploadConcurrency", 4)
	v.SetDefault("FilterCacheSize", 64)
	v.SetDefault("FilterCacheTTL", 5*time.Minute)

	v.SetDefault("WatchSchedule", "@every 30s")
	v.SetDefault("MetricsAddress", "")
	v.SetDefault("Debug", false)
}

func validateConfig(config *Config) error {
	var problems []string

	if config.APIBaseURL == "" {
		problems = append(problems, "FILEVAULT_API_URL is required")
	} else if u, err := url.Parse(config.APIBaseURL); err != nil || !u.IsAbs() || u.Host == "" {
		problems = append(problems, fmt.Sprintf("FILEVAULT_API_URL must be an absolute URL, got %q", config.APIBaseURL))
	}

	if config.Timeout < 0 {
		problems = append(problems, "timeout must not be negative")
	}

	if config.RetryAttempts < 0 {
		problems = append(problems, "retry attempts must not be negative")
	}

	if config.RetryDelay < 0 {
		problems = append(problems, "retry delay must not be negative")
	}

	if config.SearchDebounce < 0 {
		problems = append(problems, "search debounce must not be negative")
	}

	if config.UploadConcurrency <= 0 {
		problems = append(problems, "upload concurrency must be positive")
	}

	if config.FilterCacheSize < 0 {
		problems = append(problems, "filter cache size must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}

	return nil
}
