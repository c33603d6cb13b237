package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("FILEVAULT_API_URL", "")
	os.Unsetenv("FILEVAULT_API_URL")

	return home
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolate(t)

	config, err := LoadConfig(LoadOptions{EnvFile: filepath.Join(t.TempDir(), "missing.env")})
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000/api", config.APIBaseURL)
	assert.Equal(t, 30*time.Second, config.Timeout)
	assert.Equal(t, 0, config.RetryAttempts)
	assert.Equal(t, 300*time.Millisecond, config.SearchDebounce)
	assert.Equal(t, ".", config.DownloadDir)
	assert.Equal(t, 4, config.UploadConcurrency)
	assert.Equal(t, 64, config.FilterCacheSize)
	assert.Equal(t, 5*time.Minute, config.FilterCacheTTL)
	assert.Equal(t, "@every 30s", config.WatchSchedule)
	assert.Empty(t, config.MetricsAddress)
	assert.False(t, config.Debug)
}

func TestLoadConfig_Environment(t *testing.T) {
	isolate(t)
	t.Setenv("FILEVAULT_API_URL", "https://files.example.com/api/")
	t.Setenv("FILEVAULT_SEARCH_DEBOUNCE", "150ms")
	t.Setenv("FILEVAULT_UPLOAD_CONCURRENCY", "8")
	t.Setenv("FILEVAULT_DEBUG", "true")

	config, err := LoadConfig(LoadOptions{EnvFile: filepath.Join(t.TempDir(), "missing.env")})
	require.NoError(t, err)

	assert.Equal(t, "https://files.example.com/api", config.APIBaseURL)
	assert.Equal(t, 150*time.Millisecond, config.SearchDebounce)
	assert.Equal(t, 8, config.UploadConcurrency)
	assert.True(t, config.Debug)
}

func TestLoadConfig_ConfigFileAndFlags(t *testing.T) {
	isolate(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "filevault.yaml")
	require.NoError(t, os.WriteFile(path, []byte("apibaseurl: http://config.example.com/api\ntimeout: 5s\ndownloaddir: /tmp/downloads\n"), 0o644))

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("api-url", "", "")
	flags.Bool("debug", false, "")
	require.NoError(t, flags.Parse([]string{"--api-url", "http://flag.example.com/api"}))

	config, err := LoadConfig(LoadOptions{
		ConfigFile: path,
		EnvFile:    filepath.Join(dir, "missing.env"),
		Flags:      flags,
	})
	require.NoError(t, err)

	assert.Equal(t, "http://flag.example.com/api", config.APIBaseURL)
	assert.Equal(t, 5*time.Second, config.Timeout)
	assert.Equal(t, "/tmp/downloads", config.DownloadDir)
	assert.False(t, config.Debug)
}

func TestLoadConfig_EnvFile(t *testing.T) {
	isolate(t)

	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("FILEVAULT_API_URL=http://dotenv.example.com/api\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("FILEVAULT_API_URL") })

	config, err := LoadConfig(LoadOptions{EnvFile: envFile})
	require.NoError(t, err)

	assert.Equal(t, "http://dotenv.example.com/api", config.APIBaseURL)
}

func TestValidateConfig(t *testing.T) {
	valid := func() Config {
		return Config{
			APIBaseURL:        "http://localhost:8000/api",
			Timeout:           time.Second,
			UploadConcurrency: 1,
		}
	}

	tests := []struct {
		name      string
		mutate    func(c *Config)
		expectErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "empty url", mutate: func(c *Config) { c.APIBaseURL = "" }, expectErr: "FILEVAULT_API_URL is required"},
		{name: "relative url", mutate: func(c *Config) { c.APIBaseURL = "/api" }, expectErr: "absolute URL"},
		{name: "negative retries", mutate: func(c *Config) { c.RetryAttempts = -1 }, expectErr: "retry attempts"},
		{name: "zero concurrency", mutate: func(c *Config) { c.UploadConcurrency = 0 }, expectErr: "upload concurrency"},
		{name: "negative cache size", mutate: func(c *Config) { c.FilterCacheSize = -1 }, expectErr: "filter cache size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid()
			tt.mutate(&config)

			err := validateConfig(&config)
			if tt.expectErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.expectErr)
		})
	}
}
