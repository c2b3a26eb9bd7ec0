package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"POSTGRES_DSN", "STORAGE_BACKEND", "FILE_DELETE_POLICY", "CORS_ORIGINS", "MAX_UPLOAD_MB"} {
		// Setenv restores the previous value on cleanup.
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg := Load()

	assert.Equal(t, DefaultDSN, cfg.DatabaseURL)
	assert.Equal(t, StorageLocal, cfg.StorageBackend)
	assert.Equal(t, DeleteBestEffort, cfg.FileDeletePolicy)
	assert.Equal(t, int64(200), cfg.MaxUploadMB)
	assert.Contains(t, cfg.AllowedOrigins, "http://localhost:5173")
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://u:p@db:5432/catalog")
	t.Setenv("CORS_ORIGINS", " http://a.test , ,http://b.test")
	t.Setenv("MAX_UPLOAD_MB", "16")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("FILE_DELETE_POLICY", DeleteStrict)

	cfg := Load()

	assert.Equal(t, "postgres://u:p@db:5432/catalog", cfg.DatabaseURL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, int64(16), cfg.MaxUploadMB)
	assert.True(t, cfg.MinioUseSSL)
	assert.Equal(t, DeleteStrict, cfg.FileDeletePolicy)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("MAX_UPLOAD_MB", "lots")
	t.Setenv("LOG_COMPRESS", "maybe")

	cfg := Load()

	assert.Equal(t, int64(200), cfg.MaxUploadMB)
	assert.True(t, cfg.LogCompress)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			DatabaseURL:      DefaultDSN,
			StorageBackend:   StorageLocal,
			FileDeletePolicy: DeleteBestEffort,
			MaxUploadMB:      10,
			MinioEndpoint:    "127.0.0.1:9000",
			MinioBucket:      "beatbox",
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid local", func(c *Config) {}, false},
		{"valid minio", func(c *Config) { c.StorageBackend = StorageMinio }, false},
		{"minio without bucket", func(c *Config) { c.StorageBackend = StorageMinio; c.MinioBucket = "" }, true},
		{"unknown backend", func(c *Config) { c.StorageBackend = "ftp" }, true},
		{"unknown policy", func(c *Config) { c.FileDeletePolicy = "sometimes" }, true},
		{"zero upload size", func(c *Config) { c.MaxUploadMB = 0 }, true},
		{"empty dsn", func(c *Config) { c.DatabaseURL = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
