package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_DefaultValues(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.StaticDir)
	assert.Equal(t, "5000", cfg.HTTP.Port)
	assert.Equal(t, ":5000", cfg.HTTP.Address())
	assert.Equal(t, 10*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, int64(5<<20), cfg.HTTP.MaxUploadBytes)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, DriverBadger, cfg.Database.Driver)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Database.URI)
	assert.Equal(t, "socialnetwork", cfg.Database.Name)
	assert.Equal(t, "data/badger", cfg.Database.Path)
	assert.Equal(t, StorageDisk, cfg.Storage.Driver)
	assert.Equal(t, "uploads", cfg.Storage.UploadDir)
	assert.Equal(t, "localhost:9000", cfg.Minio.Endpoint)
	assert.Equal(t, "socialnet-images", cfg.Minio.Bucket)
	assert.False(t, cfg.Minio.UseSSL)
}

func TestNewConfig_EnvironmentOverrides(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		expected func(*Config)
	}{
		{
			name: "http config override",
			envVars: map[string]string{
				"HTTP_PORT":             "8080",
				"HTTP_SHUTDOWN_TIMEOUT": "3s",
				"HTTP_MAX_UPLOAD_BYTES": "1024",
				"HTTP_CORS_ORIGINS":     "http://a.example,http://b.example",
			},
			expected: func(cfg *Config) {
				assert.Equal(t, ":8080", cfg.HTTP.Address())
				assert.Equal(t, 3*time.Second, cfg.HTTP.ShutdownTimeout)
				assert.Equal(t, int64(1024), cfg.HTTP.MaxUploadBytes)
				assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.HTTP.CORSOrigins)
			},
		},
		{
			name: "database config override",
			envVars: map[string]string{
				"DATABASE_DRIVER": "mongodb",
				"DATABASE_URI":    "mongodb://db:27017",
				"DATABASE_NAME":   "social",
			},
			expected: func(cfg *Config) {
				assert.Equal(t, DriverMongoDB, cfg.Database.Driver)
				assert.Equal(t, "mongodb://db:27017", cfg.Database.URI)
				assert.Equal(t, "social", cfg.Database.Name)
			},
		},
		{
			name: "storage config override",
			envVars: map[string]string{
				"STORAGE_DRIVER":    "minio",
				"MINIO_ENDPOINT":    "minio:9000",
				"MINIO_ACCESS_KEY":  "ak",
				"MINIO_SECRET_KEY":  "sk",
				"MINIO_BUCKET_NAME": "pics",
				"MINIO_USE_SSL":     "true",
			},
			expected: func(cfg *Config) {
				assert.Equal(t, StorageMinio, cfg.Storage.Driver)
				assert.Equal(t, "minio:9000", cfg.Minio.Endpoint)
				assert.Equal(t, "ak", cfg.Minio.AccessKey)
				assert.Equal(t, "sk", cfg.Minio.SecretKey)
				assert.Equal(t, "pics", cfg.Minio.Bucket)
				assert.True(t, cfg.Minio.UseSSL)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg, err := NewConfig()
			require.NoError(t, err)
			tt.expected(cfg)
		})
	}
}

func TestNewConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		wantErr string
	}{
		{name: "unknown database driver", envVars: map[string]string{"DATABASE_DRIVER": "postgres"}, wantErr: "unknown database driver"},
		{name: "unknown storage driver", envVars: map[string]string{"STORAGE_DRIVER": "s3"}, wantErr: "unknown storage driver"},
		{name: "zero upload limit", envVars: map[string]string{"HTTP_MAX_UPLOAD_BYTES": "0"}, wantErr: "max upload bytes"},
		{name: "bad duration", envVars: map[string]string{"HTTP_SHUTDOWN_TIMEOUT": "soon"}, wantErr: "failed to parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg, err := NewConfig()
			assert.Nil(t, cfg)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestNewConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("HTTP_PORT=7070\nSTATIC_DIR=public\n"), 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(wd)
		_ = os.Unsetenv("HTTP_PORT")
		_ = os.Unsetenv("STATIC_DIR")
	})

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.HTTP.Port)
	assert.Equal(t, "public", cfg.StaticDir)
}
