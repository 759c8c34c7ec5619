package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"postgres": map[string]any{
			"sslMode": "disable",
			"master": map[string]any{
				"userName": "user",
			},
		},
		"redis": map[string]any{
			"keyPrefix": "cart:",
		},
		"catalog": map[string]any{
			"baseUrl": "",
		},
		"secretKey": map[string]any{
			"access": "",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "POSTGRES_SSLMODE", want: "postgres.sslMode"},
		{envKey: "POSTGRES_MASTER_USERNAME", want: "postgres.master.userName"},
		{envKey: "REDIS_KEYPREFIX", want: "redis.keyPrefix"},
		{envKey: "CATALOG_BASEURL", want: "catalog.baseUrl"},
		{envKey: "SECRETKEY_ACCESS", want: "secretKey.access"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	assert.Equal(t, StorageMemory, cfg.Storage.Provider)
	assert.Equal(t, defaultMaxRequestBodySize, cfg.HTTP.MaxRequestBodySize)
	assert.Equal(t, defaultMaxSessions, cfg.Sessions.MaxSessions)
	assert.Equal(t, "X-Cart-Session", cfg.Sessions.Header)
	assert.Equal(t, defaultStockPath, cfg.Catalog.Path)
	assert.Equal(t, defaultOrdersPath, cfg.Orders.Path)
	assert.Equal(t, 10*time.Second, cfg.Orders.Timeout)
	require.NoError(t, cfg.Validate())
}

func TestValidate_StorageProviders(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr bool
	}{
		{name: "redis without addr", mutate: func(cfg *Config) { cfg.Storage.Provider = StorageRedis }, wantErr: true},
		{name: "redis with addr", mutate: func(cfg *Config) {
			cfg.Storage.Provider = StorageRedis
			cfg.Redis = &RedisConfig{Addr: "localhost:6379"}
		}},
		{name: "postgres without section", mutate: func(cfg *Config) { cfg.Storage.Provider = StoragePostgres }, wantErr: true},
		{name: "blob without url", mutate: func(cfg *Config) {
			cfg.Storage.Provider = StorageBlob
			cfg.Blob = &BlobConfig{}
		}, wantErr: true},
		{name: "blob with url", mutate: func(cfg *Config) {
			cfg.Storage.Provider = StorageBlob
			cfg.Blob = &BlobConfig{URL: "mem://"}
		}},
		{name: "unknown provider", mutate: func(cfg *Config) { cfg.Storage.Provider = "etcd" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.applyDefaults()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)

				return
			}
			assert.NoError(t, err)
		})
	}
}
