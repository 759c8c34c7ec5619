package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/slighter12/go-lib/database/postgres"
)

const (
	defaultPath               = "."
	defaultMaxRequestBodySize = "100KB"
	defaultMaxSessions        = 10000
	defaultRemoteTimeout      = 10 * time.Second
	defaultStockPath          = "/api/muebles/%s/componentes"
	defaultOrdersPath         = "/api/pedidos"
	defaultWorkerPort         = 8081
)

// EnvDevelop is the env.env value of local development.
const EnvDevelop = "develop"

// Event bus providers accepted in pubsub.provider.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// Storage providers accepted in storage.provider.
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
	StorageBlob     = "blob"
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port               int    `json:"port" yaml:"port"`
		MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
		Timeouts           struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	// Storage selects where cart snapshots are kept
	Storage StorageConfig `json:"storage" yaml:"storage"`

	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	Redis *RedisConfig `json:"redis" yaml:"redis"`

	Blob *BlobConfig `json:"blob" yaml:"blob"`

	SecretKey struct {
		Access string `json:"access" yaml:"access"`
	} `json:"secretKey" yaml:"secretKey"`

	// Catalog is the product/stock service used for bill-of-materials lookups
	Catalog *RemoteServiceConfig `json:"catalog" yaml:"catalog"`

	// Orders is the order submission service
	Orders *RemoteServiceConfig `json:"orders" yaml:"orders"`

	Sessions *SessionsConfig `json:"sessions" yaml:"sessions"`

	// PubSub configuration for cart event publishing
	PubSub *PubSubConfig `json:"pubsub" yaml:"pubsub"`

	// Worker is the cart event push consumer (cmd/cartworker)
	Worker *WorkerConfig `json:"worker" yaml:"worker"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// StorageConfig defines the cart snapshot provider
type StorageConfig struct {
	// Provider type: "memory", "redis", "postgres" or "blob"
	Provider string `json:"provider" yaml:"provider"`
}

// RedisConfig defines the redis snapshot provider
type RedisConfig struct {
	Addr      string        `json:"addr" yaml:"addr"`
	Password  string        `json:"password" yaml:"password"`
	DB        int           `json:"db" yaml:"db"`
	KeyPrefix string        `json:"keyPrefix" yaml:"keyPrefix"`
	TTL       time.Duration `json:"ttl" yaml:"ttl"`
}

// BlobConfig defines the bucket snapshot provider
type BlobConfig struct {
	// Bucket URL understood by gocloud.dev, e.g. file:///var/lib/carts or gs://bucket
	URL    string `json:"url" yaml:"url"`
	Prefix string `json:"prefix" yaml:"prefix"`
}

// RemoteServiceConfig defines an HTTP dependency
type RemoteServiceConfig struct {
	BaseURL string        `json:"baseUrl" yaml:"baseUrl"`
	Path    string        `json:"path" yaml:"path"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// SessionsConfig bounds the number of client sessions kept in memory
type SessionsConfig struct {
	MaxSessions int    `json:"maxSessions" yaml:"maxSessions"`
	Header      string `json:"header" yaml:"header"`
}

// PubSubConfig selects the cart event bus. An empty provider drops events.
type PubSubConfig struct {
	// "local" pushes to LocalEndpoint, "google" publishes to ProjectID/TopicID
	Provider      string `json:"provider" yaml:"provider"`
	ProjectID     string `json:"projectId" yaml:"projectId"`
	TopicID       string `json:"topicId" yaml:"topicId"`
	LocalEndpoint string `json:"localEndpoint" yaml:"localEndpoint"`
}

// WorkerConfig defines the push endpoint of the cart event worker
type WorkerConfig struct {
	Port int `json:"port" yaml:"port"`

	// PushAudience is the audience expected in Google push tokens. Empty means
	// the URL the request was received on, which breaks behind a rewriting proxy.
	PushAudience string `json:"pushAudience" yaml:"pushAudience"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			searchPaths = append(searchPaths, filepath.Join(pwd, path))
		}
	}

	var configFile string
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate

			break
		}
	}

	if configFile == "" {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// REDIS_KEYPREFIX -> redis.keyPrefix, aligned with the YAML keys
			return canonicalizeEnvKey(k, existingConfigMap), v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	if cfg.Postgres != nil {
		cfg.Postgres.Replicas = buildReplicasFromEnv()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) applyDefaults() {
	if strings.TrimSpace(cfg.HTTP.MaxRequestBodySize) == "" {
		cfg.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}

	if strings.TrimSpace(cfg.Storage.Provider) == "" {
		cfg.Storage.Provider = StorageMemory
	}

	if cfg.Sessions == nil {
		cfg.Sessions = &SessionsConfig{}
	}
	if cfg.Sessions.MaxSessions <= 0 {
		cfg.Sessions.MaxSessions = defaultMaxSessions
	}
	if cfg.Sessions.Header == "" {
		cfg.Sessions.Header = "X-Cart-Session"
	}

	if cfg.Catalog == nil {
		cfg.Catalog = &RemoteServiceConfig{}
	}
	cfg.Catalog.withDefaults(defaultStockPath)

	if cfg.Orders == nil {
		cfg.Orders = &RemoteServiceConfig{}
	}
	cfg.Orders.withDefaults(defaultOrdersPath)

	if cfg.Worker == nil {
		cfg.Worker = &WorkerConfig{}
	}
	if cfg.Worker.Port <= 0 {
		cfg.Worker.Port = defaultWorkerPort
	}
}

func (rc *RemoteServiceConfig) withDefaults(path string) {
	if rc.Path == "" {
		rc.Path = path
	}
	if rc.Timeout <= 0 {
		rc.Timeout = defaultRemoteTimeout
	}
}

// Validate checks that the selected storage provider has its section configured.
func (cfg *Config) Validate() error {
	switch cfg.Storage.Provider {
	case StorageMemory:
	case StorageRedis:
		if cfg.Redis == nil || cfg.Redis.Addr == "" {
			return errors.New("storage provider redis requires redis.addr")
		}
	case StoragePostgres:
		if cfg.Postgres == nil {
			return errors.New("storage provider postgres requires the postgres section")
		}
	case StorageBlob:
		if cfg.Blob == nil || cfg.Blob.URL == "" {
			return errors.New("storage provider blob requires blob.url")
		}
	default:
		return errors.Errorf("unknown storage provider %q", cfg.Storage.Provider)
	}

	return nil
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}

// buildReplicasFromEnv reads POSTGRES_REPLICAS_{index}_{HOST,PORT,USERNAME,PASSWORD}.
func buildReplicasFromEnv() []postgres.ConnectionConfig {
	var replicas []postgres.ConnectionConfig

	for i := 0; ; i++ {
		prefix := "POSTGRES_REPLICAS_" + strconv.Itoa(i) + "_"

		host := os.Getenv(prefix + "HOST")
		port := os.Getenv(prefix + "PORT")
		if host == "" || port == "" {
			break
		}

		replicas = append(replicas, postgres.ConnectionConfig{
			Host:     host,
			Port:     port,
			UserName: os.Getenv(prefix + "USERNAME"),
			Password: os.Getenv(prefix + "PASSWORD"),
		})
	}

	return replicas
}
