package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-lost-found/internal/domain/matching"
	"pet-lost-found/internal/platform/logger"

	"github.com/spf13/viper"
)

type StoreKind string

const (
	StoreMemory   StoreKind = "memory"
	StorePostgres StoreKind = "postgres"
	StoreMongo    StoreKind = "mongo"
)

type AuthMode string

const (
	AuthDev    AuthMode = "dev"
	AuthJWT    AuthMode = "jwt"
	AuthRemote AuthMode = "remote"
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Port string

	Store         StoreKind
	DBDSN         string
	MongoURI      string
	MongoDatabase string

	Log  LogConfig
	Auth AuthConfig
	HTTP HTTPConfig

	Matching matching.Config
}

type LogConfig struct {
	Level  string
	Format string
	App    string
}

type AuthConfig struct {
	Mode AuthMode

	JWTSecret string
	JWKSURL   string
	JWTIssuer string

	VerifyURL string
	APIKey    string
	CacheSize int
	CacheTTL  time.Duration
}

type HTTPConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

func setDefaults(v *viper.Viper) {
	d := matching.DefaultConfig()

	v.SetDefault("port", "8080")
	v.SetDefault("store", "")
	v.SetDefault("db_dsn", "")
	v.SetDefault("mongo_uri", "")
	v.SetDefault("mongo_database", "petmatch")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("app_name", "pet-lost-found")

	v.SetDefault("auth.mode", string(AuthDev))
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.jwks_url", "")
	v.SetDefault("jwt.issuer", "")
	v.SetDefault("auth.verify_url", "")
	v.SetDefault("auth.api_key", "")
	v.SetDefault("auth.cache_size", 1024)
	v.SetDefault("auth.cache_ttl", time.Minute)

	v.SetDefault("match.threshold", d.Threshold)
	v.SetDefault("match.weights.species", d.Weights.Species)
	v.SetDefault("match.weights.breed", d.Weights.Breed)
	v.SetDefault("match.weights.fur_color", d.Weights.FurColor)
	v.SetDefault("match.weights.eye_color", d.Weights.EyeColor)
	v.SetDefault("match.weights.age", d.Weights.Age)
	v.SetDefault("match.weights.age_tolerance_years", d.Weights.AgeToleranceYears)
	v.SetDefault("search.default_limit", d.DefaultLimit)
	v.SetDefault("search.max_limit", d.MaxLimit)

	v.SetDefault("http.read_timeout", 5*time.Second)
	v.SetDefault("http.write_timeout", 10*time.Second)
	v.SetDefault("http.shutdown_timeout", 10*time.Second)
}

// Load lee defaults, el YAML opcional (configFile vacío = sin archivo) y
// variables de entorno. Las keys anidadas mapean a env con "_": log.level => LOG_LEVEL.
func Load(configFile string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if f := strings.TrimSpace(configFile); f != "" {
		v.SetConfigFile(f)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := Config{
		Port:          strings.TrimSpace(v.GetString("port")),
		Store:         StoreKind(strings.ToLower(strings.TrimSpace(v.GetString("store")))),
		DBDSN:         strings.TrimSpace(v.GetString("db_dsn")),
		MongoURI:      strings.TrimSpace(v.GetString("mongo_uri")),
		MongoDatabase: strings.TrimSpace(v.GetString("mongo_database")),
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			App:    v.GetString("app_name"),
		},
		Auth: AuthConfig{
			Mode:      AuthMode(strings.ToLower(strings.TrimSpace(v.GetString("auth.mode")))),
			JWTSecret: v.GetString("jwt.secret"),
			JWKSURL:   strings.TrimSpace(v.GetString("jwt.jwks_url")),
			JWTIssuer: strings.TrimSpace(v.GetString("jwt.issuer")),
			VerifyURL: strings.TrimSpace(v.GetString("auth.verify_url")),
			APIKey:    strings.TrimSpace(v.GetString("auth.api_key")),
			CacheSize: v.GetInt("auth.cache_size"),
			CacheTTL:  v.GetDuration("auth.cache_ttl"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:     v.GetDuration("http.read_timeout"),
			WriteTimeout:    v.GetDuration("http.write_timeout"),
			ShutdownTimeout: v.GetDuration("http.shutdown_timeout"),
		},
		Matching: matching.Config{
			Threshold: v.GetInt("match.threshold"),
			Weights: matching.Weights{
				Species:           v.GetInt("match.weights.species"),
				Breed:             v.GetInt("match.weights.breed"),
				FurColor:          v.GetInt("match.weights.fur_color"),
				EyeColor:          v.GetInt("match.weights.eye_color"),
				Age:               v.GetInt("match.weights.age"),
				AgeToleranceYears: v.GetFloat64("match.weights.age_tolerance_years"),
			},
			DefaultLimit: v.GetInt("search.default_limit"),
			MaxLimit:     v.GetInt("search.max_limit"),
		},
	}

	if cfg.Store == "" {
		cfg.Store = detectStore(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// detectStore: Postgres si hay DSN, Mongo si hay URI, si no memoria.
func detectStore(cfg Config) StoreKind {
	switch {
	case cfg.DBDSN != "":
		return StorePostgres
	case cfg.MongoURI != "":
		return StoreMongo
	default:
		return StoreMemory
	}
}

func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("%w: port required", ErrInvalid)
	}

	switch c.Store {
	case StoreMemory:
	case StorePostgres:
		if c.DBDSN == "" {
			return fmt.Errorf("%w: store=postgres needs DB_DSN", ErrInvalid)
		}
	case StoreMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("%w: store=mongo needs MONGO_URI", ErrInvalid)
		}
		if c.MongoDatabase == "" {
			return fmt.Errorf("%w: mongo_database required", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown store %q", ErrInvalid, c.Store)
	}

	switch c.Auth.Mode {
	case AuthDev:
	case AuthJWT:
		if c.Auth.JWTSecret == "" && c.Auth.JWKSURL == "" {
			return fmt.Errorf("%w: auth_mode=jwt needs JWT_SECRET or JWT_JWKS_URL", ErrInvalid)
		}
	case AuthRemote:
		if c.Auth.VerifyURL == "" || c.Auth.APIKey == "" {
			return fmt.Errorf("%w: auth_mode=remote needs AUTH_VERIFY_URL and AUTH_API_KEY", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown auth mode %q", ErrInvalid, c.Auth.Mode)
	}

	m := c.Matching
	if m.Threshold < 1 {
		return fmt.Errorf("%w: match threshold must be >= 1", ErrInvalid)
	}
	if m.Weights.Species < 0 || m.Weights.Breed < 0 || m.Weights.FurColor < 0 || m.Weights.EyeColor < 0 || m.Weights.Age < 0 {
		return fmt.Errorf("%w: match weights must be >= 0", ErrInvalid)
	}
	if m.DefaultLimit < 1 || m.MaxLimit < m.DefaultLimit {
		return fmt.Errorf("%w: search limits must satisfy 1 <= default <= max", ErrInvalid)
	}
	return nil
}

func (c Config) Addr() string {
	return ":" + c.Port
}

func (c Config) LoggerOptions() logger.Options {
	return logger.Options{
		Level:  logger.ParseLevel(c.Log.Level),
		Format: logger.ParseFormat(c.Log.Format),
		App:    c.Log.App,
	}
}
