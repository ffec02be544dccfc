package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Storage drivers
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

type Config struct {
	ServerPort string

	LogLevel  string
	LogFormat string

	JWTSecret string

	StoreDriver string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	MongoURI          string
	MongoHost         string
	MongoPort         string
	MongoUser         string
	MongoPass         string
	MongoDBName       string
	MongoTransactions bool

	RedisURL    string
	WorkerCount int

	CORSAllowedOrigins []string

	MaxPageSize int

	// MyPlaylistsEmptyNotFound keeps the historical 404 for an empty "my playlists" page.
	MyPlaylistsEmptyNotFound bool
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Info("[Config] No .env file found or error loading it, relying on environment variables")
	}

	cfg := &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", DriverPostgres)),

		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSSLMode:  getEnv("DB_SSLMODE", "require"),

		MongoURI:          os.Getenv("MONGO_URI"),
		MongoHost:         os.Getenv("MONGO_HOST"),
		MongoPort:         getEnv("MONGO_PORT", "27017"),
		MongoUser:         os.Getenv("MONGO_USER"),
		MongoPass:         os.Getenv("MONGO_PASS"),
		MongoDBName:       getEnv("MONGO_DB_NAME", "vidtube"),
		MongoTransactions: getBool("MONGO_TRANSACTIONS", false),

		RedisURL:    os.Getenv("REDIS_URL"),
		WorkerCount: getInt("WORKER_COUNT", 2),

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		MaxPageSize: getInt("MAX_PAGE_SIZE", 100),

		MyPlaylistsEmptyNotFound: getBool("MY_PLAYLISTS_EMPTY_NOT_FOUND", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings required by the selected storage driver.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverPostgres:
		if c.DBHost == "" || c.DBUser == "" || c.DBName == "" {
			return fmt.Errorf("postgres driver requires DB_HOST, DB_USER and DB_NAME")
		}
	case DriverMongo:
		if c.MongoURI == "" && c.MongoHost == "" {
			return fmt.Errorf("mongo driver requires MONGO_URI or MONGO_HOST")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.MaxPageSize <= 0 {
		return fmt.Errorf("MAX_PAGE_SIZE must be positive")
	}
	return nil
}

// MongoConnString builds the connection string when MONGO_URI is not set.
func (c *Config) MongoConnString() string {
	if c.MongoURI != "" {
		return c.MongoURI
	}
	if c.MongoUser != "" && c.MongoPass != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s:%s/", c.MongoUser, c.MongoPass, c.MongoHost, c.MongoPort)
	}
	return fmt.Sprintf("mongodb://%s:%s/", c.MongoHost, c.MongoPort)
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
