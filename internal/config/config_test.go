package config

import (
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("MAX_PAGE_SIZE", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("MY_PLAYLISTS_EMPTY_NOT_FOUND", "")
	t.Setenv("WORKER_COUNT", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q", cfg.ServerPort)
	}
	if cfg.MaxPageSize != 100 {
		t.Errorf("MaxPageSize = %d", cfg.MaxPageSize)
	}
	if cfg.WorkerCount != 2 {
		t.Errorf("WorkerCount = %d", cfg.WorkerCount)
	}
	if !cfg.MyPlaylistsEmptyNotFound {
		t.Error("MyPlaylistsEmptyNotFound should default to true")
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadConfig_MemoryWithoutSecret(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("JWT_SECRET", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("LoadConfig accepted an empty JWT_SECRET")
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Mongo")
	t.Setenv("MONGO_HOST", "mongo.internal")
	t.Setenv("MONGO_TRANSACTIONS", "true")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("MY_PLAYLISTS_EMPTY_NOT_FOUND", "false")
	t.Setenv("MAX_PAGE_SIZE", "not-a-number")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.StoreDriver != DriverMongo || !cfg.MongoTransactions {
		t.Errorf("driver = %q transactions = %v", cfg.StoreDriver, cfg.MongoTransactions)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
	if cfg.MyPlaylistsEmptyNotFound {
		t.Error("MyPlaylistsEmptyNotFound override ignored")
	}
	if cfg.MaxPageSize != 100 {
		t.Errorf("invalid MAX_PAGE_SIZE should fall back, got %d", cfg.MaxPageSize)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory needs only a secret", Config{StoreDriver: DriverMemory, JWTSecret: "x", MaxPageSize: 10}, false},
		{"memory missing secret", Config{StoreDriver: DriverMemory, MaxPageSize: 10}, true},
		{"postgres complete", Config{StoreDriver: DriverPostgres, DBHost: "db", DBUser: "u", DBName: "n", JWTSecret: "x", MaxPageSize: 10}, false},
		{"postgres missing host", Config{StoreDriver: DriverPostgres, DBUser: "u", DBName: "n", JWTSecret: "x", MaxPageSize: 10}, true},
		{"mongo via uri", Config{StoreDriver: DriverMongo, MongoURI: "mongodb://m", JWTSecret: "x", MaxPageSize: 10}, false},
		{"mongo missing address", Config{StoreDriver: DriverMongo, JWTSecret: "x", MaxPageSize: 10}, true},
		{"missing secret", Config{StoreDriver: DriverMongo, MongoURI: "mongodb://m", MaxPageSize: 10}, true},
		{"unknown driver", Config{StoreDriver: "sqlite", MaxPageSize: 10}, true},
		{"zero page size", Config{StoreDriver: DriverMemory, JWTSecret: "x"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_MongoConnString(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"uri wins", Config{MongoURI: "mongodb://custom", MongoHost: "ignored"}, "mongodb://custom"},
		{"credentials", Config{MongoHost: "h", MongoPort: "27017", MongoUser: "u", MongoPass: "p"}, "mongodb://u:p@h:27017/"},
		{"anonymous", Config{MongoHost: "h", MongoPort: "27018"}, "mongodb://h:27018/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.MongoConnString(); got != tt.want {
				t.Errorf("MongoConnString() = %q, want %q", got, tt.want)
			}
		})
	}
}
