package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		BindAddress string `yaml:"bind_address"`
		BasePath    string `yaml:"base_path"`
		Env         string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	Auth struct {
		PBKDF2Iterations         int32 `yaml:"pbkdf2_iterations"`
		SessionExpirationSeconds int64 `yaml:"session_expiration_seconds"`
	} `yaml:"auth"`
}

const (
	defaultBindAddress = "127.0.0.1:3000"
	defaultBasePath    = "/"

	// https://cheatsheetseries.owasp.org/cheatsheets/Password_Storage_Cheat_Sheet.html#pbkdf2
	defaultPBKDF2Iterations = 600_000

	defaultSessionExpirationSeconds = 60 * 60 * 24 * 30 // 30 days
)

var AppConfig *Config

// LoadConfig builds the configuration from a config file (when CONFIG_PATH
// points at one) and the environment, environment winning. A .env file next
// to the binary is honored for local development.
func LoadConfig() {
	var cfg Config

	// Ignore the error: a missing .env just means plain environment.
	_ = godotenv.Load()

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}
	}

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.DSN = dbURL
	}
	if addr := os.Getenv("HTTP_BIND_ADDRESS"); addr != "" {
		cfg.Server.BindAddress = addr
	}
	if basePath := os.Getenv("HTTP_BASE_PATH"); basePath != "" {
		cfg.Server.BasePath = basePath
	}
	if env := os.Getenv("SERVER_ENV"); env != "" {
		cfg.Server.Env = env
	}
	if iters := os.Getenv("PBKDF2_ITERATIONS"); iters != "" {
		n, err := strconv.ParseInt(iters, 10, 32)
		if err != nil || n <= 0 {
			log.Fatalf("PBKDF2_ITERATIONS must be an integer greater than zero, got %q", iters)
		}
		cfg.Auth.PBKDF2Iterations = int32(n)
	}
	expirySet := false
	if expiry := os.Getenv("SESSION_EXPIRATION_SECONDS"); expiry != "" {
		n, err := strconv.ParseInt(expiry, 10, 64)
		if err != nil || n < 0 {
			log.Fatalf("SESSION_EXPIRATION_SECONDS must be a non-negative integer, got %q", expiry)
		}
		cfg.Auth.SessionExpirationSeconds = n
		expirySet = true
	}

	if cfg.Server.BindAddress == "" {
		cfg.Server.BindAddress = defaultBindAddress
	}
	if cfg.Server.BasePath == "" {
		cfg.Server.BasePath = defaultBasePath
	}
	if cfg.Auth.PBKDF2Iterations == 0 {
		cfg.Auth.PBKDF2Iterations = defaultPBKDF2Iterations
	}
	if cfg.Auth.SessionExpirationSeconds == 0 && !expirySet {
		cfg.Auth.SessionExpirationSeconds = defaultSessionExpirationSeconds
	}

	AppConfig = &cfg
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
