package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/yukikurage/group-task-api/internal/constants"
)

var (
	ErrUnknownDBDriver      = errors.New("config: unknown DB_DRIVER")
	ErrUnknownSessionStore  = errors.New("config: unknown SESSION_STORE")
	ErrUnknownHasher        = errors.New("config: unknown PASSWORD_HASHER")
	ErrInsecureSecret       = errors.New("config: SESSION_SECRET must be set in release mode")
	ErrInvalidSessionTTL    = errors.New("config: SESSION_TTL must be positive")
	ErrEmptyHTTPAddr        = errors.New("config: HTTP_ADDR can not be empty")
	defaultSessionSecret    = "default-secret-key-change-me"
	supportedDBDrivers      = map[string]struct{}{"mysql": {}, "postgres": {}, "sqlite": {}}
	supportedSessionStores  = map[string]struct{}{"cookie": {}, "redis": {}}
	supportedPasswordHasher = map[string]struct{}{"bcrypt": {}, "argon2id": {}}
)

type Config struct {
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPath     string
	DBExtras   string

	HTTPAddr      string
	GinMode       string
	ShutdownDelay time.Duration

	SessionSecret string
	SessionTTL    time.Duration
	SessionStore  string
	RedisHost     string
	RedisPort     string

	PasswordHasher string

	LogLevel         string
	LogConsolePretty bool
	LogFilePath      string
	LogReportCaller  bool
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DBDriver:         getEnv("DB_DRIVER", "mysql"),
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           getEnv("DB_PORT", "3306"),
		DBUser:           getEnv("DB_USER", "taskuser"),
		DBPassword:       getEnv("DB_PASSWORD", "taskpassword"),
		DBName:           getEnv("DB_NAME", "task_management"),
		DBPath:           getEnv("DB_PATH", "task_management.db"),
		DBExtras:         getEnv("DB_EXTRAS", ""),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		GinMode:          getEnv("GIN_MODE", "debug"),
		ShutdownDelay:    getEnvDuration("SHUTDOWN_DELAY", 0),
		SessionSecret:    getEnv("SESSION_SECRET", defaultSessionSecret),
		SessionTTL:       getEnvDuration("SESSION_TTL", constants.DefaultSessionTTL),
		SessionStore:     getEnv("SESSION_STORE", "cookie"),
		RedisHost:        getEnv("REDIS_HOST", "localhost"),
		RedisPort:        getEnv("REDIS_PORT", "6379"),
		PasswordHasher:   getEnv("PASSWORD_HASHER", "bcrypt"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogConsolePretty: getEnvBool("LOG_CONSOLE_PRETTY", false),
		LogFilePath:      getEnv("LOG_FILE_PATH", ""),
		LogReportCaller:  getEnvBool("LOG_REPORT_CALLER", false),
	}
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// Validate rejects configurations the server can not start with.
func (c *Config) Validate() error {
	if _, ok := supportedDBDrivers[c.DBDriver]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownDBDriver, c.DBDriver)
	}
	if _, ok := supportedSessionStores[c.SessionStore]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSessionStore, c.SessionStore)
	}
	if _, ok := supportedPasswordHasher[c.PasswordHasher]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownHasher, c.PasswordHasher)
	}
	if c.SessionTTL <= 0 {
		return ErrInvalidSessionTTL
	}
	if c.HTTPAddr == "" {
		return ErrEmptyHTTPAddr
	}
	if c.IsProduction() && (c.SessionSecret == "" || c.SessionSecret == defaultSessionSecret) {
		return ErrInsecureSecret
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
