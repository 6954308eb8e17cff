package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ReturnPolicy controls what happens to a borrow record when its book comes back.
type ReturnPolicy string

const (
	// ReturnPolicyClose stamps return_date and keeps the record as history.
	ReturnPolicyClose ReturnPolicy = "close"
	// ReturnPolicyDelete removes the record outright.
	ReturnPolicyDelete ReturnPolicy = "delete"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string

	DBDriver    string
	SQLitePath  string
	MySQLDSN    string
	PostgresDSN string
	ResetDB     bool

	RedisAddr string
	RedisDB   int
	RedisPass string

	SessionSecret       string
	SessionTTL          time.Duration
	SessionCookieSecure bool

	LogLevel    string
	SwaggerHost string

	AutoApproveStaff bool
	ReturnPolicy     ReturnPolicy
	BorrowRoles      []string
	CatalogCacheTTL  time.Duration
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),

		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		SQLitePath:  getEnv("SQLITE_PATH", "library.db"),
		MySQLDSN:    getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/library?charset=utf8mb4&parseTime=True&loc=Local"),
		PostgresDSN: getEnv("POSTGRES_DSN", "host=localhost user=postgres password=postgres dbname=library port=5432 sslmode=disable TimeZone=UTC"),
		ResetDB:     getEnvBool("RESET_DB", false),

		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:   getEnvInt("REDIS_DB", 0),
		RedisPass: os.Getenv("REDIS_PASSWORD"),

		SessionSecret:       getEnv("SESSION_SECRET", "change-me"),
		SessionTTL:          time.Duration(getEnvInt("SESSION_TTL_MINUTES", 120)) * time.Minute,
		SessionCookieSecure: getEnvBool("SESSION_COOKIE_SECURE", false),

		LogLevel:    getEnv("LOG_LEVEL", "info"),
		SwaggerHost: os.Getenv("SWAGGER_HOST"),

		AutoApproveStaff: getEnvBool("AUTO_APPROVE_STAFF", false),
		ReturnPolicy:     parseReturnPolicy(getEnv("RETURN_POLICY", string(ReturnPolicyClose))),
		BorrowRoles:      getEnvList("BORROW_ROLES"),
		CatalogCacheTTL:  time.Duration(getEnvInt("CATALOG_CACHE_TTL_SECONDS", 30)) * time.Second,
	}
}

func parseReturnPolicy(v string) ReturnPolicy {
	if ReturnPolicy(strings.ToLower(v)) == ReturnPolicyDelete {
		return ReturnPolicyDelete
	}
	return ReturnPolicyClose
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

// getEnvList splits a comma separated variable, dropping blanks. Unset yields nil.
func getEnvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, strings.ToLower(p))
		}
	}
	return out
}
