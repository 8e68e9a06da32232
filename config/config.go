// Package config provides environment-based configuration for livelog.
// A .env file in the working directory is loaded on startup when present.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

func init() {
	// Missing .env is fine; env vars win either way.
	_ = godotenv.Load()
}

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("LIVELOG_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("LIVELOG_DEBUG") == "true"
}

func GetListen() string {
	listen := os.Getenv("LIVELOG_LISTEN")
	if listen == "" {
		listen = ":8080"
	}
	return listen
}

// GetDomain returns the expected Host header, empty to accept any.
func GetDomain() string {
	return os.Getenv("LIVELOG_DOMAIN")
}

func GetBasePath() string {
	basePath := os.Getenv("LIVELOG_BASE_PATH")
	if basePath == "" {
		return "/"
	}
	if !strings.HasSuffix(basePath, "/") {
		basePath += "/"
	}
	return basePath
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("LIVELOG_DB_FOLDER")
	if dbFolderPath == "" {
		dbFolderPath = "/etc/livelog"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("LIVELOG_LOG_FOLDER")
	if logFolderPath == "" {
		logFolderPath = "/var/log"
	}
	return logFolderPath
}

// GetSessionSecret returns the cookie-store secret. An empty value is
// rejected at startup outside debug mode.
func GetSessionSecret() string {
	return os.Getenv("LIVELOG_SESSION_SECRET")
}

func GetSessionMaxAge() int {
	return getEnvInt("LIVELOG_SESSION_MAX_AGE", 3600)
}

// GetRememberMaxAge returns the lifetime of the persistent login cookie
// in seconds. Defaults to 20 years, matching a "remember me" that
// effectively never expires.
func GetRememberMaxAge() int {
	return getEnvInt("LIVELOG_REMEMBER_MAX_AGE", 20*365*24*3600)
}

// GetBcryptCost returns the bcrypt work factor. Zero means the library
// default; tests set LIVELOG_BCRYPT_MIN_COST to speed hashing up.
func GetBcryptCost() int {
	if os.Getenv("LIVELOG_BCRYPT_MIN_COST") == "true" {
		return 4
	}
	return getEnvInt("LIVELOG_BCRYPT_COST", 0)
}

func GetPageSize() int {
	return getEnvInt("LIVELOG_PAGE_SIZE", 20)
}

// SMTP settings for the notification mailer.

func GetSMTPHost() string {
	return os.Getenv("LIVELOG_SMTP_HOST")
}

func GetSMTPPort() int {
	return getEnvInt("LIVELOG_SMTP_PORT", 587)
}

func GetSMTPUser() string {
	return os.Getenv("LIVELOG_SMTP_USER")
}

func GetSMTPPassword() string {
	return os.Getenv("LIVELOG_SMTP_PASSWORD")
}

func GetMailFrom() string {
	from := os.Getenv("LIVELOG_MAIL_FROM")
	if from == "" {
		from = "noreply@ku-unplugged.net"
	}
	return from
}

// GetBaseURL returns the externally visible URL used in mail links.
func GetBaseURL() string {
	baseURL := os.Getenv("LIVELOG_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return strings.TrimSuffix(baseURL, "/")
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
