package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"
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
	logLevel := os.Getenv("ARCADIA_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("ARCADIA_DEBUG") == "true"
}

func GetListen() string {
	return os.Getenv("ARCADIA_LISTEN")
}

func GetPort() int {
	port, err := strconv.Atoi(os.Getenv("ARCADIA_PORT"))
	if err != nil || port <= 0 || port > 65535 {
		return 8080
	}
	return port
}

func GetWebDomain() string {
	return os.Getenv("ARCADIA_WEB_DOMAIN")
}

// GetTokenSecret returns the HMAC secret used to sign session tokens.
// An empty value makes the server generate an ephemeral secret at startup,
// which invalidates all sessions on restart.
func GetTokenSecret() string {
	return os.Getenv("ARCADIA_TOKEN_SECRET")
}

// GetTwoFactorIssuer is the issuer name shown by authenticator apps.
func GetTwoFactorIssuer() string {
	issuer := os.Getenv("ARCADIA_2FA_ISSUER")
	if issuer == "" {
		issuer = GetName()
	}
	return issuer
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("ARCADIA_DB_FOLDER")
	if dbFolderPath == "" {
		dbFolderPath = "/etc/arcadia"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("ARCADIA_LOG_FOLDER")
	if logFolderPath == "" {
		logFolderPath = "/var/log"
	}
	return logFolderPath
}
