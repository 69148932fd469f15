package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

var (
	Sessdata     string
	BiliJct      string
	Buvid3       string
	DedeUserID   string
	AcTimeValue  string
	LogLevel     slog.Leveler
	DatabaseFile string
	RedisAddr    string
	Socks5Proxy  string
)

func init() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded",
			"error", err.Error())
	}

	Sessdata = os.Getenv("SESSDATA")
	BiliJct = os.Getenv("BILI_JCT")
	Buvid3 = os.Getenv("BUVID3")
	DedeUserID = os.Getenv("DEDEUSERID")
	AcTimeValue = os.Getenv("AC_TIME_VALUE")

	logLevelStr := os.Getenv("LOG_LEVEL")
	if logLevelStr == "" {
		logLevelStr = "ERROR"
	}
	LogLevel = parseLogLevel(logLevelStr)

	DatabaseFile = os.Getenv("DATABASE_FILE")
	if DatabaseFile == "" {
		DatabaseFile = "bilikit.db"
	}

	RedisAddr = os.Getenv("REDIS_ADDR")
	Socks5Proxy = os.Getenv("SOCKS5_PROXY")
}

func parseLogLevel(level string) slog.Leveler {
	levels := map[string]slog.Level{
		"ERROR":   slog.LevelError,
		"INFO":    slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"WARNING": slog.LevelWarn,
		"WARN":    slog.LevelWarn,
	}

	l, ok := levels[level]
	if !ok {
		l = slog.LevelError
	}

	return l
}
