package config

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultDatabaseURL  = "taskhub.db"
	defaultItemsPerPage = 20
)

type Config struct {
	DatabaseURL  string
	SecretKey    string
	Port         string
	ItemsPerPage int
	LogLevel     string
}

func Load() *Config {
	_ = godotenv.Load()

	databaseURL := NormalizeDatabaseURL(os.Getenv("DATABASE_URL"))
	if databaseURL == "" {
		databaseURL = defaultDatabaseURL
	}

	secretKey := os.Getenv("SECRET_KEY")
	if secretKey == "" {
		secretKey = randomSecret()
	}

	itemsPerPage := defaultItemsPerPage
	if v := os.Getenv("ITEMS_PER_PAGE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			itemsPerPage = n
		}
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	return &Config{
		DatabaseURL:  databaseURL,
		SecretKey:    secretKey,
		Port:         os.Getenv("PORT"),
		ItemsPerPage: itemsPerPage,
		LogLevel:     logLevel,
	}
}

// NormalizeDatabaseURL rewrites the postgres:// scheme some hosting
// providers hand out to the canonical postgresql://.
func NormalizeDatabaseURL(url string) string {
	if strings.HasPrefix(url, "postgres://") {
		return "postgresql://" + strings.TrimPrefix(url, "postgres://")
	}
	return url
}

// Without a configured SECRET_KEY sessions do not survive a restart.
func randomSecret() string {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}
