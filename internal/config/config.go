package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath    string
	OutputDir string

	FetchTimeoutMs int
	FetchDelayMs   int
	FetchCookie    string
	FetchUserAgent string

	ClientPrefix     string
	LinkCacheEnabled bool

	WebAddr string

	NumberHeader   string
	ClientHeader   string
	DateHeader     string
	ProductHeader  string
	QuantityHeader string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:    getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		FetchTimeoutMs: getEnvInt("FETCH_TIMEOUT_MS", 20000),
		FetchDelayMs:   getEnvInt("FETCH_DELAY_MS", 0),
		FetchCookie:    getEnv("FETCH_COOKIE", ""),
		FetchUserAgent: getEnv("FETCH_USER_AGENT", "Mozilla/5.0 (compatible; lagardere/1.0)"),

		ClientPrefix:     getEnv("CLIENT_PREFIX", "Лагардер"),
		LinkCacheEnabled: getEnvBool("LINK_CACHE", false),

		WebAddr: getEnv("WEB_ADDR", ":8080"),

		NumberHeader:   getEnv("NUMBER_HEADER", "Номер"),
		ClientHeader:   getEnv("CLIENT_HEADER", "Клиент"),
		DateHeader:     getEnv("DATE_HEADER", "Дата на документа"),
		ProductHeader:  getEnv("PRODUCT_HEADER", "Наименование на продукта"),
		QuantityHeader: getEnv("QUANTITY_HEADER", "Количество"),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
