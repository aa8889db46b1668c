package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	HTTPPort  string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Data source
	DataSource     string `env:"DATA_SOURCE" envDefault:"csv"`
	CSVPath        string `env:"CSV_PATH" envDefault:"AP_13_dist_data.csv"`
	DatabaseURL    string `env:"DATABASE_URL"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"file://migrations"`

	// Redis Config. Пустой адрес - сессии хранятся в памяти процесса.
	RedisAddr  string        `env:"REDIS_ADDR"`
	RedisPass  string        `env:"REDIS_PASSWORD"`
	RedisDB    int           `env:"REDIS_DB" envDefault:"0"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"30m"`

	// Map Config
	MapCenterLat    float64 `env:"MAP_CENTER_LAT" envDefault:"22.0"`
	MapCenterLng    float64 `env:"MAP_CENTER_LNG" envDefault:"79.0"`
	MapDefaultZoom  int     `env:"MAP_DEFAULT_ZOOM" envDefault:"5"`
	MapMaxFitZoom   int     `env:"MAP_MAX_FIT_ZOOM" envDefault:"12"`
	MapWidthPx      int     `env:"MAP_WIDTH_PX" envDefault:"1024"`
	MapHeightPx     int     `env:"MAP_HEIGHT_PX" envDefault:"768"`
	ClusterRadiusPx float64 `env:"CLUSTER_RADIUS_PX" envDefault:"40"`
	IconBaseURL     string  `env:"ICON_BASE_URL" envDefault:"icons/"`

	// HTTP Config
	WebDir             string   `env:"WEB_DIR" envDefault:"web"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS"`

	// API Keys for diagnostics
	APIKeys []string `env:"API_KEYS"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
		DataSource:         strings.ToLower(getEnv("DATA_SOURCE", SourceCSV)),
		CSVPath:            getEnv("CSV_PATH", "AP_13_dist_data.csv"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		MigrationsPath:     getEnv("MIGRATIONS_PATH", "file://migrations"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPass:          os.Getenv("REDIS_PASSWORD"),
		RedisDB:            getEnvAsInt("REDIS_DB", 0),
		SessionTTL:         getEnvAsDuration("SESSION_TTL", 30*time.Minute),
		MapCenterLat:       getEnvAsFloat("MAP_CENTER_LAT", 22.0),
		MapCenterLng:       getEnvAsFloat("MAP_CENTER_LNG", 79.0),
		MapDefaultZoom:     getEnvAsInt("MAP_DEFAULT_ZOOM", 5),
		MapMaxFitZoom:      getEnvAsInt("MAP_MAX_FIT_ZOOM", 12),
		MapWidthPx:         getEnvAsInt("MAP_WIDTH_PX", 1024),
		MapHeightPx:        getEnvAsInt("MAP_HEIGHT_PX", 768),
		ClusterRadiusPx:    getEnvAsFloat("CLUSTER_RADIUS_PX", 40),
		IconBaseURL:        getEnv("ICON_BASE_URL", "icons/"),
		WebDir:             getEnv("WEB_DIR", "web"),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
		APIKeys:            getEnvAsList("API_KEYS"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	switch c.DataSource {
	case SourceCSV:
		if c.CSVPath == "" {
			return fmt.Errorf("CSV_PATH environment variable is required for csv data source")
		}
	case SourcePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable is required for postgres data source")
		}
	default:
		return fmt.Errorf("unknown DATA_SOURCE %q", c.DataSource)
	}

	if c.MapWidthPx <= 0 || c.MapHeightPx <= 0 {
		return fmt.Errorf("map size must be positive, got %dx%d", c.MapWidthPx, c.MapHeightPx)
	}
	if c.MapMaxFitZoom < 0 {
		return fmt.Errorf("MAP_MAX_FIT_ZOOM must not be negative")
	}
	return nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}

// getEnvAsList разбирает список через запятую
func getEnvAsList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	items := strings.Split(raw, ",")
	for i, item := range items {
		items[i] = strings.TrimSpace(item)
	}
	return items
}
