package config

import (
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL string
	AppEnv      string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string

	// Настройки пула соединений с БД.
	DBMaxOpenConns int
	DBMaxIdleConns int
}

// LoadConfig загружает конфигурацию из переменных окружения.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		AppEnv:         os.Getenv("ENV"),
		DBMaxOpenConns: 50,
		DBMaxIdleConns: 20,
	}

	if v := os.Getenv("DB_MAX_OPEN_CONNS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			log.Printf("Предупреждение: некорректное значение DB_MAX_OPEN_CONNS ('%s'), используется %d.", v, cfg.DBMaxOpenConns)
		} else {
			cfg.DBMaxOpenConns = n
		}
	}
	if v := os.Getenv("DB_MAX_IDLE_CONNS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			log.Printf("Предупреждение: некорректное значение DB_MAX_IDLE_CONNS ('%s'), используется %d.", v, cfg.DBMaxIdleConns)
		} else {
			cfg.DBMaxIdleConns = n
		}
	}

	if cfg.DatabaseURL == "" {
		log.Println("Критическая ошибка: DATABASE_URL не установлен.")
	} else {
		parsedURL, parseErr := url.Parse(cfg.DatabaseURL)
		if parseErr != nil {
			log.Printf("Критическая ошибка: ошибка парсинга DATABASE_URL: %v", parseErr)
		} else {
			cfg.DBHost = parsedURL.Hostname()
			cfg.DBPort = parsedURL.Port()
			if cfg.DBPort == "" {
				cfg.DBPort = "5432"
			}
			cfg.DBUser = parsedURL.User.Username()
			cfg.DBPassword, _ = parsedURL.User.Password()
			cfg.DBName = strings.TrimPrefix(parsedURL.Path, "/")
		}
	}

	log.Println("Конфигурация загружена.")
	return cfg, nil
}
