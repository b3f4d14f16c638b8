package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/divaskloset/storefront/internal/models"
)

type Config struct {
	APP_ENV     string
	PORT        string
	DB_DRIVER   string
	DB_HOST     string
	DB_PORT     string
	DB_USER     string
	DB_PASSWORD string
	DB_NAME     string
	SQLITE_PATH string

	JWT_SECRET string

	SMTP_HOST     string
	SMTP_PORT     string
	SMTP_FROM     string
	SMTP_USER     string
	SMTP_PASSWORD string

	KAFKA_ADDRESS string
	PUBLIC_URL    string
	LOG_LEVEL     string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		APP_ENV:       envDefault("APP_ENV", "development"),
		PORT:          envDefault("PORT", "8080"),
		DB_DRIVER:     envDefault("DB_DRIVER", "sqlite"),
		DB_HOST:       os.Getenv("DB_HOST"),
		DB_PORT:       os.Getenv("DB_PORT"),
		DB_USER:       os.Getenv("DB_USER"),
		DB_PASSWORD:   os.Getenv("DB_PASSWORD"),
		DB_NAME:       os.Getenv("DB_NAME"),
		SQLITE_PATH:   envDefault("SQLITE_PATH", "divaskloset.db"),
		JWT_SECRET:    os.Getenv("JWT_SECRET"),
		SMTP_HOST:     os.Getenv("SMTP_HOST"),
		SMTP_PORT:     envDefault("SMTP_PORT", "587"),
		SMTP_FROM:     envDefault("SMTP_FROM", "no-reply@divaskloset.com"),
		SMTP_USER:     os.Getenv("SMTP_USER"),
		SMTP_PASSWORD: os.Getenv("SMTP_PASSWORD"),
		KAFKA_ADDRESS: os.Getenv("KAFKA_ADDRESS"),
		PUBLIC_URL:    envDefault("PUBLIC_URL", "http://localhost:8080"),
		LOG_LEVEL:     envDefault("LOG_LEVEL", "info"),
	}

	if config.JWT_SECRET == "" {
		return nil, fmt.Errorf("missing required env JWT_SECRET")
	}

	return config, nil
}

func (c *Config) Production() bool {
	return strings.EqualFold(c.APP_ENV, "production")
}

// InitDB opens the configured database driver and migrates the schema. The
// returned handle is the only database object in the process; everything
// downstream receives it by injection.
func InitDB(c *Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch c.DB_DRIVER {
	case "postgres":
		dsn := fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=disable",
			c.DB_USER, c.DB_PASSWORD, c.DB_HOST, c.DB_PORT, c.DB_NAME,
		)
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(c.SQLITE_PATH)
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", c.DB_DRIVER)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.OneTimeCode{},
		&models.EmailToken{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
