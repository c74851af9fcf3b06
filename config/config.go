package config

import (
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/chidubem/paylinq/internal/models"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
}

func LoadConfig() (*Config, error) {
	return &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
	}, nil
}

type AppConfig struct {
	// BaseURL is the public origin embedded in every generated payment
	// link, e.g. https://pay.example.com.
	BaseURL   string
	UploadDir string
	LogLevel  string
	LogFormat string
}

func LoadAppConfig() (*AppConfig, error) {
	cfg := &AppConfig{
		BaseURL:   os.Getenv("APP_BASE_URL"),
		UploadDir: os.Getenv("UPLOAD_DIR"),
		LogLevel:  os.Getenv("LOG_LEVEL"),
		LogFormat: os.Getenv("LOG_FORMAT"),
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = "./uploads"
	}
	return cfg, nil
}

type RatesConfig struct {
	BaseURL string
}

func LoadRatesConfig() (*RatesConfig, error) {
	return &RatesConfig{
		BaseURL: os.Getenv("COINGECKO_BASE_URL"),
	}, nil
}

func enableUUIDExtension(db *gorm.DB) error {
	return db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error
}

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := enableUUIDExtension(db); err != nil {
		return nil, err
	}

	err = db.AutoMigrate(&models.User{}, &models.PaymentMethod{}, &models.PaymentLink{})
	if err != nil {
		return nil, err
	}

	return db, nil
}
