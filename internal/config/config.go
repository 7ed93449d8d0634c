package config

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/restbuck/coffeeshop/internal/models"
)

type Config struct {
	DB_HOST           string
	DB_PORT           string
	DB_USER           string
	DB_PASSWORD       string
	DB_NAME           string
	HTTP_PORT         string
	LOG_LEVEL         string
	JWT_SECRET        string
	KAFKA_ADDRESS     string
	ORDER_EVENT_TOPIC string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		DB_HOST:           os.Getenv("DB_HOST"),
		DB_PORT:           os.Getenv("DB_PORT"),
		DB_USER:           os.Getenv("DB_USER"),
		DB_PASSWORD:       os.Getenv("DB_PASSWORD"),
		DB_NAME:           os.Getenv("DB_NAME"),
		HTTP_PORT:         os.Getenv("HTTP_PORT"),
		LOG_LEVEL:         os.Getenv("LOG_LEVEL"),
		JWT_SECRET:        os.Getenv("JWT_SECRET"),
		KAFKA_ADDRESS:     os.Getenv("KAFKA_ADDRESS"),
		ORDER_EVENT_TOPIC: os.Getenv("ORDER_EVENT_TOPIC"),
	}
	if config.HTTP_PORT == "" {
		config.HTTP_PORT = "8080"
	}
	if config.ORDER_EVENT_TOPIC == "" {
		config.ORDER_EVENT_TOPIC = "order_events"
	}

	return config, nil
}

func configurePool(sqlDB *sql.DB) {
	const (
		maxOpenConns    = 20
		maxIdleConns    = 10
		connMaxLifetime = 30 * time.Minute
		connMaxIdleTime = 5 * time.Minute
	)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
}

func InitDB(configuration *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		configuration.DB_USER,
		configuration.DB_PASSWORD,
		configuration.DB_HOST,
		configuration.DB_PORT,
		configuration.DB_NAME,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	configurePool(sqlDB)

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Feature{},
		&models.FeatureValue{},
		&models.Product{},
		&models.Order{},
		&models.ProductOrder{},
	); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}
