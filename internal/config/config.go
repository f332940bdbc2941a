package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config carries everything the process needs. It is loaded once in main,
// validated, and handed to constructors; nothing reads the environment after
// startup.
type Config struct {
	App struct {
		Port    int    `envconfig:"PORT" default:"8080"`
		BaseURL string `envconfig:"APP_BASE_URL" default:"http://localhost:8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"expensetracker"`
	}

	JWT struct {
		Secret        string        `envconfig:"JWT_SECRET"`
		RefreshSecret string        `envconfig:"JWT_REFRESH_SECRET"`
		AccessTTL     time.Duration `envconfig:"JWT_ACCESS_TTL" default:"23h"`
		RefreshTTL    time.Duration `envconfig:"JWT_REFRESH_TTL" default:"720h"`
	}

	Email struct {
		Address  string `envconfig:"EMAIL_ADDRESS"`
		Password string `envconfig:"EMAIL_PASSWORD"`
		SMTPHost string `envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
		SMTPPort string `envconfig:"SMTP_PORT" default:"587"`
		UseMock  bool   `envconfig:"USE_MOCK_EMAIL" default:"false"`
	}

	Reconcile struct {
		Schedule string `envconfig:"RECONCILE_SCHEDULE" default:"@hourly"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Error loading .env file, continuing with system environment variables")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return errors.New("no JWT_SECRET provided")
	}
	if c.JWT.RefreshSecret == "" {
		return errors.New("no JWT_REFRESH_SECRET provided")
	}
	if !c.Email.UseMock && (c.Email.Address == "" || c.Email.Password == "") {
		return errors.New("EMAIL_ADDRESS and EMAIL_PASSWORD are required unless USE_MOCK_EMAIL=true")
	}
	return nil
}
