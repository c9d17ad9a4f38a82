package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD" default:"postgres"`
	DBName     string `envconfig:"DB_NAME" default:"canchas_db"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	ServerPort string `envconfig:"SERVER_PORT" default:"8080"`

	// Empty disables the audit retry queue.
	RabbitURL string `envconfig:"RABBIT_URL"`

	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"12h"`

	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	DefaultAdminName     string `envconfig:"DEFAULT_ADMIN_NAME" default:"Administrator"`
	DefaultAdminEmail    string `envconfig:"DEFAULT_ADMIN_EMAIL"`
	DefaultAdminPassword string `envconfig:"DEFAULT_ADMIN_PASSWORD"`
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[Config] no .env file found, using environment")
	}

	cfg, err := Process()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func Process() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	return &cfg, nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}
