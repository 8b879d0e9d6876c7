package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/levada-tours/service-booking/internal/platform/database"
)

// KafkaConfig holds broker and consumer-group settings.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret   string
	TokenTTL time.Duration
}

// ServiceConfig holds all configuration for the booking service.
type ServiceConfig struct {
	Port        string
	AppEnv      string
	DBConfig    database.Config
	JWTConfig   JWTConfig
	KafkaConfig KafkaConfig
}

// Load reads configuration from BOOKING_-prefixed environment variables with
// development defaults.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("BOOKING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("SERVICE_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "tours_booking")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("JWT_SECRET", "dev-secret-change-me")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_GROUP_PREFIX", "levada-tours.")

	ttl, err := time.ParseDuration(v.GetString("JWT_TTL"))
	if err != nil {
		ttl = 24 * time.Hour
	}

	return &ServiceConfig{
		Port:   ":" + strings.TrimPrefix(v.GetString("SERVICE_PORT"), ":"),
		AppEnv: v.GetString("APP_ENV"),
		DBConfig: database.Config{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		JWTConfig: JWTConfig{
			Secret:   v.GetString("JWT_SECRET"),
			TokenTTL: ttl,
		},
		KafkaConfig: KafkaConfig{
			Brokers:     strings.Split(v.GetString("KAFKA_BROKERS"), ","),
			GroupPrefix: v.GetString("KAFKA_GROUP_PREFIX"),
		},
	}, nil
}
