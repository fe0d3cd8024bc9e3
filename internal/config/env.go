package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Env struct {
	AppAddr string `envconfig:"APP_ADDR" default:":8080"`
	GinMode string `envconfig:"GIN_MODE"`

	DBUser string `envconfig:"DB_USER" default:"root"`
	DBPass string `envconfig:"DB_PASS"`
	DBHost string `envconfig:"DB_HOST" default:"127.0.0.1:3306"`
	DBName string `envconfig:"DB_NAME" default:"fieldbooking"`

	JWTSecret string        `envconfig:"JWT_SECRET" default:"super-secret-key-change-me"`
	JWTExpiry time.Duration `envconfig:"JWT_EXPIRY" default:"24h"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173,http://127.0.0.1:5173"`

	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	FieldCacheTTL time.Duration `envconfig:"FIELD_CACHE_TTL" default:"5m"`

	AMQPURL      string `envconfig:"AMQP_URL"`
	AMQPExchange string `envconfig:"AMQP_EXCHANGE" default:"booking.events"`

	LineAccessToken string   `envconfig:"LINE_CHANNEL_ACCESS_TOKEN"`
	LinePushTo      []string `envconfig:"LINE_PUSH_TO"`

	PromptPayTarget      string `envconfig:"PROMPTPAY_TARGET"`
	PromptPayFixedAmount bool   `envconfig:"PROMPTPAY_FIXED_AMOUNT" default:"true"`

	ReaperInterval  time.Duration `envconfig:"REAPER_INTERVAL" default:"5m"`
	ReaperThreshold time.Duration `envconfig:"REAPER_THRESHOLD" default:"15m"`
}

// LoadEnv reads .env when present, then the process environment.
func LoadEnv() (Env, error) {
	_ = godotenv.Load()

	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return Env{}, err
	}
	return env, nil
}
