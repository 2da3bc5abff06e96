package config

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config agrupa todo lo que viene de env. cmd/api carga antes el .env (si existe).
type Config struct {
	Port string `envconfig:"PORT" default:"8080"`

	// Vacío => store in-memory (modo dev / tests).
	DatabaseDSN string `envconfig:"DB_DSN"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
	AppName   string `envconfig:"APP_NAME" default:"vet-booking"`

	Timezone string `envconfig:"CLINIC_TIMEZONE" default:"America/Santiago"`

	// Admin
	JWTSecret     string        `envconfig:"JWT_SECRET"`
	TokenTTL      time.Duration `envconfig:"ADMIN_TOKEN_TTL" default:"8h"`
	AdminUsername string        `envconfig:"ADMIN_USERNAME"`
	AdminPassword string        `envconfig:"ADMIN_PASSWORD"`
	BcryptCost    int           `envconfig:"BCRYPT_COST" default:"10"`

	LoginRateLimit int    `envconfig:"LOGIN_RATE_LIMIT_PER_MINUTE" default:"10"`
	RedisAddr      string `envconfig:"REDIS_ADDR"`
	RedisPassword  string `envconfig:"REDIS_PASSWORD"`
	RedisDB        int    `envconfig:"REDIS_DB" default:"0"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	RemindersEnabled bool   `envconfig:"REMINDERS_ENABLED" default:"false"`
	ReminderCron     string `envconfig:"REMINDER_CRON" default:"0 9 * * *"`

	TwilioAccountSID string `envconfig:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `envconfig:"TWILIO_AUTH_TOKEN"`
	TwilioFromNumber string `envconfig:"TWILIO_FROM_NUMBER"`

	OtelEnabled     bool    `envconfig:"OTEL_ENABLED" default:"false"`
	OtelEndpoint    string  `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"localhost:4317"`
	OtelSampleRatio float64 `envconfig:"OTEL_SAMPLING_RATIO" default:"1"`
}

func Load() (Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if c.TokenTTL <= 0 {
		return fmt.Errorf("ADMIN_TOKEN_TTL must be positive (got %s)", c.TokenTTL)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31 (got %d)", c.BcryptCost)
	}
	if (c.AdminUsername == "") != (c.AdminPassword == "") {
		return fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD must be set together")
	}
	if c.OtelSampleRatio < 0 || c.OtelSampleRatio > 1 {
		return fmt.Errorf("OTEL_SAMPLING_RATIO must be within [0,1] (got %v)", c.OtelSampleRatio)
	}
	return nil
}

func (c Config) TwilioConfigured() bool {
	return strings.TrimSpace(c.TwilioAccountSID) != "" &&
		strings.TrimSpace(c.TwilioAuthToken) != "" &&
		strings.TrimSpace(c.TwilioFromNumber) != ""
}

// RandomSecret genera un secreto para firmar tokens cuando JWT_SECRET no viene.
// Los tokens no sobreviven a un reinicio.
func RandomSecret() (string, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(key), nil
}
