package config

import (
	"crypto/rsa"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/kaobian-ai/kaobian-server/utils"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port           string `env:"LISTEN_ADDR" envDefault:":3000"`
	Timeout        uint64 `env:"TIMEOUT" envDefault:"10"`
	ReadBufferSize int    `env:"READ_BUFFER_SIZE" envDefault:"4096"`
	BodyLimit      int    `env:"BODY_LIMIT" envDefault:"1048576"`
	AppName        string `env:"APP_NAME" envDefault:"KaobianAI"`
	IsProduction   bool   `env:"PRODUCTION"`
	Dsn            string `env:"DSN"`
	RedisUrl       string `env:"REDIS_URL"`
	CookieKey      string `env:"COOKIE_KEY"`
	JwtPublicKey   string `env:"JWT_PUBLIC_KEY"`
	JwtPrivateKey  string `env:"JWT_PRIVATE_KEY"`

	JwtParsedPublicKey  *rsa.PublicKey
	JwtParsedPrivateKey *rsa.PrivateKey

	EmailConfig        EmailConfig        `envPrefix:"EMAIL_"`
	VerificationConfig VerificationConfig `envPrefix:"VERIFICATION_"`
}

type EmailConfig struct {
	From             string `env:"FROM"`
	SmtpHost         string `env:"SMTP_HOST"`
	SmtpPort         int    `env:"SMTP_PORT" envDefault:"587"`
	SmtpUser         string `env:"SMTP_USER"`
	SmtpPassword     string `env:"SMTP_PASSWORD"`
	SmtpSkipInsecure bool   `env:"SMTP_SKIP_INSECURE" envDefault:"false"`
}

// VerificationConfig carries every knob of the verification-code engine.
// Defaults match the product behavior: 6-digit codes valid for 10 minutes,
// 5 verify attempts, at most 10 sends per minute per email and per source
// address, ledger rows retained for 7 days.
type VerificationConfig struct {
	CodeLength          int           `env:"CODE_LENGTH" envDefault:"6"`
	CodeExpiryMinutes   int           `env:"CODE_EXPIRY_MINUTES" envDefault:"10"`
	MaxVerifyAttempts   int           `env:"MAX_ATTEMPTS" envDefault:"5"`
	RateWindowMinutes   int           `env:"RATE_WINDOW_MINUTES" envDefault:"1"`
	RateMaxSends        int           `env:"RATE_MAX_SENDS" envDefault:"10"`
	LedgerRetentionDays int           `env:"LEDGER_RETENTION_DAYS" envDefault:"7"`
	CleanupInterval     time.Duration `env:"CLEANUP_INTERVAL" envDefault:"1h"`
}

func (c VerificationConfig) CodeExpiry() time.Duration {
	return time.Duration(c.CodeExpiryMinutes) * time.Minute
}

func (c VerificationConfig) RateWindow() time.Duration {
	return time.Duration(c.RateWindowMinutes) * time.Minute
}

func Parse() (*Config, error) {
	cfg := Config{
		IsProduction: utils.ParseFlags(),
	}

	if err := env.Parse(&cfg); err != nil {
		log.Panic().Err(err).Msg("Failed to parse env config")
	}

	cfg.JwtParsedPublicKey = utils.ParsePublicKey(cfg.JwtPublicKey)
	cfg.JwtParsedPrivateKey = utils.ParsePrivateKey(cfg.JwtPrivateKey)

	return &cfg, nil
}

func (c *Config) GetPort() string {
	return c.Port
}

func (c *Config) GetTimeout() int {
	return int(c.Timeout)
}

func (c *Config) GetReadBufferSize() int {
	return c.ReadBufferSize
}

func (c *Config) GetAppName() string {
	return c.AppName
}

func (c *Config) GetIsProduction() bool {
	return c.IsProduction
}

func (c *Config) GetCookieKey() string {
	return c.CookieKey
}

func (c *Config) GetBodyLimit() int {
	return c.BodyLimit
}
