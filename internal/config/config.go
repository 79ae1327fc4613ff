package config

import (
	"net/url"
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	IsTestMode bool   `env:"TEST_MODE" envDefault:"false"`
	Secret     string `env:"SECRET,required"`

	BindAddress    string   `env:"BIND_ADDRESS" envDefault:"0.0.0.0:9090"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"*"`
	// PublicBaseURL is where this service is reachable from the outside.
	// Password reset links and the referer guard are derived from it.
	PublicBaseURL url.URL `env:"PUBLIC_BASE_URL,required"`

	PostgresqlURL string `env:"POSTGRESQL_URL,required"`
	RedisURL      string `env:"REDIS_URL,required"`

	BcryptHasherCost  int `env:"BCRYPT_HASHER_COST" envDefault:"10"`
	PasswordMinLength int `env:"PASSWORD_MIN_LENGTH" envDefault:"8"`

	// UserIdentifierField and UserEmailField describe how the deployment
	// maps user attributes. When they are equal the login key itself is the
	// email address; when UserEmailField is empty, reset emails cannot be
	// sent at all.
	UserIdentifierField string `env:"USER_IDENTIFIER_FIELD" envDefault:"username"`
	UserEmailField      string `env:"USER_EMAIL_FIELD" envDefault:"email"`

	RefererTTL time.Duration `env:"PASSWORD_FLOW_REFERER_TTL" envDefault:"1h"`

	AwsRegion                     string `env:"AWS_REGION" envDefault:"us-east-1"`
	AwsAccessKey                  string `env:"AWS_ACCESS_KEY"`
	AwsSecretKey                  string `env:"AWS_SECRET_KEY"`
	AwsEmailSender                string `env:"AWS_EMAIL_SENDER"`
	AwsEmailSenderName            string `env:"AWS_EMAIL_SENDER_NAME"`
	AwsEmailPasswordResetTemplate string `env:"AWS_EMAIL_PASSWORD_RESET_TEMPLATE"`

	SentryDsn *url.URL `env:"SENTRY_DSN"`
}

func Load() (*Config, error) {
	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, err
	}
	return config, nil
}
