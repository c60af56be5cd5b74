package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Production  bool   `envconfig:"PRODUCTION" default:"false"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	JWTSecret    string `envconfig:"JWT_SECRET" required:"true"`
	MasterAPIKey string `envconfig:"MASTER_API_KEY" required:"true"`

	RenderAPIKey  string `envconfig:"RENDER_API_KEY"`
	RenderAPIURL  string `envconfig:"RENDER_API_URL" default:"https://api.render.com/v1"`
	DeployTimeout int    `envconfig:"DEPLOY_TIMEOUT_SECONDS" default:"15"`

	InitialCredits   int    `envconfig:"INITIAL_CREDITS" default:"100"`
	DefaultRateLimit int    `envconfig:"DEFAULT_RATE_LIMIT" default:"30"`
	SignupIPLimit    int    `envconfig:"SIGNUP_IP_LIMIT" default:"3"`
	ContactPhone     string `envconfig:"CONTACT_PHONE" default:"919876543210"`

	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"*"`
}

// Load reads .env when present, then parses the environment. Missing required
// secrets fail here rather than at first use.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
