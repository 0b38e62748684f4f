package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

// TokenTTL is the lifetime of every issued access token. It is policy, not configuration.
const TokenTTL = time.Hour

// DefaultBcryptCost is the work factor used for password digests.
const DefaultBcryptCost = 10

var ErrMissingJWTSecret = errors.New("jwt secret key is not configured")

type JWTConfig struct {
	SecretKey string `mapstructure:"secretKey"`
	Issuer    string `mapstructure:"issuer"`
}

type AuthConfig struct {
	BcryptCost int `mapstructure:"bcryptCost"`
}

type RateLimitConfig struct {
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

type DataConfig struct {
	UpstreamURL string        `mapstructure:"upstreamURL"`
	CacheTTL    time.Duration `mapstructure:"cacheTTL"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type Config struct {
	Mode     string `mapstructure:"mode"`
	Dotenv   string `mapstructure:"dotenv"`
	Handlers struct {
		Prometheus struct {
			Port string `mapstructure:"port"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Repositories struct {
		Postgres struct {
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	JWT  JWTConfig  `mapstructure:"jwt"`
	Auth AuthConfig `mapstructure:"auth"`
	CORS struct {
		AllowedOrigins []string `mapstructure:"allowedOrigins"`
	} `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
	Data      DataConfig      `mapstructure:"data"`
}

// Validate reports configuration the server must not start without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWT.SecretKey) == "" {
		return ErrMissingJWTSecret
	}
	if c.Auth.BcryptCost == 0 {
		c.Auth.BcryptCost = DefaultBcryptCost
	}
	return nil
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// JWT_SECRETKEY, REPOSITORIES_POSTGRES_HOST, ... override the file
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	// deployments that export JWT_SECRET keep working
	if secret := v.GetString("jwt_secret"); secret != "" {
		v.Set("jwt.secretKey", secret)
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err = config.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}
