package service

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/sanops/fabric-watch/pkg/store"
)

const (
	// DefaultSchedule re-scans the input directory hourly, catching files
	// that were dropped while the service was down.
	DefaultSchedule = "@hourly"

	defaultMetricsAddress     = ":9091"
	defaultHealthCheckAddress = ":9191"
)

// Config contains the configuration for the service.
type Config struct {
	// InputDir is the directory watched for zoning export CSVs.
	InputDir string `yaml:"inputDir"`
	// Schedule is the cron expression for periodic re-scans of InputDir.
	Schedule string `yaml:"schedule"`
	// Debounce is how long a file must be quiet before it is validated.
	Debounce time.Duration `yaml:"debounce"`

	DiscordChannel string `yaml:"discordChannel"`
	DiscordToken   string `yaml:"-"`

	S3Bucket        string `yaml:"s3Bucket"`
	S3BucketPrefix  string `yaml:"s3BucketPrefix"`
	S3Region        string `yaml:"s3Region"`
	S3EndpointURL   string `yaml:"s3EndpointUrl"`
	AccessKeyID     string `yaml:"-"`
	SecretAccessKey string `yaml:"-"`

	MetricsAddress     string `yaml:"metricsAddress"`     // Defaults to :9091
	HealthCheckAddress string `yaml:"healthCheckAddress"` // Defaults to :9191
}

// LoadConfig loads configuration from an optional YAML file, then applies
// environment overrides. A .env file in the working directory is honoured
// for local development.
func LoadConfig(path string) (*Config, error) {
	// Missing .env is the normal case outside development.
	_ = godotenv.Load()

	cfg := &Config{
		Schedule:           DefaultSchedule,
		MetricsAddress:     defaultMetricsAddress,
		HealthCheckAddress: defaultHealthCheckAddress,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// applyEnvOverrides layers environment variables over the file config.
// Secrets are only ever read from the environment.
func applyEnvOverrides(cfg *Config) {
	overrides := map[string]*string{
		"FABRIC_WATCH_INPUT_DIR": &cfg.InputDir,
		"FABRIC_WATCH_SCHEDULE":  &cfg.Schedule,
		"DISCORD_BOT_TOKEN":      &cfg.DiscordToken,
		"DISCORD_CHANNEL_ID":     &cfg.DiscordChannel,
		"AWS_ACCESS_KEY_ID":      &cfg.AccessKeyID,
		"AWS_SECRET_ACCESS_KEY":  &cfg.SecretAccessKey,
		"AWS_REGION":             &cfg.S3Region,
		"S3_BUCKET":              &cfg.S3Bucket,
		"S3_BUCKET_PREFIX":       &cfg.S3BucketPrefix,
		"S3_ENDPOINT_URL":        &cfg.S3EndpointURL,
	}

	for key, target := range overrides {
		if value := os.Getenv(key); value != "" {
			*target = value
		}
	}
}

// AsS3Config converts the configuration to an S3Config.
func (c *Config) AsS3Config() *store.S3Config {
	return &store.S3Config{
		AccessKeyID:     c.AccessKeyID,
		SecretAccessKey: c.SecretAccessKey,
		Bucket:          c.S3Bucket,
		Prefix:          c.S3BucketPrefix,
		Region:          c.S3Region,
		EndpointURL:     c.S3EndpointURL,
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("inputDir is required")
	}

	if c.S3Bucket == "" {
		return fmt.Errorf("S3_BUCKET environment variable is required")
	}

	if c.AccessKeyID == "" {
		return fmt.Errorf("AWS_ACCESS_KEY_ID environment variable is required")
	}

	if c.SecretAccessKey == "" {
		return fmt.Errorf("AWS_SECRET_ACCESS_KEY environment variable is required")
	}

	if c.DiscordToken != "" && c.DiscordChannel == "" {
		return fmt.Errorf("DISCORD_CHANNEL_ID is required when DISCORD_BOT_TOKEN is set")
	}

	return nil
}
