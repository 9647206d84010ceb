package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults without a file", func(t *testing.T) {
		cfg, err := LoadConfig("")
		require.NoError(t, err)

		assert.Equal(t, DefaultSchedule, cfg.Schedule)
		assert.Equal(t, ":9091", cfg.MetricsAddress)
		assert.Equal(t, ":9191", cfg.HealthCheckAddress)
	})

	t.Run("reads yaml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `
inputDir: /srv/exports
schedule: "*/15 * * * *"
debounce: 2s
discordChannel: chan-123
s3Bucket: fabric-artifacts
s3BucketPrefix: prod
metricsAddress: ":9999"
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, "/srv/exports", cfg.InputDir)
		assert.Equal(t, "*/15 * * * *", cfg.Schedule)
		assert.Equal(t, 2*time.Second, cfg.Debounce)
		assert.Equal(t, "chan-123", cfg.DiscordChannel)
		assert.Equal(t, "fabric-artifacts", cfg.S3Bucket)
		assert.Equal(t, "prod", cfg.S3BucketPrefix)
		assert.Equal(t, ":9999", cfg.MetricsAddress)
		// Untouched fields keep their defaults.
		assert.Equal(t, ":9191", cfg.HealthCheckAddress)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("s3Bucket: from-file\n"), 0o644))

		t.Setenv("S3_BUCKET", "from-env")
		t.Setenv("AWS_ACCESS_KEY_ID", "key-id")
		t.Setenv("DISCORD_BOT_TOKEN", "token")

		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, "from-env", cfg.S3Bucket)
		assert.Equal(t, "key-id", cfg.AccessKeyID)
		assert.Equal(t, "token", cfg.DiscordToken)
	})

	t.Run("missing file errors", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			InputDir:        "/srv/exports",
			S3Bucket:        "bucket",
			AccessKeyID:     "key",
			SecretAccessKey: "secret",
		}
	}

	t.Run("valid config", func(t *testing.T) {
		require.NoError(t, valid().Validate())
	})

	t.Run("missing input dir", func(t *testing.T) {
		cfg := valid()
		cfg.InputDir = ""
		assert.ErrorContains(t, cfg.Validate(), "inputDir")
	})

	t.Run("missing bucket", func(t *testing.T) {
		cfg := valid()
		cfg.S3Bucket = ""
		assert.ErrorContains(t, cfg.Validate(), "S3_BUCKET")
	})

	t.Run("missing credentials", func(t *testing.T) {
		cfg := valid()
		cfg.SecretAccessKey = ""
		assert.ErrorContains(t, cfg.Validate(), "AWS_SECRET_ACCESS_KEY")
	})

	t.Run("discord token without channel", func(t *testing.T) {
		cfg := valid()
		cfg.DiscordToken = "token"
		assert.ErrorContains(t, cfg.Validate(), "DISCORD_CHANNEL_ID")
	})
}

func TestAsS3Config(t *testing.T) {
	cfg := &Config{
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		S3Bucket:        "bucket",
		S3BucketPrefix:  "prefix",
		S3Region:        "eu-west-1",
		S3EndpointURL:   "http://localhost:4566",
	}

	s3cfg := cfg.AsS3Config()

	assert.Equal(t, "key", s3cfg.AccessKeyID)
	assert.Equal(t, "secret", s3cfg.SecretAccessKey)
	assert.Equal(t, "bucket", s3cfg.Bucket)
	assert.Equal(t, "prefix", s3cfg.Prefix)
	assert.Equal(t, "eu-west-1", s3cfg.Region)
	assert.Equal(t, "http://localhost:4566", s3cfg.EndpointURL)
}
