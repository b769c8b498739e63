package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("CORS_ORIGINS", "https://shop.example.com")
	t.Setenv("SMTP_PORT", "2525")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 2525, cfg.SMTPPort)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "62", cfg.CountryCode)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Brokers())
	assert.Equal(t, []string{"https://shop.example.com"}, cfg.AllowedOrigins())
}

func TestSplitList_Empty(t *testing.T) {
	assert.Nil(t, (&Config{}).Brokers())
	assert.Nil(t, (&Config{CORSOrigins: "  "}).AllowedOrigins())
}
