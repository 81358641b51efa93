package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewConfigEnvironmentOverrides(t *testing.T) {
	t.Setenv("AWS_REGION", "eu-central-1")
	t.Setenv("AUTH_SECRET", "hush")

	cfg := NewConfig()
	assert.Equal(t, "eu-central-1", cfg.AwsRegion)
	assert.Equal(t, "hush", cfg.AuthSecret)

	// Unset keys keep the built-in defaults.
	defaults := DefaultConfig()
	assert.Equal(t, defaults.Port, cfg.Port)
	assert.Equal(t, defaults.MatchDuration, cfg.MatchDuration)
	assert.Equal(t, defaults.QuestionCount, cfg.QuestionCount)
}
