package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("STAGE_TIMEOUT_SECONDS", "5m")
	assert.Equal(t, 300, getEnvInt("STAGE_TIMEOUT_SECONDS", 300))

	t.Setenv("PORT", "-1")
	assert.Equal(t, 8472, getEnvInt("PORT", 8472))

	t.Setenv("LOOKBACK_HOURS", "48")
	assert.Equal(t, 48, getEnvInt("LOOKBACK_HOURS", 24))
}

func TestInitConfDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STAGE_TIMEOUT_SECONDS", "not-a-number")

	InitConf()
	cfg := GetConfig()
	assert.Equal(t, 8472, cfg.Port)
	assert.Equal(t, 300, cfg.StageTimeout)
	assert.Equal(t, "/opt/leonne-deploy", cfg.WorkDir)
}
