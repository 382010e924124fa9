package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zyra-ai/zyra/pkg/config"
)

type testConfig struct {
	Host    string        `env:"TEST_CFG_HOST" envDefault:"localhost"`
	Port    int           `env:"TEST_CFG_PORT" envDefault:"8080"`
	Debug   bool          `env:"TEST_CFG_DEBUG" envDefault:"false"`
	Timeout time.Duration `env:"TEST_CFG_TIMEOUT" envDefault:"30s"`
}

type requiredConfig struct {
	APIKey string `env:"TEST_CFG_REQUIRED_KEY,required"`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg testConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.False(t, cfg.Debug)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TEST_CFG_HOST", "0.0.0.0")
	t.Setenv("TEST_CFG_PORT", "9000")
	t.Setenv("TEST_CFG_DEBUG", "true")

	var cfg testConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 9000, cfg.Port)
	assert.True(t, cfg.Debug)
}

func TestLoad_MissingRequired(t *testing.T) {
	var cfg requiredConfig
	err := config.Load(&cfg)

	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrParsing)
}

func TestLoad_NilTarget(t *testing.T) {
	err := config.Load[testConfig](nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrParsing)
}

func TestMustLoad_PanicsOnError(t *testing.T) {
	assert.Panics(t, func() {
		var cfg requiredConfig
		config.MustLoad(&cfg)
	})
}
