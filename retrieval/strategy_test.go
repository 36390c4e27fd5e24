package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		tag  string
		want Strategy
	}{
		{"vector", StrategyVector},
		{"keyword", StrategyKeyword},
		{"hybrid", StrategyHybrid},
		{"graph", StrategyGraph},
		{"full", StrategyFull},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got, err := ParseStrategy(tt.tag)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.tag, got.String())
		})
	}
}

func TestParseStrategyUnknown(t *testing.T) {
	_, err := ParseStrategy("semantic")
	assert.ErrorIs(t, err, ErrUnknownStrategy)

	assert.Equal(t, "unknown", Strategy(0).String())
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	invalid := []func(*Config){
		func(c *Config) { c.FusionWeight = -0.1 },
		func(c *Config) { c.FusionWeight = 1.1 },
		func(c *Config) { c.TopK = 0 },
		func(c *Config) { c.SeedCount = 0 },
		func(c *Config) { c.GraphDepth = -1 },
		func(c *Config) { c.MaxHops = 0 },
	}
	for _, mutate := range invalid {
		cfg := DefaultConfig()
		mutate(&cfg)
		assert.Error(t, cfg.Validate())
	}
}
