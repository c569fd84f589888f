package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.True(t, cfg.Analysis.CacheEnabled)
	assert.Equal(t, 10*time.Minute, cfg.Analysis.CacheTTL)
	assert.Equal(t, 10, cfg.Optimizer.MaxPermutations)
	assert.Equal(t, 5*time.Second, cfg.Optimizer.MaxTime)
	assert.Equal(t, 2, cfg.Optimizer.Workers)
	assert.Equal(t, time.Hour, cfg.Exports.SignedURLTTL)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
}

func TestOverridesAndFallbacks(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("OPTIMIZER_MAX_TIME", "not-a-duration")
	v.Set("OPTIMIZER_MAX_PERMUTATIONS", 0)
	v.Set("OPTIMIZER_WORKERS", 4)
	v.Set("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg := fromViper(v)
	assert.Equal(t, 5*time.Second, cfg.Optimizer.MaxTime)
	assert.Equal(t, 10, cfg.Optimizer.MaxPermutations)
	assert.Equal(t, 4, cfg.Optimizer.Workers)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}
