package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, StoreDriverFile, cfg.Store.Driver)
	assert.Equal(t, "./data/db.json", cfg.Store.Path)
	assert.Equal(t, 100, cfg.Sheets.MaxSlotsPerBatch)
	assert.Equal(t, time.Second, cfg.Mirror.RetryDelay)
	assert.False(t, cfg.Mirror.Enabled)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("STORE_DRIVER", "BOLT")
	v.Set("ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	v.Set("MAX_SLOTS_PER_BATCH", 0)
	v.Set("MIRROR_RETRY_DELAY", "not-a-duration")

	cfg := fromViper(v)

	assert.Equal(t, StoreDriverBolt, cfg.Store.Driver)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 100, cfg.Sheets.MaxSlotsPerBatch)
	assert.Equal(t, time.Second, cfg.Mirror.RetryDelay)
}
