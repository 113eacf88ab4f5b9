package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, defaultSDAURL, cfg.SDAURL)
	assert.Equal(t, defaultEDITURL, cfg.EDITURL)
	assert.Equal(t, defaultCropScapeURL, cfg.CropScapeURL)
	assert.Equal(t, defaultSoilWebURL, cfg.SoilWebURL)
	assert.Equal(t, 15*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 1000, cfg.CacheSize)
	assert.Equal(t, 5, cfg.CDLYears)
	assert.Empty(t, cfg.SeriesTable)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.KafkaEnabled())
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("SDA_BASE_URL", "http://localhost:8001/sda")
	t.Setenv("EDIT_BASE_URL", "http://localhost:8002/esd")
	t.Setenv("CROPSCAPE_BASE_URL", "http://localhost:8003/cdl")
	t.Setenv("SOILWEB_BASE_URL", "http://localhost:8004/api")
	t.Setenv("UPSTREAM_TIMEOUT", "5s")
	t.Setenv("CACHE_SIZE", "250")
	t.Setenv("CDL_YEARS", "3")
	t.Setenv("SERIES_TABLE", "/data/osd.json")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_SINK_TOPIC", "series-out")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "http://localhost:8001/sda", cfg.SDAURL)
	assert.Equal(t, "http://localhost:8002/esd", cfg.EDITURL)
	assert.Equal(t, "http://localhost:8003/cdl", cfg.CropScapeURL)
	assert.Equal(t, "http://localhost:8004/api", cfg.SoilWebURL)
	assert.Equal(t, 5*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 250, cfg.CacheSize)
	assert.Equal(t, 3, cfg.CDLYears)
	assert.Equal(t, "/data/osd.json", cfg.SeriesTable)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "series-out", cfg.KafkaSinkTopic)
	assert.True(t, cfg.KafkaEnabled())
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidUpstreamTimeout(t *testing.T) {
	t.Setenv("UPSTREAM_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UPSTREAM_TIMEOUT")
}

func TestLoad_InvalidCacheSize(t *testing.T) {
	t.Setenv("CACHE_SIZE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CACHE_SIZE")
}

func TestLoad_EmptyKafkaTopic(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker1:9092")
	t.Setenv("KAFKA_SINK_TOPIC", "")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_SINK_TOPIC")
}

func TestLoad_TooManyCDLYears(t *testing.T) {
	t.Setenv("CDL_YEARS", "25")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CDL_YEARS")
}
