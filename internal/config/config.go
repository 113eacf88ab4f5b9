package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Default upstream endpoints. All four are public USDA / university services.
const (
	defaultSDAURL       = "https://sdmdataaccess.sc.egov.usda.gov/Tabular/post.rest"
	defaultEDITURL      = "https://edit.jornada.nmsu.edu/services/descriptions/esd"
	defaultCropScapeURL = "https://nassgeodata.gmu.edu/axis2/services/CDLService"
	defaultSoilWebURL   = "https://casoilresource.lawrence.ucdavis.edu/api"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Upstream service endpoints and client behavior.
	SDAURL          string
	EDITURL         string
	CropScapeURL    string
	SoilWebURL      string
	UpstreamTimeout time.Duration
	CacheSize       int

	// CDLYears is how many trailing CDL years the survey endpoint fetches.
	CDLYears int

	// SeriesTable is the path to the JSON lookup table produced by
	// cmd/osdconvert. Empty disables the local series store.
	SeriesTable string

	// Optional Kafka sink for the OSD converter.
	KafkaBrokers   []string
	KafkaSinkTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	upstreamTimeout, err := parseDuration("UPSTREAM_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	cacheSize, err := parsePositiveInt("CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}
	cdlYears, err := parsePositiveInt("CDL_YEARS", 5)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		SDAURL:          envOrDefault("SDA_BASE_URL", defaultSDAURL),
		EDITURL:         envOrDefault("EDIT_BASE_URL", defaultEDITURL),
		CropScapeURL:    envOrDefault("CROPSCAPE_BASE_URL", defaultCropScapeURL),
		SoilWebURL:      envOrDefault("SOILWEB_BASE_URL", defaultSoilWebURL),
		UpstreamTimeout: upstreamTimeout,
		CacheSize:       cacheSize,
		CDLYears:        cdlYears,

		SeriesTable: os.Getenv("SERIES_TABLE"),

		KafkaBrokers:   parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaSinkTopic: envOrDefault("KAFKA_SINK_TOPIC", "soil-series-records"),
	}

	if cfg.SDAURL == "" || cfg.EDITURL == "" || cfg.CropScapeURL == "" || cfg.SoilWebURL == "" {
		return nil, errors.New("upstream base URLs must not be empty")
	}
	if cfg.CDLYears > 20 {
		return nil, errors.New("CDL_YEARS must be 20 or fewer")
	}
	// An explicitly emptied topic is an error rather than a silent fallback
	// to the default; only an unset variable takes the default.
	if topic, set := os.LookupEnv("KAFKA_SINK_TOPIC"); set && strings.TrimSpace(topic) == "" && len(cfg.KafkaBrokers) > 0 {
		return nil, errors.New("KAFKA_BROKERS is set but KAFKA_SINK_TOPIC is empty")
	}

	return cfg, nil
}

// KafkaEnabled reports whether the converter should publish records to Kafka.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	s := envOrDefault(key, fallback)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func parsePositiveInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}

func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
