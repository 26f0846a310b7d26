package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Config holds runtime configuration values for the Arcology site server.
type Config struct {
	DBPath        string
	ServerPort    int
	LogLevel      string
	SentryDSN     string
	Environment   string
	ShutdownGrace time.Duration

	SiteTheme string
	ThemeFile string

	ContentAPIURL   string
	FetchStaleAfter time.Duration
	FetchTimeout    time.Duration
	FetchCapacity   int
	RenderWait      time.Duration

	ConsultationEndpoint string
	ConsultationTimeout  time.Duration

	RateLimit RateLimit
}

// RateLimit configures the limiter applied to form submissions.
type RateLimit struct {
	RequestsPerSecond float64
	Burst             int
	ClientTTL         time.Duration
}

const (
	defaultDBPath              = "./data/arcology.db"
	defaultServerPort          = 8080
	defaultLogLevel            = "info"
	defaultEnvironment         = "development"
	defaultShutdownGrace       = 10 * time.Second
	defaultSiteTheme           = "arcology"
	defaultFetchStaleAfter     = 5 * time.Minute
	defaultFetchTimeout        = 10 * time.Second
	defaultFetchCapacity       = 1024
	defaultRenderWait          = 3 * time.Second
	defaultConsultationTimeout = 10 * time.Second
	defaultRateLimitRPS        = 1.0
	defaultRateLimitBurst      = 5
	defaultRateLimitTTL        = 10 * time.Minute
)

// Load reads configuration values from environment variables, applying defaults where necessary.
func Load() (*Config, error) {
	cfg := &Config{
		DBPath:               getEnv("DB_PATH", defaultDBPath),
		LogLevel:             getEnv("LOG_LEVEL", defaultLogLevel),
		SentryDSN:            os.Getenv("SENTRY_DSN"),
		Environment:          getEnv("ENV", defaultEnvironment),
		SiteTheme:            strings.ToLower(getEnv("SITE_THEME", defaultSiteTheme)),
		ThemeFile:            os.Getenv("THEME_FILE"),
		ContentAPIURL:        strings.TrimRight(strings.TrimSpace(os.Getenv("CONTENT_API_URL")), "/"),
		ConsultationEndpoint: strings.TrimSpace(os.Getenv("CONSULTATION_ENDPOINT")),
	}

	port, err := intEnv("SERVER_PORT", defaultServerPort)
	if err != nil {
		return nil, err
	}
	cfg.ServerPort = port

	capacity, err := intEnv("FETCH_CAPACITY", defaultFetchCapacity)
	if err != nil {
		return nil, err
	}
	if capacity <= 0 {
		return nil, eris.Errorf("invalid FETCH_CAPACITY value: %d", capacity)
	}
	cfg.FetchCapacity = capacity

	durations := []struct {
		key      string
		fallback time.Duration
		target   *time.Duration
	}{
		{"SHUTDOWN_GRACE", defaultShutdownGrace, &cfg.ShutdownGrace},
		{"FETCH_STALE_AFTER", defaultFetchStaleAfter, &cfg.FetchStaleAfter},
		{"FETCH_TIMEOUT", defaultFetchTimeout, &cfg.FetchTimeout},
		{"RENDER_WAIT", defaultRenderWait, &cfg.RenderWait},
		{"CONSULTATION_TIMEOUT", defaultConsultationTimeout, &cfg.ConsultationTimeout},
		{"RATE_LIMIT_TTL", defaultRateLimitTTL, &cfg.RateLimit.ClientTTL},
	}
	for _, d := range durations {
		value, err := durationEnv(d.key, d.fallback)
		if err != nil {
			return nil, err
		}
		*d.target = value
	}

	burst, err := intEnv("RATE_LIMIT_BURST", defaultRateLimitBurst)
	if err != nil {
		return nil, err
	}
	cfg.RateLimit.Burst = burst

	rpsValue := getEnv("RATE_LIMIT_RPS", strconv.FormatFloat(defaultRateLimitRPS, 'f', -1, 64))
	rps, err := strconv.ParseFloat(rpsValue, 64)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid RATE_LIMIT_RPS value: %s", rpsValue)
	}
	cfg.RateLimit.RequestsPerSecond = rps

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	value := getEnv(key, strconv.Itoa(fallback))
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, eris.Wrapf(err, "invalid %s value: %s", key, value)
	}
	return parsed, nil
}

// durationEnv accepts Go duration strings; a bare "0" disables the setting.
func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	value := getEnv(key, fallback.String())
	if value == "0" {
		return 0, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, eris.Wrapf(err, "invalid %s value: %s", key, value)
	}
	if parsed < 0 {
		return 0, eris.Errorf("invalid %s value: %s", key, value)
	}
	return parsed, nil
}
