package config

import (
	"os"
	"path/filepath"
	"time"
)

// Client captures everything the session subsystem needs at construction
// time: where the API lives, where tokens persist, and how aggressively the
// session monitor acts.
type Client struct {
	APIBaseURL        string
	StorePath         string
	MonitorPeriod     time.Duration
	WarningThreshold  time.Duration
	CriticalThreshold time.Duration
	// AllowPlaceholderTokens keeps the "mock-" token expiry exemption on.
	// Must be off outside local development; a placeholder token in a real
	// deployment would otherwise never look expired to the client.
	AllowPlaceholderTokens bool
}

// Server captures dev auth server configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
	TokenTTL      time.Duration
	RefreshTTL    time.Duration
}

// ClientFromEnv builds a Client config from environment variables so main
// stays lean.
func ClientFromEnv() Client {
	cfg := Client{
		APIBaseURL:             "http://localhost:3000/api",
		StorePath:              defaultStorePath(),
		MonitorPeriod:          time.Minute,
		WarningThreshold:       5 * time.Minute,
		CriticalThreshold:      2 * time.Minute,
		AllowPlaceholderTokens: os.Getenv("INSPECTHUB_ENV") != "production",
	}
	if base := os.Getenv("INSPECTHUB_API_URL"); base != "" {
		cfg.APIBaseURL = base
	}
	if path := os.Getenv("INSPECTHUB_STORE_PATH"); path != "" {
		cfg.StorePath = path
	}
	if d := durationFromEnv("INSPECTHUB_MONITOR_PERIOD"); d > 0 {
		cfg.MonitorPeriod = d
	}
	if d := durationFromEnv("INSPECTHUB_SESSION_WARNING"); d > 0 {
		cfg.WarningThreshold = d
	}
	if d := durationFromEnv("INSPECTHUB_SESSION_CRITICAL"); d > 0 {
		cfg.CriticalThreshold = d
	}
	return cfg
}

// ServerFromEnv builds a Server config from environment variables.
func ServerFromEnv() Server {
	cfg := Server{
		Addr:          ":3000",
		JWTSigningKey: "dev-secret-key-change-in-production",
		TokenTTL:      time.Hour,
		RefreshTTL:    30 * 24 * time.Hour,
	}
	if addr := os.Getenv("INSPECTHUB_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if key := os.Getenv("INSPECTHUB_JWT_SIGNING_KEY"); key != "" {
		cfg.JWTSigningKey = key
	}
	if d := durationFromEnv("INSPECTHUB_TOKEN_TTL"); d > 0 {
		cfg.TokenTTL = d
	}
	if d := durationFromEnv("INSPECTHUB_REFRESH_TTL"); d > 0 {
		cfg.RefreshTTL = d
	}
	return cfg
}

func durationFromEnv(key string) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return 0
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "inspecthub.db"
	}
	return filepath.Join(home, ".inspecthub", "tokens.db")
}
