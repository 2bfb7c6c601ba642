// Package config holds service configuration loaded from environment
// variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`

	// AuditBaseURL is the identity/audit API root; PrereqBaseURL is the
	// prerequisite-lookup API root. They are usually the same host.
	AuditBaseURL  string `env:"AUDIT_BASE_URL" envDefault:"https://mydegrees.oregonstate.edu/ResponsiveDashboard"`
	PrereqBaseURL string `env:"PREREQ_BASE_URL" envDefault:"https://mydegrees.oregonstate.edu/ResponsiveDashboard"`

	// Fixed institutional query parameters for the audit fetch.
	AuditSchool string `env:"AUDIT_SCHOOL" envDefault:"01"`
	AuditDegree string `env:"AUDIT_DEGREE" envDefault:"BS"`

	CachePath string `env:"CACHE_PATH" envDefault:"mydegrees.db"`

	DebounceDelay time.Duration `env:"DEBOUNCE_DELAY" envDefault:"750ms"`
	HistoryTTL    time.Duration `env:"HISTORY_TTL" envDefault:"24h"`
	HTTPTimeout   time.Duration `env:"HTTP_TIMEOUT" envDefault:"10s"`

	LogMode string `env:"LOG_MODE" envDefault:"dev"`
}

// Load parses configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}
