package captcha

import (
	"fmt"
	"log/slog"
	mrand "math/rand/v2"
	"runtime"

	"github.com/nsoz/arrowcaptcha/captcha/sequence"
	"github.com/nsoz/arrowcaptcha/metrics"
)

// DefaultMaxFailures is the number of full-but-wrong buffer states that
// triggers regeneration of a challenge.
const DefaultMaxFailures = 10

// Config controls a Manager. The zero value of any field is replaced by
// its default at construction time.
type Config struct {
	// MaxFailures is the failure threshold at which a challenge is
	// regenerated in place. Defaults to DefaultMaxFailures.
	MaxFailures int

	// RenderConcurrency bounds the number of challenge images synthesized
	// at once. Synthesis is CPU-bound; defaults to GOMAXPROCS.
	RenderConcurrency int

	// Logger receives structured lifecycle logs. Defaults to
	// slog.Default().
	Logger *slog.Logger

	// Metrics, when set, receives lifecycle counters and the active
	// session gauge.
	Metrics *metrics.Collector

	// NewRand supplies the random source used for one synthesis call
	// (answer draw plus rendering noise). Defaults to a crypto-seeded
	// source per call; tests inject a seeded source for deterministic
	// output.
	NewRand func() *mrand.Rand
}

// DefaultConfig returns a Config with every field at its default.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.MaxFailures == 0 {
		c.MaxFailures = DefaultMaxFailures
	}
	if c.RenderConcurrency == 0 {
		c.RenderConcurrency = runtime.GOMAXPROCS(0)
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.NewRand == nil {
		c.NewRand = sequence.NewRand
	}
}

// Validate checks the configuration for values that cannot be defaulted
// away.
func (c *Config) Validate() error {
	if c.MaxFailures < 0 {
		return fmt.Errorf("max failures must not be negative, got %d", c.MaxFailures)
	}
	if c.RenderConcurrency < 0 {
		return fmt.Errorf("render concurrency must not be negative, got %d", c.RenderConcurrency)
	}
	return nil
}
