package scheduler

import "time"

// Config controls job cadence and per-run bounds.
type Config struct {
	PollInterval      time.Duration
	SeedInterval      time.Duration
	AggregateInterval time.Duration

	// MaxIngestPerPoll caps how many killmails one poll drains before
	// yielding back to the ticker.
	MaxIngestPerPoll int

	IngestTimeout    time.Duration
	SeedTimeout      time.Duration
	AggregateTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		PollInterval:      10 * time.Second,
		SeedInterval:      24 * time.Hour,
		AggregateInterval: 24 * time.Hour,
		MaxIngestPerPoll:  50,
		IngestTimeout:     2 * time.Minute,
		SeedTimeout:       30 * time.Minute,
		AggregateTimeout:  15 * time.Minute,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.PollInterval <= 0 {
		c.PollInterval = defaults.PollInterval
	}
	if c.SeedInterval <= 0 {
		c.SeedInterval = defaults.SeedInterval
	}
	if c.AggregateInterval <= 0 {
		c.AggregateInterval = defaults.AggregateInterval
	}
	if c.MaxIngestPerPoll <= 0 {
		c.MaxIngestPerPoll = defaults.MaxIngestPerPoll
	}
	if c.IngestTimeout <= 0 {
		c.IngestTimeout = defaults.IngestTimeout
	}
	if c.SeedTimeout <= 0 {
		c.SeedTimeout = defaults.SeedTimeout
	}
	if c.AggregateTimeout <= 0 {
		c.AggregateTimeout = defaults.AggregateTimeout
	}
	return c
}
