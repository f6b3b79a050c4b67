package reminder

import (
	"time"

	"github.com/hccdispo/dispoplan/internal/config"
)

// Config controls when and how deadline reminders fire.
type Config struct {
	// Timezone is the calendar the deadline midnight is taken in.
	Timezone     string
	TickInterval time.Duration
	// MisfireGrace is how late a job may fire before it is counted as
	// misfired. It still fires; the grace only drives logging and
	// metrics, matching a service that was down over the deadline.
	MisfireGrace time.Duration
	MaxInstances int
}

func DefaultConfig() Config {
	return Config{
		Timezone:     "Europe/Berlin",
		TickInterval: 30 * time.Second,
		MisfireGrace: 20 * time.Minute,
		MaxInstances: 2,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.Timezone == "" {
		c.Timezone = defaults.Timezone
	}
	if c.TickInterval <= 0 {
		c.TickInterval = defaults.TickInterval
	}
	if c.MisfireGrace <= 0 {
		c.MisfireGrace = defaults.MisfireGrace
	}
	if c.MaxInstances <= 0 {
		c.MaxInstances = defaults.MaxInstances
	}
	return c
}

func ProvideConfig(cfg config.Config) Config {
	return Config{
		Timezone:     cfg.ReminderTimezone,
		TickInterval: cfg.ReminderTickInterval,
		MisfireGrace: cfg.ReminderMisfireGrace,
		MaxInstances: cfg.ReminderMaxInstances,
	}.withDefaults()
}
