package carousel

import (
	"fmt"
	"time"
)

// Config holds the timings that drive a showcase rotation.
type Config struct {
	AutoplayInterval time.Duration `yaml:"autoplay_interval"`
	TransitionDelay  time.Duration `yaml:"transition_delay"`
	SettleDelay      time.Duration `yaml:"settle_delay"`
	ResumeCooldown   time.Duration `yaml:"resume_cooldown"`
	// Autoplay is the initial auto-rotation state at mount.
	Autoplay bool `yaml:"autoplay"`
}

func DefaultConfig() Config {
	return Config{
		AutoplayInterval: 5 * time.Second,
		TransitionDelay:  300 * time.Millisecond,
		SettleDelay:      50 * time.Millisecond,
		ResumeCooldown:   10 * time.Second,
		Autoplay:         true,
	}
}

// TransitionWindow is the time from the start of a swap until the content is stable again.
func (c Config) TransitionWindow() time.Duration {
	return c.TransitionDelay + c.SettleDelay
}

// Validate rejects timings the controller cannot honor. An autoplay tick must never
// land inside the transition window it started.
func (c Config) Validate() error {
	switch {
	case c.AutoplayInterval <= 0:
		return ErrInvalidConfig{Field: "autoplay_interval", Reason: "must be positive"}
	case c.TransitionDelay <= 0:
		return ErrInvalidConfig{Field: "transition_delay", Reason: "must be positive"}
	case c.SettleDelay <= 0:
		return ErrInvalidConfig{Field: "settle_delay", Reason: "must be positive"}
	case c.ResumeCooldown <= 0:
		return ErrInvalidConfig{Field: "resume_cooldown", Reason: "must be positive"}
	case c.AutoplayInterval <= c.TransitionWindow():
		return ErrInvalidConfig{
			Field:  "autoplay_interval",
			Reason: fmt.Sprintf("must exceed transition window %s", c.TransitionWindow()),
		}
	}
	return nil
}
