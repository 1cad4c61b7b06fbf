package gesture

import (
	"fmt"
	"time"
)

// Config holds the tunable thresholds of the gesture pipeline.
type Config struct {
	// DeadZone is the direction magnitude treated as facing forward.
	DeadZone float64 `json:"dead_zone"`

	// OpenThreshold is the openness above which the mouth counts as open.
	OpenThreshold float64 `json:"open_threshold"`

	// CloseThreshold is the openness below which an open mouth counts as closed.
	CloseThreshold float64 `json:"close_threshold"`

	// Cooldown is the minimum time between opening and a confirmed close.
	Cooldown time.Duration `json:"cooldown"`
}

// MaxCooldown bounds Config.Cooldown.
const MaxCooldown = time.Minute

// DefaultConfig returns the thresholds the keypad was tuned with.
func DefaultConfig() Config {
	return Config{
		DeadZone:       DefaultDeadZone,
		OpenThreshold:  DefaultOpenThreshold,
		CloseThreshold: DefaultCloseThreshold,
		Cooldown:       DefaultCooldown,
	}
}

// Validate checks the thresholds for consistency.
func (c Config) Validate() error {
	if c.DeadZone < 0 {
		return fmt.Errorf("dead zone must not be negative, got %v", c.DeadZone)
	}
	if c.CloseThreshold <= 0 {
		return fmt.Errorf("close threshold must be positive, got %v", c.CloseThreshold)
	}
	if c.OpenThreshold <= c.CloseThreshold {
		return fmt.Errorf("open threshold %v must exceed close threshold %v", c.OpenThreshold, c.CloseThreshold)
	}
	if c.Cooldown < 0 || c.Cooldown > MaxCooldown {
		return fmt.Errorf("cooldown must be between 0 and %v, got %v", MaxCooldown, c.Cooldown)
	}
	return nil
}

// NewClassifier creates a Classifier from the config.
func (c Config) NewClassifier() *Classifier {
	return NewClassifier(c.DeadZone)
}

// NewMouthDebouncer creates a MouthDebouncer from the config.
func (c Config) NewMouthDebouncer() *MouthDebouncer {
	return NewMouthDebouncer(c.OpenThreshold, c.CloseThreshold, c.Cooldown)
}
