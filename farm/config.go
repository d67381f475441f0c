package farm

import (
	"time"

	"github.com/kbukum/juiceplant/validation"
)

// Config holds farm settings.
type Config struct {
	// Plants is how many plants run side by side.
	Plants int `yaml:"plants" mapstructure:"plants" validate:"gte=1"`
	// Duration is how long the plants work before they are stopped.
	Duration time.Duration `yaml:"duration" mapstructure:"duration" validate:"gt=0"`
	// UnitLimit stops each plant after this many oranges. Zero means none.
	UnitLimit int64 `yaml:"unit_limit" mapstructure:"unit_limit" validate:"gte=0"`
	// StopTimeout bounds the wait for each plant's workers.
	StopTimeout time.Duration `yaml:"stop_timeout" mapstructure:"stop_timeout" validate:"gte=0"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Plants == 0 {
		c.Plants = 2
	}
	if c.Duration == 0 {
		c.Duration = 5 * time.Second
	}
	if c.StopTimeout == 0 {
		c.StopTimeout = 10 * time.Second
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.Validate(c)
}
