package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-arena/internal/world"
	"github.com/pixil98/go-errors"
)

type EngineConfig struct {
	IdleTimeout  string `json:"idle_timeout"`
	MoveInterval string `json:"move_interval"`
	TickInterval string `json:"tick_interval"`
}

func (c *EngineConfig) Validate() error {
	el := errors.NewErrorList()

	for name, v := range map[string]string{
		"idle_timeout":  c.IdleTimeout,
		"move_interval": c.MoveInterval,
		"tick_interval": c.TickInterval,
	} {
		if v == "" {
			continue
		}
		if _, err := time.ParseDuration(v); err != nil {
			el.Add(fmt.Errorf("parsing %s: %w", name, err))
		}
	}

	return el.Err()
}

func (c *EngineConfig) IdleTimeoutDuration() time.Duration {
	return c.duration(c.IdleTimeout, 0)
}

func (c *EngineConfig) MoveIntervalDuration() time.Duration {
	return c.duration(c.MoveInterval, world.DefaultMoveInterval)
}

func (c *EngineConfig) TickIntervalDuration() time.Duration {
	return c.duration(c.TickInterval, 0)
}

func (c *EngineConfig) duration(v string, fallback time.Duration) time.Duration {
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
