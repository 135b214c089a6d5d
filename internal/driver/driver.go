package driver

import (
	"context"
	"time"
)

const (
	DefaultTickLength = time.Second * 5
)

// Manager is anything that wants periodic maintenance work, like the combat
// engine's idle-session sweep.
type Manager interface {
	Tick(context.Context) error
}

type ArenaDriver struct {
	tickLength time.Duration
	managers   []Manager
}

func NewArenaDriver(managers []Manager, opts ...ArenaDriverOpt) *ArenaDriver {
	d := &ArenaDriver{
		tickLength: DefaultTickLength,
		managers:   managers,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *ArenaDriver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			err := d.Tick(ctx)
			if err != nil {
				return err
			}
		}
	}
}

func (d *ArenaDriver) Tick(ctx context.Context) error {
	for _, m := range d.managers {
		if err := m.Tick(ctx); err != nil {
			return err
		}
	}
	return nil
}
