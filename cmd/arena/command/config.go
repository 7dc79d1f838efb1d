package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
)

type Config struct {
	SweepInterval string           `json:"sweep_interval"`
	Listeners     []ListenerConfig `json:"listeners"`
	Nats          NatsConfig       `json:"nats"`
	Sessions      SessionConfig    `json:"sessions"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	d, err := time.ParseDuration(c.SweepInterval)
	if err != nil {
		el.Add(fmt.Errorf("parsing sweep_interval: %w", err))
	} else if d < time.Second {
		el.Add(fmt.Errorf("sweep_interval must be at least 1 second"))
	}

	if len(c.Listeners) == 0 {
		el.Add(fmt.Errorf("at least one listener is required"))
	}
	for i, l := range c.Listeners {
		err := l.validate()
		if err != nil {
			el.Add(fmt.Errorf("listener %d: %w", i, err))
		}
	}

	el.Add(c.Nats.validate())
	el.Add(c.Sessions.validate())

	return el.Err()
}

func (c *Config) sweepInterval() time.Duration {
	d, err := time.ParseDuration(c.SweepInterval)
	if err != nil {
		return time.Second
	}
	return d
}
