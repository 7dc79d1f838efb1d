package command

import (
	"fmt"

	"github.com/pixil98/dino-arena/internal/session"
	"github.com/pixil98/go-errors"
)

type SessionConfig struct {
	OutboxSize int `json:"outbox_size,omitempty"`
}

func (c *SessionConfig) validate() error {
	el := errors.NewErrorList()

	if c.OutboxSize < 0 {
		el.Add(fmt.Errorf("outbox_size must not be negative"))
	}

	return el.Err()
}

func (c *SessionConfig) buildManager(gw session.Dispatcher, sub session.Subscriber) *session.Manager {
	var opts []session.ManagerOpt
	if c.OutboxSize > 0 {
		opts = append(opts, session.WithOutboxSize(c.OutboxSize))
	}
	return session.NewManager(gw, sub, opts...)
}
