package command

import (
	"context"
	"fmt"

	"github.com/pixil98/dino-arena/internal/driver"
	"github.com/pixil98/dino-arena/internal/gateway"
	"github.com/pixil98/dino-arena/internal/listener"
	"github.com/pixil98/dino-arena/internal/messaging"
	"github.com/pixil98/go-service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	natsServer, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}
	publisher := messaging.NewNatsPublisher(natsServer)

	// Every room and the directory run on the loop; its tick sweeps idle rooms.
	loop := driver.NewLoop(nil, driver.WithTickLength(cfg.sweepInterval()))
	gw := gateway.New(loop, publisher)
	loop.Register(gw.Directory())

	sessions := cfg.Sessions.buildManager(gw, publisher)
	cm := listener.NewConnectionManager(sessions)

	listeners := make(service.WorkerList, len(cfg.Listeners))
	for i, l := range cfg.Listeners {
		w, err := l.buildListener(cm)
		if err != nil {
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		listeners[fmt.Sprintf("listener-%d", i)] = &afterReady{wait: natsServer.WaitReady, w: w}
	}

	return service.WorkerList{
		"nats":      natsServer,
		"driver":    loop,
		"listeners": &listeners,
	}, nil
}

// afterReady holds a worker back until wait returns, so no session connects
// before messages can reach it.
type afterReady struct {
	wait func(context.Context) error
	w    interface{ Start(context.Context) error }
}

func (a *afterReady) Start(ctx context.Context) error {
	if err := a.wait(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	return a.w.Start(ctx)
}
