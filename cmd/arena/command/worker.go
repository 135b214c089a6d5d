package command

import (
	"fmt"

	"github.com/pixil98/go-arena/internal/combat"
	"github.com/pixil98/go-arena/internal/driver"
	"github.com/pixil98/go-arena/internal/listener"
	"github.com/pixil98/go-arena/internal/match"
	"github.com/pixil98/go-arena/internal/persist"
	"github.com/pixil98/go-arena/internal/player"
	"github.com/pixil98/go-arena/internal/presence"
	"github.com/pixil98/go-arena/internal/world"
	service "github.com/pixil98/go-service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	nats, err := cfg.Nats.BuildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	creatures, err := cfg.Content.Creatures.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating creature store: %w", err)
	}
	species, err := cfg.Content.Species.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating species store: %w", err)
	}
	items, err := cfg.Content.Items.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating item store: %w", err)
	}
	atlas, err := cfg.Content.BuildAtlas()
	if err != nil {
		return nil, fmt.Errorf("loading tile maps: %w", err)
	}

	pres := presence.NewManager(nats)

	var engineOpts []combat.EngineOpt
	if d := cfg.Engine.IdleTimeoutDuration(); d > 0 {
		engineOpts = append(engineOpts, combat.WithIdleTimeout(d))
	}
	engine := combat.NewEngine(pres, engineOpts...)

	queue := match.NewQueue(pres)
	guard := world.NewMoveGuard(cfg.Engine.MoveIntervalDuration())
	repo := persist.NewMemoryRepository()

	pm := player.NewManager(engine, queue, pres, repo, atlas, guard, nats, creatures, species, items)
	cm := listener.NewConnectionManager(pm)

	listeners := make(service.WorkerList, len(cfg.Listeners))
	for i, l := range cfg.Listeners {
		lst, err := l.BuildListener(cm)
		if err != nil {
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		listeners[fmt.Sprintf("listener-%d", i)] = lst
	}

	var driverOpts []driver.ArenaDriverOpt
	if d := cfg.Engine.TickIntervalDuration(); d > 0 {
		driverOpts = append(driverOpts, driver.WithTickLength(d))
	}
	arenaDriver := driver.NewArenaDriver([]driver.Manager{
		engine,
	}, driverOpts...)

	return service.WorkerList{
		"nats":      nats,
		"players":   pm,
		"driver":    arenaDriver,
		"listeners": &listeners,
	}, nil
}
