package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/huemodel/internal/config"
	"github.com/dokzlo13/huemodel/internal/lightstate"
	"github.com/dokzlo13/huemodel/internal/model"
	"github.com/dokzlo13/huemodel/internal/script"
	"github.com/dokzlo13/huemodel/internal/snapshot"
)

// App ties the bridge, the snapshot store and the script runtime together.
type App struct {
	cfg      *config.Config
	services *Services
}

// New creates a new App with all services initialized.
func New(cfg *config.Config, registerer prometheus.Registerer) (*App, error) {
	services, err := NewServices(cfg, registerer)
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:      cfg,
		services: services,
	}, nil
}

// Close releases all resources.
func (a *App) Close() {
	if a.services != nil {
		a.services.Close()
	}
}

// Capture fetches every resource the bridge exposes, capabilities included.
func (a *App) Capture(ctx context.Context) ([]*model.Entity, error) {
	var entities []*model.Entity
	for _, kind := range model.Kinds() {
		found, err := a.services.Bridge.GetAll(ctx, kind)
		if err != nil {
			return nil, err
		}
		entities = append(entities, found...)
	}

	caps, err := a.services.Bridge.Capabilities(ctx)
	if err != nil {
		return nil, err
	}
	return append(entities, caps.Entity), nil
}

// Snapshot captures the bridge and saves the result under label.
func (a *App) Snapshot(ctx context.Context, label string) (snapshot.Snapshot, error) {
	entities, err := a.Capture(ctx)
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("failed to capture bridge: %w", err)
	}

	snap, err := a.services.Snapshots.Save(ctx, label, a.services.Bridge.Address(), entities)
	if err != nil {
		return snapshot.Snapshot{}, err
	}

	log.Info().
		Str("id", snap.ID).
		Str("label", snap.Label).
		Int("entities", snap.Entities).
		Msg("Snapshot saved")
	return snap, nil
}

// List returns the saved snapshots, newest first.
func (a *App) List(ctx context.Context) ([]snapshot.Snapshot, error) {
	return a.services.Snapshots.List(ctx)
}

// Show loads a snapshot. An empty id selects the latest one.
func (a *App) Show(ctx context.Context, id string) (snapshot.Snapshot, []*model.Entity, error) {
	if id == "" {
		return a.services.Snapshots.Latest(ctx)
	}
	return a.services.Snapshots.Load(ctx, id)
}

// Apply runs the script at path against the current lights and groups and sends the
// resulting states to the bridge. An empty path runs the configured script.
func (a *App) Apply(ctx context.Context, path string) (*script.Plan, error) {
	if path == "" {
		path = a.cfg.Script
	}

	var resources []*model.Entity
	for _, kind := range []model.Kind{model.KindLight, model.KindGroup} {
		found, err := a.services.Bridge.GetAll(ctx, kind)
		if err != nil {
			return nil, err
		}
		resources = append(resources, found...)
	}

	plan, err := script.RunFile(ctx, path, script.Options{
		Gamut:     lightstate.GamutFor(a.cfg.Bridge.Gamut),
		Resources: resources,
	})
	if err != nil {
		return nil, err
	}

	if err := plan.Apply(ctx, a.services.Bridge); err != nil {
		return plan, err
	}
	log.Info().Str("script", path).Int("steps", plan.Len()).Msg("Script applied")
	return plan, nil
}

// SignalContext creates a context that is cancelled when SIGINT or SIGTERM is received.
func SignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Warn().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	return ctx
}
