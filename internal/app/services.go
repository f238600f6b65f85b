package app

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dokzlo13/huemodel/internal/bridge"
	"github.com/dokzlo13/huemodel/internal/config"
	"github.com/dokzlo13/huemodel/internal/db"
	"github.com/dokzlo13/huemodel/internal/model"
	"github.com/dokzlo13/huemodel/internal/snapshot"
)

// Services is a container for all application services.
// It manages service initialization order and dependencies.
type Services struct {
	cfg *config.Config

	// Core infrastructure
	DB      *db.DB
	Factory *model.Factory

	Bridge    *bridge.Client
	Snapshots *snapshot.Store
}

// NewServices creates all services with proper dependency injection.
func NewServices(cfg *config.Config, registerer prometheus.Registerer) (*Services, error) {
	s := &Services{cfg: cfg}

	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	s.DB = database

	s.Factory = model.NewDefaultFactory()

	s.Bridge = bridge.NewClient(cfg.Bridge.Address, cfg.Bridge.Username, bridge.Options{
		Timeout:      cfg.Bridge.Timeout.Duration(),
		RateLimitRPS: cfg.Bridge.RateLimitRPS,
		Registerer:   registerer,
		Factory:      s.Factory,
	})

	s.Snapshots, err = snapshot.NewStore(database.DB, s.Factory)
	if err != nil {
		s.Close()
		return nil, err
	}

	return s, nil
}

// Close releases all resources.
func (s *Services) Close() {
	if s.Bridge != nil {
		_ = s.Bridge.Close()
	}
	if s.DB != nil {
		s.DB.Close()
	}
}
