package app

import (
	"context"
	"time"

	"github.com/poofware/coi-service/internal/config"
	"github.com/poofware/coi-service/internal/metrics"
	"github.com/poofware/coi-service/internal/repositories"
	"github.com/poofware/coi-service/internal/storage"
	"github.com/poofware/coi-service/internal/store"
	"github.com/poofware/coi-service/internal/utils"
)

const storageOpenTimeout = 30 * time.Second

type App struct {
	Config       *config.Config
	KV           storage.KV
	Store        *store.RecordStore
	COIRepo      repositories.COIRepository
	PropertyRepo repositories.PropertyRepository
	Metrics      *metrics.Metrics
}

func NewApp(cfg *config.Config) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), storageOpenTimeout)
	defer cancel()

	kv, err := storage.Open(ctx, cfg.StorageOptions())
	if err != nil {
		return nil, err
	}
	utils.Logger.Infof("%s using %s storage", cfg.AppName, cfg.StorageDriver)

	m, err := metrics.New(nil)
	if err != nil {
		_ = kv.Close()
		return nil, err
	}

	return &App{
		Config:       cfg,
		KV:           kv,
		Store:        store.NewRecordStore(),
		COIRepo:      repositories.NewCOIRepository(kv),
		PropertyRepo: repositories.NewPropertyRepository(kv),
		Metrics:      m,
	}, nil
}

func (a *App) Close() {
	if a.KV != nil {
		if err := a.KV.Close(); err != nil {
			utils.Logger.WithError(err).Warn("storage close failed")
			return
		}
		utils.Logger.Info("coi-service storage closed.")
	}
}
