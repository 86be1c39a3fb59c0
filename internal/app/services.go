package app

import (
	"github.com/studypath/studypath-backend/internal/clients/redis"
	"github.com/studypath/studypath-backend/internal/events"
	"github.com/studypath/studypath-backend/internal/pkg/logger"
	"github.com/studypath/studypath-backend/internal/services"
)

type Services struct {
	Sync services.SyncService
	Bus  events.Bus
}

func wireServices(log *logger.Logger, cfg Config, stores services.SyncStores) (Services, error) {
	log.Info("Wiring services...")

	bus := events.NewNoopBus()
	if cfg.RedisAddr != "" {
		redisBus, err := redis.NewProgressBus(log, cfg.RedisAddr, cfg.RedisChannel)
		if err != nil {
			log.Warn("redis progress bus unavailable, events disabled", "error", err)
		} else {
			bus = redisBus
		}
	}

	syncService, err := services.NewSyncService(stores, bus, log, cfg.WriteTimeout)
	if err != nil {
		return Services{}, err
	}
	return Services{Sync: syncService, Bus: bus}, nil
}
