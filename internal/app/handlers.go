package app

import (
	"github.com/studypath/studypath-backend/internal/handlers"
	"github.com/studypath/studypath-backend/internal/pkg/logger"
)

type Handlers struct {
	Sync *handlers.SyncHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Sync: handlers.NewSyncHandler(log, services.Sync),
	}
}
