package http

import (
	"github.com/evenstad/julekalender/internal/logger"
	"github.com/evenstad/julekalender/internal/store"
)

type Handler struct {
	storages *store.Storages

	logger *logger.Logger
}

func NewHandler(storages *store.Storages, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		storages: storages,
		logger:   logger,
	}
}
