package http

import (
	"github.com/MKhiriev/go-session-gate/internal/logger"
	"github.com/MKhiriev/go-session-gate/internal/service"
)

type Handler struct {
	sessions service.SessionService
	names    service.NameResolver

	logger *logger.Logger
}

func NewHandler(sessions service.SessionService, names service.NameResolver, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		sessions: sessions,
		names:    names,
		logger:   logger,
	}
}
