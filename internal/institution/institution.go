package institution

import (
	"log/slog"

	"mediq/internal/health"
	"mediq/internal/institution/consumer"
	"mediq/internal/institution/handler"
	"mediq/internal/institution/service"
)

// Service exposes institution orchestration.
type Service = service.Service

// Handler wires HTTP endpoints to the institution service.
type Handler = handler.Handler

// Dispatcher routes message-queue patterns to the institution service.
type Dispatcher = consumer.Dispatcher

// NewService constructs the institution service with its stores.
func NewService(institutions service.InstitutionStore, services service.MedicalServiceStore, opts ...service.Option) *Service {
	return service.New(institutions, services, opts...)
}

// NewHandler constructs the HTTP adapter for institution routes.
func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}

// NewDispatcher constructs the message-queue adapter over the same service.
func NewDispatcher(s *Service, reporter *health.Reporter, logger *slog.Logger) *Dispatcher {
	return consumer.NewDispatcher(s, reporter, logger)
}
