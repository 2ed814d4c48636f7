package orchestrator

import (
	"github.com/gofiber/fiber/v2"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
	enabled bool
}

// NewFeature creates the sync feature around an existing service.
func NewFeature(service *Service, enabled bool) *Feature {
	return &Feature{service: service, handler: NewHandler(service), enabled: enabled}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "sync"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.enabled
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}

// Service returns the underlying service.
func (f *Feature) Service() *Service {
	return f.service
}
