package dedupe

import (
	"provider-dedupe/core/archive"
	"provider-dedupe/core/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the deduplication feature. reports may be nil when
// report archival is disabled.
func NewFeature(cfg Config, st *store.Store, reports *archive.Reports, logger *zap.Logger) (*Feature, error) {
	svc, err := NewService(cfg, st, reports, logger)
	if err != nil {
		return nil, err
	}
	h := NewHandler(svc)
	return &Feature{service: svc, handler: h}, nil
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "dedupe"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
