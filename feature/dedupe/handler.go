package dedupe

import (
	"provider-dedupe/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for deduplication.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the dedupe routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/dedupe")
	group.Post("/run", h.HandleRun)
	group.Get("/preview", h.HandlePreview)
}

// HandleRun executes a deduplication run over the record store.
// @Summary Run Deduplication
// @Description Cluster duplicate provider records, merge them, and reconcile the store. Accepts optional run options in the body.
// @Tags dedupe
// @Accept json
// @Produce json
// @Param options body RunOptions false "Run Options"
// @Success 200 {object} RunReport "Run Report"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /dedupe/run [post]
func (h *Handler) HandleRun(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var opts RunOptions
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&opts); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid run options: " + err.Error(),
			})
		}
	}

	report, err := h.service.Run(c.Context(), opts)
	if err != nil {
		l.Error("Deduplication run failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(report)
}

// HandlePreview returns the mutation plan without applying it.
// @Summary Preview Deduplication
// @Description Build the deduplication plan for the current store contents without mutating anything.
// @Tags dedupe
// @Accept json
// @Produce json
// @Success 200 {object} reconcile.Plan "Mutation Plan"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /dedupe/preview [get]
func (h *Handler) HandlePreview(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	plan, err := h.service.Preview(c.Context())
	if err != nil {
		l.Error("Deduplication preview failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(plan)
}
