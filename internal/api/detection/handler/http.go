package detectionHandler

import (
	detectionService "ProjectPhotobooth/internal/api/detection/service"
	"ProjectPhotobooth/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type DetectionHandler struct {
	log              *logrus.Logger
	validator        *validator.Validate
	middleware       middleware.Middleware
	detectionService detectionService.IDetectionService
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	ds detectionService.IDetectionService,
) *DetectionHandler {
	return &DetectionHandler{
		detectionService: ds,
		log:              log,
		validator:        validator,
		middleware:       middleware,
	}
}

func (h *DetectionHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	palm := srv.Group("/detection/palm")
	palm.Use("/ws", wsMiddleware)
	palm.Get("/ws", websocket.New(h.handlePalmWebSocket))
	palm.Post("/", h.DetectPalm)
}

// StartCompat mounts the flat routes the original kiosk frontend calls,
// outside the versioned prefix.
func (h *DetectionHandler) StartCompat(srv fiber.Router) {
	srv.Post("/detect_palm", h.DetectPalm)
	srv.Post("/process_linkedin", h.ProcessLinkedIn)
	srv.Get("/health", h.Health)
}
