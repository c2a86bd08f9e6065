package boothHandler

import (
	boothService "ProjectPhotobooth/internal/api/booth/service"
	"ProjectPhotobooth/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type BoothHandler struct {
	log          *logrus.Logger
	validator    *validator.Validate
	middleware   middleware.Middleware
	boothService boothService.IBoothService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	bs boothService.IBoothService,
) *BoothHandler {
	return &BoothHandler{
		log:          log,
		validator:    validate,
		middleware:   middleware,
		boothService: bs,
	}
}

func (h *BoothHandler) Start(srv fiber.Router) {
	booth := srv.Group("/booth")

	sessions := booth.Group("/sessions")
	sessions.Post("/", h.CreateSession)
	sessions.Post("/:id/intake", h.SubmitIntake)
	sessions.Post("/:id/gender", h.SelectGender)
	sessions.Post("/:id/carousel", h.MoveCarousel)
	sessions.Post("/:id/template", h.SelectTemplate)
	sessions.Post("/:id/capture", h.CaptureFrame)
	sessions.Post("/:id/submit", h.Submit)
	sessions.Get("/:id/result", h.Result)
	sessions.Get("/:id/result/qr", h.ResultQR)
	sessions.Post("/:id/reset", h.Reset)

	booth.Post("/admin/login", h.middleware.NewRateLimiter, h.AdminLogin)
	booth.Get("/records", h.middleware.NewTokenMiddleware, h.ListRecords)
}
