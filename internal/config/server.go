package config

import (
	"ProjectPhotobooth/database/postgres"
	boothHandler "ProjectPhotobooth/internal/api/booth/handler"
	boothRepository "ProjectPhotobooth/internal/api/booth/repository"
	boothService "ProjectPhotobooth/internal/api/booth/service"
	detectionHandler "ProjectPhotobooth/internal/api/detection/handler"
	detectionService "ProjectPhotobooth/internal/api/detection/service"
	"ProjectPhotobooth/internal/capture"
	"ProjectPhotobooth/internal/catalog"
	"ProjectPhotobooth/internal/middleware"
	"ProjectPhotobooth/pkg/bcrypt"
	"ProjectPhotobooth/pkg/qr"
	"ProjectPhotobooth/pkg/redis"
	"ProjectPhotobooth/pkg/s3"
	"ProjectPhotobooth/pkg/smtp"
	"ProjectPhotobooth/pkg/swap"
	"ProjectPhotobooth/pkg/utils"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"os"
	"strconv"
)

type ServerOption func(*Server) error

type Server struct {
	engine            *fiber.App
	db                *sqlx.DB
	log               *logrus.Logger
	middleware        middleware.Middleware
	validator         *validator.Validate
	utils             utils.IUtils
	bcryptUtils       bcrypt.IBcrypt
	handlers          []handler
	sessionStore      redis.ISessionStore
	smtpMailer        smtp.ItfSmtp
	s3Client          s3.ItfS3
	swapClient        swap.ItfSwap
	captureManager    *capture.Manager
	templateCatalog   *catalog.Catalog
	detectionHandlers *detectionHandler.DetectionHandler
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithSessionStore(store redis.ISessionStore) ServerOption {
	return func(s *Server) error {
		s.sessionStore = store
		return nil
	}
}

func WithSMTPMailer(smtpMailer smtp.ItfSmtp) ServerOption {
	return func(s *Server) error {
		s.smtpMailer = smtpMailer
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithS3Client() ServerOption {
	return func(s *Server) error {
		client, err := s3.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize S3 client: %v", err)
			}
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		s.s3Client = client
		return nil
	}
}

func WithSwapClient() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before swap client")
		}
		s.swapClient = swap.New(s.log)
		return nil
	}
}

func WithCaptureManager() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before capture manager")
		}

		deviceID, _ := strconv.Atoi(os.Getenv("CAMERA_DEVICE_ID"))
		s.captureManager = capture.NewManager(capture.NewWebcam(deviceID), s.log)
		return nil
	}
}

func WithTemplateCatalog() ServerOption {
	return func(s *Server) error {
		s.templateCatalog = catalog.New()
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func WithBcryptUtils() ServerOption {
	return func(s *Server) error {
		s.bcryptUtils = bcrypt.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Booth Domain
	boothRepo := boothRepository.New(s.db, s.log)
	boothServices := boothService.New(s.log, boothRepo, s.sessionStore, s.s3Client,
		s.swapClient, s.captureManager, s.templateCatalog, s.smtpMailer,
		qr.New(), s.bcryptUtils, s.utils)
	boothHandlers := boothHandler.New(s.log, s.validator, s.middleware, boothServices)

	// Detection
	detectionServices := detectionService.NewDetectionService(s.log)
	s.detectionHandlers = detectionHandler.New(s.log, s.validator, s.middleware, detectionServices)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, boothHandlers, s.detectionHandlers)
}

func (s *Server) Run() error {
	s.engine.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(middleware.LoggerConfig())

	router := s.engine.Group("/api/v1")
	for _, h := range s.handlers {
		h.Start(router)
	}

	// Flat routes the original kiosk frontend expects, outside /api/v1.
	compat := s.engine.Group("/api")
	s.detectionHandlers.StartCompat(compat)

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

// Shutdown releases the camera before stopping the listener so the device
// is never left bound across restarts.
func (s *Server) Shutdown() error {
	if s.captureManager != nil {
		s.captureManager.Deactivate()
	}
	return s.engine.Shutdown()
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}
