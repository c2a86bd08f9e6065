package handlerUtil

import (
	"ProjectPhotobooth/internal/api/booth"
	"ProjectPhotobooth/internal/api/detection"
	"ProjectPhotobooth/pkg/log"
	"ProjectPhotobooth/pkg/response"
	"errors"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

type ErrorHandler struct {
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
	}
}

func (h *ErrorHandler) Handle(c *fiber.Ctx, requestID string, err error, path string, operation string) error {
	// Booth domain errors
	if errors.Is(err, booth.ErrSessionNotFound) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Session not found")
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Session not found or expired",
			"code":  "SESSION_NOT_FOUND",
		})
	}

	if errors.Is(err, booth.ErrInvalidStage) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Operation not allowed in current stage")
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Operation not allowed in the session's current stage",
			"code":  "INVALID_STAGE",
		})
	}

	if errors.Is(err, booth.ErrInvalidGender) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Invalid gender choice")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid gender choice",
			"code":  "INVALID_GENDER",
		})
	}

	if errors.Is(err, booth.ErrInvalidDirection) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Invalid carousel direction")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid carousel direction",
			"code":  "INVALID_DIRECTION",
		})
	}

	if errors.Is(err, booth.ErrCameraUnavailable) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Camera unavailable")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Camera is unavailable",
			"code":  "CAMERA_UNAVAILABLE",
		})
	}

	if errors.Is(err, booth.ErrCaptureFailed) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Error("Frame capture failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to capture frame",
			"code":  "CAPTURE_FAILED",
		})
	}

	if errors.Is(err, booth.ErrSubmissionAlreadyRun) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Submission already executed")
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Submission already executed for this session",
			"code":  "SUBMISSION_ALREADY_RUN",
		})
	}

	if errors.Is(err, booth.ErrUploadFailed) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Error("Image upload failed")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Image upload failed",
			"code":  "UPLOAD_FAILED",
		})
	}

	if errors.Is(err, booth.ErrAssetFetch) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Error("Template asset fetch failed")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Template asset fetch failed",
			"code":  "ASSET_FETCH_FAILED",
		})
	}

	if errors.Is(err, booth.ErrSwapService) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Error("Face swap service failed")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Face swap service failed",
			"code":  "SWAP_SERVICE_FAILED",
		})
	}

	if errors.Is(err, booth.ErrPersist) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Error("Failed to persist submission record")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to persist submission record",
			"code":  "PERSIST_FAILED",
		})
	}

	if errors.Is(err, booth.ErrResultNotReady) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Result not yet retrievable")
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Result not yet retrievable",
			"code":  "RESULT_NOT_READY",
		})
	}

	if errors.Is(err, booth.ErrNoResult) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Session has no result")
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Session has no result",
			"code":  "NO_RESULT",
		})
	}

	if errors.Is(err, booth.ErrInvalidCredentials) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Invalid admin credentials")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid admin credentials",
			"code":  "INVALID_CREDENTIALS",
		})
	}

	// Detection domain errors
	if errors.Is(err, detection.ErrInvalidLandmarks) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Invalid landmark payload")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid landmark payload",
			"code":  "INVALID_LANDMARKS",
		})
	}

	if errors.Is(err, detection.ErrInternalServerError) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Error("Internal server error")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	var respErr *response.Error
	if errors.As(err, &respErr) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"code":       respErr.Code,
			"path":       path,
			"operation":  operation,
		}).Warn("Operation failed with error response")
		return c.Status(respErr.Code).JSON(fiber.Map{"error": err.Error()})
	}

	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
		"operation":  operation,
	}).Error("Unexpected error")

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "An unexpected error occurred",
	})
}

func (h *ErrorHandler) HandleValidationError(c *fiber.Ctx, requestID string, err error, path string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
	}).Warn("Validation failed")

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Validation failed: " + err.Error(),
		"code":  "VALIDATION_ERROR",
	})
}

func (h *ErrorHandler) HandleRequestTimeout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusRequestTimeout).JSON(utils.StatusMessage(fiber.StatusRequestTimeout))
}

func (h *ErrorHandler) HandleUnauthorized(c *fiber.Ctx, requestID string, message string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"path":       c.Path(),
		"message":    message,
	}).Warn("Unauthorized access")

	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": message,
		"code":  "UNAUTHORIZED",
	})
}

func (h *ErrorHandler) HandleSuccess(c *fiber.Ctx, statusCode int, data interface{}) error {
	if data == nil {
		return c.SendStatus(statusCode)
	}
	return c.Status(statusCode).JSON(data)
}
