package boothHandler

import (
	"ProjectPhotobooth/internal/api/booth"
	contextPkg "ProjectPhotobooth/pkg/context"
	"ProjectPhotobooth/pkg/handlerUtil"
	jwtPkg "ProjectPhotobooth/pkg/jwt"
	"ProjectPhotobooth/pkg/log"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
	"time"
)

func (h *BoothHandler) AdminLogin(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req booth.AdminLoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	token, expiresAt, err := h.boothService.AdminLogin(c, req.Username, req.Password)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "admin_login")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"username":   req.Username,
		}).Info("Admin login successful")
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, booth.AdminLoginResponse{
			AccessToken: token,
			ExpiresAt:   expiresAt,
		})
	}
}

func (h *BoothHandler) ListRecords(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	if _, err := jwtPkg.GetAdminLoginData(ctx); err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	records, err := h.boothService.ListRecords(c)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "list_records")
	}

	data := make([]booth.RecordResponse, 0, len(records))
	for _, record := range records {
		data = append(data, booth.RecordResponse{
			ID:             record.ID,
			Name:           record.Name,
			Email:          record.Email,
			SourceImageURL: record.SourceImageURL,
			ResultImageURL: record.ResultImageURL,
			CreatedAt:      record.CreatedAt,
		})
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, booth.RecordsResponse{
			Data: data,
		})
	}
}
