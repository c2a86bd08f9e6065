package booth

import (
	"ProjectPhotobooth/pkg/response"
	"net/http"
)

var (
	ErrSessionNotFound      = response.NewError(http.StatusNotFound, "session not found")
	ErrInvalidStage         = response.NewError(http.StatusConflict, "operation not allowed in current stage")
	ErrInvalidGender        = response.NewError(http.StatusBadRequest, "invalid gender choice")
	ErrInvalidDirection     = response.NewError(http.StatusBadRequest, "invalid carousel direction")
	ErrCameraUnavailable    = response.NewError(http.StatusServiceUnavailable, "camera unavailable")
	ErrCaptureFailed        = response.NewError(http.StatusInternalServerError, "failed to capture frame")
	ErrSubmissionAlreadyRun = response.NewError(http.StatusConflict, "submission already executed for this session")
	ErrUploadFailed         = response.NewError(http.StatusBadGateway, "image upload failed")
	ErrAssetFetch           = response.NewError(http.StatusBadGateway, "template asset fetch failed")
	ErrSwapService          = response.NewError(http.StatusBadGateway, "face swap service failed")
	ErrPersist              = response.NewError(http.StatusInternalServerError, "failed to persist submission record")
	ErrResultNotReady       = response.NewError(http.StatusConflict, "result not yet retrievable")
	ErrNoResult             = response.NewError(http.StatusNotFound, "session has no result")
	ErrInvalidCredentials   = response.NewError(http.StatusUnauthorized, "invalid admin credentials")
)
