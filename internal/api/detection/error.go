package detection

import (
	"ProjectPhotobooth/pkg/response"
	"net/http"
)

var (
	ErrInternalServerError = response.NewError(http.StatusInternalServerError, "internal server error")
	ErrInvalidLandmarks    = response.NewError(http.StatusBadRequest, "invalid landmark payload")
)
