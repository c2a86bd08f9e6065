package detectionService

import (
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"ProjectPhotobooth/internal/api/detection"
)

type IDetectionService interface {
	DetectPalm(ctx context.Context, req detection.PalmDetectionRequest) (detection.PalmDetectionResponse, error)
	ProcessFrame(frame []byte) (detection.PalmDetectionResponse, error)
	ProcessLinkedIn(ctx context.Context, req detection.LinkedInRequest) (detection.LinkedInResponse, error)
	Health() detection.HealthResponse
}

type detectionService struct {
	log *logrus.Logger
}

func NewDetectionService(log *logrus.Logger) IDetectionService {
	return &detectionService{
		log: log,
	}
}
