package detection

import "ProjectPhotobooth/internal/entity"

// PalmDetectionRequest carries either a base64 frame or a landmark set.
// The image path is an acknowledged placeholder; only landmarks drive the
// real heuristic.
type PalmDetectionRequest struct {
	Image     string         `json:"image,omitempty"`
	Landmarks []entity.Point `json:"landmarks,omitempty"`
}

type PalmDetectionResponse struct {
	Detected        bool    `json:"detected"`
	IsPalm          bool    `json:"is_palm"`
	Confidence      float64 `json:"confidence"`
	ExtendedFingers int     `json:"extended_fingers"`
	Message         string  `json:"message,omitempty"`
}

type LinkedInRequest struct {
	Image          string `json:"image" validate:"required"`
	BackgroundType string `json:"background_type"`
}

type LinkedInResponse struct {
	Success        bool   `json:"success"`
	Image          string `json:"image"`
	Message        string `json:"message"`
	BackgroundType string `json:"background_type"`
}

type HealthResponse struct {
	Status  string   `json:"status"`
	Service string   `json:"service"`
	Routes  []string `json:"routes"`
}
