package booth

import "time"

type IntakeRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type GenderRequest struct {
	Gender string `json:"gender" validate:"required,oneof=male female"`
}

type CarouselRequest struct {
	Direction string `json:"direction" validate:"required,oneof=next previous"`
}

type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type SessionResponse struct {
	ID            string `json:"id"`
	Stage         string `json:"stage"`
	Gender        string `json:"gender,omitempty"`
	TemplateIndex int    `json:"template_index"`
	TemplateCount int    `json:"template_count,omitempty"`
	CameraReady   bool   `json:"camera_ready"`
	Submission    string `json:"submission"`
	ResultURL     string `json:"result_url,omitempty"`
}

type ResultResponse struct {
	ResultURL string `json:"result_url"`
}

type AdminLoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
}

type RecordResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	SourceImageURL string    `json:"src_image_url"`
	ResultImageURL string    `json:"trg_image_url"`
	CreatedAt      time.Time `json:"created_at"`
}

type RecordsResponse struct {
	Data []RecordResponse `json:"data"`
}
