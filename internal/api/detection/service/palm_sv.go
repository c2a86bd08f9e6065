package detectionService

import (
	"math"

	"golang.org/x/net/context"

	"ProjectPhotobooth/internal/api/detection"
	"ProjectPhotobooth/internal/entity"
)

const (
	// thumbSpread is the minimum horizontal distance between thumb tip and
	// MCP joint for the thumb to count as extended.
	thumbSpread = 0.1

	openPalmConfidence   = 0.8
	closedPalmConfidence = 0.3

	// openPalmThreshold is the number of extended fingers that qualifies a
	// hand as an open palm.
	openPalmThreshold = 4
)

var fingerPairs = [4][2]int{
	{entity.IndexTip, entity.IndexPIP},
	{entity.MiddleTip, entity.MiddlePIP},
	{entity.RingTip, entity.RingPIP},
	{entity.PinkyTip, entity.PinkyPIP},
}

// ExtendedFingers counts extended fingers on one hand. The thumb is judged
// by horizontal spread from its MCP joint; the other four by the tip
// sitting above the PIP joint in normalized image coordinates.
func ExtendedFingers(hand entity.HandLandmarks) int {
	count := 0

	if math.Abs(hand.Points[entity.ThumbTip].X-hand.Points[entity.ThumbMCP].X) > thumbSpread {
		count++
	}

	for _, pair := range fingerPairs {
		if hand.Points[pair[0]].Y < hand.Points[pair[1]].Y {
			count++
		}
	}

	return count
}

// IsPalmOpen reports whether the hand shows an open palm.
func IsPalmOpen(hand entity.HandLandmarks) bool {
	return ExtendedFingers(hand) >= openPalmThreshold
}

// DetectPalm runs the landmark heuristic when landmarks are supplied. The
// image-only path stays a placeholder: real detection happens on the kiosk
// client, which sends landmark sets instead of frames.
func (s *detectionService) DetectPalm(_ context.Context, req detection.PalmDetectionRequest) (detection.PalmDetectionResponse, error) {
	if len(req.Landmarks) == 0 {
		return detection.PalmDetectionResponse{
			Detected:   false,
			IsPalm:     false,
			Confidence: 0,
			Message:    "palm detection runs on the client; send landmarks for server-side evaluation",
		}, nil
	}

	if len(req.Landmarks) != entity.NumLandmarks {
		return detection.PalmDetectionResponse{}, detection.ErrInvalidLandmarks
	}

	var hand entity.HandLandmarks
	copy(hand.Points[:], req.Landmarks)

	extended := ExtendedFingers(hand)
	open := extended >= openPalmThreshold

	confidence := closedPalmConfidence
	if open {
		confidence = openPalmConfidence
	}

	return detection.PalmDetectionResponse{
		Detected:        true,
		IsPalm:          open,
		Confidence:      confidence,
		ExtendedFingers: extended,
	}, nil
}

// ProcessFrame handles a binary camera frame from the websocket. Frames are
// not analyzed server-side; the response tells the client to evaluate
// landmarks locally or send them in.
func (s *detectionService) ProcessFrame(frame []byte) (detection.PalmDetectionResponse, error) {
	if len(frame) == 0 {
		return detection.PalmDetectionResponse{}, detection.ErrInvalidLandmarks
	}

	return detection.PalmDetectionResponse{
		Detected:   false,
		IsPalm:     false,
		Confidence: 0,
		Message:    "frame received; send landmarks JSON for palm evaluation",
	}, nil
}

// ProcessLinkedIn is the acknowledged pass-through: background replacement
// is not implemented, the input image comes straight back.
func (s *detectionService) ProcessLinkedIn(_ context.Context, req detection.LinkedInRequest) (detection.LinkedInResponse, error) {
	backgroundType := req.BackgroundType
	if backgroundType == "" {
		backgroundType = "original"
	}

	return detection.LinkedInResponse{
		Success:        true,
		Image:          req.Image,
		Message:        "background processing not implemented, returning original image",
		BackgroundType: backgroundType,
	}, nil
}

func (s *detectionService) Health() detection.HealthResponse {
	return detection.HealthResponse{
		Status:  "ok",
		Service: "photobooth-backend",
		Routes:  []string{"/api/detect_palm", "/api/process_linkedin", "/api/health"},
	}
}
