package boothService

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"ProjectPhotobooth/internal/api/booth"
	"ProjectPhotobooth/internal/catalog"
	"ProjectPhotobooth/internal/entity"
	contextPkg "ProjectPhotobooth/pkg/context"
	redisPkg "ProjectPhotobooth/pkg/redis"
)

func (s *boothService) CreateSession(ctx context.Context) (entity.Session, error) {
	id, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		return entity.Session{}, err
	}

	session := entity.Session{
		ID:        id,
		Stage:     entity.StageIntake,
		CreatedAt: time.Now(),
	}

	if err := s.store.SaveSession(ctx, session, sessionTTL); err != nil {
		return entity.Session{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"session_id": id,
	}).Info("Session created")

	return session, nil
}

func (s *boothService) loadSession(ctx context.Context, id string) (entity.Session, error) {
	session, err := s.store.GetSession(ctx, id)
	if err != nil {
		if errors.Is(err, redisPkg.ErrSessionNotFound) {
			return entity.Session{}, booth.ErrSessionNotFound
		}
		return entity.Session{}, err
	}
	return session, nil
}

func (s *boothService) SubmitIntake(ctx context.Context, id string, name string, email string) (entity.Session, error) {
	session, err := s.loadSession(ctx, id)
	if err != nil {
		return entity.Session{}, err
	}

	if session.Stage != entity.StageIntake {
		return entity.Session{}, booth.ErrInvalidStage
	}

	session.User = entity.UserDetails{Name: name, Email: email}
	session.Stage = entity.StageGender

	if err := s.store.SaveSession(ctx, session, sessionTTL); err != nil {
		return entity.Session{}, err
	}

	return session, nil
}

func (s *boothService) SelectGender(ctx context.Context, id string, gender string) (entity.Session, error) {
	session, err := s.loadSession(ctx, id)
	if err != nil {
		return entity.Session{}, err
	}

	if session.Stage != entity.StageGender {
		return entity.Session{}, booth.ErrInvalidStage
	}

	parsed := entity.ParseGender(gender)
	if parsed == entity.GenderUnset {
		return entity.Session{}, booth.ErrInvalidGender
	}

	session.Gender = parsed
	session.TemplateIndex = 0
	session.Stage = entity.StageTemplate

	if err := s.store.SaveSession(ctx, session, sessionTTL); err != nil {
		return entity.Session{}, err
	}

	return session, nil
}

func (s *boothService) MoveCarousel(ctx context.Context, id string, direction string) (entity.Session, error) {
	session, err := s.loadSession(ctx, id)
	if err != nil {
		return entity.Session{}, err
	}

	if session.Stage != entity.StageTemplate {
		return entity.Session{}, booth.ErrInvalidStage
	}

	length := s.catalog.Len(session.Gender)
	if length == 0 {
		return entity.Session{}, booth.ErrInvalidGender
	}

	switch direction {
	case "next":
		session.TemplateIndex = catalog.Next(session.TemplateIndex, length)
	case "previous":
		session.TemplateIndex = catalog.Previous(session.TemplateIndex, length)
	default:
		return entity.Session{}, booth.ErrInvalidDirection
	}

	if err := s.store.SaveSession(ctx, session, sessionTTL); err != nil {
		return entity.Session{}, err
	}

	return session, nil
}

// SelectTemplate commits the centered template and activates the camera.
// A camera refusal is reported through the returned flag, not an error:
// the visitor stays on the selection screen.
func (s *boothService) SelectTemplate(ctx context.Context, id string) (entity.Session, bool, error) {
	session, err := s.loadSession(ctx, id)
	if err != nil {
		return entity.Session{}, false, err
	}

	if session.Stage != entity.StageTemplate {
		return entity.Session{}, false, booth.ErrInvalidStage
	}

	if _, err := s.catalog.At(session.Gender, session.TemplateIndex); err != nil {
		return entity.Session{}, false, booth.ErrInvalidGender
	}

	cameraReady := true
	if err := s.capture.Activate(ctx); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"session_id": id,
			"error":      err.Error(),
		}).Warn("Camera activation refused, capture disabled")
		cameraReady = false
	}

	if err := s.store.SaveSession(ctx, session, sessionTTL); err != nil {
		return entity.Session{}, false, err
	}

	return session, cameraReady, nil
}

// CaptureFrame grabs the still frame and hands camera ownership back the
// instant the capture completes.
func (s *boothService) CaptureFrame(ctx context.Context, id string) (entity.Session, error) {
	session, err := s.loadSession(ctx, id)
	if err != nil {
		return entity.Session{}, err
	}

	if session.Stage != entity.StageTemplate {
		return entity.Session{}, booth.ErrInvalidStage
	}

	if !s.capture.Active() {
		return entity.Session{}, booth.ErrCameraUnavailable
	}

	frame, err := s.capture.Capture(ctx)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"session_id": id,
			"error":      err.Error(),
		}).Error("Frame capture failed")
		return entity.Session{}, booth.ErrCaptureFailed
	}

	s.capture.Deactivate()

	session.CapturedImage = frame
	session.Stage = entity.StageSubmission

	if err := s.store.SaveSession(ctx, session, sessionTTL); err != nil {
		return entity.Session{}, err
	}

	return session, nil
}

// Result returns the public locator once it is confirmed retrievable. The
// load probe keeps the kiosk from rendering a locator storage has not
// propagated yet.
func (s *boothService) Result(ctx context.Context, id string) (string, error) {
	session, err := s.loadSession(ctx, id)
	if err != nil {
		return "", err
	}

	if session.Stage != entity.StageResult || session.ResultURL == "" {
		return "", booth.ErrNoResult
	}

	if _, err := s.swap.FetchAsset(ctx, session.ResultURL); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"session_id": id,
			"error":      err.Error(),
		}).Warn("Result locator not yet retrievable")
		return "", booth.ErrResultNotReady
	}

	return session.ResultURL, nil
}

func (s *boothService) ResultQR(ctx context.Context, id string) ([]byte, error) {
	session, err := s.loadSession(ctx, id)
	if err != nil {
		return nil, err
	}

	if session.Stage != entity.StageResult || session.ResultURL == "" {
		return nil, booth.ErrNoResult
	}

	return s.qr.GeneratePNG(session.ResultURL, 250)
}

// Reset discards the session and releases the camera if a stream is still
// bound; it is the single return-to-start transition available from the
// result and error stages.
func (s *boothService) Reset(ctx context.Context, id string) error {
	s.capture.Deactivate()

	if err := s.store.DeleteSession(ctx, id); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"session_id": id,
	}).Info("Session reset to start")

	return nil
}
