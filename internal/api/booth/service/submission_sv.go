package boothService

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"ProjectPhotobooth/internal/api/booth"
	"ProjectPhotobooth/internal/entity"
	contextPkg "ProjectPhotobooth/pkg/context"
	"ProjectPhotobooth/pkg/swap"
)

// Submit runs the five-step submission sequence exactly once per session:
// source upload, template fetch, swap call, result upload, record insert.
// Steps are strictly sequential, never retried, and any failure is terminal
// for the session.
func (s *boothService) Submit(ctx context.Context, id string) (entity.Session, error) {
	requestID := contextPkg.GetRequestID(ctx)

	session, err := s.loadSession(ctx, id)
	if err != nil {
		return entity.Session{}, err
	}

	if session.Stage != entity.StageSubmission {
		return entity.Session{}, booth.ErrInvalidStage
	}

	// Malformed-session guard: a session arriving here without its full
	// payload is silently sent back to start, before any network call.
	if !session.HasSubmissionPayload() {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": id,
		}).Warn("Session entered submission without full payload, resetting to start")

		session = entity.Session{
			ID:        session.ID,
			Stage:     entity.StageStart,
			CreatedAt: session.CreatedAt,
		}
		if err := s.store.SaveSession(ctx, session, sessionTTL); err != nil {
			return entity.Session{}, err
		}
		return session, nil
	}

	if session.Submission != entity.SubmissionNone {
		return entity.Session{}, booth.ErrSubmissionAlreadyRun
	}

	session.Submission = entity.SubmissionPending
	if err := s.store.SaveSession(ctx, session, sessionTTL); err != nil {
		return entity.Session{}, err
	}

	resultURL, err := s.runSubmission(ctx, &session)
	if err != nil {
		session.Submission = entity.SubmissionFailed
		session.Stage = entity.StageError
		if saveErr := s.store.SaveSession(ctx, session, sessionTTL); saveErr != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"session_id": id,
				"error":      saveErr.Error(),
			}).Error("Failed to persist failed submission state")
		}
		return session, err
	}

	session.Submission = entity.SubmissionSucceeded
	session.Stage = entity.StageResult
	session.ResultURL = resultURL
	session.CapturedImage = nil

	if err := s.store.SaveSession(ctx, session, sessionTTL); err != nil {
		return entity.Session{}, err
	}

	// The visitor already sees the result; a mail failure is logged, never
	// surfaced.
	if err := s.mailer.SendResultLink(session.User.Name, session.User.Email, resultURL); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": id,
			"error":      err.Error(),
		}).Warn("Failed to mail result link")
	}

	return session, nil
}

func (s *boothService) runSubmission(ctx context.Context, session *entity.Session) (string, error) {
	requestID := contextPkg.GetRequestID(ctx)

	// Step 1: persist the captured frame, obtain its public locator.
	sourceKey := s.utils.TimestampedKey("source-images", "source")
	sourceURL, err := s.s3.UploadBytes(sourceKey, session.CapturedImage, "image/jpeg")
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": session.ID,
			"key":        sourceKey,
			"error":      err.Error(),
		}).Error("Source image upload failed")
		return "", booth.ErrUploadFailed
	}

	// Step 2: resolve the chosen template to bytes.
	template, err := s.catalog.At(session.Gender, session.TemplateIndex)
	if err != nil {
		return "", booth.ErrAssetFetch
	}
	targetImage, err := s.swap.FetchAsset(ctx, template.AssetURL)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": session.ID,
			"asset_url":  template.AssetURL,
			"error":      err.Error(),
		}).Error("Template asset fetch failed")
		return "", booth.ErrAssetFetch
	}

	// Step 3: the swap call itself. The remote detail is logged, never
	// shown to the visitor.
	swapped, err := s.swap.SwapFace(ctx, swap.SwapRequest{
		SourceImage: session.CapturedImage,
		TargetImage: targetImage,
		Name:        session.User.Name,
		Email:       session.User.Email,
	})
	if err != nil {
		fields := logrus.Fields{
			"request_id": requestID,
			"session_id": session.ID,
			"error":      err.Error(),
		}
		var svcErr *swap.ServiceError
		if errors.As(err, &svcErr) {
			fields["status"] = svcErr.StatusCode
			fields["detail"] = svcErr.Detail
		}
		s.log.WithFields(fields).Error("Face swap call failed")
		return "", booth.ErrSwapService
	}

	// Step 4: persist the swapped output.
	resultKey := s.utils.TimestampedKey("swapped-images", "result")
	resultURL, err := s.s3.UploadBytes(resultKey, swapped, "image/jpeg")
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": session.ID,
			"key":        resultKey,
			"error":      err.Error(),
		}).Error("Result image upload failed")
		return "", booth.ErrUploadFailed
	}

	// Step 5: record the completed swap. If this insert fails the already
	// uploaded blobs stay orphaned in storage; accepted, not compensated.
	recordID, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		return "", booth.ErrPersist
	}

	client, err := s.repo.NewClient(false)
	if err != nil {
		return "", booth.ErrPersist
	}

	record := entity.SubmissionRecord{
		ID:             recordID,
		Name:           session.User.Name,
		Email:          session.User.Email,
		SourceImageURL: sourceURL,
		ResultImageURL: resultURL,
	}
	if err := client.Submission.CreateRecord(ctx, record); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": session.ID,
			"error":      err.Error(),
		}).Error("Submission record insert failed")
		return "", booth.ErrPersist
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"session_id": session.ID,
		"record_id":  recordID,
		"result_url": resultURL,
	}).Info("Submission completed")

	return resultURL, nil
}
