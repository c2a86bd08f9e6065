package boothService

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"ProjectPhotobooth/internal/api/booth"
	"ProjectPhotobooth/internal/entity"
	contextPkg "ProjectPhotobooth/pkg/context"
	jwtPkg "ProjectPhotobooth/pkg/jwt"
)

const adminTokenLifetime = 12 * time.Hour

// AdminLogin checks the operator credentials against the environment and
// issues the access token the records listing requires.
func (s *boothService) AdminLogin(ctx context.Context, username string, password string) (string, int64, error) {
	requestID := contextPkg.GetRequestID(ctx)

	expectedUser := os.Getenv("ADMIN_USERNAME")
	passwordHash := os.Getenv("ADMIN_PASSWORD_HASH")

	if expectedUser == "" || passwordHash == "" || username != expectedUser {
		return "", 0, booth.ErrInvalidCredentials
	}

	if err := s.bcrypt.ComparePassword(passwordHash, password); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"username":   username,
		}).Warn("Admin login rejected")
		return "", 0, booth.ErrInvalidCredentials
	}

	token, expiresAt, err := jwtPkg.Sign(map[string]interface{}{
		"username": username,
	}, adminTokenLifetime)
	if err != nil {
		return "", 0, err
	}

	return token, expiresAt, nil
}

func (s *boothService) ListRecords(ctx context.Context) ([]entity.SubmissionRecord, error) {
	client, err := s.repo.NewClient(false)
	if err != nil {
		return nil, err
	}

	return client.Submission.GetRecords(ctx)
}
