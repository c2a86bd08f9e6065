package boothService

import (
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	boothRepository "ProjectPhotobooth/internal/api/booth/repository"
	"ProjectPhotobooth/internal/catalog"
	"ProjectPhotobooth/internal/entity"
	bcryptPkg "ProjectPhotobooth/pkg/bcrypt"
	qrPkg "ProjectPhotobooth/pkg/qr"
	redisPkg "ProjectPhotobooth/pkg/redis"
	"ProjectPhotobooth/pkg/s3"
	smtpPkg "ProjectPhotobooth/pkg/smtp"
	swapPkg "ProjectPhotobooth/pkg/swap"
	"ProjectPhotobooth/pkg/utils"
)

// sessionTTL bounds an abandoned kiosk interaction; a touched session gets
// its TTL refreshed on every transition.
const sessionTTL = 30 * time.Minute

// CaptureManager is the slice of the capture package the flow controller
// drives. Ownership of the camera never leaves this interface.
type CaptureManager interface {
	Activate(ctx context.Context) error
	Deactivate()
	Active() bool
	Capture(ctx context.Context) ([]byte, error)
}

type IBoothService interface {
	CreateSession(ctx context.Context) (entity.Session, error)
	SubmitIntake(ctx context.Context, id string, name string, email string) (entity.Session, error)
	SelectGender(ctx context.Context, id string, gender string) (entity.Session, error)
	MoveCarousel(ctx context.Context, id string, direction string) (entity.Session, error)
	SelectTemplate(ctx context.Context, id string) (entity.Session, bool, error)
	CaptureFrame(ctx context.Context, id string) (entity.Session, error)
	Submit(ctx context.Context, id string) (entity.Session, error)
	Result(ctx context.Context, id string) (string, error)
	ResultQR(ctx context.Context, id string) ([]byte, error)
	Reset(ctx context.Context, id string) error
	TemplateCount(gender entity.Gender) int
	AdminLogin(ctx context.Context, username string, password string) (string, int64, error)
	ListRecords(ctx context.Context) ([]entity.SubmissionRecord, error)
}

type boothService struct {
	log     *logrus.Logger
	repo    boothRepository.Repository
	store   redisPkg.ISessionStore
	s3      s3.ItfS3
	swap    swapPkg.ItfSwap
	capture CaptureManager
	catalog *catalog.Catalog
	mailer  smtpPkg.ItfSmtp
	qr      qrPkg.ItfQR
	bcrypt  bcryptPkg.IBcrypt
	utils   utils.IUtils
}

func New(
	log *logrus.Logger,
	repo boothRepository.Repository,
	store redisPkg.ISessionStore,
	s3Client s3.ItfS3,
	swapClient swapPkg.ItfSwap,
	captureManager CaptureManager,
	templateCatalog *catalog.Catalog,
	mailer smtpPkg.ItfSmtp,
	qrGenerator qrPkg.ItfQR,
	bcryptUtils bcryptPkg.IBcrypt,
	utils utils.IUtils,
) IBoothService {
	return &boothService{
		log:     log,
		repo:    repo,
		store:   store,
		s3:      s3Client,
		swap:    swapClient,
		capture: captureManager,
		catalog: templateCatalog,
		mailer:  mailer,
		qr:      qrGenerator,
		bcrypt:  bcryptUtils,
		utils:   utils,
	}
}

func (s *boothService) TemplateCount(gender entity.Gender) int {
	return s.catalog.Len(gender)
}
