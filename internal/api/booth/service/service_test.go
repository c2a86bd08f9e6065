package boothService

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"ProjectPhotobooth/internal/api/booth"
	boothRepository "ProjectPhotobooth/internal/api/booth/repository"
	"ProjectPhotobooth/internal/catalog"
	"ProjectPhotobooth/internal/capture"
	"ProjectPhotobooth/internal/entity"
	bcryptPkg "ProjectPhotobooth/pkg/bcrypt"
	qrPkg "ProjectPhotobooth/pkg/qr"
	redisPkg "ProjectPhotobooth/pkg/redis"
	"ProjectPhotobooth/pkg/swap"
	"ProjectPhotobooth/pkg/utils"
)

// --- fakes ---

type fakeStore struct {
	mu       sync.Mutex
	sessions map[string]entity.Session
}

func newFakeStore() *fakeStore {
	return &fakeStore{sessions: make(map[string]entity.Session)}
}

func (f *fakeStore) SaveSession(_ context.Context, session entity.Session, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeStore) GetSession(_ context.Context, id string) (entity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[id]
	if !ok {
		return entity.Session{}, redisPkg.ErrSessionNotFound
	}
	return session, nil
}

func (f *fakeStore) DeleteSession(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, id)
	return nil
}

// callLog records the order of outbound side effects across all fakes.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(call string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
}

func (l *callLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

type fakeS3 struct {
	log        *callLog
	failPrefix string
}

func (f *fakeS3) UploadBytes(key string, data []byte, contentType string) (string, error) {
	f.log.add("upload:" + key)
	if f.failPrefix != "" && strings.HasPrefix(key, f.failPrefix) {
		return "", errors.New("store rejected the write")
	}
	return "https://store.local/" + key, nil
}

func (f *fakeS3) PublicURL(key string) string {
	return "https://store.local/" + key
}

func (f *fakeS3) DeleteFile(string) error { return nil }

type fakeSwap struct {
	log      *callLog
	swapErr  error
	fetchErr error
	probeErr error
}

func (f *fakeSwap) SwapFace(_ context.Context, req swap.SwapRequest) ([]byte, error) {
	f.log.add("swap")
	if f.swapErr != nil {
		return nil, f.swapErr
	}
	if len(req.SourceImage) == 0 || len(req.TargetImage) == 0 {
		return nil, errors.New("swap called without both images")
	}
	return []byte("swapped-" + req.Name), nil
}

func (f *fakeSwap) FetchAsset(_ context.Context, assetURL string) ([]byte, error) {
	if strings.Contains(assetURL, "swapped-images") {
		f.log.add("probe:" + assetURL)
		if f.probeErr != nil {
			return nil, f.probeErr
		}
		return []byte("result-bytes"), nil
	}
	f.log.add("fetch:" + assetURL)
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return []byte("template-bytes"), nil
}

type fakeSubmissionRepo struct {
	log       *callLog
	insertErr error
	records   []entity.SubmissionRecord
}

func (f *fakeSubmissionRepo) CreateRecord(_ context.Context, record entity.SubmissionRecord) error {
	f.log.add("insert")
	if f.insertErr != nil {
		return f.insertErr
	}
	f.records = append(f.records, record)
	return nil
}

func (f *fakeSubmissionRepo) GetRecords(context.Context) ([]entity.SubmissionRecord, error) {
	return f.records, nil
}

type fakeRepo struct {
	submissions *fakeSubmissionRepo
}

func (f *fakeRepo) NewClient(bool) (boothRepository.Client, error) {
	return boothRepository.Client{
		Submission: f.submissions,
		Commit:     func() error { return nil },
		Rollback:   func() error { return nil },
	}, nil
}

type fakeMailer struct {
	sent []string
}

func (f *fakeMailer) SendResultLink(_ string, email string, _ string) error {
	f.sent = append(f.sent, email)
	return nil
}

// --- harness ---

type harness struct {
	service IBoothService
	store   *fakeStore
	s3      *fakeS3
	swap    *fakeSwap
	repo    *fakeRepo
	mailer  *fakeMailer
	device  *capture.MockDevice
	manager *capture.Manager
	calls   *callLog
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	calls := &callLog{}
	store := newFakeStore()
	s3Client := &fakeS3{log: calls}
	swapClient := &fakeSwap{log: calls}
	repo := &fakeRepo{submissions: &fakeSubmissionRepo{log: calls}}
	mailer := &fakeMailer{}

	device := capture.NewMockDevice()
	manager := capture.NewManager(device, logger)
	manager.SetSettleDelay(0)

	templates, err := catalog.NewWithTemplates(map[entity.Gender][]catalog.Template{
		entity.GenderMale: {
			{Name: "male-01", AssetURL: "https://assets.local/male-01.jpg"},
			{Name: "male-02", AssetURL: "https://assets.local/male-02.jpg"},
			{Name: "male-03", AssetURL: "https://assets.local/male-03.jpg"},
			{Name: "male-04", AssetURL: "https://assets.local/male-04.jpg"},
		},
		entity.GenderFemale: {
			{Name: "female-01", AssetURL: "https://assets.local/female-01.jpg"},
			{Name: "female-02", AssetURL: "https://assets.local/female-02.jpg"},
			{Name: "female-03", AssetURL: "https://assets.local/female-03.jpg"},
			{Name: "female-04", AssetURL: "https://assets.local/female-04.jpg"},
		},
	})
	if err != nil {
		t.Fatalf("failed to build catalog: %v", err)
	}

	service := New(logger, repo, store, s3Client, swapClient, manager, templates,
		mailer, qrPkg.New(), bcryptPkg.New(), utils.New())

	return &harness{
		service: service,
		store:   store,
		s3:      s3Client,
		swap:    swapClient,
		repo:    repo,
		mailer:  mailer,
		device:  device,
		manager: manager,
		calls:   calls,
	}
}

// walkToSubmission drives a session through intake, gender, carousel,
// template selection and capture, leaving it at the submission stage.
func (h *harness) walkToSubmission(t *testing.T) entity.Session {
	t.Helper()
	ctx := context.Background()

	session, err := h.service.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	if _, err := h.service.SubmitIntake(ctx, session.ID, "Ava", "a@x.com"); err != nil {
		t.Fatalf("SubmitIntake: %v", err)
	}
	if _, err := h.service.SelectGender(ctx, session.ID, "female"); err != nil {
		t.Fatalf("SelectGender: %v", err)
	}
	if _, err := h.service.MoveCarousel(ctx, session.ID, "next"); err != nil {
		t.Fatalf("MoveCarousel: %v", err)
	}
	if _, err := h.service.MoveCarousel(ctx, session.ID, "next"); err != nil {
		t.Fatalf("MoveCarousel: %v", err)
	}

	_, cameraReady, err := h.service.SelectTemplate(ctx, session.ID)
	if err != nil {
		t.Fatalf("SelectTemplate: %v", err)
	}
	if !cameraReady {
		t.Fatal("camera should be ready with a healthy device")
	}

	captured, err := h.service.CaptureFrame(ctx, session.ID)
	if err != nil {
		t.Fatalf("CaptureFrame: %v", err)
	}
	if captured.Stage != entity.StageSubmission {
		t.Fatalf("stage after capture = %s, want submission", captured.Stage)
	}
	return captured
}

// --- tests ---

func TestFlow_HappyPath(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	session := h.walkToSubmission(t)

	// Two next() calls from 0 over four templates must land on index 2.
	if session.TemplateIndex != 2 {
		t.Errorf("template index = %d, want 2", session.TemplateIndex)
	}
	if len(session.CapturedImage) == 0 {
		t.Fatal("no captured image on session")
	}
	// Camera ownership dropped the instant capture completed.
	if h.manager.Active() {
		t.Error("camera still active after capture")
	}

	result, err := h.service.Submit(ctx, session.ID)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.Stage != entity.StageResult {
		t.Errorf("stage = %s, want result", result.Stage)
	}
	if result.Submission != entity.SubmissionSucceeded {
		t.Errorf("submission state = %s, want succeeded", result.Submission)
	}
	if result.ResultURL == "" {
		t.Fatal("result URL is empty after successful submission")
	}

	// The five side effects ran in strict order.
	calls := h.calls.list()
	if len(calls) != 4 {
		t.Fatalf("expected 4 outbound calls, got %v", calls)
	}
	if !strings.HasPrefix(calls[0], "upload:source-images/") {
		t.Errorf("step 1 = %q, want source upload", calls[0])
	}
	if calls[1] != "fetch:https://assets.local/female-03.jpg" {
		t.Errorf("step 2 = %q, want template fetch for index 2", calls[1])
	}
	if calls[2] != "swap" {
		t.Errorf("step 3 = %q, want swap", calls[2])
	}
	if !strings.HasPrefix(calls[3], "upload:swapped-images/") {
		t.Errorf("step 4 = %q, want result upload", calls[3])
	}

	// Step 5 persisted exactly one record with both locators.
	records := h.repo.submissions.records
	if len(records) != 1 {
		t.Fatalf("expected 1 submission record, got %d", len(records))
	}
	if records[0].Name != "Ava" || records[0].Email != "a@x.com" {
		t.Errorf("record identity = %s/%s, want Ava/a@x.com", records[0].Name, records[0].Email)
	}
	if records[0].SourceImageURL == "" || records[0].ResultImageURL != result.ResultURL {
		t.Errorf("record locators not populated: %+v", records[0])
	}

	if len(h.mailer.sent) != 1 || h.mailer.sent[0] != "a@x.com" {
		t.Errorf("result mail not sent to visitor: %v", h.mailer.sent)
	}

	// Result is served once the probe confirms the locator loads.
	url, err := h.service.Result(ctx, session.ID)
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if url != result.ResultURL {
		t.Errorf("Result returned %q, want %q", url, result.ResultURL)
	}

	png, err := h.service.ResultQR(ctx, session.ID)
	if err != nil {
		t.Fatalf("ResultQR: %v", err)
	}
	if len(png) == 0 {
		t.Error("QR payload is empty")
	}
}

func TestSubmit_SwapFailureShortCircuits(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	session := h.walkToSubmission(t)

	h.swap.swapErr = &swap.ServiceError{StatusCode: http.StatusInternalServerError, Detail: "model timeout"}

	result, err := h.service.Submit(ctx, session.ID)
	if !errors.Is(err, booth.ErrSwapService) {
		t.Fatalf("expected ErrSwapService, got %v", err)
	}
	if result.Stage != entity.StageError {
		t.Errorf("stage = %s, want error", result.Stage)
	}
	if result.Submission != entity.SubmissionFailed {
		t.Errorf("submission state = %s, want failed", result.Submission)
	}

	// Nothing after the failed step may have run.
	for _, call := range h.calls.list() {
		if strings.HasPrefix(call, "upload:swapped-images/") {
			t.Errorf("result upload ran after swap failure: %v", h.calls.list())
		}
		if call == "insert" {
			t.Errorf("record insert ran after swap failure: %v", h.calls.list())
		}
	}
	if len(h.repo.submissions.records) != 0 {
		t.Error("submission record written despite swap failure")
	}
	if len(h.mailer.sent) != 0 {
		t.Error("result mail sent despite swap failure")
	}
}

func TestSubmit_StepFailuresStopLaterSteps(t *testing.T) {
	cases := []struct {
		name      string
		arrange   func(h *harness)
		wantErr   error
		forbidden []string
	}{
		{
			name:      "source upload fails",
			arrange:   func(h *harness) { h.s3.failPrefix = "source-images/" },
			wantErr:   booth.ErrUploadFailed,
			forbidden: []string{"fetch:", "swap", "upload:swapped-images/", "insert"},
		},
		{
			name:      "template fetch fails",
			arrange:   func(h *harness) { h.swap.fetchErr = errors.New("asset missing") },
			wantErr:   booth.ErrAssetFetch,
			forbidden: []string{"swap", "upload:swapped-images/", "insert"},
		},
		{
			name:      "result upload fails",
			arrange:   func(h *harness) { h.s3.failPrefix = "swapped-images/" },
			wantErr:   booth.ErrUploadFailed,
			forbidden: []string{"insert"},
		},
		{
			name:      "record insert fails",
			arrange:   func(h *harness) { h.repo.submissions.insertErr = errors.New("write rejected") },
			wantErr:   booth.ErrPersist,
			forbidden: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			ctx := context.Background()
			session := h.walkToSubmission(t)

			tc.arrange(h)

			result, err := h.service.Submit(ctx, session.ID)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if result.Stage != entity.StageError {
				t.Errorf("stage = %s, want error", result.Stage)
			}

			for _, call := range h.calls.list() {
				for _, forbidden := range tc.forbidden {
					if strings.HasPrefix(call, forbidden) {
						t.Errorf("forbidden side effect %q after %s: %v", call, tc.name, h.calls.list())
					}
				}
			}
		})
	}
}

func TestSubmit_MalformedSessionResetsSilently(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	session := h.walkToSubmission(t)

	// Strip the captured image to simulate a session arriving at submission
	// without its payload.
	stored, err := h.store.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	stored.CapturedImage = nil
	if err := h.store.SaveSession(ctx, stored, time.Minute); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	result, err := h.service.Submit(ctx, session.ID)
	if err != nil {
		t.Fatalf("malformed session must not surface an error, got %v", err)
	}
	if result.Stage != entity.StageStart {
		t.Errorf("stage = %s, want start", result.Stage)
	}
	if len(h.calls.list()) != 0 {
		t.Errorf("network calls performed for malformed session: %v", h.calls.list())
	}
}

func TestSubmit_SingleFlight(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	session := h.walkToSubmission(t)

	if _, err := h.service.Submit(ctx, session.ID); err != nil {
		t.Fatalf("first Submit: %v", err)
	}

	// A re-entered submission must be rejected: the flow controller rejects
	// the stage before even reaching the state machine.
	_, err := h.service.Submit(ctx, session.ID)
	if !errors.Is(err, booth.ErrInvalidStage) && !errors.Is(err, booth.ErrSubmissionAlreadyRun) {
		t.Fatalf("expected duplicate submission to be rejected, got %v", err)
	}

	if len(h.repo.submissions.records) != 1 {
		t.Errorf("duplicate submission produced %d records, want 1", len(h.repo.submissions.records))
	}
}

func TestSubmit_FailedSubmissionIsTerminal(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	session := h.walkToSubmission(t)

	h.swap.swapErr = &swap.ServiceError{StatusCode: http.StatusInternalServerError, Detail: "model timeout"}
	if _, err := h.service.Submit(ctx, session.ID); !errors.Is(err, booth.ErrSwapService) {
		t.Fatalf("expected ErrSwapService, got %v", err)
	}

	h.swap.swapErr = nil
	if _, err := h.service.Submit(ctx, session.ID); err == nil {
		t.Fatal("failed submission must not be retryable")
	}
}

func TestCapture_PermissionDeniedKeepsSelectionUsable(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.device.OpenErr = errors.New("permission denied by OS")

	session, err := h.service.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if _, err := h.service.SubmitIntake(ctx, session.ID, "Ava", "a@x.com"); err != nil {
		t.Fatalf("SubmitIntake: %v", err)
	}
	if _, err := h.service.SelectGender(ctx, session.ID, "female"); err != nil {
		t.Fatalf("SelectGender: %v", err)
	}

	selected, cameraReady, err := h.service.SelectTemplate(ctx, session.ID)
	if err != nil {
		t.Fatalf("SelectTemplate must not fail on camera refusal: %v", err)
	}
	if cameraReady {
		t.Error("camera reported ready despite denied permission")
	}
	if selected.Stage != entity.StageTemplate {
		t.Errorf("stage = %s, want template (selection stays usable)", selected.Stage)
	}

	// Capture cannot proceed, but the session does not advance or crash.
	if _, err := h.service.CaptureFrame(ctx, session.ID); !errors.Is(err, booth.ErrCameraUnavailable) {
		t.Errorf("expected ErrCameraUnavailable, got %v", err)
	}

	stored, err := h.store.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if stored.Stage != entity.StageTemplate {
		t.Errorf("stage after denied capture = %s, want template", stored.Stage)
	}
}

func TestResult_ProbeFailure(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	session := h.walkToSubmission(t)
	if _, err := h.service.Submit(ctx, session.ID); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	h.swap.probeErr = fmt.Errorf("storage still propagating")

	if _, err := h.service.Result(ctx, session.ID); !errors.Is(err, booth.ErrResultNotReady) {
		t.Errorf("expected ErrResultNotReady while locator unloadable, got %v", err)
	}

	h.swap.probeErr = nil
	if _, err := h.service.Result(ctx, session.ID); err != nil {
		t.Errorf("Result after propagation: %v", err)
	}
}

func TestReset_ReleasesCameraAndDiscardsSession(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	session, err := h.service.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if _, err := h.service.SubmitIntake(ctx, session.ID, "Ava", "a@x.com"); err != nil {
		t.Fatalf("SubmitIntake: %v", err)
	}
	if _, err := h.service.SelectGender(ctx, session.ID, "male"); err != nil {
		t.Fatalf("SelectGender: %v", err)
	}
	if _, _, err := h.service.SelectTemplate(ctx, session.ID); err != nil {
		t.Fatalf("SelectTemplate: %v", err)
	}
	if !h.manager.Active() {
		t.Fatal("camera should be active after template selection")
	}

	if err := h.service.Reset(ctx, session.ID); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if h.manager.Active() {
		t.Error("camera still active after reset")
	}
	if _, err := h.service.SubmitIntake(ctx, session.ID, "Ava", "a@x.com"); !errors.Is(err, booth.ErrSessionNotFound) {
		t.Errorf("session survived reset: %v", err)
	}
}

func TestStageGuards(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	session, err := h.service.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	// The path table is linear: no skipping ahead.
	if _, err := h.service.SelectGender(ctx, session.ID, "male"); !errors.Is(err, booth.ErrInvalidStage) {
		t.Errorf("gender before intake: %v", err)
	}
	if _, err := h.service.MoveCarousel(ctx, session.ID, "next"); !errors.Is(err, booth.ErrInvalidStage) {
		t.Errorf("carousel before gender: %v", err)
	}
	if _, err := h.service.Submit(ctx, session.ID); !errors.Is(err, booth.ErrInvalidStage) {
		t.Errorf("submit before capture: %v", err)
	}
	if _, err := h.service.Result(ctx, session.ID); !errors.Is(err, booth.ErrNoResult) {
		t.Errorf("result without submission: %v", err)
	}
}

func TestCarousel_WrapsWithinRange(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	session, err := h.service.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if _, err := h.service.SubmitIntake(ctx, session.ID, "Ava", "a@x.com"); err != nil {
		t.Fatalf("SubmitIntake: %v", err)
	}
	if _, err := h.service.SelectGender(ctx, session.ID, "male"); err != nil {
		t.Fatalf("SelectGender: %v", err)
	}

	length := h.service.TemplateCount(entity.GenderMale)
	for i := 0; i < 11; i++ {
		direction := "next"
		if i%4 == 0 {
			direction = "previous"
		}
		updated, err := h.service.MoveCarousel(ctx, session.ID, direction)
		if err != nil {
			t.Fatalf("MoveCarousel: %v", err)
		}
		if updated.TemplateIndex < 0 || updated.TemplateIndex >= length {
			t.Fatalf("carousel index %d out of range [0,%d)", updated.TemplateIndex, length)
		}
	}

	if _, err := h.service.MoveCarousel(ctx, session.ID, "sideways"); !errors.Is(err, booth.ErrInvalidDirection) {
		t.Errorf("expected ErrInvalidDirection, got %v", err)
	}
}
