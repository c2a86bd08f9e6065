package entity

import "time"

type Stage uint8

const (
	StageStart      Stage = 0
	StageIntake     Stage = 1
	StageGender     Stage = 2
	StageTemplate   Stage = 3
	StageSubmission Stage = 4
	StageResult     Stage = 5
	StageError      Stage = 6
)

var StageMap = map[Stage]string{
	StageStart:      "start",
	StageIntake:     "intake",
	StageGender:     "gender",
	StageTemplate:   "template",
	StageSubmission: "submission",
	StageResult:     "result",
	StageError:      "error",
}

func (s Stage) String() string {
	return StageMap[s]
}

type Gender uint8

const (
	GenderUnset  Gender = 0
	GenderMale   Gender = 1
	GenderFemale Gender = 2
)

var GenderMap = map[Gender]string{
	GenderMale:   "male",
	GenderFemale: "female",
}

func (g Gender) String() string {
	return GenderMap[g]
}

func ParseGender(s string) Gender {
	switch s {
	case "male":
		return GenderMale
	case "female":
		return GenderFemale
	}
	return GenderUnset
}

// SubmissionState makes the single-flight guard around the submission
// sequence an explicit state machine. Pending and the two terminal states
// reject re-entry.
type SubmissionState uint8

const (
	SubmissionNone      SubmissionState = 0
	SubmissionPending   SubmissionState = 1
	SubmissionSucceeded SubmissionState = 2
	SubmissionFailed    SubmissionState = 3
)

var SubmissionStateMap = map[SubmissionState]string{
	SubmissionNone:      "none",
	SubmissionPending:   "pending",
	SubmissionSucceeded: "succeeded",
	SubmissionFailed:    "failed",
}

func (s SubmissionState) String() string {
	return SubmissionStateMap[s]
}

type UserDetails struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session is one kiosk interaction from intake to result or error. It is
// stored as JSON in Redis and discarded on reset; the submission record is
// the only artifact that outlives it.
type Session struct {
	ID            string          `json:"id"`
	Stage         Stage           `json:"stage"`
	User          UserDetails     `json:"user"`
	Gender        Gender          `json:"gender"`
	TemplateIndex int             `json:"template_index"`
	CapturedImage []byte          `json:"captured_image,omitempty"`
	Submission    SubmissionState `json:"submission"`
	ResultURL     string          `json:"result_url,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// HasSubmissionPayload reports whether everything the submission sequence
// needs has been collected. A session entering submission without it is
// malformed and gets reset to start.
func (s *Session) HasSubmissionPayload() bool {
	return len(s.CapturedImage) > 0 &&
		s.Gender != GenderUnset &&
		s.User.Name != "" &&
		s.User.Email != ""
}
