package entity

import "time"

// SubmissionRecord is the persisted outcome of a successful face swap.
// It is only ever written after both image uploads and the swap call
// succeeded.
type SubmissionRecord struct {
	ID             string
	Name           string
	Email          string
	SourceImageURL string
	ResultImageURL string
	CreatedAt      time.Time
}
