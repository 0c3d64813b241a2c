package models

import (
	"time"

	"github.com/hetulpatel/stackseed/internal/stackapi"
)

// Kind names the seeding operation a submission belongs to.
type Kind string

const (
	KindQuestion Kind = "question"
	KindUser     Kind = "user"
	KindVerify   Kind = "verify"
)

// Submission is one request sent to the Q&A service. It is written to the
// ledger, placed on Kafka and counted in Redis.
type Submission struct {
	RunID       string    `json:"run_id"`
	Kind        Kind      `json:"kind"`
	Line        int       `json:"line"`
	Endpoint    string    `json:"endpoint"`
	PayloadHash string    `json:"payload_hash"`
	StatusCode  int       `json:"status_code"`
	APIStatus   string    `json:"api_status,omitempty"`
	APIError    string    `json:"api_error,omitempty"`
	SentAt      time.Time `json:"sent_at"`
}

// NewSubmission captures the outcome of a request.
func NewSubmission(runID string, kind Kind, line int, res *stackapi.Result, payloadHash string, sentAt time.Time) Submission {
	return Submission{
		RunID:       runID,
		Kind:        kind,
		Line:        line,
		Endpoint:    res.Endpoint,
		PayloadHash: payloadHash,
		StatusCode:  res.StatusCode,
		APIStatus:   res.Response.Status,
		APIError:    res.Response.Error,
		SentAt:      sentAt.UTC(),
	}
}

// OK reports a 2xx status.
func (s Submission) OK() bool {
	return s.StatusCode >= 200 && s.StatusCode < 300
}
