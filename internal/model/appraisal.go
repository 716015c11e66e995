package model

import (
	"encoding/json"
	"time"
)

// Appraisal is a staff-submitted vehicle condition record. The submitted
// document is stored verbatim as JSON; registration and submitter identity
// are extracted into columns for filtering and ordering. Appraisals are
// immutable once created.
type Appraisal struct {
	ID                  int             `json:"id"`
	Reg                 string          `json:"reg,omitempty"`
	SubmittedByUsername string          `json:"submitted_by_username,omitempty"`
	SubmittedByEmail    string          `json:"submitted_by_email,omitempty"`
	Document            json.RawMessage `json:"document"`
	CreatedAt           time.Time       `json:"created_at"`
}

// Document field names recognized when extracting or stamping submitter
// identity on an incoming appraisal.
const (
	DocFieldReg                 = "reg"
	DocFieldSubmittedBy         = "submittedBy"
	DocFieldSubmittedByUsername = "submittedByUsername"
	DocFieldSubmittedByEmail    = "submittedByEmail"
)
