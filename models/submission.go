package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Submission kinds forwarded to the backend.
const (
	SubmissionRequisition = "requisition"
	SubmissionEstimation  = "estimation"
	SubmissionMBRemarks   = "mb_remarks"
	SubmissionVisit       = "visit"
)

// SubmissionLog is the gateway's own trail of forwarded form submissions.
// Reference is a ULID so logs sort by submission time.
type SubmissionLog struct {
	Reference   string         `gorm:"size:26;primaryKey" json:"reference"`
	Kind        string         `gorm:"size:30;index;not null" json:"kind"`
	UserID      int            `gorm:"index;not null" json:"userId"`
	Payload     datatypes.JSON `gorm:"type:jsonb;not null" json:"payload"`
	PhotoURLs   pq.StringArray `gorm:"type:text[]" json:"photoUrls"`
	Succeeded   bool           `gorm:"not null" json:"succeeded"`
	Error       string         `gorm:"type:text" json:"error,omitempty"`
	SubmittedAt time.Time      `gorm:"not null" json:"submittedAt"`
}
