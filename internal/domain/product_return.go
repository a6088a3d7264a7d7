package domain

import "time"

type ReturnStatus string

const (
	ReturnStatusNotInitiated ReturnStatus = "NOT_INITIATED"
	ReturnStatusInitiated    ReturnStatus = "INITIATED"
	ReturnStatusInProgress   ReturnStatus = "IN_PROGRESS"
	ReturnStatusCompleted    ReturnStatus = "COMPLETED"
)

// CanTransitionTo reports whether target is a legal forward transition from s.
// The return state machine never regresses.
func (s ReturnStatus) CanTransitionTo(target ReturnStatus) bool {
	switch s {
	case ReturnStatusNotInitiated:
		return target == ReturnStatusInitiated
	case ReturnStatusInitiated:
		return target == ReturnStatusInProgress || target == ReturnStatusCompleted
	case ReturnStatusInProgress:
		return target == ReturnStatusCompleted
	}
	return false
}

type ProductReturn struct {
	ID              int32        `json:"id"`
	RentalRequestID int32        `json:"rental_request_id"` // unique: one return per request
	Status          ReturnStatus `json:"status"`
	Signature       string       `json:"signature"`
	ConditionNotes  string       `json:"condition_notes"`
	ReturnedOn      *time.Time   `json:"returned_on,omitempty"`
	CreatedOn       time.Time    `json:"created_on"`
	UpdatedOn       time.Time    `json:"updated_on"`
}

type DamageSeverity string

const (
	DamageSeverityMinor    DamageSeverity = "MINOR"
	DamageSeverityModerate DamageSeverity = "MODERATE"
	DamageSeveritySevere   DamageSeverity = "SEVERE"
)

func (s DamageSeverity) Valid() bool {
	switch s {
	case DamageSeverityMinor, DamageSeverityModerate, DamageSeveritySevere:
		return true
	}
	return false
}

// DamageAssessment is the owner-authored condition record for a completed
// return. At most one exists per ProductReturn.
type DamageAssessment struct {
	ID              int32          `json:"id"`
	ProductReturnID int32          `json:"product_return_id"`
	Severity        DamageSeverity `json:"severity"`
	Description     string         `json:"description"`
	Photos          []DamagePhoto  `json:"photos,omitempty"`
	CreatedOn       time.Time      `json:"created_on"`
}

type DamagePhoto struct {
	ID           int32  `json:"id"`
	AssessmentID int32  `json:"assessment_id"`
	URL          string `json:"url"`
}
