package models

import "time"

// Grade is the single live record for a (member, sheet) pair.
type Grade struct {
	MemberID  string    `json:"memberId"`
	SheetID   int64     `json:"sheetId"`
	Value     int       `json:"grade"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// GradeSubmission is the outcome of a submit. Old is set only when an
// existing record was merged.
type GradeSubmission struct {
	Grade   Grade `json:"grade"`
	Created bool  `json:"created"`
	Old     *int  `json:"old,omitempty"`
}
