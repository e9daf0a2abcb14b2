package dto

// GradeRequest submits a grade for a member on a sheet. SheetID is taken
// from the path on sheet-scoped routes.
type GradeRequest struct {
	MemberID string `json:"memberId" validate:"required"`
	SheetID  int64  `json:"sheetId" validate:"required,min=1"`
	Grade    *int   `json:"grade" validate:"required,min=0,max=100"`
	Comment  string `json:"comment" validate:"max=2000"`
}
