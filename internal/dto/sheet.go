package dto

// CreateSheetRequest creates a sheet under a course. The window bounds are
// optional and accept RFC3339 or date-only values.
type CreateSheetRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	NotBefore   string `json:"notBefore"`
	NotAfter    string `json:"notAfter"`
}

// CreateSlotsRequest creates NumSlots identical slots.
type CreateSlotsRequest struct {
	Start        string `json:"start" validate:"required"`
	SlotDuration int    `json:"slotDuration" validate:"required,min=1"`
	NumSlots     int    `json:"numSlots" validate:"required,min=1"`
	MaxMembers   int    `json:"maxMembers" validate:"required,min=1"`
}

// SignupRequest reserves a seat in a slot.
type SignupRequest struct {
	MemberID string `json:"memberId" validate:"required"`
}
