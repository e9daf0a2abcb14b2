package dto

import "github.com/noah-isme/signup-sheets-api/internal/models"

// CreateCourseRequest creates a course. Section defaults to 1.
type CreateCourseRequest struct {
	Code    string `json:"code" validate:"required,max=32"`
	Section int    `json:"section" validate:"omitempty,min=1"`
	Name    string `json:"name" validate:"required,max=200"`
}

// MemberRequest is one roster entry in a bulk import.
type MemberRequest struct {
	ID   string            `json:"id" toml:"id" validate:"required,max=64"`
	Name string            `json:"name" toml:"name" validate:"required,max=200"`
	Role models.MemberRole `json:"role" toml:"role" validate:"omitempty,oneof=student ta instructor"`
}

// AddMembersRequest bulk-adds members to a course roster.
type AddMembersRequest struct {
	Members []MemberRequest `json:"members" validate:"required,min=1,dive"`
}
