package models

import (
	"strings"
	"time"
)

// MemberRole represents the role a member holds within a course.
type MemberRole string

const (
	MemberRoleStudent    MemberRole = "student"
	MemberRoleTA         MemberRole = "ta"
	MemberRoleInstructor MemberRole = "instructor"
)

// Valid reports whether the role is one of the enumerated values.
func (r MemberRole) Valid() bool {
	switch r {
	case MemberRoleStudent, MemberRoleTA, MemberRoleInstructor:
		return true
	}
	return false
}

// Member is a roster entry. IDs are supplied by the caller (e.g. student numbers).
type Member struct {
	ID   string     `json:"id" toml:"id"`
	Name string     `json:"name" toml:"name"`
	Role MemberRole `json:"role" toml:"role"`
}

// Course owns its roster; sheets reference it by ID.
type Course struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Section   int       `json:"section"`
	Name      string    `json:"name"`
	Members   []Member  `json:"members"`
	CreatedAt time.Time `json:"createdAt"`
}

// FindMember returns the roster entry for memberID.
func (c *Course) FindMember(memberID string) (*Member, bool) {
	for i := range c.Members {
		if c.Members[i].ID == memberID {
			return &c.Members[i], true
		}
	}
	return nil, false
}

// HasMemberNamed matches names case-insensitively.
func (c *Course) HasMemberNamed(name string) bool {
	for _, m := range c.Members {
		if strings.EqualFold(strings.TrimSpace(m.Name), strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}

// AddMembersResult reports the outcome of a bulk roster import.
type AddMembersResult struct {
	Added   int      `json:"added"`
	Ignored []string `json:"ignored"`
}

// Clone copies the course so the roster slice is not shared.
func (c Course) Clone() Course {
	c.Members = append([]Member{}, c.Members...)
	return c
}
