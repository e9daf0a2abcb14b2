package models

import "time"

// Sheet is a named, time-windowed container of slots under a course.
type Sheet struct {
	ID          int64      `json:"id"`
	CourseID    int64      `json:"courseId"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	NotBefore   *Timestamp `json:"notBefore,omitempty"`
	NotAfter    *Timestamp `json:"notAfter,omitempty"`
	Slots       []Slot     `json:"slots"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// FindSlot returns the slot with the given id owned by this sheet.
func (s *Sheet) FindSlot(slotID int64) (*Slot, bool) {
	for i := range s.Slots {
		if s.Slots[i].ID == slotID {
			return &s.Slots[i], true
		}
	}
	return nil, false
}

// Slot is a fixed-capacity unit within a sheet. len(Signups) never exceeds Capacity.
type Slot struct {
	ID       int64     `json:"id"`
	SheetID  int64     `json:"sheetId"`
	Start    Timestamp `json:"start"`
	Duration int       `json:"slotDuration"`
	Capacity int       `json:"maxMembers"`
	Signups  []string  `json:"signups"`
}

// Full reports whether every seat is taken.
func (s *Slot) Full() bool {
	return len(s.Signups) >= s.Capacity
}

// Remaining returns the number of free seats.
func (s *Slot) Remaining() int {
	if n := s.Capacity - len(s.Signups); n > 0 {
		return n
	}
	return 0
}

// HasSignup reports whether memberID holds a seat.
func (s *Slot) HasSignup(memberID string) bool {
	return s.signupIndex(memberID) >= 0
}

// RemoveSignup drops memberID and reports whether it was present.
func (s *Slot) RemoveSignup(memberID string) bool {
	idx := s.signupIndex(memberID)
	if idx < 0 {
		return false
	}
	s.Signups = append(s.Signups[:idx], s.Signups[idx+1:]...)
	return true
}

func (s *Slot) signupIndex(memberID string) int {
	for i, id := range s.Signups {
		if id == memberID {
			return i
		}
	}
	return -1
}

// Clone copies the slot so the signup slice is not shared.
func (s Slot) Clone() Slot {
	s.Signups = append([]string{}, s.Signups...)
	return s
}
