package models

// Sequences hold the next identifier for each entity kind. They live inside
// the state document so that allocation and insertion commit together.
type Sequences struct {
	NextCourseID int64 `json:"nextCourseId"`
	NextSheetID  int64 `json:"nextSheetId"`
	NextSlotID   int64 `json:"nextSlotId"`
}

// State is the whole scheduling snapshot persisted as one document.
type State struct {
	Courses []Course `json:"courses"`
	Sheets  []Sheet  `json:"sheets"`
	Grades  []Grade  `json:"grades"`
	Sequences
}

// NewState returns an empty document with counters at 1.
func NewState() *State {
	s := &State{}
	s.Normalize()
	return s
}

// Normalize fills nil collections and repairs counters so they stay ahead of
// every stored id, which matters for documents written by older builds.
func (s *State) Normalize() {
	if s.Courses == nil {
		s.Courses = []Course{}
	}
	if s.Sheets == nil {
		s.Sheets = []Sheet{}
	}
	if s.Grades == nil {
		s.Grades = []Grade{}
	}

	var maxCourse, maxSheet, maxSlot int64
	for i := range s.Courses {
		if s.Courses[i].Members == nil {
			s.Courses[i].Members = []Member{}
		}
		if s.Courses[i].ID > maxCourse {
			maxCourse = s.Courses[i].ID
		}
	}
	for i := range s.Sheets {
		sheet := &s.Sheets[i]
		if sheet.Slots == nil {
			sheet.Slots = []Slot{}
		}
		if sheet.ID > maxSheet {
			maxSheet = sheet.ID
		}
		for j := range sheet.Slots {
			if sheet.Slots[j].Signups == nil {
				sheet.Slots[j].Signups = []string{}
			}
			if sheet.Slots[j].ID > maxSlot {
				maxSlot = sheet.Slots[j].ID
			}
		}
	}

	s.NextCourseID = maxInt64(s.NextCourseID, maxCourse+1, 1)
	s.NextSheetID = maxInt64(s.NextSheetID, maxSheet+1, 1)
	s.NextSlotID = maxInt64(s.NextSlotID, maxSlot+1, 1)
}

// AllocateCourseID returns the next course id and advances the counter.
func (s *State) AllocateCourseID() int64 {
	id := s.NextCourseID
	s.NextCourseID++
	return id
}

// AllocateSheetID returns the next sheet id and advances the counter.
func (s *State) AllocateSheetID() int64 {
	id := s.NextSheetID
	s.NextSheetID++
	return id
}

// AllocateSlotID returns the next slot id and advances the counter.
func (s *State) AllocateSlotID() int64 {
	id := s.NextSlotID
	s.NextSlotID++
	return id
}

// FindCourse locates a course by id.
func (s *State) FindCourse(id int64) (*Course, bool) {
	for i := range s.Courses {
		if s.Courses[i].ID == id {
			return &s.Courses[i], true
		}
	}
	return nil, false
}

// FindSheet locates a sheet by id.
func (s *State) FindSheet(id int64) (*Sheet, bool) {
	for i := range s.Sheets {
		if s.Sheets[i].ID == id {
			return &s.Sheets[i], true
		}
	}
	return nil, false
}

// FindSlot locates a slot and its owning sheet.
func (s *State) FindSlot(id int64) (*Sheet, *Slot, bool) {
	for i := range s.Sheets {
		if slot, ok := s.Sheets[i].FindSlot(id); ok {
			return &s.Sheets[i], slot, true
		}
	}
	return nil, nil, false
}

// FindGrade locates the grade for (memberID, sheetID).
func (s *State) FindGrade(memberID string, sheetID int64) (*Grade, bool) {
	for i := range s.Grades {
		if s.Grades[i].MemberID == memberID && s.Grades[i].SheetID == sheetID {
			return &s.Grades[i], true
		}
	}
	return nil, false
}

// RemoveSheet deletes a sheet with its slots and every grade keyed by it.
func (s *State) RemoveSheet(id int64) bool {
	idx := -1
	for i := range s.Sheets {
		if s.Sheets[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	s.Sheets = append(s.Sheets[:idx], s.Sheets[idx+1:]...)
	s.Grades = filterGrades(s.Grades, func(g Grade) bool { return g.SheetID != id })
	return true
}

// RemoveCourse deletes a course and cascades to its sheets and their grades.
func (s *State) RemoveCourse(id int64) bool {
	idx := -1
	for i := range s.Courses {
		if s.Courses[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	s.Courses = append(s.Courses[:idx], s.Courses[idx+1:]...)

	var sheetIDs []int64
	for _, sh := range s.Sheets {
		if sh.CourseID == id {
			sheetIDs = append(sheetIDs, sh.ID)
		}
	}
	for _, sheetID := range sheetIDs {
		s.RemoveSheet(sheetID)
	}
	return true
}

// DetachMember drops memberID from every slot of the course's sheets and
// removes their grades on those sheets.
func (s *State) DetachMember(courseID int64, memberID string) {
	sheets := make(map[int64]struct{})
	for i := range s.Sheets {
		sh := &s.Sheets[i]
		if sh.CourseID != courseID {
			continue
		}
		sheets[sh.ID] = struct{}{}
		for j := range sh.Slots {
			sh.Slots[j].RemoveSignup(memberID)
		}
	}
	s.Grades = filterGrades(s.Grades, func(g Grade) bool {
		_, onCourse := sheets[g.SheetID]
		return !(onCourse && g.MemberID == memberID)
	})
}

// Clone returns a deep copy that shares no slices with the receiver.
func (s *State) Clone() *State {
	cp := &State{Sequences: s.Sequences}

	cp.Courses = make([]Course, len(s.Courses))
	for i, c := range s.Courses {
		cp.Courses[i] = c.Clone()
	}

	cp.Sheets = make([]Sheet, len(s.Sheets))
	for i, sh := range s.Sheets {
		cp.Sheets[i] = CloneSheet(sh)
	}

	cp.Grades = append([]Grade{}, s.Grades...)
	return cp
}

// CloneSheet deep-copies a sheet including its slots and signups.
func CloneSheet(sh Sheet) Sheet {
	if sh.NotBefore != nil {
		nb := *sh.NotBefore
		sh.NotBefore = &nb
	}
	if sh.NotAfter != nil {
		na := *sh.NotAfter
		sh.NotAfter = &na
	}
	slots := make([]Slot, len(sh.Slots))
	for j, sl := range sh.Slots {
		slots[j] = sl.Clone()
	}
	sh.Slots = slots
	return sh
}

func filterGrades(grades []Grade, keep func(Grade) bool) []Grade {
	out := grades[:0]
	for _, g := range grades {
		if keep(g) {
			out = append(out, g)
		}
	}
	return out
}

func maxInt64(values ...int64) int64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
