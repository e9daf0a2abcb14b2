package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/signup-sheets-api/internal/dto"
	"github.com/noah-isme/signup-sheets-api/internal/models"
	"github.com/noah-isme/signup-sheets-api/internal/repository"
	"github.com/noah-isme/signup-sheets-api/pkg/storage"
)

var fixedNow = time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *repository.StateStore {
	t.Helper()
	blob, err := storage.NewFileBlob(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)
	store := repository.NewStateStore(blob, zap.NewNop(), repository.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, store.Load(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

type fixture struct {
	store   *repository.StateStore
	courses *CourseService
	sheets  *SheetService
	slots   *SlotService
	signups *SignupService
	grades  *GradeService
}

func newFixture(t *testing.T) *fixture {
	store := newTestStore(t)
	return &fixture{
		store:   store,
		courses: NewCourseService(store, nil, nil),
		sheets:  NewSheetService(store, nil, nil),
		slots:   NewSlotService(store, 0, nil, nil),
		signups: NewSignupService(store, nil, nil, nil),
		grades:  NewGradeService(store, nil, nil, nil),
	}
}

func (f *fixture) course(t *testing.T, code string, memberIDs ...string) *models.Course {
	t.Helper()
	ctx := context.Background()
	course, err := f.courses.Create(ctx, dto.CreateCourseRequest{Code: code, Name: code + " course"})
	require.NoError(t, err)
	if len(memberIDs) > 0 {
		members := make([]dto.MemberRequest, 0, len(memberIDs))
		for _, id := range memberIDs {
			members = append(members, dto.MemberRequest{ID: id, Name: "Member " + id})
		}
		_, err = f.courses.AddMembers(ctx, course.ID, dto.AddMembersRequest{Members: members})
		require.NoError(t, err)
	}
	return course
}

func (f *fixture) sheet(t *testing.T, courseID int64) *models.Sheet {
	t.Helper()
	sheet, err := f.sheets.Create(context.Background(), courseID, dto.CreateSheetRequest{Name: "OH1"})
	require.NoError(t, err)
	return sheet
}

func (f *fixture) slotsFor(t *testing.T, sheetID int64, n, capacity int) []models.Slot {
	t.Helper()
	slots, err := f.slots.CreateBatch(context.Background(), sheetID, dto.CreateSlotsRequest{
		Start:        "2024-01-10T10:00",
		SlotDuration: 15,
		NumSlots:     n,
		MaxMembers:   capacity,
	})
	require.NoError(t, err)
	return slots
}

func intPtr(v int) *int { return &v }
