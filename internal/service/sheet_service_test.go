package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/signup-sheets-api/internal/dto"
	appErrors "github.com/noah-isme/signup-sheets-api/pkg/errors"
)

func TestSheetServiceCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	course := f.course(t, "CS101")

	sheet, err := f.sheets.Create(ctx, course.ID, dto.CreateSheetRequest{
		Name:      "OH1",
		NotBefore: "2024-01-01",
		NotAfter:  "2024-01-31",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), sheet.ID)
	assert.Equal(t, course.ID, sheet.CourseID)
	assert.Empty(t, sheet.Slots)
	require.NotNil(t, sheet.NotBefore)
	assert.Equal(t, "2024-01-01T00:00:00Z", sheet.NotBefore.String())

	dup, err := f.sheets.Create(ctx, course.ID, dto.CreateSheetRequest{Name: "OH1"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), dup.ID)
	assert.Nil(t, dup.NotBefore)
}

func TestSheetServiceCreateErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	course := f.course(t, "CS101")

	tests := []struct {
		name     string
		courseID int64
		req      dto.CreateSheetRequest
		want     error
	}{
		{"unknown course", 99, dto.CreateSheetRequest{Name: "x"}, appErrors.ErrNotFound},
		{"blank name", course.ID, dto.CreateSheetRequest{Name: "   "}, appErrors.ErrValidation},
		{"bad timestamp", course.ID, dto.CreateSheetRequest{Name: "x", NotBefore: "soon"}, appErrors.ErrValidation},
		{"inverted window", course.ID, dto.CreateSheetRequest{Name: "x", NotBefore: "2024-02-01", NotAfter: "2024-01-01"}, appErrors.ErrValidation},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.sheets.Create(ctx, tc.courseID, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestSheetServiceListScopesByCourse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.course(t, "A")
	b := f.course(t, "B")
	f.sheet(t, a.ID)
	f.sheet(t, b.ID)
	f.sheet(t, a.ID)

	sheets, err := f.sheets.List(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, sheets, 2)
	assert.Equal(t, int64(1), sheets[0].ID)
	assert.Equal(t, int64(3), sheets[1].ID)

	_, err = f.sheets.List(ctx, 99)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestSheetServiceDeleteCascadesGrades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	course := f.course(t, "CS101", "s1")
	sheet := f.sheet(t, course.ID)
	other := f.sheet(t, course.ID)
	slots := f.slotsFor(t, sheet.ID, 2, 1)

	_, err := f.grades.Submit(ctx, dto.GradeRequest{MemberID: "s1", SheetID: sheet.ID, Grade: intPtr(70)})
	require.NoError(t, err)
	_, err = f.grades.Submit(ctx, dto.GradeRequest{MemberID: "s1", SheetID: other.ID, Grade: intPtr(60)})
	require.NoError(t, err)

	require.NoError(t, f.sheets.Delete(ctx, sheet.ID))

	_, err = f.sheets.Get(ctx, sheet.ID)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	_, err = f.slots.Get(ctx, slots[1].ID)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	remaining, err := f.grades.List(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)

	assert.ErrorIs(t, f.sheets.Delete(ctx, sheet.ID), appErrors.ErrNotFound)

	// ids are never reused after a delete
	next := f.sheet(t, course.ID)
	assert.Equal(t, int64(3), next.ID)
}
