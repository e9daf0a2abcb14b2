package service

import (
	"context"
	"errors"
	"time"

	"github.com/noah-isme/signup-sheets-api/internal/models"
	appErrors "github.com/noah-isme/signup-sheets-api/pkg/errors"
)

// stateStore is the transactional snapshot every domain service works on.
type stateStore interface {
	Update(ctx context.Context, fn func(*models.State) error) error
	View(ctx context.Context, fn func(*models.State) error) error
	Now() time.Time
}

// storeError keeps domain errors raised inside a transaction and wraps
// anything else, typically a failed flush, as an internal error.
func storeError(err error, message string) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return appErrors.Internal(err, message)
}

func courseNotFound() error {
	return appErrors.Clone(appErrors.ErrNotFound, "course not found")
}

func sheetNotFound() error {
	return appErrors.Clone(appErrors.ErrNotFound, "sheet not found")
}

func slotNotFound() error {
	return appErrors.Clone(appErrors.ErrNotFound, "slot not found")
}

func invalidMember() error {
	return appErrors.Clone(appErrors.ErrValidation, "invalid member for course")
}

// rosterOf resolves the course that owns sheet and checks memberID against it.
func rosterOf(state *models.State, sheet *models.Sheet, memberID string) (*models.Course, error) {
	course, ok := state.FindCourse(sheet.CourseID)
	if !ok {
		return nil, courseNotFound()
	}
	if _, ok := course.FindMember(memberID); !ok {
		return nil, invalidMember()
	}
	return course, nil
}
