package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/signup-sheets-api/internal/dto"
	"github.com/noah-isme/signup-sheets-api/internal/models"
	appErrors "github.com/noah-isme/signup-sheets-api/pkg/errors"
)

// SheetService manages sign-up sheets within a course.
type SheetService struct {
	store     stateStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSheetService constructs SheetService.
func NewSheetService(store stateStore, validate *validator.Validate, logger *zap.Logger) *SheetService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SheetService{store: store, validator: validate, logger: logger}
}

// Create adds an empty sheet to the course. Sheet names need not be unique.
func (s *SheetService) Create(ctx context.Context, courseID int64, req dto.CreateSheetRequest) (*models.Sheet, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid sheet payload")
	}
	notBefore, err := optionalTimestamp(req.NotBefore, "notBefore")
	if err != nil {
		return nil, err
	}
	notAfter, err := optionalTimestamp(req.NotAfter, "notAfter")
	if err != nil {
		return nil, err
	}
	if notBefore != nil && notAfter != nil && notBefore.After(notAfter.Time) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "notBefore must not be after notAfter")
	}

	var created models.Sheet
	err = s.store.Update(ctx, func(state *models.State) error {
		if _, ok := state.FindCourse(courseID); !ok {
			return courseNotFound()
		}
		sheet := models.Sheet{
			ID:          state.AllocateSheetID(),
			CourseID:    courseID,
			Name:        req.Name,
			Description: strings.TrimSpace(req.Description),
			NotBefore:   notBefore,
			NotAfter:    notAfter,
			Slots:       []models.Slot{},
			CreatedAt:   s.store.Now(),
		}
		state.Sheets = append(state.Sheets, sheet)
		created = models.CloneSheet(sheet)
		return nil
	})
	if err != nil {
		return nil, storeError(err, "failed to create sheet")
	}
	s.logger.Info("sheet created", zap.Int64("sheet_id", created.ID), zap.Int64("course_id", courseID))
	return &created, nil
}

// List returns the course's sheets in creation order.
func (s *SheetService) List(ctx context.Context, courseID int64) ([]models.Sheet, error) {
	sheets := []models.Sheet{}
	err := s.store.View(ctx, func(state *models.State) error {
		if _, ok := state.FindCourse(courseID); !ok {
			return courseNotFound()
		}
		for _, sh := range state.Sheets {
			if sh.CourseID == courseID {
				sheets = append(sheets, sh)
			}
		}
		return nil
	})
	if err != nil {
		return nil, storeError(err, "failed to list sheets")
	}
	return sheets, nil
}

// Get returns a sheet with its slots.
func (s *SheetService) Get(ctx context.Context, id int64) (*models.Sheet, error) {
	var sheet models.Sheet
	err := s.store.View(ctx, func(state *models.State) error {
		found, ok := state.FindSheet(id)
		if !ok {
			return sheetNotFound()
		}
		sheet = *found
		return nil
	})
	if err != nil {
		return nil, storeError(err, "failed to load sheet")
	}
	return &sheet, nil
}

// Delete removes the sheet, its slots and every grade recorded against it.
func (s *SheetService) Delete(ctx context.Context, id int64) error {
	err := s.store.Update(ctx, func(state *models.State) error {
		if !state.RemoveSheet(id) {
			return sheetNotFound()
		}
		return nil
	})
	if err != nil {
		return storeError(err, "failed to delete sheet")
	}
	s.logger.Info("sheet deleted", zap.Int64("sheet_id", id))
	return nil
}

func optionalTimestamp(raw, field string) (*models.Timestamp, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	ts, err := models.ParseTimestamp(raw)
	if err != nil {
		return nil, appErrors.Validation(err, "invalid "+field)
	}
	return &ts, nil
}
