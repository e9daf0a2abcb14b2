package service

import (
	"context"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/signup-sheets-api/internal/dto"
	"github.com/noah-isme/signup-sheets-api/internal/models"
	appErrors "github.com/noah-isme/signup-sheets-api/pkg/errors"
)

type gradeRecorder interface {
	RecordGrade(merged bool)
}

// GradeService records one grade per (member, sheet).
type GradeService struct {
	store     stateStore
	validator *validator.Validate
	logger    *zap.Logger
	recorder  gradeRecorder
}

// NewGradeService constructs GradeService. recorder may be nil.
func NewGradeService(store stateStore, recorder gradeRecorder, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{store: store, validator: validate, logger: logger, recorder: recorder}
}

// Submit creates the grade or merges into the existing one: the value is
// overwritten, the comment is appended space-joined and the previous value is
// returned as Old.
func (s *GradeService) Submit(ctx context.Context, req dto.GradeRequest) (*models.GradeSubmission, error) {
	req.MemberID = strings.TrimSpace(req.MemberID)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid grade payload")
	}
	value := *req.Grade
	comment := strings.TrimSpace(req.Comment)

	var result models.GradeSubmission
	err := s.store.Update(ctx, func(state *models.State) error {
		sheet, ok := state.FindSheet(req.SheetID)
		if !ok {
			return sheetNotFound()
		}
		if _, err := rosterOf(state, sheet, req.MemberID); err != nil {
			return err
		}

		now := s.store.Now()
		if existing, ok := state.FindGrade(req.MemberID, req.SheetID); ok {
			old := existing.Value
			existing.Value = value
			existing.Comment = appendComment(existing.Comment, comment)
			existing.UpdatedAt = now
			result = models.GradeSubmission{Grade: *existing, Old: &old}
			return nil
		}

		grade := models.Grade{
			MemberID:  req.MemberID,
			SheetID:   req.SheetID,
			Value:     value,
			Comment:   comment,
			CreatedAt: now,
			UpdatedAt: now,
		}
		state.Grades = append(state.Grades, grade)
		result = models.GradeSubmission{Grade: grade, Created: true}
		return nil
	})
	if err != nil {
		return nil, storeError(err, "failed to submit grade")
	}
	if s.recorder != nil {
		s.recorder.RecordGrade(!result.Created)
	}
	s.logger.Info("grade submitted",
		zap.Int64("sheet_id", req.SheetID),
		zap.String("member_id", req.MemberID),
		zap.Bool("merged", !result.Created),
	)
	return &result, nil
}

// List returns the sheet's grades ordered by member id.
func (s *GradeService) List(ctx context.Context, sheetID int64) ([]models.Grade, error) {
	grades := []models.Grade{}
	err := s.store.View(ctx, func(state *models.State) error {
		if _, ok := state.FindSheet(sheetID); !ok {
			return sheetNotFound()
		}
		for _, g := range state.Grades {
			if g.SheetID == sheetID {
				grades = append(grades, g)
			}
		}
		return nil
	})
	if err != nil {
		return nil, storeError(err, "failed to list grades")
	}
	sort.Slice(grades, func(i, j int) bool { return grades[i].MemberID < grades[j].MemberID })
	return grades, nil
}

// Delete removes the grade for (member, sheet).
func (s *GradeService) Delete(ctx context.Context, sheetID int64, memberID string) error {
	err := s.store.Update(ctx, func(state *models.State) error {
		for i, g := range state.Grades {
			if g.SheetID == sheetID && g.MemberID == memberID {
				state.Grades = append(state.Grades[:i], state.Grades[i+1:]...)
				return nil
			}
		}
		return appErrors.Clone(appErrors.ErrNotFound, "grade not found")
	})
	if err != nil {
		return storeError(err, "failed to delete grade")
	}
	s.logger.Info("grade deleted", zap.Int64("sheet_id", sheetID), zap.String("member_id", memberID))
	return nil
}

func appendComment(existing, addition string) string {
	switch {
	case addition == "":
		return existing
	case existing == "":
		return addition
	default:
		return existing + " " + addition
	}
}
