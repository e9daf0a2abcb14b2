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

// CourseService manages courses and their rosters.
type CourseService struct {
	store     stateStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs CourseService.
func NewCourseService(store stateStore, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{store: store, validator: validate, logger: logger}
}

// Create adds a course. (code, section) must be unique.
func (s *CourseService) Create(ctx context.Context, req dto.CreateCourseRequest) (*models.Course, error) {
	req.Code = strings.TrimSpace(req.Code)
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid course payload")
	}
	if req.Section == 0 {
		req.Section = 1
	}

	var created models.Course
	err := s.store.Update(ctx, func(state *models.State) error {
		if findByCode(state, req.Code, req.Section) != nil {
			return appErrors.Clone(appErrors.ErrConflict, "course already exists")
		}
		course := models.Course{
			ID:        state.AllocateCourseID(),
			Code:      req.Code,
			Section:   req.Section,
			Name:      req.Name,
			Members:   []models.Member{},
			CreatedAt: s.store.Now(),
		}
		state.Courses = append(state.Courses, course)
		created = course.Clone()
		return nil
	})
	if err != nil {
		return nil, storeError(err, "failed to create course")
	}
	s.logger.Info("course created", zap.Int64("course_id", created.ID), zap.String("code", created.Code), zap.Int("section", created.Section))
	return &created, nil
}

// List returns every course in creation order.
func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	err := s.store.View(ctx, func(state *models.State) error {
		courses = state.Courses
		return nil
	})
	if err != nil {
		return nil, storeError(err, "failed to list courses")
	}
	return courses, nil
}

// Get returns one course with its roster.
func (s *CourseService) Get(ctx context.Context, id int64) (*models.Course, error) {
	var course models.Course
	err := s.store.View(ctx, func(state *models.State) error {
		found, ok := state.FindCourse(id)
		if !ok {
			return courseNotFound()
		}
		course = *found
		return nil
	})
	if err != nil {
		return nil, storeError(err, "failed to load course")
	}
	return &course, nil
}

// FindByCode looks a course up by its natural key.
func (s *CourseService) FindByCode(ctx context.Context, code string, section int) (*models.Course, error) {
	if section == 0 {
		section = 1
	}
	var course models.Course
	err := s.store.View(ctx, func(state *models.State) error {
		found := findByCode(state, strings.TrimSpace(code), section)
		if found == nil {
			return courseNotFound()
		}
		course = *found
		return nil
	})
	if err != nil {
		return nil, storeError(err, "failed to load course")
	}
	return &course, nil
}

// Delete removes the course together with its sheets, slots and grades.
func (s *CourseService) Delete(ctx context.Context, id int64) error {
	err := s.store.Update(ctx, func(state *models.State) error {
		if !state.RemoveCourse(id) {
			return courseNotFound()
		}
		return nil
	})
	if err != nil {
		return storeError(err, "failed to delete course")
	}
	s.logger.Info("course deleted", zap.Int64("course_id", id))
	return nil
}

// ListMembers returns the roster of a course.
func (s *CourseService) ListMembers(ctx context.Context, courseID int64) ([]models.Member, error) {
	course, err := s.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return course.Members, nil
}

// AddMembers bulk-imports roster entries. Entries whose id or name is
// already on the roster, or repeated within the batch, are reported as
// ignored rather than failing the import.
func (s *CourseService) AddMembers(ctx context.Context, courseID int64, req dto.AddMembersRequest) (*models.AddMembersResult, error) {
	for i := range req.Members {
		req.Members[i].ID = strings.TrimSpace(req.Members[i].ID)
		req.Members[i].Name = strings.TrimSpace(req.Members[i].Name)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid members payload")
	}

	result := models.AddMembersResult{Ignored: []string{}}
	err := s.store.Update(ctx, func(state *models.State) error {
		course, ok := state.FindCourse(courseID)
		if !ok {
			return courseNotFound()
		}
		for _, m := range req.Members {
			if _, exists := course.FindMember(m.ID); exists || course.HasMemberNamed(m.Name) {
				result.Ignored = append(result.Ignored, m.ID)
				continue
			}
			role := m.Role
			if role == "" {
				role = models.MemberRoleStudent
			}
			course.Members = append(course.Members, models.Member{ID: m.ID, Name: m.Name, Role: role})
			result.Added++
		}
		return nil
	})
	if err != nil {
		return nil, storeError(err, "failed to add members")
	}
	s.logger.Info("members added",
		zap.Int64("course_id", courseID),
		zap.Int("added", result.Added),
		zap.Int("ignored", len(result.Ignored)),
	)
	return &result, nil
}

// RemoveMember drops a member from the roster and from every slot and grade
// on the course's sheets.
func (s *CourseService) RemoveMember(ctx context.Context, courseID int64, memberID string) error {
	err := s.store.Update(ctx, func(state *models.State) error {
		course, ok := state.FindCourse(courseID)
		if !ok {
			return courseNotFound()
		}
		idx := -1
		for i := range course.Members {
			if course.Members[i].ID == memberID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return appErrors.Clone(appErrors.ErrNotFound, "member not found")
		}
		course.Members = append(course.Members[:idx], course.Members[idx+1:]...)
		state.DetachMember(courseID, memberID)
		return nil
	})
	if err != nil {
		return storeError(err, "failed to remove member")
	}
	s.logger.Info("member removed", zap.Int64("course_id", courseID), zap.String("member_id", memberID))
	return nil
}

func findByCode(state *models.State, code string, section int) *models.Course {
	for i := range state.Courses {
		c := &state.Courses[i]
		if strings.EqualFold(c.Code, code) && c.Section == section {
			return c
		}
	}
	return nil
}
