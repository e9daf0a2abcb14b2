package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"

	"github.com/noah-isme/signup-sheets-api/internal/dto"
	appErrors "github.com/noah-isme/signup-sheets-api/pkg/errors"
)

// RosterSeed is the TOML document applied at startup:
//
//	[[courses]]
//	code = "CS101"
//	name = "Intro"
//	[[courses.members]]
//	id = "s1"
//	name = "Ada"
type RosterSeed struct {
	Courses []SeedCourse `toml:"courses"`
}

// SeedCourse is one course entry of a roster seed.
type SeedCourse struct {
	Code    string              `toml:"code"`
	Section int                 `toml:"section"`
	Name    string              `toml:"name"`
	Members []dto.MemberRequest `toml:"members"`
}

// LoadRosterSeed reads and decodes a seed file.
func LoadRosterSeed(path string) (*RosterSeed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster seed: %w", err)
	}
	return ParseRosterSeed(raw)
}

// ParseRosterSeed decodes a seed document, rejecting unknown keys.
func ParseRosterSeed(raw []byte) (*RosterSeed, error) {
	var seed RosterSeed
	dec := toml.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&seed); err != nil {
		return nil, fmt.Errorf("decode roster seed: %w", err)
	}
	return &seed, nil
}

// ApplyRosterSeed creates missing courses and merges members using the bulk
// import rules. Existing courses are reused. It is safe to run on every boot.
func ApplyRosterSeed(ctx context.Context, courses *CourseService, seed *RosterSeed, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, entry := range seed.Courses {
		course, err := courses.FindByCode(ctx, entry.Code, entry.Section)
		if errors.Is(err, appErrors.ErrNotFound) {
			course, err = courses.Create(ctx, dto.CreateCourseRequest{Code: entry.Code, Section: entry.Section, Name: entry.Name})
		}
		if err != nil {
			return fmt.Errorf("seed course %s: %w", entry.Code, err)
		}
		if len(entry.Members) == 0 {
			continue
		}
		result, err := courses.AddMembers(ctx, course.ID, dto.AddMembersRequest{Members: entry.Members})
		if err != nil {
			return fmt.Errorf("seed members for %s: %w", entry.Code, err)
		}
		logger.Info("roster seeded",
			zap.String("code", course.Code),
			zap.Int("section", course.Section),
			zap.Int("added", result.Added),
			zap.Int("ignored", len(result.Ignored)),
		)
	}
	return nil
}
