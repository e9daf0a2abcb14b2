package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/signup-sheets-api/internal/models"
	appErrors "github.com/noah-isme/signup-sheets-api/pkg/errors"
	"github.com/noah-isme/signup-sheets-api/pkg/export"
)

// Export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

var sheetExportHeaders = []string{"Slot", "Start", "Minutes", "Capacity", "Member ID", "Member", "Grade", "Comment"}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportResult is a rendered sheet roster.
type ExportResult struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders a sheet's slots, sign-ups and grades as a file.
type ExportService struct {
	store  stateStore
	csv    csvRenderer
	pdf    pdfRenderer
	logger *zap.Logger
}

// NewExportService constructs an ExportService. Nil renderers use the
// package defaults.
func NewExportService(store stateStore, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{store: store, csv: csv, pdf: pdf, logger: logger}
}

// ExportSheet renders the sheet in the requested format.
func (s *ExportService) ExportSheet(ctx context.Context, sheetID int64, format string) (*ExportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	var (
		dataset  export.Dataset
		basename string
	)
	err := s.store.View(ctx, func(state *models.State) error {
		sheet, ok := state.FindSheet(sheetID)
		if !ok {
			return sheetNotFound()
		}
		course, ok := state.FindCourse(sheet.CourseID)
		if !ok {
			return courseNotFound()
		}
		dataset = buildSheetDataset(state, course, sheet)
		basename = fmt.Sprintf("%s-%d-%s", course.Code, course.Section, sheet.Name)
		return nil
	})
	if err != nil {
		return nil, storeError(err, "failed to load sheet")
	}

	var (
		body        []byte
		contentType string
	)
	switch format {
	case ExportFormatPDF:
		body, err = s.pdf.Render(dataset)
		contentType = "application/pdf"
	default:
		body, err = s.csv.Render(dataset)
		contentType = "text/csv"
	}
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render export")
	}

	filename := strings.Trim(unsafeFilename.ReplaceAllString(basename, "_"), "_") + "." + format
	s.logger.Debug("sheet exported", zap.Int64("sheet_id", sheetID), zap.String("format", format), zap.Int("bytes", len(body)))
	return &ExportResult{Filename: filename, ContentType: contentType, Body: body}, nil
}

// buildSheetDataset emits one row per seat taken, plus one row for each
// empty slot so the schedule stays visible.
func buildSheetDataset(state *models.State, course *models.Course, sheet *models.Sheet) export.Dataset {
	rows := make([][]string, 0, len(sheet.Slots))
	for _, slot := range sheet.Slots {
		base := []string{
			strconv.FormatInt(slot.ID, 10),
			slot.Start.String(),
			strconv.Itoa(slot.Duration),
			strconv.Itoa(slot.Capacity),
		}
		if len(slot.Signups) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, memberID := range slot.Signups {
			row := append(append([]string{}, base...), memberID, "", "", "")
			if member, ok := course.FindMember(memberID); ok {
				row[5] = member.Name
			}
			if grade, ok := state.FindGrade(memberID, sheet.ID); ok {
				row[6] = strconv.Itoa(grade.Value)
				row[7] = grade.Comment
			}
			rows = append(rows, row)
		}
	}
	return export.Dataset{
		Title:   fmt.Sprintf("%s (%d) - %s", course.Code, course.Section, sheet.Name),
		Headers: sheetExportHeaders,
		Rows:    rows,
	}
}
