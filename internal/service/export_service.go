package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/attendance-dashboard-gateway/internal/dto"
	"github.com/noah-isme/attendance-dashboard-gateway/internal/models"
	appErrors "github.com/noah-isme/attendance-dashboard-gateway/pkg/errors"
	"github.com/noah-isme/attendance-dashboard-gateway/pkg/export"
)

// ExportFormat names a rendered report format.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ParseExportFormat accepts csv or pdf, case-insensitively. Empty means csv.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ExportFormatCSV:
		return ExportFormatCSV, nil
	case ExportFormatPDF:
		return ExportFormatPDF, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", raw))
	}
}

type schoolPageSource interface {
	FetchPage(ctx context.Context, req models.SchoolPageRequest) (*dto.SchoolPageResponse, error)
}

type tableRenderer interface {
	Render(table export.Table) ([]byte, error)
}

// ExportFile is a rendered export ready to be streamed.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders school list pages as downloadable reports.
type ExportService struct {
	pages  schoolPageSource
	csv    tableRenderer
	pdf    tableRenderer
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(pages schoolPageSource, logger *zap.Logger, csv, pdf tableRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{pages: pages, csv: csv, pdf: pdf, logger: logger, now: time.Now}
}

// ExportSchoolPage fetches the requested page and renders it.
func (s *ExportService) ExportSchoolPage(ctx context.Context, req models.SchoolPageRequest, format ExportFormat) (*ExportFile, error) {
	page, err := s.pages.FetchPage(ctx, req)
	if err != nil {
		return nil, err
	}
	table := SchoolPageTable(page)

	var (
		payload     []byte
		contentType string
	)
	switch format {
	case ExportFormatCSV:
		payload, err = s.csv.Render(table)
		contentType = "text/csv"
	case ExportFormatPDF:
		payload, err = s.pdf.Render(table)
		contentType = "application/pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		s.logger.Error("render school export", zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.WrapAs(appErrors.ErrInternal, err, "failed to render export")
	}

	filename := fmt.Sprintf("schools_p%d_%s.%s", page.PageState.Page, s.now().UTC().Format("20060102T150405"), format)
	return &ExportFile{Filename: filename, ContentType: contentType, Data: payload}, nil
}

// SchoolPageTable lays a resolved page out as a report table. Degraded rows
// are marked so the export does not present zeroed counts as real data.
func SchoolPageTable(page *dto.SchoolPageResponse) export.Table {
	table := export.Table{
		Title:   fmt.Sprintf("School attendance (page %d of %d)", page.PageState.Page, page.PageState.TotalPages),
		Headers: []string{"School", "School ID", "Students", "Teachers", "Total", "Status"},
	}
	for _, school := range page.Schools {
		status := "ok"
		if school.Error {
			status = "unavailable"
		}
		table.Rows = append(table.Rows, []string{
			school.SchoolName,
			strconv.Itoa(school.SchoolID),
			strconv.Itoa(school.StudentAttendanceCount),
			strconv.Itoa(school.TeacherAttendanceCount),
			strconv.Itoa(school.TotalAttendanceCount),
			status,
		})
	}
	table.Footer = []string{
		fmt.Sprintf("Total schools: %d", page.Summary.TotalSchools),
		fmt.Sprintf("Schools with student attendance: %d", page.Summary.SchoolsWithStudentAttendance),
		fmt.Sprintf("Schools with teacher attendance: %d", page.Summary.SchoolsWithTeacherAttendance),
	}
	if page.Summary.DegradedCount > 0 {
		table.Footer = append(table.Footer, fmt.Sprintf("Unavailable entries: %d", page.Summary.DegradedCount))
	}
	return table
}
