package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
	"github.com/noah-isme/classroom-api/pkg/export"
)

// ExportFormat identifies a supported register rendering.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ParseExportFormat maps a query value to a supported format.
func ParseExportFormat(value string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(value)) {
	case ExportFormatCSV, "":
		return ExportFormatCSV, nil
	case ExportFormatPDF:
		return ExportFormatPDF, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportResult is a rendered register ready to stream to the client.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders attendance registers as CSV or PDF.
type ExportService struct {
	attendance *AttendanceService
	csv        csvRenderer
	pdf        pdfRenderer
	logger     *zap.Logger
}

// NewExportService constructs an ExportService instance.
func NewExportService(attendance *AttendanceService, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{attendance: attendance, csv: csv, pdf: pdf, logger: logger}
}

// AttendanceRegister renders a class's attendance register, one row per
// student entry per recorded day.
func (s *ExportService) AttendanceRegister(ctx context.Context, classID string, format ExportFormat) (*ExportResult, error) {
	class, err := s.attendance.classes.FindByID(ctx, classID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch class")
	}

	sheets, err := s.attendance.ClassAttendance(ctx, classID, nil)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{Headers: []string{"Date", "Student", "Email", "Status", "Remarks"}}
	for _, sheet := range sheets {
		for _, record := range sheet.Records {
			remarks := ""
			if record.Remarks != nil {
				remarks = *record.Remarks
			}
			dataset.Rows = append(dataset.Rows, map[string]string{
				"Date":    sheet.Date.Format("2006-01-02"),
				"Student": record.StudentName,
				"Email":   record.StudentEmail,
				"Status":  string(record.Status),
				"Remarks": remarks,
			})
		}
	}

	title := "Attendance Register " + class.Name
	filename := "attendance-register-" + classID + "-" + time.Now().UTC().Format("20060102")

	switch format {
	case ExportFormatPDF:
		payload, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{Filename: filename + ".pdf", ContentType: "application/pdf", Payload: payload}, nil
	default:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{Filename: filename + ".csv", ContentType: "text/csv", Payload: payload}, nil
	}
}
