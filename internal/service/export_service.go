package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/studyhub-app/studyhub-api/internal/models"
	appErrors "github.com/studyhub-app/studyhub-api/pkg/errors"
	"github.com/studyhub-app/studyhub-api/pkg/export"
)

// ExportFormat selects the rendered output type.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type exportUserRepository interface {
	ListByIDs(ctx context.Context, ids []string) ([]models.User, error)
}

// ExportResult is a rendered export ready for download.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders quiz submission results as downloadable files.
type ExportService struct {
	taking *QuizTakingService
	users  exportUserRepository
	csv    csvRenderer
	pdf    pdfRenderer
	logger *zap.Logger
}

// NewExportService constructs an ExportService instance.
func NewExportService(taking *QuizTakingService, users exportUserRepository, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{taking: taking, users: users, csv: csv, pdf: pdf, logger: logger}
}

// SubmissionReport renders every submission of a quiz for the owning teacher.
func (s *ExportService) SubmissionReport(ctx context.Context, quizID, teacherID string, format ExportFormat) (*ExportResult, error) {
	submissions, err := s.taking.ListSubmissions(ctx, quizID, teacherID)
	if err != nil {
		return nil, err
	}

	dataset, err := s.buildDataset(ctx, submissions)
	if err != nil {
		return nil, err
	}

	var payload []byte
	var contentType string
	switch format {
	case ExportCSV:
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv"
	case ExportPDF:
		payload, err = s.pdf.Render(dataset, "Quiz Submissions")
		contentType = "application/pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	return &ExportResult{
		Filename:    fmt.Sprintf("quiz-%s-submissions-%s.%s", quizID, time.Now().UTC().Format("20060102"), format),
		ContentType: contentType,
		Payload:     payload,
	}, nil
}

func (s *ExportService) buildDataset(ctx context.Context, submissions []models.QuizSubmission) (export.Dataset, error) {
	userIDs := make([]string, 0, len(submissions))
	seen := make(map[string]struct{}, len(submissions))
	for _, sub := range submissions {
		if _, ok := seen[sub.UserID]; ok {
			continue
		}
		seen[sub.UserID] = struct{}{}
		userIDs = append(userIDs, sub.UserID)
	}

	names := make(map[string]string, len(userIDs))
	if len(userIDs) > 0 {
		users, err := s.users.ListByIDs(ctx, userIDs)
		if err != nil {
			return export.Dataset{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
		}
		for _, u := range users {
			names[u.ID] = u.FirstName + " " + u.LastName
		}
	}

	dataset := export.Dataset{
		Headers: []string{"Student", "Score", "Total Points", "Percent", "Time Spent (s)", "Submitted At"},
		Rows:    make([]map[string]string, 0, len(submissions)),
	}
	for _, sub := range submissions {
		percent := "0.0"
		if sub.TotalPoints > 0 {
			percent = fmt.Sprintf("%.1f", float64(sub.Score)/float64(sub.TotalPoints)*100)
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Student":        names[sub.UserID],
			"Score":          strconv.Itoa(sub.Score),
			"Total Points":   strconv.Itoa(sub.TotalPoints),
			"Percent":        percent,
			"Time Spent (s)": strconv.Itoa(sub.TimeSpentSeconds),
			"Submitted At":   sub.SubmittedAt.UTC().Format(time.RFC3339),
		})
	}
	return dataset, nil
}
