package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jdoner02/cyber-department-schedule-sub000/internal/csvio"
	"github.com/jdoner02/cyber-department-schedule-sub000/internal/dto"
	appErrors "github.com/jdoner02/cyber-department-schedule-sub000/pkg/errors"
	"github.com/jdoner02/cyber-department-schedule-sub000/pkg/export"
	"github.com/jdoner02/cyber-department-schedule-sub000/pkg/storage"
)

const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type conflictReporter interface {
	Conflicts(ctx context.Context, query dto.ConflictQuery) (*dto.ConflictReport, bool, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(rows interface{}) ([]byte, error)
}

type pdfRenderer interface {
	Render(table export.Table) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       string
	Conflicts    int
	ExpiresAt    time.Time
}

// ExportService renders conflict reports and hands out signed download tokens.
type ExportService struct {
	reports   conflictReporter
	storage   fileStorage
	csv       csvRenderer
	pdf       pdfRenderer
	signer    *storage.SignedURLSigner
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ExportConfig
	now       func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(reports conflictReporter, files fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, validate *validator.Validate, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		reports:   reports,
		storage:   files,
		csv:       csv,
		pdf:       pdf,
		signer:    signer,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Generate renders the term's conflict report, stores it and signs a download token.
func (s *ExportService) Generate(ctx context.Context, req dto.ExportConflictsRequest) (*ExportResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export payload")
	}
	report, _, err := s.reports.Conflicts(ctx, dto.ConflictQuery{Term: req.Term, HideStacked: req.HideStacked, HideCoreqs: req.HideCoreqs})
	if err != nil {
		return nil, err
	}

	records := csvio.ConflictRecords(report.Conflicts)
	var payload []byte
	switch req.Format {
	case ExportFormatCSV:
		payload, err = s.csv.Render(records)
	case ExportFormatPDF:
		payload, err = s.pdf.Render(conflictTable(report, records))
	default:
		err = fmt.Errorf("unsupported format %s", req.Format)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render conflict report")
	}

	id := uuid.NewString()
	relPath, err := s.storage.Save(s.buildFilename(req), payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store conflict report")
	}
	token, expiresAt, err := s.signer.Generate(id, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download token")
	}

	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	s.logger.Info("conflict report exported", zap.String("term", req.Term), zap.String("format", req.Format), zap.String("path", relPath), zap.Int("conflicts", len(records)))
	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/exports/download?token=%s", prefix, token),
		Format:       req.Format,
		Conflicts:    len(records),
		ExpiresAt:    expiresAt,
	}, nil
}

// Resolve validates a download token and opens the referenced file.
func (s *ExportService) Resolve(token string) (*os.File, storage.SignedToken, error) {
	parsed, err := s.signer.Parse(token, false)
	if err != nil {
		if errors.Is(err, storage.ErrTokenExpired) {
			return nil, parsed, appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "download link expired")
		}
		return nil, parsed, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid download token")
	}
	file, err := s.storage.Open(parsed.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, parsed, appErrors.Clone(appErrors.ErrNotFound, "export file no longer exists")
		}
		return nil, parsed, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open export file")
	}
	return file, parsed, nil
}

// Cleanup removes files older than ttl, or the configured result TTL when ttl <= 0.
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildFilename(req dto.ExportConflictsRequest) string {
	timestamp := s.now().Format("20060102_150405")
	return fmt.Sprintf("conflicts_%s_%s_%s.%s", sanitizeFilename(req.Term), timestamp, uuid.NewString()[:8], req.Format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func conflictTable(report *dto.ConflictReport, records []csvio.ConflictRecord) export.Table {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Type,
			r.Day,
			r.OverlapStart + "-" + r.OverlapEnd,
			r.CRN1 + " " + r.Course1,
			r.CRN2 + " " + r.Course2,
			r.Instructor,
			r.Location,
		})
	}
	var hidden []string
	if report.HideStacked {
		hidden = append(hidden, "stacked")
	}
	if report.HideCoreqs {
		hidden = append(hidden, "corequisite")
	}
	subtitle := fmt.Sprintf("%d conflicts, generated %s", report.Total, report.GeneratedAt.Format(time.RFC3339))
	if len(hidden) > 0 {
		subtitle += ", hiding " + strings.Join(hidden, " and ") + " pairs"
	}
	return export.Table{
		Title:    fmt.Sprintf("Schedule Conflicts %s", report.Term),
		Subtitle: subtitle,
		Headers:  []string{"Type", "Day", "Overlap", "Section 1", "Section 2", "Instructor", "Location"},
		Widths:   []float64{1.2, 1.4, 1.4, 2, 2, 2, 1.6},
		Rows:     rows,
	}
}
