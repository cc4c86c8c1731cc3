package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Biyayaa/scholarship-api/internal/dto"
	"github.com/Biyayaa/scholarship-api/internal/models"
	"github.com/Biyayaa/scholarship-api/internal/repository"
	"github.com/Biyayaa/scholarship-api/internal/scoring"
)

var (
	// ErrApplicationExists indicates the applicant already submitted.
	ErrApplicationExists = errors.New("application already submitted")
	// ErrApplicationNotFound indicates no application exists for the lookup.
	ErrApplicationNotFound = errors.New("application not found")
	// ErrNotApplicant indicates the acting user cannot submit applications.
	ErrNotApplicant = errors.New("only applicants may submit applications")
	// ErrDocumentRequired indicates a mandatory document file is missing.
	ErrDocumentRequired = errors.New("required document missing")
	// ErrDocumentTooLarge indicates a document exceeds the size limit.
	ErrDocumentTooLarge = errors.New("document exceeds maximum allowed size")
	// ErrDocumentTypeNotAllowed indicates the document MIME type is not permitted.
	ErrDocumentTypeNotAllowed = errors.New("document type not allowed")
	// ErrGradesIncomplete indicates the grade map does not match the subject list.
	ErrGradesIncomplete = errors.New("one grade required per subject of the chosen field")
	// ErrUnknownGradeSymbol indicates a grade outside the A1..F9 set.
	ErrUnknownGradeSymbol = errors.New("unknown grade symbol")
)

// Document kinds accepted with a submission. Each becomes a namespaced
// upload path in the blob store.
const (
	documentKindWaec      = "waec-results"
	documentKindJamb      = "jamb-results"
	documentKindFinancial = "financial-statements"
)

// FileUploader abstracts the blob store holding supporting documents.
type FileUploader interface {
	Upload(ctx context.Context, path string, reader io.Reader) (string, error)
}

// ApplicationDocuments carries the three mandatory file attachments.
type ApplicationDocuments struct {
	WaecResult         *multipart.FileHeader
	JambResult         *multipart.FileHeader
	FinancialStatement *multipart.FileHeader
}

// ApplicationService orchestrates the submission workflow.
type ApplicationService interface {
	Submit(ctx context.Context, userID uint, payload dto.ApplicationCreateRequest, documents ApplicationDocuments) (dto.ApplicationResponse, error)
	GetOwn(ctx context.Context, userID uint) (dto.ApplicationResponse, error)
}

type applicationService struct {
	applications repository.ApplicationRepository
	users        repository.UserRepository
	validator    *validator.Validate
	uploader     FileUploader
	sanitizer    *bluemonday.Policy
	maxSize      int64
	logger       zerolog.Logger
}

// NewApplicationService constructs an ApplicationService instance.
func NewApplicationService(applications repository.ApplicationRepository, users repository.UserRepository, validate *validator.Validate, uploader FileUploader, maxSizeMB int, logger zerolog.Logger) ApplicationService {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	return &applicationService{
		applications: applications,
		users:        users,
		validator:    validate,
		uploader:     uploader,
		sanitizer:    bluemonday.StrictPolicy(),
		maxSize:      int64(maxSizeMB) * 1024 * 1024,
		logger:       logger.With().Str("component", "application_service").Logger(),
	}
}

func (s *applicationService) Submit(ctx context.Context, userID uint, payload dto.ApplicationCreateRequest, documents ApplicationDocuments) (dto.ApplicationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ApplicationResponse{}, err
	}

	if err := validateGrades(payload.FieldOfStudy, payload.Grades); err != nil {
		return dto.ApplicationResponse{}, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ApplicationResponse{}, ErrNotApplicant
		}
		return dto.ApplicationResponse{}, err
	}

	if user.Role != models.RoleApplicant {
		return dto.ApplicationResponse{}, ErrNotApplicant
	}

	if _, err := s.applications.GetByUserID(ctx, userID); err == nil {
		return dto.ApplicationResponse{}, ErrApplicationExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.ApplicationResponse{}, err
	}

	attachments := []struct {
		kind string
		file *multipart.FileHeader
	}{
		{documentKindWaec, documents.WaecResult},
		{documentKindJamb, documents.JambResult},
		{documentKindFinancial, documents.FinancialStatement},
	}

	for _, attachment := range attachments {
		if err := s.validateDocument(attachment.kind, attachment.file); err != nil {
			return dto.ApplicationResponse{}, err
		}
	}

	// All uploads must succeed before the record is written; a failure here
	// leaves the document store untouched.
	urls := make(map[string]string, len(attachments))
	for _, attachment := range attachments {
		url, err := s.uploadDocument(ctx, attachment.kind, userID, attachment.file)
		if err != nil {
			s.logger.Error().Err(err).Uint("user_id", userID).Str("kind", attachment.kind).Msg("document upload failed")
			return dto.ApplicationResponse{}, fmt.Errorf("failed to upload %s: %w", attachment.kind, err)
		}
		urls[attachment.kind] = url
	}

	grades := make(datatypes.JSONMap, len(payload.Grades))
	for subject, symbol := range payload.Grades {
		grades[subject] = symbol
	}

	application := models.Application{
		UserID:                userID,
		FullName:              user.Name,
		Email:                 user.Email,
		FieldOfStudy:          payload.FieldOfStudy,
		Grades:                grades,
		JambScore:             payload.JambScore,
		GuardianIncome:        payload.GuardianIncome,
		AdditionalNote:        strings.TrimSpace(s.sanitizer.Sanitize(payload.AdditionalNote)),
		WaecResultURL:         urls[documentKindWaec],
		JambResultURL:         urls[documentKindJamb],
		FinancialStatementURL: urls[documentKindFinancial],
		Status:                models.StatusPending,
	}

	if err := s.applications.Create(ctx, &application); err != nil {
		// A concurrent submission can slip past the lookup above; the
		// user_id unique index settles it.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.ApplicationResponse{}, ErrApplicationExists
		}
		return dto.ApplicationResponse{}, err
	}

	s.logger.Info().Uint("application_id", application.ID).Uint("user_id", userID).Msg("application submitted")

	return dto.NewApplicationResponse(application), nil
}

func (s *applicationService) GetOwn(ctx context.Context, userID uint) (dto.ApplicationResponse, error) {
	application, err := s.applications.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ApplicationResponse{}, ErrApplicationNotFound
		}
		return dto.ApplicationResponse{}, err
	}

	return dto.NewApplicationResponse(application), nil
}

func (s *applicationService) validateDocument(kind string, file *multipart.FileHeader) error {
	if file == nil {
		return fmt.Errorf("%w: %s", ErrDocumentRequired, kind)
	}

	if file.Size > s.maxSize {
		return fmt.Errorf("%w: %s", ErrDocumentTooLarge, kind)
	}

	reader, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", kind, err)
	}
	defer reader.Close()

	mime, err := mimetype.DetectReader(reader)
	if err != nil {
		return fmt.Errorf("failed to detect type of %s: %w", kind, err)
	}

	allowed := []string{"application/pdf", "image/jpeg", "image/png"}
	for _, candidate := range allowed {
		if mime.Is(candidate) {
			return nil
		}
	}

	return fmt.Errorf("%w: %s is %s", ErrDocumentTypeNotAllowed, kind, mime.String())
}

func (s *applicationService) uploadDocument(ctx context.Context, kind string, userID uint, file *multipart.FileHeader) (string, error) {
	reader, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", kind, err)
	}
	defer reader.Close()

	return s.uploader.Upload(ctx, fmt.Sprintf("%s/%d", kind, userID), reader)
}

func validateGrades(field string, grades map[string]string) error {
	subjects := models.SubjectsFor(field)
	if len(grades) != len(subjects) {
		return ErrGradesIncomplete
	}

	for _, subject := range subjects {
		symbol, ok := grades[subject]
		if !ok {
			return ErrGradesIncomplete
		}
		if !scoring.ValidSymbol(symbol) {
			return fmt.Errorf("%w: %s=%s", ErrUnknownGradeSymbol, subject, symbol)
		}
	}

	return nil
}
