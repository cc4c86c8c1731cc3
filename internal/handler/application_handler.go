package handler

import (
	"errors"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Biyayaa/scholarship-api/internal/dto"
	"github.com/Biyayaa/scholarship-api/internal/service"
	"github.com/Biyayaa/scholarship-api/internal/utils"
)

// ApplicationHandler manages applicant-facing submission endpoints.
type ApplicationHandler struct {
	service service.ApplicationService
	logger  zerolog.Logger
}

// NewApplicationHandler builds an application handler instance.
func NewApplicationHandler(service service.ApplicationService, logger zerolog.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		service: service,
		logger:  logger.With().Str("component", "application_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *ApplicationHandler) Register(router fiber.Router) {
	router.Post("", h.submit)
	router.Get("/me", h.getOwn)
}

func (h *ApplicationHandler) submit(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	payload, err := parseApplicationForm(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	documents := service.ApplicationDocuments{
		WaecResult:         formFile(c, "waec_result"),
		JambResult:         formFile(c, "jamb_result"),
		FinancialStatement: formFile(c, "financial_statement"),
	}

	application, err := h.service.Submit(c.Context(), userID, payload, documents)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "application submitted", application)
}

func (h *ApplicationHandler) getOwn(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	application, err := h.service.GetOwn(c.Context(), userID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "application retrieved", application)
}

func (h *ApplicationHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrApplicationNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "application not found")
	case errors.Is(err, service.ErrApplicationExists):
		return utils.SendError(c, fiber.StatusConflict, "application already submitted")
	case errors.Is(err, service.ErrNotApplicant):
		return utils.SendError(c, fiber.StatusForbidden, "only applicants may submit applications")
	case errors.Is(err, service.ErrDocumentRequired),
		errors.Is(err, service.ErrDocumentTooLarge),
		errors.Is(err, service.ErrDocumentTypeNotAllowed),
		errors.Is(err, service.ErrGradesIncomplete),
		errors.Is(err, service.ErrUnknownGradeSymbol):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

// parseApplicationForm decodes the multipart submission fields. Grades
// arrive as grades[<Subject>]=<Symbol> pairs.
func parseApplicationForm(c *fiber.Ctx) (dto.ApplicationCreateRequest, error) {
	payload := dto.ApplicationCreateRequest{
		FieldOfStudy:   strings.TrimSpace(c.FormValue("field_of_study")),
		AdditionalNote: c.FormValue("additional_note"),
	}

	jambScore, err := strconv.Atoi(strings.TrimSpace(c.FormValue("jamb_score")))
	if err != nil {
		return dto.ApplicationCreateRequest{}, errors.New("invalid jamb_score")
	}
	payload.JambScore = jambScore

	income, err := strconv.ParseFloat(strings.TrimSpace(c.FormValue("guardian_income")), 64)
	if err != nil {
		return dto.ApplicationCreateRequest{}, errors.New("invalid guardian_income")
	}
	payload.GuardianIncome = income

	form, err := c.MultipartForm()
	if err != nil {
		return dto.ApplicationCreateRequest{}, errors.New("multipart form required")
	}

	payload.Grades = map[string]string{}
	for key, values := range form.Value {
		if !strings.HasPrefix(key, "grades[") || !strings.HasSuffix(key, "]") {
			continue
		}
		subject := key[len("grades[") : len(key)-1]
		if subject == "" || len(values) == 0 {
			continue
		}
		payload.Grades[subject] = strings.TrimSpace(values[0])
	}

	return payload, nil
}

func formFile(c *fiber.Ctx, key string) *multipart.FileHeader {
	file, err := c.FormFile(key)
	if err != nil {
		return nil
	}
	return file
}
