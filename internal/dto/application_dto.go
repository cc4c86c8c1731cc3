package dto

import (
	"time"

	"github.com/Biyayaa/scholarship-api/internal/models"
	"github.com/Biyayaa/scholarship-api/internal/scoring"
)

// ApplicationCreateRequest describes the multipart form fields of a
// scholarship submission. The three document files travel alongside it.
type ApplicationCreateRequest struct {
	FieldOfStudy   string            `form:"field_of_study" validate:"required,oneof=science arts commercial"`
	Grades         map[string]string `form:"-" validate:"required"`
	JambScore      int               `form:"jamb_score" validate:"gte=0,lte=400"`
	GuardianIncome float64           `form:"guardian_income" validate:"gte=0"`
	AdditionalNote string            `form:"additional_note" validate:"omitempty,max=2000"`
}

// DecisionRequest carries an admin ruling on an application.
type DecisionRequest struct {
	Decision string `json:"decision" validate:"required,oneof=accepted rejected"`
}

// ApplicationResponse is returned to API clients when viewing applications.
type ApplicationResponse struct {
	ID                    uint              `json:"id"`
	UserID                uint              `json:"user_id"`
	FullName              string            `json:"full_name"`
	Email                 string            `json:"email"`
	FieldOfStudy          string            `json:"field_of_study"`
	Grades                map[string]string `json:"grades"`
	JambScore             int               `json:"jamb_score"`
	GuardianIncome        float64           `json:"guardian_income"`
	AdditionalNote        string            `json:"additional_note"`
	WaecResultURL         string            `json:"waec_result_url"`
	JambResultURL         string            `json:"jamb_result_url"`
	FinancialStatementURL string            `json:"financial_statement_url"`
	Status                string            `json:"status"`
	ScholarshipPercentage *int              `json:"scholarship_percentage"`
	DecidedBy             *uint             `json:"decided_by"`
	DecidedAt             *time.Time        `json:"decided_at"`
	CreatedAt             time.Time         `json:"created_at"`
	UpdatedAt             time.Time         `json:"updated_at"`
}

// ApplicationReviewResponse bundles an application with its computed score
// for the admin detail view.
type ApplicationReviewResponse struct {
	Application ApplicationResponse `json:"application"`
	Score       scoring.Breakdown   `json:"score"`
}

// NewApplicationResponse converts an Application model into a DTO.
func NewApplicationResponse(model models.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:                    model.ID,
		UserID:                model.UserID,
		FullName:              model.FullName,
		Email:                 model.Email,
		FieldOfStudy:          model.FieldOfStudy,
		Grades:                model.GradeSymbols(),
		JambScore:             model.JambScore,
		GuardianIncome:        model.GuardianIncome,
		AdditionalNote:        model.AdditionalNote,
		WaecResultURL:         model.WaecResultURL,
		JambResultURL:         model.JambResultURL,
		FinancialStatementURL: model.FinancialStatementURL,
		Status:                string(model.Status),
		ScholarshipPercentage: model.ScholarshipPercentage,
		DecidedBy:             model.DecidedBy,
		DecidedAt:             model.DecidedAt,
		CreatedAt:             model.CreatedAt,
		UpdatedAt:             model.UpdatedAt,
	}
}

// NewApplicationResponseSlice converts application models into DTOs.
func NewApplicationResponseSlice(applications []models.Application) []ApplicationResponse {
	responses := make([]ApplicationResponse, 0, len(applications))
	for _, application := range applications {
		responses = append(responses, NewApplicationResponse(application))
	}

	return responses
}
