package models

import (
	"time"

	"gorm.io/datatypes"
)

// Application is a scholarship submission. Each applicant owns at most one,
// keyed by user id; the record is never deleted in normal operation.
type Application struct {
	ID                    uint              `gorm:"primaryKey" json:"id"`
	UserID                uint              `gorm:"uniqueIndex;not null" json:"user_id"`
	FullName              string            `gorm:"size:255;not null" json:"full_name"`
	Email                 string            `gorm:"size:255;not null" json:"email"`
	FieldOfStudy          string            `gorm:"size:32;not null" json:"field_of_study"`
	Grades                datatypes.JSONMap `json:"grades"`
	JambScore             int               `gorm:"not null" json:"jamb_score"`
	GuardianIncome        float64           `gorm:"not null" json:"guardian_income"`
	AdditionalNote        string            `gorm:"type:text" json:"additional_note"`
	WaecResultURL         string            `gorm:"size:512" json:"waec_result_url"`
	JambResultURL         string            `gorm:"size:512" json:"jamb_result_url"`
	FinancialStatementURL string            `gorm:"size:512" json:"financial_statement_url"`
	Status                ApplicationStatus `gorm:"size:32;not null" json:"status"`
	ScholarshipPercentage *int              `json:"scholarship_percentage"`
	DecidedBy             *uint             `json:"decided_by"`
	DecidedAt             *time.Time        `json:"decided_at"`
	CreatedAt             time.Time         `json:"created_at"`
	UpdatedAt             time.Time         `json:"updated_at"`
	User                  User              `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// GradeSymbols converts the stored JSON grade map into subject → symbol form.
// Non-string values are skipped; the scoring engine treats missing symbols
// as zero points.
func (a Application) GradeSymbols() map[string]string {
	grades := make(map[string]string, len(a.Grades))
	for subject, value := range a.Grades {
		if symbol, ok := value.(string); ok {
			grades[subject] = symbol
		}
	}
	return grades
}

// IsDecided reports whether an admin has already ruled on the application.
func (a Application) IsDecided() bool {
	return a.Status.Terminal()
}
