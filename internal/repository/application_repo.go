package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Biyayaa/scholarship-api/internal/models"
)

// Decision captures the columns an admin ruling is allowed to change.
// Everything else on the application row stays untouched.
type Decision struct {
	Status     models.ApplicationStatus
	Percentage int
	DecidedBy  uint
	DecidedAt  time.Time
}

// ApplicationRepository defines data operations for scholarship applications.
type ApplicationRepository interface {
	Create(ctx context.Context, application *models.Application) error
	GetByID(ctx context.Context, id uint) (models.Application, error)
	GetByUserID(ctx context.Context, userID uint) (models.Application, error)
	List(ctx context.Context) ([]models.Application, error)
	ApplyDecision(ctx context.Context, id uint, decision Decision) error
}

type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository instantiates the repository.
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(ctx context.Context, application *models.Application) error {
	return r.db.WithContext(ctx).Create(application).Error
}

func (r *applicationRepository) GetByID(ctx context.Context, id uint) (models.Application, error) {
	var application models.Application
	if err := r.db.WithContext(ctx).First(&application, id).Error; err != nil {
		return models.Application{}, err
	}

	return application, nil
}

func (r *applicationRepository) GetByUserID(ctx context.Context, userID uint) (models.Application, error) {
	var application models.Application
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&application).Error; err != nil {
		return models.Application{}, err
	}

	return application, nil
}

func (r *applicationRepository) List(ctx context.Context) ([]models.Application, error) {
	var applications []models.Application
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&applications).Error; err != nil {
		return nil, err
	}

	return applications, nil
}

// ApplyDecision persists an admin ruling as a column-scoped update so no
// other field of the record is rewritten.
func (r *applicationRepository) ApplyDecision(ctx context.Context, id uint, decision Decision) error {
	result := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":                 decision.Status,
			"scholarship_percentage": decision.Percentage,
			"decided_by":             decision.DecidedBy,
			"decided_at":             decision.DecidedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
