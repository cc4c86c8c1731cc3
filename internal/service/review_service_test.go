package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Biyayaa/scholarship-api/internal/dto"
	"github.com/Biyayaa/scholarship-api/internal/models"
	"github.com/Biyayaa/scholarship-api/internal/repository"
)

func setupReviewService(t *testing.T) (ReviewService, *gorm.DB, *redis.Client) {
	t.Helper()

	mini, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mini.Close)

	redisClient := redis.NewClient(&redis.Options{Addr: mini.Addr()})

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Application{}))

	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewReviewService(repository.NewApplicationRepository(db), validate, redisClient, time.Minute, zerolog.Nop())

	return svc, db, redisClient
}

func seedApplication(t *testing.T, db *gorm.DB, email string, grades map[string]interface{}, income float64, jamb int) models.Application {
	t.Helper()

	user := models.User{Name: "Applicant", Email: email, PasswordHash: "x", Role: models.RoleApplicant}
	require.NoError(t, db.Create(&user).Error)

	application := models.Application{
		UserID:                user.ID,
		FullName:              user.Name,
		Email:                 user.Email,
		FieldOfStudy:          models.FieldScience,
		Grades:                datatypes.JSONMap(grades),
		JambScore:             jamb,
		GuardianIncome:        income,
		AdditionalNote:        "note",
		WaecResultURL:         "https://files.test/waec-results/1",
		JambResultURL:         "https://files.test/jamb-results/1",
		FinancialStatementURL: "https://files.test/financial-statements/1",
		Status:                models.StatusPending,
	}
	require.NoError(t, db.Create(&application).Error)

	return application
}

func allA1() map[string]interface{} {
	return map[string]interface{}{
		"English":     "A1",
		"Mathematics": "A1",
		"Chemistry":   "A1",
		"Physics":     "A1",
		"Biology":     "A1",
	}
}

func TestReviewServiceListCaches(t *testing.T) {
	svc, db, _ := setupReviewService(t)
	seedApplication(t, db, "one@example.com", allA1(), 200000, 320)

	first, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Writes that bypass the service are invisible until the cache expires.
	seedApplication(t, db, "two@example.com", allA1(), 200000, 320)

	second, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, second, 1)
}

func TestReviewServiceGetComputesScore(t *testing.T) {
	svc, db, _ := setupReviewService(t)
	application := seedApplication(t, db, "one@example.com", allA1(), 200000, 320)

	review, err := svc.Get(context.Background(), application.ID)
	require.NoError(t, err)
	require.Equal(t, 50, review.Score.GradePoints)
	require.Equal(t, 20, review.Score.IncomePoints)
	require.Equal(t, 30, review.Score.TestPoints)
	require.Equal(t, 100, review.Score.Total)
	require.Equal(t, 100, review.Score.Percentage)

	// Recomputation on an unchanged application is idempotent.
	again, err := svc.Get(context.Background(), application.ID)
	require.NoError(t, err)
	require.Equal(t, review.Score, again.Score)
}

func TestReviewServiceGetUnknownApplication(t *testing.T) {
	svc, _, _ := setupReviewService(t)

	_, err := svc.Get(context.Background(), 42)
	require.ErrorIs(t, err, ErrApplicationNotFound)
}

func TestReviewServiceDecideAccept(t *testing.T) {
	svc, db, _ := setupReviewService(t)
	application := seedApplication(t, db, "one@example.com", allA1(), 200000, 320)

	var before models.Application
	require.NoError(t, db.First(&before, application.ID).Error)

	decided, err := svc.Decide(context.Background(), application.ID, dto.DecisionRequest{Decision: "accepted"}, Actor{ID: 9, Role: models.RoleAdmin})
	require.NoError(t, err)
	require.Equal(t, string(models.StatusAccepted), decided.Status)
	require.NotNil(t, decided.ScholarshipPercentage)
	require.Equal(t, 100, *decided.ScholarshipPercentage)
	require.NotNil(t, decided.DecidedBy)
	require.Equal(t, uint(9), *decided.DecidedBy)
	require.NotNil(t, decided.DecidedAt)

	// The decision must not alter any submission field.
	var after models.Application
	require.NoError(t, db.First(&after, application.ID).Error)
	require.Equal(t, before.FullName, after.FullName)
	require.Equal(t, before.Email, after.Email)
	require.Equal(t, before.FieldOfStudy, after.FieldOfStudy)
	require.Equal(t, before.Grades, after.Grades)
	require.Equal(t, before.JambScore, after.JambScore)
	require.Equal(t, before.GuardianIncome, after.GuardianIncome)
	require.Equal(t, before.AdditionalNote, after.AdditionalNote)
	require.Equal(t, before.WaecResultURL, after.WaecResultURL)
	require.Equal(t, before.JambResultURL, after.JambResultURL)
	require.Equal(t, before.FinancialStatementURL, after.FinancialStatementURL)
	require.Equal(t, before.CreatedAt, after.CreatedAt)
}

func TestReviewServiceDecideReject(t *testing.T) {
	svc, db, _ := setupReviewService(t)
	application := seedApplication(t, db, "one@example.com", allA1(), 900000, 150)

	decided, err := svc.Decide(context.Background(), application.ID, dto.DecisionRequest{Decision: "rejected"}, Actor{ID: 9, Role: models.RoleAdmin})
	require.NoError(t, err)
	require.Equal(t, string(models.StatusRejected), decided.Status)
	require.NotNil(t, decided.ScholarshipPercentage)
	// 50 grade points + 5 income + 0 jamb = 55, below every award cutoff.
	require.Equal(t, 0, *decided.ScholarshipPercentage)
}

func TestReviewServiceDecideRejectIgnoresComputedTier(t *testing.T) {
	svc, db, _ := setupReviewService(t)
	// A full-award scorer: the rejection must still persist a zero percentage.
	application := seedApplication(t, db, "one@example.com", allA1(), 200000, 320)

	decided, err := svc.Decide(context.Background(), application.ID, dto.DecisionRequest{Decision: "rejected"}, Actor{ID: 9, Role: models.RoleAdmin})
	require.NoError(t, err)
	require.Equal(t, string(models.StatusRejected), decided.Status)
	require.NotNil(t, decided.ScholarshipPercentage)
	require.Equal(t, 0, *decided.ScholarshipPercentage)
}

func TestReviewServiceDecisionIsTerminal(t *testing.T) {
	svc, db, _ := setupReviewService(t)
	application := seedApplication(t, db, "one@example.com", allA1(), 200000, 320)

	_, err := svc.Decide(context.Background(), application.ID, dto.DecisionRequest{Decision: "accepted"}, Actor{ID: 9, Role: models.RoleAdmin})
	require.NoError(t, err)

	_, err = svc.Decide(context.Background(), application.ID, dto.DecisionRequest{Decision: "rejected"}, Actor{ID: 9, Role: models.RoleAdmin})
	require.ErrorIs(t, err, ErrDecisionAlreadyMade)

	_, err = svc.Decide(context.Background(), application.ID, dto.DecisionRequest{Decision: "accepted"}, Actor{ID: 9, Role: models.RoleAdmin})
	require.ErrorIs(t, err, ErrDecisionAlreadyMade)
}

func TestReviewServiceDecideInvalidatesListCache(t *testing.T) {
	svc, db, _ := setupReviewService(t)
	application := seedApplication(t, db, "one@example.com", allA1(), 200000, 320)

	listed, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, string(models.StatusPending), listed[0].Status)

	_, err = svc.Decide(context.Background(), application.ID, dto.DecisionRequest{Decision: "accepted"}, Actor{ID: 9, Role: models.RoleAdmin})
	require.NoError(t, err)

	refreshed, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, string(models.StatusAccepted), refreshed[0].Status)
}

func TestReviewServiceDecideValidatesDecision(t *testing.T) {
	svc, db, _ := setupReviewService(t)
	application := seedApplication(t, db, "one@example.com", allA1(), 200000, 320)

	_, err := svc.Decide(context.Background(), application.ID, dto.DecisionRequest{Decision: "approved"}, Actor{ID: 9, Role: models.RoleAdmin})
	require.Error(t, err)

	fetched, err := svc.Get(context.Background(), application.ID)
	require.NoError(t, err)
	require.Equal(t, string(models.StatusPending), fetched.Application.Status)
}
