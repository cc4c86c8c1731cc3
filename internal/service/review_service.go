package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/Biyayaa/scholarship-api/internal/dto"
	"github.com/Biyayaa/scholarship-api/internal/models"
	"github.com/Biyayaa/scholarship-api/internal/repository"
	"github.com/Biyayaa/scholarship-api/internal/scoring"
)

// ErrDecisionAlreadyMade indicates the application left the pending state.
var ErrDecisionAlreadyMade = errors.New("application already decided")

const reviewListCacheKey = "review:applications"

// Actor identifies the admin performing a review action.
type Actor struct {
	ID   uint
	Role string
}

// ReviewService encapsulates the admin review workflow.
type ReviewService interface {
	List(ctx context.Context) ([]dto.ApplicationResponse, error)
	Get(ctx context.Context, id uint) (dto.ApplicationReviewResponse, error)
	Decide(ctx context.Context, id uint, payload dto.DecisionRequest, actor Actor) (dto.ApplicationResponse, error)
}

type reviewService struct {
	applications repository.ApplicationRepository
	validator    *validator.Validate
	cache        *redis.Client
	cacheTTL     time.Duration
	logger       zerolog.Logger
	now          func() time.Time
}

// NewReviewService constructs a ReviewService instance.
func NewReviewService(applications repository.ApplicationRepository, validate *validator.Validate, cache *redis.Client, cacheTTL time.Duration, logger zerolog.Logger) ReviewService {
	return &reviewService{
		applications: applications,
		validator:    validate,
		cache:        cache,
		cacheTTL:     cacheTTL,
		logger:       logger.With().Str("component", "review_service").Logger(),
		now:          time.Now,
	}
}

func (s *reviewService) List(ctx context.Context) ([]dto.ApplicationResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, reviewListCacheKey).Result(); err == nil {
			var responses []dto.ApplicationResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &responses); unmarshalErr == nil {
				s.logger.Debug().Msg("review list cache hit")
				return responses, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read review list cache")
		}
	}

	applications, err := s.applications.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := dto.NewApplicationResponseSlice(applications)

	if s.cache != nil {
		if payload, err := json.Marshal(responses); err == nil {
			if err := s.cache.Set(ctx, reviewListCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store review list cache")
			}
		}
	}

	return responses, nil
}

func (s *reviewService) Get(ctx context.Context, id uint) (dto.ApplicationReviewResponse, error) {
	application, err := s.applications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ApplicationReviewResponse{}, ErrApplicationNotFound
		}
		return dto.ApplicationReviewResponse{}, err
	}

	return dto.ApplicationReviewResponse{
		Application: dto.NewApplicationResponse(application),
		Score:       s.score(application),
	}, nil
}

func (s *reviewService) Decide(ctx context.Context, id uint, payload dto.DecisionRequest, actor Actor) (dto.ApplicationResponse, error) {
	tracer := otel.Tracer("github.com/Biyayaa/scholarship-api/internal/service/review")
	ctx, span := tracer.Start(ctx, "review.decide")
	span.SetAttributes(
		attribute.Int64("review.application_id", int64(id)),
		attribute.Int64("review.actor_id", int64(actor.ID)),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.ApplicationResponse{}, err
	}

	application, err := s.applications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "application_not_found")
			return dto.ApplicationResponse{}, ErrApplicationNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "application_lookup_failed")
		return dto.ApplicationResponse{}, err
	}

	next := models.ApplicationStatus(payload.Decision)
	if !application.Status.CanTransition(next) {
		span.RecordError(ErrDecisionAlreadyMade)
		span.SetStatus(codes.Error, "illegal_transition")
		return dto.ApplicationResponse{}, ErrDecisionAlreadyMade
	}

	// A rejection never carries an award, whatever the computed tier says.
	percentage := 0
	if next == models.StatusAccepted {
		percentage = s.score(application).Percentage
	}
	decision := repository.Decision{
		Status:     next,
		Percentage: percentage,
		DecidedBy:  actor.ID,
		DecidedAt:  s.now(),
	}

	if err := s.applications.ApplyDecision(ctx, id, decision); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decision_update_failed")
		return dto.ApplicationResponse{}, err
	}

	s.invalidateListCache(ctx)

	decided, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return dto.ApplicationResponse{}, err
	}

	span.SetAttributes(
		attribute.String("review.decision", payload.Decision),
		attribute.Int("review.percentage", percentage),
	)
	s.logger.Info().
		Uint("application_id", id).
		Uint("actor_id", actor.ID).
		Str("decision", payload.Decision).
		Int("percentage", percentage).
		Msg("application decided")

	return dto.NewApplicationResponse(decided), nil
}

// score recomputes the award tier from the stored inputs; recomputation is
// idempotent because the inputs never change after submission.
func (s *reviewService) score(application models.Application) scoring.Breakdown {
	return scoring.Evaluate(application.GradeSymbols(), application.GuardianIncome, application.JambScore)
}

func (s *reviewService) invalidateListCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, reviewListCacheKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate review list cache")
	}
}
