package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/attendance-dashboard-gateway/internal/dto"
	"github.com/noah-isme/attendance-dashboard-gateway/internal/models"
	appErrors "github.com/noah-isme/attendance-dashboard-gateway/pkg/errors"
)

type attendanceCountSource interface {
	SchoolAttendanceCountWithDates(ctx context.Context, schoolID int, filter models.DateFilter) (*models.AttendanceCountResult, error)
}

// AttendanceCountConfig tunes the attendance count aggregator.
type AttendanceCountConfig struct {
	CacheTTL time.Duration
}

// AttendanceCountService fetches a school's attendance counts for a single
// date or a date range and derives coverage figures.
type AttendanceCountService struct {
	source    attendanceCountSource
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       AttendanceCountConfig
}

// NewAttendanceCountService constructs an AttendanceCountService.
func NewAttendanceCountService(source attendanceCountSource, cache *CacheService, validate *validator.Validate, logger *zap.Logger, cfg AttendanceCountConfig) *AttendanceCountService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 30 * time.Second
	}
	return &AttendanceCountService{source: source, cache: cache, validator: validate, logger: logger, cfg: cfg}
}

// Validate checks query shape. A single-date query without a date is valid
// and means the school service's default day.
func (s *AttendanceCountService) Validate(query models.AttendanceCountQuery) error {
	if err := s.validator.Struct(query); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance count query")
	}
	if query.Mode == models.FilterModeRange {
		if query.StartDate == "" && query.EndDate == "" {
			return appErrors.Clone(appErrors.ErrValidation, "range mode requires startDate or endDate")
		}
		if !query.RangeOrdered() {
			return appErrors.Clone(appErrors.ErrValidation, "startDate must not be after endDate")
		}
	}
	return nil
}

// Fetch returns the attendance counts with derived coverage. The boolean
// reports whether the counts came from cache. Upstream failures, including
// an unsuccessful envelope, are returned as retryable errors.
func (s *AttendanceCountService) Fetch(ctx context.Context, query models.AttendanceCountQuery) (*dto.AttendanceCountResponse, bool, error) {
	if err := s.Validate(query); err != nil {
		return nil, false, err
	}
	if s.source == nil {
		return nil, false, appErrors.Clone(appErrors.ErrInternal, "attendance source unavailable")
	}

	counts, hit, err := readThrough(ctx, s.cache, query.CacheKey(), s.cfg.CacheTTL, func(ctx context.Context) (models.AttendanceCountResult, error) {
		result, err := s.source.SchoolAttendanceCountWithDates(ctx, query.SchoolID, query.Filter())
		if err != nil {
			return models.AttendanceCountResult{}, err
		}
		return *result, nil
	})
	if err != nil {
		s.logger.Warn("attendance count fetch failed",
			zap.Int("school_id", query.SchoolID),
			zap.String("mode", string(query.Mode)),
			zap.Error(err))
		return nil, false, err
	}

	return BuildAttendanceCountResponse(query, counts), hit, nil
}

// BuildAttendanceCountResponse derives the view payload from raw counts.
func BuildAttendanceCountResponse(query models.AttendanceCountQuery, counts models.AttendanceCountResult) *dto.AttendanceCountResponse {
	filter := query.Filter()
	return &dto.AttendanceCountResponse{
		SchoolID:  query.SchoolID,
		Mode:      query.Mode,
		Date:      filter.Date,
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
		Counts:    counts,
		Students:  counts.StudentCoverage(),
		Teachers:  counts.TeacherCoverage(),
	}
}
