package service

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/attendance-dashboard-gateway/internal/dto"
	"github.com/noah-isme/attendance-dashboard-gateway/internal/models"
	appErrors "github.com/noah-isme/attendance-dashboard-gateway/pkg/errors"
	"github.com/noah-isme/attendance-dashboard-gateway/pkg/schoolapi"
)

type schoolDirectory interface {
	SchoolIDs(ctx context.Context, params schoolapi.SchoolIDParams) (*models.SchoolIDPage, error)
	SchoolByID(ctx context.Context, schoolID int) (*models.SchoolDetail, error)
	SchoolAttendanceCount(ctx context.Context, schoolID int) (*models.SchoolAttendanceTotals, error)
	Provinces(ctx context.Context) ([]models.Province, error)
	DistrictsByProvince(ctx context.Context, provinceID int) ([]models.District, error)
}

// SchoolListConfig tunes page fan-out.
type SchoolListConfig struct {
	Concurrency  int
	DefaultLimit int
	MaxLimit     int
	Language     string
}

// SchoolListService assembles pages of school summaries.
type SchoolListService struct {
	directory schoolDirectory
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       SchoolListConfig
}

// NewSchoolListService constructs a SchoolListService.
func NewSchoolListService(directory schoolDirectory, metrics *MetricsService, logger *zap.Logger, cfg SchoolListConfig) *SchoolListService {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 8
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 10
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = 100
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchoolListService{directory: directory, metrics: metrics, logger: logger, cfg: cfg}
}

// ParsePageRequest converts dashboard query state into a page request.
// Empty location filters are left nil so they are omitted upstream.
func (s *SchoolListService) ParsePageRequest(req dto.SchoolListRequest) (models.SchoolPageRequest, error) {
	out := models.SchoolPageRequest{Page: req.Page, Limit: req.Limit}
	if out.Page < 1 {
		out.Page = 1
	}
	if out.Limit <= 0 {
		out.Limit = s.cfg.DefaultLimit
	}
	if out.Limit > s.cfg.MaxLimit {
		out.Limit = s.cfg.MaxLimit
	}
	var err error
	if out.ProvinceID, err = parseOptionalID(req.Province, "province"); err != nil {
		return out, err
	}
	if out.DistrictID, err = parseOptionalID(req.District, "district"); err != nil {
		return out, err
	}
	return out, nil
}

// FetchPage resolves one page of schools. Per-school lookup failures yield
// degraded entries and never fail the page; only the id page fetch can fail.
func (s *SchoolListService) FetchPage(ctx context.Context, req models.SchoolPageRequest) (*dto.SchoolPageResponse, error) {
	if s.directory == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "school directory unavailable")
	}
	idPage, err := s.directory.SchoolIDs(ctx, schoolapi.SchoolIDParams{
		Page:       req.Page,
		Limit:      req.Limit,
		ProvinceID: req.ProvinceID,
		DistrictID: req.DistrictID,
	})
	if err != nil {
		s.logger.Warn("school id page fetch failed", zap.Int("page", req.Page), zap.Error(err))
		return nil, err
	}

	ids := idPage.PresentIDs()
	if dropped := len(idPage.SchoolIDs) - len(ids); dropped > 0 {
		s.logger.Debug("dropped null school ids", zap.Int("count", dropped))
	}

	results := s.resolveAll(ctx, ids)

	schools := make([]models.SchoolSummary, len(ids))
	degraded := 0
	for i, id := range ids {
		if results[i].OK() {
			schools[i] = results[i].Value
			continue
		}
		degraded++
		s.logger.Warn("school summary degraded", zap.Int("school_id", id), zap.Error(results[i].Err))
		schools[i] = models.DegradedSchoolSummary(id)
	}
	s.metrics.AddDegradedSchools(degraded)

	page := idPage.Page
	if page <= 0 {
		page = req.Page
	}
	return &dto.SchoolPageResponse{
		Schools: schools,
		PageState: models.PageState{
			Page:         page,
			Limit:        req.Limit,
			TotalPages:   idPage.TotalPages,
			TotalSchools: idPage.TotalSchools,
		},
		Summary: dto.SchoolPageSummary{
			TotalSchools:                 idPage.TotalSchools,
			SchoolsWithStudentAttendance: idPage.SchoolsWithStudentAttendance,
			SchoolsWithTeacherAttendance: idPage.SchoolsWithTeacherAttendance,
			DegradedCount:                degraded,
		},
	}, nil
}

// resolveAll joins every id concurrently and waits for all of them. Each
// slot holds its own outcome, so the group itself never fails.
func (s *SchoolListService) resolveAll(ctx context.Context, ids []int) []models.Result[models.SchoolSummary] {
	results := make([]models.Result[models.SchoolSummary], len(ids))
	var g errgroup.Group
	g.SetLimit(s.cfg.Concurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			results[i] = s.resolveOne(ctx, id)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// resolveOne fetches metadata and attendance totals for one school in parallel.
func (s *SchoolListService) resolveOne(ctx context.Context, id int) models.Result[models.SchoolSummary] {
	var (
		detail *models.SchoolDetail
		totals *models.SchoolAttendanceTotals
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		detail, err = s.directory.SchoolByID(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		totals, err = s.directory.SchoolAttendanceCount(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.Result[models.SchoolSummary]{Err: err}
	}
	return models.Result[models.SchoolSummary]{Value: models.SchoolSummary{
		SchoolID:               id,
		SchoolName:             detail.DisplayName(),
		StudentAttendanceCount: totals.StudentAttendanceCount,
		TeacherAttendanceCount: totals.TeacherAttendanceCount,
		TotalAttendanceCount:   totals.TotalAttendanceCount,
	}}
}

// Provinces returns the province filter options.
func (s *SchoolListService) Provinces(ctx context.Context) ([]models.LocationOption, error) {
	provinces, err := s.directory.Provinces(ctx)
	if err != nil {
		return nil, err
	}
	options := make([]models.LocationOption, 0, len(provinces))
	for _, p := range provinces {
		options = append(options, models.LocationOption{ID: p.ID, Name: models.LocalizedName(p.NameKH, p.NameEN, s.cfg.Language)})
	}
	return options, nil
}

// Districts returns the district filter options for a province.
func (s *SchoolListService) Districts(ctx context.Context, provinceID int) ([]models.LocationOption, error) {
	if provinceID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "provinceId must be positive")
	}
	districts, err := s.directory.DistrictsByProvince(ctx, provinceID)
	if err != nil {
		return nil, err
	}
	options := make([]models.LocationOption, 0, len(districts))
	for _, d := range districts {
		options = append(options, models.LocationOption{ID: d.ID, Name: models.LocalizedName(d.NameKH, d.NameEN, s.cfg.Language)})
	}
	return options, nil
}

func parseOptionalID(raw, field string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, field+" must be a positive integer")
	}
	return &id, nil
}
