package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/attendance-dashboard-gateway/internal/models"
	appErrors "github.com/noah-isme/attendance-dashboard-gateway/pkg/errors"
)

type locationNameSource interface {
	ProvinceName(ctx context.Context, id int, lang string) (string, error)
	DistrictName(ctx context.Context, provinceID, id int, lang string) (string, error)
	CommuneName(ctx context.Context, provinceID, districtID, id int, lang string) (string, error)
}

type gazetteerReader interface {
	Find(ctx context.Context, level models.LocationLevel, provinceID, districtID, id int) (*models.GazetteerEntry, error)
}

// LocationServiceParams groups constructor dependencies.
type LocationServiceParams struct {
	Source    locationNameSource
	Gazetteer gazetteerReader
	Cache     *CacheService
	Logger    *zap.Logger
	Language  string
	CacheTTL  time.Duration
}

// LocationService resolves location ids to display names through the
// cache, the local gazetteer and finally the school API.
type LocationService struct {
	source    locationNameSource
	gazetteer gazetteerReader
	cache     *CacheService
	logger    *zap.Logger
	lang      string
	ttl       time.Duration
}

// NewLocationService constructs a LocationService.
func NewLocationService(params LocationServiceParams) *LocationService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := params.CacheTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &LocationService{
		source:    params.Source,
		gazetteer: params.Gazetteer,
		cache:     params.Cache,
		logger:    logger,
		lang:      params.Language,
		ttl:       ttl,
	}
}

// ProvinceName resolves a province id.
func (s *LocationService) ProvinceName(ctx context.Context, id int) (string, error) {
	if id <= 0 {
		return "", appErrors.Clone(appErrors.ErrValidation, "province id required")
	}
	return s.resolve(ctx, models.LevelProvince, 0, 0, id, func(ctx context.Context) (string, error) {
		return s.source.ProvinceName(ctx, id, s.lang)
	})
}

// DistrictName resolves a district id within its province.
func (s *LocationService) DistrictName(ctx context.Context, provinceID, id int) (string, error) {
	if provinceID <= 0 || id <= 0 {
		return "", appErrors.Clone(appErrors.ErrValidation, "province and district ids required")
	}
	return s.resolve(ctx, models.LevelDistrict, provinceID, 0, id, func(ctx context.Context) (string, error) {
		return s.source.DistrictName(ctx, provinceID, id, s.lang)
	})
}

// CommuneName resolves a commune id within its province and district.
func (s *LocationService) CommuneName(ctx context.Context, provinceID, districtID, id int) (string, error) {
	if provinceID <= 0 || districtID <= 0 || id <= 0 {
		return "", appErrors.Clone(appErrors.ErrValidation, "province, district and commune ids required")
	}
	return s.resolve(ctx, models.LevelCommune, provinceID, districtID, id, func(ctx context.Context) (string, error) {
		return s.source.CommuneName(ctx, provinceID, districtID, id, s.lang)
	})
}

func (s *LocationService) resolve(ctx context.Context, level models.LocationLevel, provinceID, districtID, id int, remote func(context.Context) (string, error)) (string, error) {
	key := fmt.Sprintf("loc:%s:%d:%d:%d:%s", level, provinceID, districtID, id, s.lang)
	name, _, err := readThrough(ctx, s.cache, key, s.ttl, func(ctx context.Context) (string, error) {
		if name := s.fromGazetteer(ctx, level, provinceID, districtID, id); name != "" {
			return name, nil
		}
		if s.source == nil {
			return "", appErrors.ErrLocationUnset
		}
		name, err := remote(ctx)
		if err != nil {
			return "", err
		}
		if name == "" {
			return "", appErrors.ErrLocationUnset
		}
		return name, nil
	})
	return name, err
}

func (s *LocationService) fromGazetteer(ctx context.Context, level models.LocationLevel, provinceID, districtID, id int) string {
	if s.gazetteer == nil {
		return ""
	}
	entry, err := s.gazetteer.Find(ctx, level, provinceID, districtID, id)
	if err != nil {
		s.logger.Warn("gazetteer lookup failed", zap.String("level", string(level)), zap.Int("id", id), zap.Error(err))
		return ""
	}
	if entry == nil {
		return ""
	}
	return models.LocalizedName(entry.NameKH, entry.NameEN, s.lang)
}
