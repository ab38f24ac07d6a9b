package service

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/attendance-dashboard-gateway/internal/models"
)

type locationNamer interface {
	ProvinceName(ctx context.Context, id int) (string, error)
	DistrictName(ctx context.Context, provinceID, id int) (string, error)
	CommuneName(ctx context.Context, provinceID, districtID, id int) (string, error)
}

// RoleResolverService builds the multi-role responsibilities view for an
// officer, resolving location names that are not embedded in the user record.
type RoleResolverService struct {
	names  locationNamer
	logger *zap.Logger
}

// NewRoleResolverService constructs a RoleResolverService.
func NewRoleResolverService(names locationNamer, logger *zap.Logger) *RoleResolverService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoleResolverService{names: names, logger: logger}
}

// Resolve returns nil when the user holds no officer role. Name lookups never
// fail the call; an unresolved level is labelled with its raw id.
func (s *RoleResolverService) Resolve(ctx context.Context, user *models.User) (*models.Responsibilities, error) {
	officer := models.SelectOfficerContext(user)
	if officer.Kind == models.OfficerNone {
		return nil, nil
	}
	if n := models.OfficerPayloadCount(user); n > 1 {
		s.logger.Debug("multiple officer payloads on user, using highest precedence",
			zap.Int("user_id", user.ID),
			zap.Int("payloads", n),
			zap.String("selected", string(officer.Kind)),
		)
	}

	names, partial := s.resolveNames(ctx, officer)

	result := &models.Responsibilities{
		UserID:  user.ID,
		Officer: officer,
		Names:   names,
		Partial: partial,
	}
	switch officer.Kind {
	case models.OfficerProvincial:
		result.Roles = append(result.Roles, models.RoleProvincialOfficer)
		result.Views = append(result.Views, models.ViewProvincial)
	case models.OfficerDistrict:
		result.Roles = append(result.Roles, models.RoleDistrictOfficer)
		result.Views = append(result.Views, models.ViewDistrict)
	case models.OfficerCommune:
		result.Roles = append(result.Roles, models.RoleCommuneOfficer)
		result.Views = append(result.Views, models.ViewCommune)
	}
	if models.IsTeacher(user) {
		result.Roles = append(result.Roles, models.RoleTeacher)
		result.Views = append(result.Views, models.ViewTeacher)
	}
	return result, nil
}

// resolveNames fills the names missing from the embedded ones. The boolean
// reports whether any level fell back to its label.
func (s *RoleResolverService) resolveNames(ctx context.Context, officer models.OfficerContext) (models.LocationNames, bool) {
	names := officer.Embedded
	var (
		mu      sync.Mutex
		g       errgroup.Group
		partial bool
	)
	assign := func(level models.LocationLevel, value string, fallback bool) {
		mu.Lock()
		defer mu.Unlock()
		if fallback {
			partial = true
		}
		switch level {
		case models.LevelProvince:
			names.ProvinceName = &value
		case models.LevelDistrict:
			names.DistrictName = &value
		case models.LevelCommune:
			names.CommuneName = &value
		}
	}

	for _, level := range officer.Levels() {
		level := level
		id, lookup := s.lookupFor(officer, level)
		if alreadyNamed(names, level) || id <= 0 || lookup == nil {
			continue
		}
		g.Go(func() error {
			name, err := lookup(ctx)
			fallback := err != nil || name == ""
			if fallback {
				s.logger.Warn("location name unresolved, using fallback label",
					zap.String("level", string(level)),
					zap.Int("id", id),
					zap.Error(err),
				)
				name = level.FallbackLabel(id)
			}
			assign(level, name, fallback)
			return nil
		})
	}
	_ = g.Wait()
	return names, partial
}

// lookupFor returns the id for level and a lookup bound to the parent ids.
// The lookup is nil when a required parent id is missing.
func (s *RoleResolverService) lookupFor(officer models.OfficerContext, level models.LocationLevel) (int, func(context.Context) (string, error)) {
	if s.names == nil {
		return 0, nil
	}
	p, d, c := officer.ProvinceID, officer.DistrictID, officer.CommuneID
	switch level {
	case models.LevelProvince:
		return p, func(ctx context.Context) (string, error) { return s.names.ProvinceName(ctx, p) }
	case models.LevelDistrict:
		if p <= 0 {
			return d, nil
		}
		return d, func(ctx context.Context) (string, error) { return s.names.DistrictName(ctx, p, d) }
	case models.LevelCommune:
		if p <= 0 || d <= 0 {
			return c, nil
		}
		return c, func(ctx context.Context) (string, error) { return s.names.CommuneName(ctx, p, d, c) }
	}
	return 0, nil
}

func alreadyNamed(names models.LocationNames, level models.LocationLevel) bool {
	switch level {
	case models.LevelProvince:
		return names.ProvinceName != nil
	case models.LevelDistrict:
		return names.DistrictName != nil
	case models.LevelCommune:
		return names.CommuneName != nil
	}
	return false
}
