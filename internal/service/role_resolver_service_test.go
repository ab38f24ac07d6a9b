package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/attendance-dashboard-gateway/internal/models"
)

type fakeLocationNamer struct {
	mu        sync.Mutex
	provinces map[int]string
	districts map[[2]int]string
	communes  map[[3]int]string
	err       error
	calls     []string
}

func (f *fakeLocationNamer) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeLocationNamer) ProvinceName(_ context.Context, id int) (string, error) {
	f.record(fmtKey("p", id))
	if f.err != nil {
		return "", f.err
	}
	return f.provinces[id], nil
}

func (f *fakeLocationNamer) DistrictName(_ context.Context, provinceID, id int) (string, error) {
	f.record(fmtKey("d", provinceID, id))
	if f.err != nil {
		return "", f.err
	}
	return f.districts[[2]int{provinceID, id}], nil
}

func (f *fakeLocationNamer) CommuneName(_ context.Context, provinceID, districtID, id int) (string, error) {
	f.record(fmtKey("c", provinceID, districtID, id))
	if f.err != nil {
		return "", f.err
	}
	return f.communes[[3]int{provinceID, districtID, id}], nil
}

func districtOfficer() *models.User {
	return &models.User{
		ID:              41,
		OfficerRoles:    []models.UserRole{models.RoleDistrictOfficer},
		DistrictOfficer: &models.DistrictOfficer{ProvinceID: 3, DistrictID: 12},
	}
}

func TestRoleResolverReturnsNilForNonOfficer(t *testing.T) {
	svc := NewRoleResolverService(&fakeLocationNamer{}, zap.NewNop())

	result, err := svc.Resolve(context.Background(), &models.User{ID: 1, Roles: []models.UserRole{models.RoleTeacher}})
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestRoleResolverDistrictLookup(t *testing.T) {
	namer := &fakeLocationNamer{
		provinces: map[int]string{3: "Kampong Cham"},
		districts: map[[2]int]string{{3, 12}: "Batheay"},
	}
	svc := NewRoleResolverService(namer, zap.NewNop())

	result, err := svc.Resolve(context.Background(), districtOfficer())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, models.OfficerDistrict, result.Officer.Kind)
	require.NotNil(t, result.Names.DistrictName)
	assert.Equal(t, "Batheay", *result.Names.DistrictName)
	require.NotNil(t, result.Names.ProvinceName)
	assert.Equal(t, "Kampong Cham", *result.Names.ProvinceName)
	assert.Nil(t, result.Names.CommuneName)
	assert.Contains(t, namer.calls, "d:3:12")
	assert.False(t, result.Partial)
}

func TestRoleResolverFallsBackToLabelOnFailure(t *testing.T) {
	namer := &fakeLocationNamer{err: errors.New("boom")}
	svc := NewRoleResolverService(namer, zap.NewNop())

	result, err := svc.Resolve(context.Background(), districtOfficer())
	require.NoError(t, err)
	require.NotNil(t, result.Names.DistrictName)
	assert.Equal(t, "District 12", *result.Names.DistrictName)
	assert.Equal(t, "Province 3", *result.Names.ProvinceName)
	assert.True(t, result.Partial)
}

func TestRoleResolverEmptyNameUsesFallback(t *testing.T) {
	svc := NewRoleResolverService(&fakeLocationNamer{}, zap.NewNop())

	result, err := svc.Resolve(context.Background(), districtOfficer())
	require.NoError(t, err)
	assert.Equal(t, "District 12", *result.Names.DistrictName)
	assert.True(t, result.Partial)
}

func TestRoleResolverPrefersEmbeddedNames(t *testing.T) {
	namer := &fakeLocationNamer{districts: map[[2]int]string{{3, 12}: "Batheay"}}
	svc := NewRoleResolverService(namer, zap.NewNop())
	user := districtOfficer()
	user.DistrictOfficer.ProvinceName = "Kampong Cham"

	result, err := svc.Resolve(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, "Kampong Cham", *result.Names.ProvinceName)
	assert.Equal(t, "Batheay", *result.Names.DistrictName)
	assert.Equal(t, []string{"d:3:12"}, namer.calls)
}

func TestRoleResolverCommuneMissingParentFailsClosed(t *testing.T) {
	namer := &fakeLocationNamer{provinces: map[int]string{5: "Takeo"}}
	svc := NewRoleResolverService(namer, zap.NewNop())
	user := &models.User{
		ID:             7,
		CommuneOfficer: &models.CommuneOfficer{ProvinceID: 5, CommuneID: 90},
	}

	result, err := svc.Resolve(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, models.OfficerCommune, result.Officer.Kind)
	assert.Equal(t, "Takeo", *result.Names.ProvinceName)
	assert.Nil(t, result.Names.DistrictName)
	assert.Nil(t, result.Names.CommuneName)
	assert.Equal(t, []string{"p:5"}, namer.calls)
}

func TestRoleResolverPrecedenceAndTeacher(t *testing.T) {
	namer := &fakeLocationNamer{provinces: map[int]string{1: "Phnom Penh"}}
	svc := NewRoleResolverService(namer, zap.NewNop())
	user := &models.User{
		ID:                9,
		Roles:             []models.UserRole{models.RoleTeacher},
		Teacher:           &models.TeacherProfile{TeacherID: 4, SchoolID: 8},
		ProvincialOfficer: &models.ProvincialOfficer{ProvinceID: 1},
		CommuneOfficer:    &models.CommuneOfficer{ProvinceID: 1, DistrictID: 2, CommuneID: 3},
	}

	result, err := svc.Resolve(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, models.OfficerProvincial, result.Officer.Kind)
	assert.Equal(t, []models.UserRole{models.RoleProvincialOfficer, models.RoleTeacher}, result.Roles)
	assert.Equal(t, []models.ResponsibilityView{models.ViewProvincial, models.ViewTeacher}, result.Views)
	assert.Nil(t, result.Names.CommuneName)
}
