package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectOfficerContextPrecedence(t *testing.T) {
	u := &User{
		DistrictOfficer:   &DistrictOfficer{ProvinceID: 3, DistrictID: 12},
		ProvincialOfficer: &ProvincialOfficer{ProvinceID: 7, ProvinceName: "Kampot"},
		CommuneOfficer:    &CommuneOfficer{ProvinceID: 3, DistrictID: 12, CommuneID: 40},
	}

	ctx := SelectOfficerContext(u)
	assert.Equal(t, OfficerProvincial, ctx.Kind)
	assert.Equal(t, 7, ctx.ProvinceID)
	require.NotNil(t, ctx.Embedded.ProvinceName)
	assert.Equal(t, "Kampot", *ctx.Embedded.ProvinceName)
	assert.Equal(t, 3, OfficerPayloadCount(u))
	assert.True(t, IsProvincialOfficer(u))
	assert.False(t, IsDistrictOfficer(u))
}

func TestSelectOfficerContextDistrict(t *testing.T) {
	u := &User{DistrictOfficer: &DistrictOfficer{ProvinceID: 3, DistrictID: 12}}

	ctx := SelectOfficerContext(u)
	assert.Equal(t, OfficerDistrict, ctx.Kind)
	assert.Equal(t, 3, ctx.ProvinceID)
	assert.Equal(t, 12, ctx.DistrictID)
	assert.Nil(t, ctx.Embedded.DistrictName)
	assert.Equal(t, []LocationLevel{LevelProvince, LevelDistrict}, ctx.Levels())
}

func TestSelectOfficerContextRoleWithoutPayload(t *testing.T) {
	u := &User{OfficerRoles: []UserRole{RoleCommuneOfficer}}
	assert.True(t, IsCommuneOfficer(u))
	assert.Equal(t, OfficerContext{Kind: OfficerCommune}, SelectOfficerContext(u))
}

func TestSelectOfficerContextNone(t *testing.T) {
	assert.Equal(t, OfficerNone, SelectOfficerContext(nil).Kind)
	u := &User{Roles: []UserRole{RoleTeacher}}
	assert.Equal(t, OfficerNone, SelectOfficerContext(u).Kind)
	assert.True(t, IsTeacher(u))
	assert.Nil(t, SelectOfficerContext(u).Levels())
}

func TestIsTeacherIndependentOfOfficer(t *testing.T) {
	u := &User{Teacher: &TeacherProfile{TeacherID: 1}, CommuneOfficer: &CommuneOfficer{CommuneID: 4}}
	assert.True(t, IsTeacher(u))
	assert.True(t, IsCommuneOfficer(u))
}

func TestUserIdentityKey(t *testing.T) {
	at := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	a := &User{ID: 4, UpdatedAt: at}
	b := &User{ID: 4, UpdatedAt: at.Add(time.Second)}
	assert.NotEqual(t, a.IdentityKey(), b.IdentityKey())
	assert.Equal(t, a.IdentityKey(), (&User{ID: 4, UpdatedAt: at}).IdentityKey())
	assert.Empty(t, (*User)(nil).IdentityKey())
}

func TestLocationLevelFallbackLabel(t *testing.T) {
	assert.Equal(t, "Province 3", LevelProvince.FallbackLabel(3))
	assert.Equal(t, "District 12", LevelDistrict.FallbackLabel(12))
	assert.Equal(t, "Commune 40", LevelCommune.FallbackLabel(40))
}

func TestLocalizedName(t *testing.T) {
	assert.Equal(t, "Phnom Penh", LocalizedName("ភ្នំពេញ", "Phnom Penh", "en"))
	assert.Equal(t, "ភ្នំពេញ", LocalizedName("ភ្នំពេញ", "Phnom Penh", "kh"))
	assert.Equal(t, "Phnom Penh", LocalizedName("", "Phnom Penh", "kh"))
	assert.Equal(t, "ភ្នំពេញ", LocalizedName("ភ្នំពេញ", "", "en"))
}
