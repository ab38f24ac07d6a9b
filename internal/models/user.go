package models

import (
	"fmt"
	"time"
)

// UserRole represents a role carried on a user record.
type UserRole string

const (
	RoleAdmin             UserRole = "ADMIN"
	RoleTeacher           UserRole = "TEACHER"
	RoleProvincialOfficer UserRole = "PROVINCIAL_OFFICER"
	RoleDistrictOfficer   UserRole = "DISTRICT_OFFICER"
	RoleCommuneOfficer    UserRole = "COMMUNE_OFFICER"
)

// User is the authenticated user's record as returned by the school API.
// Location ids of zero mean the id is absent.
type User struct {
	ID                int                `json:"id"`
	Username          string             `json:"username"`
	FirstName         string             `json:"firstName"`
	LastName          string             `json:"lastName"`
	Roles             []UserRole         `json:"roles"`
	OfficerRoles      []UserRole         `json:"officerRoles"`
	Teacher           *TeacherProfile    `json:"teacher,omitempty"`
	ProvincialOfficer *ProvincialOfficer `json:"provincialOfficer,omitempty"`
	DistrictOfficer   *DistrictOfficer   `json:"districtOfficer,omitempty"`
	CommuneOfficer    *CommuneOfficer    `json:"communeOfficer,omitempty"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

// IdentityKey changes whenever the user record is replaced by a newer one.
func (u *User) IdentityKey() string {
	if u == nil {
		return ""
	}
	return fmt.Sprintf("%d@%d", u.ID, u.UpdatedAt.UnixNano())
}

// TeacherProfile is present when the user also teaches.
type TeacherProfile struct {
	TeacherID int `json:"teacherId"`
	SchoolID  int `json:"schoolId"`
}

// ProvincialOfficer scopes a user to a province.
type ProvincialOfficer struct {
	ProvinceID   int    `json:"provinceId"`
	ProvinceName string `json:"provinceName,omitempty"`
}

// DistrictOfficer scopes a user to a district.
type DistrictOfficer struct {
	ProvinceID   int    `json:"provinceId"`
	DistrictID   int    `json:"districtId"`
	ProvinceName string `json:"provinceName,omitempty"`
	DistrictName string `json:"districtName,omitempty"`
}

// CommuneOfficer scopes a user to a commune.
type CommuneOfficer struct {
	ProvinceID   int    `json:"provinceId"`
	DistrictID   int    `json:"districtId"`
	CommuneID    int    `json:"communeId"`
	ProvinceName string `json:"provinceName,omitempty"`
	DistrictName string `json:"districtName,omitempty"`
	CommuneName  string `json:"communeName,omitempty"`
}

// HasRole reports whether role appears in either role list.
func (u *User) HasRole(role UserRole) bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	for _, r := range u.OfficerRoles {
		if r == role {
			return true
		}
	}
	return false
}

// IsTeacher is independent of the officer predicates.
func IsTeacher(u *User) bool {
	if u == nil {
		return false
	}
	return u.Teacher != nil || u.HasRole(RoleTeacher)
}

// IsProvincialOfficer reports whether the selected officer context is provincial.
func IsProvincialOfficer(u *User) bool {
	return SelectOfficerContext(u).Kind == OfficerProvincial
}

// IsDistrictOfficer reports whether the selected officer context is district.
func IsDistrictOfficer(u *User) bool {
	return SelectOfficerContext(u).Kind == OfficerDistrict
}

// IsCommuneOfficer reports whether the selected officer context is commune.
func IsCommuneOfficer(u *User) bool {
	return SelectOfficerContext(u).Kind == OfficerCommune
}
