package dto

import "github.com/noah-isme/attendance-dashboard-gateway/internal/models"

// AttendanceCountRequest binds the attendance count query string.
type AttendanceCountRequest struct {
	Mode      string `form:"mode"`
	Date      string `form:"date"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
}

// AttendanceCountResponse is the attendance count view payload.
type AttendanceCountResponse struct {
	SchoolID  int                          `json:"schoolId"`
	Mode      models.FilterMode            `json:"mode"`
	Date      string                       `json:"date,omitempty"`
	StartDate string                       `json:"startDate,omitempty"`
	EndDate   string                       `json:"endDate,omitempty"`
	Counts    models.AttendanceCountResult `json:"counts"`
	Students  models.RoleCoverage          `json:"students"`
	Teachers  models.RoleCoverage          `json:"teachers"`
}
