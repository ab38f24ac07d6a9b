package dto

import "github.com/noah-isme/attendance-dashboard-gateway/internal/models"

// SchoolListRequest binds the school list query string. Location filters
// arrive as strings from the dashboard's select inputs.
type SchoolListRequest struct {
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
	Province string `form:"province"`
	District string `form:"district"`
}

// SchoolPageSummary aggregates page-level counts.
type SchoolPageSummary struct {
	TotalSchools                 int `json:"totalSchools"`
	SchoolsWithStudentAttendance int `json:"schoolsWithStudentAttendance"`
	SchoolsWithTeacherAttendance int `json:"schoolsWithTeacherAttendance"`
	DegradedCount                int `json:"degradedCount"`
}

// SchoolPageResponse is one fully resolved page of schools.
type SchoolPageResponse struct {
	Schools   []models.SchoolSummary `json:"schools"`
	PageState models.PageState       `json:"pageState"`
	Summary   SchoolPageSummary      `json:"summary"`
}
