package dto

import "github.com/noah-isme/attendance-dashboard-gateway/internal/models"

// AttendanceViewCreateRequest opens an attendance count view for a school.
type AttendanceViewCreateRequest struct {
	SchoolID  int    `json:"schoolId" validate:"required,gt=0"`
	Mode      string `json:"mode" validate:"omitempty,oneof=single range"`
	Date      string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	StartDate string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
}

// Attendance view actions.
const (
	AttendanceActionToggle = "toggle"
	AttendanceActionMode   = "mode"
	AttendanceActionDate   = "date"
	AttendanceActionRange  = "range"
	AttendanceActionRetry  = "retry"
)

// AttendanceViewChange is one user interaction with the attendance filter.
type AttendanceViewChange struct {
	Action    string `json:"action" validate:"required,oneof=toggle mode date range retry"`
	Mode      string `json:"mode" validate:"omitempty,oneof=single range"`
	Date      string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	StartDate string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
}

// SchoolListViewCreateRequest opens a school list view.
type SchoolListViewCreateRequest struct {
	Limit    int    `json:"limit" validate:"omitempty,gt=0"`
	Province string `json:"province" validate:"omitempty,numeric"`
	District string `json:"district" validate:"omitempty,numeric"`
}

// School list view actions.
const (
	SchoolListActionProvince = "province"
	SchoolListActionDistrict = "district"
	SchoolListActionLimit    = "limit"
	SchoolListActionPage     = "page"
	SchoolListActionRetry    = "retry"
)

// SchoolListViewChange is one user interaction with the school list.
type SchoolListViewChange struct {
	Action   string `json:"action" validate:"required,oneof=province district limit page retry"`
	Province string `json:"province" validate:"omitempty,numeric"`
	District string `json:"district" validate:"omitempty,numeric"`
	Limit    int    `json:"limit" validate:"omitempty,gt=0"`
	Page     int    `json:"page"`
}

// ViewSessionResponse pairs a view session id with the view's state.
type ViewSessionResponse struct {
	ID    string      `json:"id"`
	State interface{} `json:"state"`
}

// ResponsibilitiesResponse is returned by the responsibilities endpoint.
// Responsibilities is null for users without an officer role.
type ResponsibilitiesResponse struct {
	HasOfficerRole   bool                     `json:"hasOfficerRole"`
	Responsibilities *models.Responsibilities `json:"responsibilities"`
}
