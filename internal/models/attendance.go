package models

import (
	"fmt"
	"math"
	"time"
)

// DateLayout is the ISO date format exchanged with the dashboard and the school API.
const DateLayout = "2006-01-02"

// FilterMode selects between a single-day and a date-range attendance query.
type FilterMode string

const (
	FilterModeSingle FilterMode = "single"
	FilterModeRange  FilterMode = "range"
)

// Toggle flips single and range.
func (m FilterMode) Toggle() FilterMode {
	if m == FilterModeRange {
		return FilterModeSingle
	}
	return FilterModeRange
}

// AttendanceCountQuery describes one attendance count request for a school.
type AttendanceCountQuery struct {
	SchoolID  int        `json:"schoolId" validate:"required,gt=0"`
	Mode      FilterMode `json:"mode" validate:"required,oneof=single range"`
	Date      string     `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	StartDate string     `json:"startDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string     `json:"endDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// DateFilter is the date portion of an attendance count query as sent upstream.
// A zero value means no date filter.
type DateFilter struct {
	Date      string
	StartDate string
	EndDate   string
}

// IsZero reports whether no date constraint is set.
func (f DateFilter) IsZero() bool {
	return f.Date == "" && f.StartDate == "" && f.EndDate == ""
}

// Filter returns the upstream date filter for the query mode. Dates belonging
// to the inactive mode are ignored.
func (q AttendanceCountQuery) Filter() DateFilter {
	if q.Mode == FilterModeRange {
		return DateFilter{StartDate: q.StartDate, EndDate: q.EndDate}
	}
	return DateFilter{Date: q.Date}
}

// CacheKey identifies the query for read-through caching.
func (q AttendanceCountQuery) CacheKey() string {
	f := q.Filter()
	return fmt.Sprintf("att:count:%d:%s:%s:%s:%s", q.SchoolID, q.Mode, f.Date, f.StartDate, f.EndDate)
}

// RangeOrdered reports whether start precedes or equals end when both are set.
func (q AttendanceCountQuery) RangeOrdered() bool {
	if q.StartDate == "" || q.EndDate == "" {
		return true
	}
	start, err := time.Parse(DateLayout, q.StartDate)
	if err != nil {
		return false
	}
	end, err := time.Parse(DateLayout, q.EndDate)
	if err != nil {
		return false
	}
	return !end.Before(start)
}

// AttendanceCountResult is the attendance count payload reported by the school API.
type AttendanceCountResult struct {
	TotalStudents          int `json:"totalStudents"`
	TotalTeachers          int `json:"totalTeachers"`
	StudentAttendanceCount int `json:"studentAttendanceCount"`
	TeacherAttendanceCount int `json:"teacherAttendanceCount"`
	TotalAttendanceCount   int `json:"totalAttendanceCount"`
	StudentPresentCount    int `json:"studentPresentCount"`
	StudentAbsentCount     int `json:"studentAbsentCount"`
	StudentLateCount       int `json:"studentLateCount"`
	StudentLeaveCount      int `json:"studentLeaveCount"`
	TeacherPresentCount    int `json:"teacherPresentCount"`
	TeacherAbsentCount     int `json:"teacherAbsentCount"`
	TeacherLateCount       int `json:"teacherLateCount"`
	TeacherLeaveCount      int `json:"teacherLeaveCount"`
}

// StatusBreakdown splits a role's attendance records by status.
type StatusBreakdown struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Late    int `json:"late"`
	Leave   int `json:"leave"`
}

// RoleCoverage summarises attendance taking for one population (students or teachers).
type RoleCoverage struct {
	Total       int             `json:"total"`
	Taken       int             `json:"taken"`
	NotTaken    int             `json:"notTaken"`
	CoveragePct int             `json:"coveragePct"`
	Breakdown   StatusBreakdown `json:"breakdown"`
}

// StudentCoverage derives student coverage from the result.
func (r AttendanceCountResult) StudentCoverage() RoleCoverage {
	return newRoleCoverage(r.TotalStudents, r.StudentAttendanceCount, StatusBreakdown{
		Present: r.StudentPresentCount,
		Absent:  r.StudentAbsentCount,
		Late:    r.StudentLateCount,
		Leave:   r.StudentLeaveCount,
	})
}

// TeacherCoverage derives teacher coverage from the result.
func (r AttendanceCountResult) TeacherCoverage() RoleCoverage {
	return newRoleCoverage(r.TotalTeachers, r.TeacherAttendanceCount, StatusBreakdown{
		Present: r.TeacherPresentCount,
		Absent:  r.TeacherAbsentCount,
		Late:    r.TeacherLateCount,
		Leave:   r.TeacherLeaveCount,
	})
}

func newRoleCoverage(total, taken int, breakdown StatusBreakdown) RoleCoverage {
	notTaken := total - taken
	if notTaken < 0 {
		notTaken = 0
	}
	return RoleCoverage{
		Total:       total,
		Taken:       taken,
		NotTaken:    notTaken,
		CoveragePct: CoveragePercent(taken, total),
		Breakdown:   breakdown,
	}
}

// CoveragePercent returns round(taken/total*100), or 0 when total is not positive.
func CoveragePercent(taken, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(taken) / float64(total) * 100))
}
