package viewmodel

import (
	"github.com/noah-isme/attendance-dashboard-gateway/internal/dto"
)

// Factory builds view models bound to the gateway services.
type Factory struct {
	attendance attendanceFetcher
	schools    schoolPager
	opts       Options
}

// NewFactory constructs a Factory.
func NewFactory(attendance attendanceFetcher, schools schoolPager, opts Options) *Factory {
	return &Factory{attendance: attendance, schools: schools, opts: opts.withDefaults()}
}

// Attendance builds an attendance count view.
func (f *Factory) Attendance(req dto.AttendanceViewCreateRequest) (*AttendanceCountView, error) {
	return NewAttendanceCountView(f.attendance, f.opts, req)
}

// Schools builds a school list view.
func (f *Factory) Schools(req dto.SchoolListViewCreateRequest) (*SchoolListView, error) {
	return NewSchoolListView(f.schools, f.opts, req)
}
