package models

import "fmt"

// SchoolSummary is one row of a school list page. Error marks a degraded
// entry whose counts could not be resolved and were zeroed.
type SchoolSummary struct {
	SchoolID               int    `json:"schoolId"`
	SchoolName             string `json:"schoolName"`
	StudentAttendanceCount int    `json:"studentAttendanceCount"`
	TeacherAttendanceCount int    `json:"teacherAttendanceCount"`
	TotalAttendanceCount   int    `json:"totalAttendanceCount"`
	Error                  bool   `json:"error"`
}

// DegradedSchoolSummary builds the placeholder used when lookups for id failed.
func DegradedSchoolSummary(id int) SchoolSummary {
	return SchoolSummary{SchoolID: id, SchoolName: FallbackSchoolName(id), Error: true}
}

// FallbackSchoolName labels a school whose metadata carries no name.
func FallbackSchoolName(id int) string {
	return fmt.Sprintf("School %d", id)
}

// PageState is the server-reported pagination cursor.
type PageState struct {
	Page         int `json:"page"`
	Limit        int `json:"limit"`
	TotalPages   int `json:"totalPages"`
	TotalSchools int `json:"totalSchools"`
}

// Contains reports whether page is a valid target for this cursor.
func (p PageState) Contains(page int) bool {
	return page >= 1 && page <= p.TotalPages
}

// Pagination is the envelope pagination block.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

// Pagination converts the cursor into the envelope pagination block.
func (p PageState) Pagination() *Pagination {
	return &Pagination{Page: p.Page, PageSize: p.Limit, TotalCount: p.TotalSchools, TotalPages: p.TotalPages}
}

// SchoolPageRequest selects one page of schools. Nil location filters are
// omitted from the upstream request.
type SchoolPageRequest struct {
	Page       int
	Limit      int
	ProvinceID *int
	DistrictID *int
}

// SchoolIDPage is the raw upstream page of school ids. Ids may be null.
type SchoolIDPage struct {
	SchoolIDs                    []*int `json:"schoolIds"`
	TotalSchools                 int    `json:"totalSchools"`
	SchoolsWithStudentAttendance int    `json:"schoolsWithStudentAttendance"`
	SchoolsWithTeacherAttendance int    `json:"schoolsWithTeacherAttendance"`
	Page                         int    `json:"page"`
	TotalPages                   int    `json:"totalPages"`
}

// PresentIDs returns the non-null ids in their original order.
func (p SchoolIDPage) PresentIDs() []int {
	ids := make([]int, 0, len(p.SchoolIDs))
	for _, id := range p.SchoolIDs {
		if id != nil {
			ids = append(ids, *id)
		}
	}
	return ids
}

// SchoolDetail carries the school metadata needed for display.
type SchoolDetail struct {
	ID     int    `json:"id"`
	NameKH string `json:"school_name_kh"`
	NameEN string `json:"school_name_en"`
	Name   string `json:"name"`
}

// DisplayName prefers the Khmer name, then English, then the generic name.
func (d SchoolDetail) DisplayName() string {
	switch {
	case d.NameKH != "":
		return d.NameKH
	case d.NameEN != "":
		return d.NameEN
	case d.Name != "":
		return d.Name
	default:
		return FallbackSchoolName(d.ID)
	}
}

// SchoolAttendanceTotals is the per-school attendance total used in lists.
type SchoolAttendanceTotals struct {
	StudentAttendanceCount int `json:"studentAttendanceCount"`
	TeacherAttendanceCount int `json:"teacherAttendanceCount"`
	TotalAttendanceCount   int `json:"totalAttendanceCount"`
}

// Result carries either a value or the error that prevented producing it.
type Result[T any] struct {
	Value T
	Err   error
}

// OK reports whether the result holds a value.
func (r Result[T]) OK() bool {
	return r.Err == nil
}
