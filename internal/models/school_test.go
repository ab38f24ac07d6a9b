package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchoolDetailDisplayName(t *testing.T) {
	assert.Equal(t, "សាលា", SchoolDetail{ID: 1, NameKH: "សាលា", NameEN: "School A"}.DisplayName())
	assert.Equal(t, "School A", SchoolDetail{ID: 1, NameEN: "School A", Name: "a"}.DisplayName())
	assert.Equal(t, "a", SchoolDetail{ID: 1, Name: "a"}.DisplayName())
	assert.Equal(t, "School 9", SchoolDetail{ID: 9}.DisplayName())
}

func TestSchoolIDPagePresentIDs(t *testing.T) {
	one, three := 1, 3
	page := SchoolIDPage{SchoolIDs: []*int{&one, nil, &three, nil}}
	assert.Equal(t, []int{1, 3}, page.PresentIDs())
	assert.Empty(t, SchoolIDPage{}.PresentIDs())
}

func TestPageStateContainsAndPagination(t *testing.T) {
	state := PageState{Page: 2, Limit: 10, TotalPages: 4, TotalSchools: 35}
	assert.False(t, state.Contains(0))
	assert.True(t, state.Contains(1))
	assert.True(t, state.Contains(4))
	assert.False(t, state.Contains(5))
	assert.Equal(t, &Pagination{Page: 2, PageSize: 10, TotalCount: 35, TotalPages: 4}, state.Pagination())
}

func TestDegradedSchoolSummary(t *testing.T) {
	s := DegradedSchoolSummary(7)
	assert.True(t, s.Error)
	assert.Equal(t, "School 7", s.SchoolName)
	assert.Zero(t, s.TotalAttendanceCount)
}
