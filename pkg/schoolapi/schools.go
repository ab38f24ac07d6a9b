package schoolapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/noah-isme/attendance-dashboard-gateway/internal/models"
)

// SchoolIDParams are the query parameters for a school id page. Nil filters
// are left out of the request.
type SchoolIDParams struct {
	Page       int
	Limit      int
	ProvinceID *int
	DistrictID *int
}

// SchoolAttendanceCountWithDates returns the detailed attendance count for a
// school, filtered by a single date or a date range. A zero filter lets the
// school service apply its default day.
func (c *Client) SchoolAttendanceCountWithDates(ctx context.Context, schoolID int, filter models.DateFilter) (*models.AttendanceCountResult, error) {
	query := url.Values{}
	if filter.Date != "" {
		query.Set("date", filter.Date)
	}
	if filter.StartDate != "" {
		query.Set("startDate", filter.StartDate)
	}
	if filter.EndDate != "" {
		query.Set("endDate", filter.EndDate)
	}
	var result models.AttendanceCountResult
	if err := c.get(ctx, "school_attendance_count_dates", fmt.Sprintf("/schools/%d/attendance-count/filtered", schoolID), query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SchoolAttendanceCount returns the attendance totals for a school.
func (c *Client) SchoolAttendanceCount(ctx context.Context, schoolID int) (*models.SchoolAttendanceTotals, error) {
	var totals models.SchoolAttendanceTotals
	if err := c.get(ctx, "school_attendance_count", fmt.Sprintf("/schools/%d/attendance-count", schoolID), nil, &totals); err != nil {
		return nil, err
	}
	return &totals, nil
}

// SchoolIDs returns a page of school ids with page level aggregates.
func (c *Client) SchoolIDs(ctx context.Context, params SchoolIDParams) (*models.SchoolIDPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(params.Page))
	query.Set("limit", strconv.Itoa(params.Limit))
	if params.ProvinceID != nil {
		query.Set("provinceId", strconv.Itoa(*params.ProvinceID))
	}
	if params.DistrictID != nil {
		query.Set("districtId", strconv.Itoa(*params.DistrictID))
	}
	var page models.SchoolIDPage
	if err := c.get(ctx, "school_ids", "/schools/ids", query, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SchoolByID returns school metadata.
func (c *Client) SchoolByID(ctx context.Context, schoolID int) (*models.SchoolDetail, error) {
	var detail models.SchoolDetail
	if err := c.get(ctx, "school_by_id", fmt.Sprintf("/schools/%d", schoolID), nil, &detail); err != nil {
		return nil, err
	}
	if detail.ID == 0 {
		detail.ID = schoolID
	}
	return &detail, nil
}

// CurrentUser returns the record of the user owning the forwarded token.
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.get(ctx, "current_user", "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
