package schoolapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/attendance-dashboard-gateway/internal/models"
	appErrors "github.com/noah-isme/attendance-dashboard-gateway/pkg/errors"
	"github.com/noah-isme/attendance-dashboard-gateway/pkg/middleware/requestid"
)

type recordingObserver struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingObserver) ObserveUpstreamCall(operation, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, operation+":"+outcome)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *recordingObserver) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	observer := &recordingObserver{}
	return New(Options{BaseURL: srv.URL + "/", Timeout: time.Second, Observer: observer}), observer
}

func TestSchoolAttendanceCountWithDatesSingleDate(t *testing.T) {
	client, observer := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/schools/42/attendance-count/filtered", r.URL.Path)
		assert.Equal(t, "2024-03-01", r.URL.Query().Get("date"))
		assert.Empty(t, r.URL.Query().Get("startDate"))
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		assert.Equal(t, "req-9", r.Header.Get(requestid.Header))
		_, _ = w.Write([]byte(`{"success":true,"data":{"totalStudents":40,"studentAttendanceCount":30,"studentLateCount":2}}`))
	})

	ctx := WithToken(requestid.WithID(context.Background(), "req-9"), "token-1")
	result, err := client.SchoolAttendanceCountWithDates(ctx, 42, models.DateFilter{Date: "2024-03-01"})
	require.NoError(t, err)
	assert.Equal(t, 40, result.TotalStudents)
	assert.Equal(t, 30, result.StudentAttendanceCount)
	assert.Equal(t, 2, result.StudentLateCount)
	assert.Equal(t, []string{"school_attendance_count_dates:ok"}, observer.calls)
}

func TestSchoolAttendanceCountWithDatesNoFilter(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"success":true,"data":{"totalStudents":1}}`))
	})

	_, err := client.SchoolAttendanceCountWithDates(context.Background(), 1, models.DateFilter{})
	require.NoError(t, err)
}

func TestSuccessFalseIsRejected(t *testing.T) {
	client, observer := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"school archived"}`))
	})

	_, err := client.SchoolAttendanceCountWithDates(context.Background(), 7, models.DateFilter{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrUpstreamRejected))
	assert.True(t, appErrors.IsRetryable(err))
	assert.Equal(t, "school archived", appErrors.FromError(err).Message)
	assert.Equal(t, []string{"school_attendance_count_dates:rejected"}, observer.calls)
}

func TestServerErrorIsUnavailable(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.SchoolByID(context.Background(), 7)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrUpstreamUnavailable))
}

func TestTransportErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := New(Options{BaseURL: srv.URL, Timeout: time.Second})

	_, err := client.Provinces(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrUpstreamUnavailable))
	assert.True(t, appErrors.IsRetryable(err))
}

func TestNotFoundAndUnauthorized(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/me" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"message":"no such district"}`))
	})

	_, err := client.DistrictName(context.Background(), 3, 12, "kh")
	assert.True(t, IsNotFound(err))

	_, err = client.CurrentUser(context.Background())
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}

func TestSchoolIDsOmitsAbsentFilters(t *testing.T) {
	province := 3
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "10", q.Get("limit"))
		assert.Equal(t, "3", q.Get("provinceId"))
		_, hasDistrict := q["districtId"]
		assert.False(t, hasDistrict)
		_, _ = w.Write([]byte(`{"success":true,"data":{"schoolIds":[5,null,7],"totalSchools":2,"page":2,"totalPages":4}}`))
	})

	page, err := client.SchoolIDs(context.Background(), SchoolIDParams{Page: 2, Limit: 10, ProvinceID: &province})
	require.NoError(t, err)
	assert.Len(t, page.SchoolIDs, 3)
	assert.Nil(t, page.SchoolIDs[1])
	assert.Equal(t, []int{5, 7}, page.PresentIDs())
}

func TestSchoolAttendanceCountWithoutSuccessFlag(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/schools/9/attendance-count", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":{"studentAttendanceCount":3,"teacherAttendanceCount":1,"totalAttendanceCount":4}}`))
	})

	totals, err := client.SchoolAttendanceCount(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, 4, totals.TotalAttendanceCount)
}

func TestLookupNameLocalized(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/locations/provinces/3/districts/12/communes/99", r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"data":{"name_kh":"","name_en":"Chbar Ampov"}}`))
	})

	name, err := client.CommuneName(context.Background(), 3, 12, 99, "kh")
	require.NoError(t, err)
	assert.Equal(t, "Chbar Ampov", name)
}
