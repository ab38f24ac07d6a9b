package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/attendance-dashboard-gateway/internal/dto"
	"github.com/noah-isme/attendance-dashboard-gateway/internal/models"
	appErrors "github.com/noah-isme/attendance-dashboard-gateway/pkg/errors"
)

type fakeAttendanceCountSrv struct {
	resp  *dto.AttendanceCountResponse
	hit   bool
	err   error
	query models.AttendanceCountQuery
}

func (f *fakeAttendanceCountSrv) Fetch(_ context.Context, q models.AttendanceCountQuery) (*dto.AttendanceCountResponse, bool, error) {
	f.query = q
	return f.resp, f.hit, f.err
}

func TestAttendanceCountHandlerDefaultsToSingleMode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeAttendanceCountSrv{resp: &dto.AttendanceCountResponse{SchoolID: 5}, hit: true}
	handler := NewAttendanceCountHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Params = gin.Params{{Key: "id", Value: "5"}}
	c.Request = httptest.NewRequest(http.MethodGet, "/schools/5/attendance-count?date=2024-03-01", nil)

	handler.Get(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.AttendanceCountQuery{SchoolID: 5, Mode: models.FilterModeSingle, Date: "2024-03-01"}, srv.query)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	meta := body["meta"].(map[string]interface{})
	assert.Equal(t, true, meta["cache_hit"])
}

func TestAttendanceCountHandlerRangeQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeAttendanceCountSrv{resp: &dto.AttendanceCountResponse{SchoolID: 5}}
	handler := NewAttendanceCountHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Params = gin.Params{{Key: "id", Value: "5"}}
	c.Request = httptest.NewRequest(http.MethodGet, "/schools/5/attendance-count?mode=range&startDate=2024-03-01&endDate=2024-03-07", nil)

	handler.Get(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.FilterModeRange, srv.query.Mode)
	assert.Equal(t, "2024-03-07", srv.query.EndDate)
}

func TestAttendanceCountHandlerRejectsBadID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAttendanceCountHandler(&fakeAttendanceCountSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	c.Request = httptest.NewRequest(http.MethodGet, "/schools/abc/attendance-count", nil)

	handler.Get(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAttendanceCountHandlerUpstreamFailureIsRetryable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAttendanceCountHandler(&fakeAttendanceCountSrv{err: appErrors.Clone(appErrors.ErrUpstreamRejected, "no attendance data")})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Params = gin.Params{{Key: "id", Value: "5"}}
	c.Request = httptest.NewRequest(http.MethodGet, "/schools/5/attendance-count", nil)

	handler.Get(c)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	var body struct {
		Error appErrors.Error `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Error.Retryable)
	assert.Equal(t, "no attendance data", body.Error.Message)
}
