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
	"github.com/noah-isme/attendance-dashboard-gateway/internal/service"
	appErrors "github.com/noah-isme/attendance-dashboard-gateway/pkg/errors"
)

type fakeSchoolListSrv struct {
	page        *dto.SchoolPageResponse
	err         error
	req         models.SchoolPageRequest
	districtFor int
}

func (f *fakeSchoolListSrv) ParsePageRequest(req dto.SchoolListRequest) (models.SchoolPageRequest, error) {
	svc := service.NewSchoolListService(nil, nil, nil, service.SchoolListConfig{})
	return svc.ParsePageRequest(req)
}

func (f *fakeSchoolListSrv) FetchPage(_ context.Context, req models.SchoolPageRequest) (*dto.SchoolPageResponse, error) {
	f.req = req
	return f.page, f.err
}

func (f *fakeSchoolListSrv) Provinces(context.Context) ([]models.LocationOption, error) {
	return []models.LocationOption{{ID: 3, Name: "Kampong Cham"}}, nil
}

func (f *fakeSchoolListSrv) Districts(_ context.Context, provinceID int) ([]models.LocationOption, error) {
	f.districtFor = provinceID
	return []models.LocationOption{{ID: 12, Name: "Batheay"}}, nil
}

type fakeExporter struct {
	format service.ExportFormat
	req    models.SchoolPageRequest
}

func (f *fakeExporter) ExportSchoolPage(_ context.Context, req models.SchoolPageRequest, format service.ExportFormat) (*service.ExportFile, error) {
	f.format = format
	f.req = req
	return &service.ExportFile{Filename: "schools.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.3")}, nil
}

func schoolPage() *dto.SchoolPageResponse {
	return &dto.SchoolPageResponse{
		Schools:   []models.SchoolSummary{{SchoolID: 5, SchoolName: "A"}, models.DegradedSchoolSummary(7)},
		PageState: models.PageState{Page: 2, Limit: 10, TotalPages: 4, TotalSchools: 35},
		Summary:   dto.SchoolPageSummary{TotalSchools: 35, DegradedCount: 1},
	}
}

func TestSchoolHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeSchoolListSrv{page: schoolPage()}
	handler := NewSchoolHandler(srv, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/schools?page=2&limit=10&province=3&district=", nil)

	handler.List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, srv.req.ProvinceID)
	assert.Equal(t, 3, *srv.req.ProvinceID)
	assert.Nil(t, srv.req.DistrictID)

	var body struct {
		Data       dto.SchoolPageResponse `json:"data"`
		Pagination models.Pagination      `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Data.Schools, 2)
	assert.True(t, body.Data.Schools[1].Error)
	assert.Equal(t, 4, body.Pagination.TotalPages)
	assert.Equal(t, 35, body.Pagination.TotalCount)
}

func TestSchoolHandlerListRejectsBadFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeSchoolListSrv{page: schoolPage()}
	handler := NewSchoolHandler(srv, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/schools?province=abc", nil)

	handler.List(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSchoolHandlerListPageFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSchoolHandler(&fakeSchoolListSrv{err: appErrors.ErrUpstreamUnavailable}, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/schools", nil)

	handler.List(c)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestSchoolHandlerExport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	exporter := &fakeExporter{}
	handler := NewSchoolHandler(&fakeSchoolListSrv{}, exporter)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/schools/export?format=pdf&page=3", nil)

	handler.Export(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.ExportFormatPDF, exporter.format)
	assert.Equal(t, 3, exporter.req.Page)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "schools.pdf")
}

func TestSchoolHandlerExportRejectsFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSchoolHandler(&fakeSchoolListSrv{}, &fakeExporter{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/schools/export?format=xlsx", nil)

	handler.Export(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSchoolHandlerDistricts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeSchoolListSrv{}
	handler := NewSchoolHandler(srv, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Params = gin.Params{{Key: "provinceId", Value: "3"}}
	c.Request = httptest.NewRequest(http.MethodGet, "/locations/provinces/3/districts", nil)

	handler.Districts(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, srv.districtFor)
}
