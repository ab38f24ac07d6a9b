package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/attendance-dashboard-gateway/internal/dto"
	"github.com/noah-isme/attendance-dashboard-gateway/internal/middleware"
	"github.com/noah-isme/attendance-dashboard-gateway/internal/models"
	"github.com/noah-isme/attendance-dashboard-gateway/internal/service"
	appErrors "github.com/noah-isme/attendance-dashboard-gateway/pkg/errors"
	"github.com/noah-isme/attendance-dashboard-gateway/pkg/response"
)

type schoolListService interface {
	ParsePageRequest(req dto.SchoolListRequest) (models.SchoolPageRequest, error)
	FetchPage(ctx context.Context, req models.SchoolPageRequest) (*dto.SchoolPageResponse, error)
	Provinces(ctx context.Context) ([]models.LocationOption, error)
	Districts(ctx context.Context, provinceID int) ([]models.LocationOption, error)
}

type schoolExporter interface {
	ExportSchoolPage(ctx context.Context, req models.SchoolPageRequest, format service.ExportFormat) (*service.ExportFile, error)
}

// SchoolHandler serves the school list, its export and the location filter options.
type SchoolHandler struct {
	schools  schoolListService
	exporter schoolExporter
}

// NewSchoolHandler constructs the handler.
func NewSchoolHandler(schools schoolListService, exporter schoolExporter) *SchoolHandler {
	return &SchoolHandler{schools: schools, exporter: exporter}
}

// List godoc
// @Summary Paginated school attendance summaries
// @Description Entries whose lookups failed are returned with error=true and zero counts.
// @Tags Schools
// @Produce json
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size"
// @Param province query string false "Province ID"
// @Param district query string false "District ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /schools [get]
func (h *SchoolHandler) List(c *gin.Context) {
	req, ok := h.bindPageRequest(c)
	if !ok {
		return
	}
	page, err := h.schools.FetchPage(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetDegradedCount(c, page.Summary.DegradedCount)
	response.JSON(c, http.StatusOK, page, page.PageState.Pagination(), middleware.ResponseMeta(c))
}

// Export godoc
// @Summary Export a page of school summaries
// @Tags Schools
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size"
// @Param province query string false "Province ID"
// @Param district query string false "District ID"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /schools/export [get]
func (h *SchoolHandler) Export(c *gin.Context) {
	if h.exporter == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	req, ok := h.bindPageRequest(c)
	if !ok {
		return
	}
	file, err := h.exporter.ExportSchoolPage(c.Request.Context(), req, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}

// Provinces godoc
// @Summary Province filter options
// @Tags Locations
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /locations/provinces [get]
func (h *SchoolHandler) Provinces(c *gin.Context) {
	if h.schools == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	options, err := h.schools.Provinces(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, options)
}

// Districts godoc
// @Summary District filter options for a province
// @Tags Locations
// @Produce json
// @Param provinceId path int true "Province ID"
// @Success 200 {object} response.Envelope
// @Router /locations/provinces/{provinceId}/districts [get]
func (h *SchoolHandler) Districts(c *gin.Context) {
	if h.schools == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	provinceID, err := positiveIDParam(c, "provinceId")
	if err != nil {
		response.Error(c, err)
		return
	}
	options, err := h.schools.Districts(c.Request.Context(), provinceID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, options)
}

func (h *SchoolHandler) bindPageRequest(c *gin.Context) (models.SchoolPageRequest, bool) {
	if h.schools == nil {
		response.Error(c, appErrors.ErrInternal)
		return models.SchoolPageRequest{}, false
	}
	var raw dto.SchoolListRequest
	if err := c.ShouldBindQuery(&raw); err != nil {
		response.Error(c, appErrors.WrapAs(appErrors.ErrValidation, err, "invalid query parameters"))
		return models.SchoolPageRequest{}, false
	}
	req, err := h.schools.ParsePageRequest(raw)
	if err != nil {
		response.Error(c, err)
		return models.SchoolPageRequest{}, false
	}
	return req, true
}
