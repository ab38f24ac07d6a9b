package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/attendance-dashboard-gateway/internal/dto"
	"github.com/noah-isme/attendance-dashboard-gateway/internal/middleware"
	"github.com/noah-isme/attendance-dashboard-gateway/internal/models"
	appErrors "github.com/noah-isme/attendance-dashboard-gateway/pkg/errors"
	"github.com/noah-isme/attendance-dashboard-gateway/pkg/response"
)

type attendanceCountService interface {
	Fetch(ctx context.Context, query models.AttendanceCountQuery) (*dto.AttendanceCountResponse, bool, error)
}

// AttendanceCountHandler serves per-school attendance counts.
type AttendanceCountHandler struct {
	service attendanceCountService
}

// NewAttendanceCountHandler constructs the handler.
func NewAttendanceCountHandler(service attendanceCountService) *AttendanceCountHandler {
	return &AttendanceCountHandler{service: service}
}

// Get godoc
// @Summary Attendance count for a school
// @Tags Attendance
// @Produce json
// @Param id path int true "School ID"
// @Param mode query string false "single or range" default(single)
// @Param date query string false "Date (YYYY-MM-DD) for single mode. Defaults to today"
// @Param startDate query string false "Range start (YYYY-MM-DD)"
// @Param endDate query string false "Range end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /schools/{id}/attendance-count [get]
func (h *AttendanceCountHandler) Get(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	schoolID, err := positiveIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.AttendanceCountRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.WrapAs(appErrors.ErrValidation, err, "invalid query parameters"))
		return
	}
	mode := models.FilterMode(req.Mode)
	if mode == "" {
		mode = models.FilterModeSingle
	}

	result, cacheHit, err := h.service.Fetch(c.Request.Context(), models.AttendanceCountQuery{
		SchoolID:  schoolID,
		Mode:      mode,
		Date:      req.Date,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, result, nil, middleware.ResponseMeta(c))
}
