package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/attendance-dashboard-gateway/internal/dto"
	"github.com/noah-isme/attendance-dashboard-gateway/internal/viewmodel"
	appErrors "github.com/noah-isme/attendance-dashboard-gateway/pkg/errors"
	"github.com/noah-isme/attendance-dashboard-gateway/pkg/response"
)

type viewFactory interface {
	Attendance(req dto.AttendanceViewCreateRequest) (*viewmodel.AttendanceCountView, error)
	Schools(req dto.SchoolListViewCreateRequest) (*viewmodel.SchoolListView, error)
}

// ViewHandler lets the dashboard drive server-held view models over HTTP.
// Each change is applied with the caller's request context, so upstream
// calls carry the caller's token.
type ViewHandler struct {
	factory    viewFactory
	attendance *viewmodel.Registry[*viewmodel.AttendanceCountView]
	schools    *viewmodel.Registry[*viewmodel.SchoolListView]
}

// NewViewHandler constructs the handler.
func NewViewHandler(factory viewFactory, attendance *viewmodel.Registry[*viewmodel.AttendanceCountView], schools *viewmodel.Registry[*viewmodel.SchoolListView]) *ViewHandler {
	return &ViewHandler{factory: factory, attendance: attendance, schools: schools}
}

// CreateAttendance godoc
// @Summary Open an attendance count view
// @Tags Views
// @Accept json
// @Produce json
// @Param payload body dto.AttendanceViewCreateRequest true "Initial filter"
// @Success 201 {object} response.Envelope
// @Router /views/attendance [post]
func (h *ViewHandler) CreateAttendance(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req dto.AttendanceViewCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.WrapAs(appErrors.ErrValidation, err, "invalid payload"))
		return
	}
	view, err := h.factory.Attendance(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	state := view.Load(c.Request.Context())
	id := h.attendance.Create(claims.UserID, view)
	response.Created(c, dto.ViewSessionResponse{ID: id, State: state})
}

// GetAttendance godoc
// @Summary Read an attendance count view
// @Tags Views
// @Produce json
// @Param id path string true "View session ID"
// @Success 200 {object} response.Envelope
// @Router /views/attendance/{id} [get]
func (h *ViewHandler) GetAttendance(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	view, err := h.attendance.Get(c.Param("id"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ViewSessionResponse{ID: c.Param("id"), State: view.State()})
}

// UpdateAttendance godoc
// @Summary Apply a filter change to an attendance count view
// @Tags Views
// @Accept json
// @Produce json
// @Param id path string true "View session ID"
// @Param payload body dto.AttendanceViewChange true "Change"
// @Success 200 {object} response.Envelope
// @Router /views/attendance/{id} [patch]
func (h *ViewHandler) UpdateAttendance(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	view, err := h.attendance.Get(c.Param("id"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	var change dto.AttendanceViewChange
	if err := c.ShouldBindJSON(&change); err != nil {
		response.Error(c, appErrors.WrapAs(appErrors.ErrValidation, err, "invalid payload"))
		return
	}
	state, err := view.Apply(c.Request.Context(), change)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ViewSessionResponse{ID: c.Param("id"), State: state})
}

// DeleteAttendance godoc
// @Summary Close an attendance count view
// @Tags Views
// @Param id path string true "View session ID"
// @Success 204
// @Router /views/attendance/{id} [delete]
func (h *ViewHandler) DeleteAttendance(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	if err := h.attendance.Delete(c.Param("id"), claims.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CreateSchools godoc
// @Summary Open a school list view
// @Tags Views
// @Accept json
// @Produce json
// @Param payload body dto.SchoolListViewCreateRequest true "Initial filter"
// @Success 201 {object} response.Envelope
// @Router /views/schools [post]
func (h *ViewHandler) CreateSchools(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req dto.SchoolListViewCreateRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.WrapAs(appErrors.ErrValidation, err, "invalid payload"))
			return
		}
	}
	view, err := h.factory.Schools(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	state := view.Load(c.Request.Context())
	id := h.schools.Create(claims.UserID, view)
	response.Created(c, dto.ViewSessionResponse{ID: id, State: state})
}

// GetSchools godoc
// @Summary Read a school list view
// @Tags Views
// @Produce json
// @Param id path string true "View session ID"
// @Success 200 {object} response.Envelope
// @Router /views/schools/{id} [get]
func (h *ViewHandler) GetSchools(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	view, err := h.schools.Get(c.Param("id"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ViewSessionResponse{ID: c.Param("id"), State: view.State()})
}

// UpdateSchools godoc
// @Summary Apply a filter or paging change to a school list view
// @Description Page changes outside the known page range are ignored.
// @Tags Views
// @Accept json
// @Produce json
// @Param id path string true "View session ID"
// @Param payload body dto.SchoolListViewChange true "Change"
// @Success 200 {object} response.Envelope
// @Router /views/schools/{id} [patch]
func (h *ViewHandler) UpdateSchools(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	view, err := h.schools.Get(c.Param("id"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	var change dto.SchoolListViewChange
	if err := c.ShouldBindJSON(&change); err != nil {
		response.Error(c, appErrors.WrapAs(appErrors.ErrValidation, err, "invalid payload"))
		return
	}
	state, err := view.Apply(c.Request.Context(), change)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ViewSessionResponse{ID: c.Param("id"), State: state})
}

// DeleteSchools godoc
// @Summary Close a school list view
// @Tags Views
// @Param id path string true "View session ID"
// @Success 204
// @Router /views/schools/{id} [delete]
func (h *ViewHandler) DeleteSchools(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	if err := h.schools.Delete(c.Param("id"), claims.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
