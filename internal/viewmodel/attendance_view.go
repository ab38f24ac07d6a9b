package viewmodel

import (
	"context"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/attendance-dashboard-gateway/internal/dto"
	"github.com/noah-isme/attendance-dashboard-gateway/internal/models"
	appErrors "github.com/noah-isme/attendance-dashboard-gateway/pkg/errors"
)

const attendanceViewName = "attendance"

type attendanceFetcher interface {
	Fetch(ctx context.Context, query models.AttendanceCountQuery) (*dto.AttendanceCountResponse, bool, error)
}

type staleRecorder interface {
	RecordStaleResponse(view string)
}

// Options carries the collaborators shared by all view models.
type Options struct {
	Validate *validator.Validate
	Stale    staleRecorder
	Logger   *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Validate == nil {
		o.Validate = validator.New()
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

func (o Options) recordStale(view string) {
	if o.Stale != nil {
		o.Stale.RecordStaleResponse(view)
	}
}

// AttendanceState is a snapshot of an AttendanceCountView.
type AttendanceState struct {
	SchoolID  int                          `json:"schoolId"`
	Mode      models.FilterMode            `json:"mode"`
	Date      string                       `json:"date"`
	StartDate string                       `json:"startDate"`
	EndDate   string                       `json:"endDate"`
	Loading   bool                         `json:"loading"`
	Result    *dto.AttendanceCountResponse `json:"result"`
	Error     *appErrors.Error             `json:"error,omitempty"`
	Sequence  uint64                       `json:"sequence"`
}

// AttendanceCountView holds the attendance filter of one school panel. The
// single date and the range are stored independently so toggling the mode
// restores the previous selection. Every change issues exactly one fetch and
// only the response to the most recently issued fetch is applied.
type AttendanceCountView struct {
	mu      sync.Mutex
	fetcher attendanceFetcher
	opts    Options

	schoolID  int
	mode      models.FilterMode
	date      string
	startDate string
	endDate   string
	loading   bool
	result    *dto.AttendanceCountResponse
	err       *appErrors.Error
	sequence  uint64
}

// NewAttendanceCountView validates the initial filter and builds a view. No
// fetch is issued until Load.
func NewAttendanceCountView(fetcher attendanceFetcher, opts Options, req dto.AttendanceViewCreateRequest) (*AttendanceCountView, error) {
	opts = opts.withDefaults()
	if err := opts.Validate.Struct(req); err != nil {
		return nil, appErrors.WrapAs(appErrors.ErrValidation, err, "invalid attendance view")
	}
	mode := models.FilterMode(req.Mode)
	if mode == "" {
		mode = models.FilterModeSingle
	}
	return &AttendanceCountView{
		fetcher:   fetcher,
		opts:      opts,
		schoolID:  req.SchoolID,
		mode:      mode,
		date:      req.Date,
		startDate: req.StartDate,
		endDate:   req.EndDate,
	}, nil
}

// Load issues the fetch for the current filter.
func (v *AttendanceCountView) Load(ctx context.Context) AttendanceState {
	return v.refresh(ctx, nil)
}

// Retry re-issues the fetch for the current filter.
func (v *AttendanceCountView) Retry(ctx context.Context) AttendanceState {
	return v.refresh(ctx, nil)
}

// Toggle switches between single and range mode.
func (v *AttendanceCountView) Toggle(ctx context.Context) AttendanceState {
	return v.refresh(ctx, func() { v.mode = v.mode.Toggle() })
}

// SetMode selects mode. Selecting the active mode is not a change.
func (v *AttendanceCountView) SetMode(ctx context.Context, mode models.FilterMode) AttendanceState {
	v.mu.Lock()
	same := v.mode == mode
	v.mu.Unlock()
	if same {
		return v.State()
	}
	return v.refresh(ctx, func() { v.mode = mode })
}

// SetDate updates the single-day date. An empty date asks for today.
func (v *AttendanceCountView) SetDate(ctx context.Context, date string) AttendanceState {
	return v.refresh(ctx, func() { v.date = date })
}

// SetRange updates the date range.
func (v *AttendanceCountView) SetRange(ctx context.Context, start, end string) AttendanceState {
	return v.refresh(ctx, func() {
		v.startDate = start
		v.endDate = end
	})
}

// Apply dispatches a change received from the dashboard.
func (v *AttendanceCountView) Apply(ctx context.Context, change dto.AttendanceViewChange) (AttendanceState, error) {
	if err := v.opts.Validate.Struct(change); err != nil {
		return v.State(), appErrors.WrapAs(appErrors.ErrValidation, err, "invalid attendance view change")
	}
	switch change.Action {
	case dto.AttendanceActionToggle:
		return v.Toggle(ctx), nil
	case dto.AttendanceActionMode:
		if change.Mode == "" {
			return v.State(), appErrors.Clone(appErrors.ErrValidation, "mode is required")
		}
		return v.SetMode(ctx, models.FilterMode(change.Mode)), nil
	case dto.AttendanceActionDate:
		return v.SetDate(ctx, change.Date), nil
	case dto.AttendanceActionRange:
		return v.SetRange(ctx, change.StartDate, change.EndDate), nil
	default:
		return v.Retry(ctx), nil
	}
}

// State returns a snapshot of the view.
func (v *AttendanceCountView) State() AttendanceState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stateLocked()
}

func (v *AttendanceCountView) refresh(ctx context.Context, mutate func()) AttendanceState {
	v.mu.Lock()
	if mutate != nil {
		mutate()
	}
	v.sequence++
	seq := v.sequence
	query := models.AttendanceCountQuery{
		SchoolID:  v.schoolID,
		Mode:      v.mode,
		Date:      v.date,
		StartDate: v.startDate,
		EndDate:   v.endDate,
	}
	v.loading = true
	v.mu.Unlock()

	result, _, err := v.fetcher.Fetch(ctx, query)

	v.mu.Lock()
	defer v.mu.Unlock()
	if seq != v.sequence {
		v.opts.recordStale(attendanceViewName)
		v.opts.Logger.Debug("discarding stale attendance response",
			zap.Int("school_id", query.SchoolID),
			zap.Uint64("sequence", seq),
			zap.Uint64("latest", v.sequence),
		)
		return v.stateLocked()
	}
	v.loading = false
	if err != nil {
		v.result = nil
		v.err = appErrors.FromError(err)
		return v.stateLocked()
	}
	v.result = result
	v.err = nil
	return v.stateLocked()
}

func (v *AttendanceCountView) stateLocked() AttendanceState {
	return AttendanceState{
		SchoolID:  v.schoolID,
		Mode:      v.mode,
		Date:      v.date,
		StartDate: v.startDate,
		EndDate:   v.endDate,
		Loading:   v.loading,
		Result:    v.result,
		Error:     v.err,
		Sequence:  v.sequence,
	}
}
