package viewmodel

import (
	"context"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/attendance-dashboard-gateway/internal/dto"
	"github.com/noah-isme/attendance-dashboard-gateway/internal/models"
	appErrors "github.com/noah-isme/attendance-dashboard-gateway/pkg/errors"
)

const schoolListViewName = "schools"

type schoolPager interface {
	ParsePageRequest(req dto.SchoolListRequest) (models.SchoolPageRequest, error)
	FetchPage(ctx context.Context, req models.SchoolPageRequest) (*dto.SchoolPageResponse, error)
	Provinces(ctx context.Context) ([]models.LocationOption, error)
	Districts(ctx context.Context, provinceID int) ([]models.LocationOption, error)
}

// SchoolListState is a snapshot of a SchoolListView.
type SchoolListState struct {
	Page            int                     `json:"page"`
	Limit           int                     `json:"limit"`
	Province        string                  `json:"province"`
	District        string                  `json:"district"`
	ProvinceOptions []models.LocationOption `json:"provinceOptions"`
	DistrictOptions []models.LocationOption `json:"districtOptions"`
	PageState       models.PageState        `json:"pageState"`
	Schools         []models.SchoolSummary  `json:"schools"`
	Summary         dto.SchoolPageSummary   `json:"summary"`
	Loading         bool                    `json:"loading"`
	Error           *appErrors.Error        `json:"error,omitempty"`
	ProvincesError  *appErrors.Error        `json:"provincesError,omitempty"`
	DistrictsError  *appErrors.Error        `json:"districtsError,omitempty"`
	Sequence        uint64                  `json:"sequence"`
}

// SchoolListView holds the paginated school table and its cascading
// province/district filter. Page fetches and district option fetches each
// carry their own sequence so late responses never overwrite newer state.
type SchoolListView struct {
	mu    sync.Mutex
	pager schoolPager
	opts  Options

	page            int
	limit           int
	province        string
	district        string
	provinceOptions []models.LocationOption
	districtOptions []models.LocationOption
	pageState       models.PageState
	schools         []models.SchoolSummary
	summary         dto.SchoolPageSummary
	loading         bool
	err             *appErrors.Error
	provincesErr    *appErrors.Error
	districtsErr    *appErrors.Error
	sequence        uint64
	districtSeq     uint64
}

// NewSchoolListView validates the initial filter and builds a view. No fetch
// is issued until Load.
func NewSchoolListView(pager schoolPager, opts Options, req dto.SchoolListViewCreateRequest) (*SchoolListView, error) {
	opts = opts.withDefaults()
	if err := opts.Validate.Struct(req); err != nil {
		return nil, appErrors.WrapAs(appErrors.ErrValidation, err, "invalid school list view")
	}
	return &SchoolListView{
		pager:    pager,
		opts:     opts,
		page:     1,
		limit:    req.Limit,
		province: req.Province,
		district: req.District,
	}, nil
}

// Load fetches the province options, the district options for the selected
// province and the current page concurrently.
func (v *SchoolListView) Load(ctx context.Context) SchoolListState {
	v.mu.Lock()
	province := v.province
	v.districtSeq++
	dseq := v.districtSeq
	v.mu.Unlock()

	var g errgroup.Group
	g.Go(func() error {
		v.loadProvinces(ctx)
		return nil
	})
	if province != "" {
		g.Go(func() error {
			v.loadDistricts(ctx, province, dseq)
			return nil
		})
	}
	g.Go(func() error {
		v.refresh(ctx, nil)
		return nil
	})
	_ = g.Wait()
	return v.State()
}

// SetProvince selects a province. The district filter and its options are
// cleared before the dependent district fetch is issued.
func (v *SchoolListView) SetProvince(ctx context.Context, province string) SchoolListState {
	v.mu.Lock()
	v.province = province
	v.district = ""
	v.districtOptions = nil
	v.districtsErr = nil
	v.districtSeq++
	dseq := v.districtSeq
	v.mu.Unlock()

	var g errgroup.Group
	if province != "" {
		g.Go(func() error {
			v.loadDistricts(ctx, province, dseq)
			return nil
		})
	}
	g.Go(func() error {
		v.refresh(ctx, func() { v.page = 1 })
		return nil
	})
	_ = g.Wait()
	return v.State()
}

// SetDistrict selects a district within the current province.
func (v *SchoolListView) SetDistrict(ctx context.Context, district string) SchoolListState {
	return v.refresh(ctx, func() {
		v.district = district
		v.page = 1
	})
}

// SetLimit changes the page size and returns to the first page.
func (v *SchoolListView) SetLimit(ctx context.Context, limit int) SchoolListState {
	return v.refresh(ctx, func() {
		v.limit = limit
		v.page = 1
	})
}

// GoToPage moves to page. Pages outside the last reported range are ignored
// and no request is issued; the boolean reports whether a fetch happened.
func (v *SchoolListView) GoToPage(ctx context.Context, page int) (SchoolListState, bool) {
	v.mu.Lock()
	ok := v.pageState.Contains(page)
	v.mu.Unlock()
	if !ok {
		return v.State(), false
	}
	return v.refresh(ctx, func() { v.page = page }), true
}

// Retry re-issues the page fetch for the current filter, along with any
// option fetch whose last attempt failed.
func (v *SchoolListView) Retry(ctx context.Context) SchoolListState {
	v.mu.Lock()
	retryProvinces := v.provincesErr != nil
	province := v.province
	retryDistricts := v.districtsErr != nil && province != ""
	var dseq uint64
	if retryDistricts {
		v.districtSeq++
		dseq = v.districtSeq
	}
	v.mu.Unlock()

	var g errgroup.Group
	if retryProvinces {
		g.Go(func() error {
			v.loadProvinces(ctx)
			return nil
		})
	}
	if retryDistricts {
		g.Go(func() error {
			v.loadDistricts(ctx, province, dseq)
			return nil
		})
	}
	g.Go(func() error {
		v.refresh(ctx, nil)
		return nil
	})
	_ = g.Wait()
	return v.State()
}

// Apply dispatches a change received from the dashboard.
func (v *SchoolListView) Apply(ctx context.Context, change dto.SchoolListViewChange) (SchoolListState, error) {
	if err := v.opts.Validate.Struct(change); err != nil {
		return v.State(), appErrors.WrapAs(appErrors.ErrValidation, err, "invalid school list view change")
	}
	switch change.Action {
	case dto.SchoolListActionProvince:
		return v.SetProvince(ctx, change.Province), nil
	case dto.SchoolListActionDistrict:
		return v.SetDistrict(ctx, change.District), nil
	case dto.SchoolListActionLimit:
		if change.Limit <= 0 {
			return v.State(), appErrors.Clone(appErrors.ErrValidation, "limit must be positive")
		}
		return v.SetLimit(ctx, change.Limit), nil
	case dto.SchoolListActionPage:
		state, _ := v.GoToPage(ctx, change.Page)
		return state, nil
	default:
		return v.Retry(ctx), nil
	}
}

// State returns a snapshot of the view.
func (v *SchoolListView) State() SchoolListState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stateLocked()
}

func (v *SchoolListView) refresh(ctx context.Context, mutate func()) SchoolListState {
	v.mu.Lock()
	if mutate != nil {
		mutate()
	}
	v.sequence++
	seq := v.sequence
	raw := dto.SchoolListRequest{Page: v.page, Limit: v.limit, Province: v.province, District: v.district}
	v.loading = true
	v.mu.Unlock()

	page, err := v.fetchPage(ctx, raw)

	v.mu.Lock()
	defer v.mu.Unlock()
	if seq != v.sequence {
		v.opts.recordStale(schoolListViewName)
		v.opts.Logger.Debug("discarding stale school page",
			zap.Uint64("sequence", seq),
			zap.Uint64("latest", v.sequence),
		)
		return v.stateLocked()
	}
	v.loading = false
	if err != nil {
		v.schools = nil
		v.summary = dto.SchoolPageSummary{}
		v.err = appErrors.FromError(err)
		return v.stateLocked()
	}
	v.err = nil
	v.schools = page.Schools
	v.summary = page.Summary
	v.pageState = page.PageState
	if page.PageState.Page > 0 {
		v.page = page.PageState.Page
	}
	if page.PageState.Limit > 0 {
		v.limit = page.PageState.Limit
	}
	return v.stateLocked()
}

func (v *SchoolListView) fetchPage(ctx context.Context, raw dto.SchoolListRequest) (*dto.SchoolPageResponse, error) {
	req, err := v.pager.ParsePageRequest(raw)
	if err != nil {
		return nil, err
	}
	return v.pager.FetchPage(ctx, req)
}

func (v *SchoolListView) loadProvinces(ctx context.Context) {
	options, err := v.pager.Provinces(ctx)
	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.provincesErr = appErrors.FromError(err)
		return
	}
	v.provincesErr = nil
	v.provinceOptions = options
}

func (v *SchoolListView) loadDistricts(ctx context.Context, province string, seq uint64) {
	provinceID, convErr := strconv.Atoi(province)
	var (
		options []models.LocationOption
		err     error
	)
	if convErr != nil || provinceID <= 0 {
		err = appErrors.Clone(appErrors.ErrValidation, "province must be a positive integer")
	} else {
		options, err = v.pager.Districts(ctx, provinceID)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if seq != v.districtSeq {
		v.opts.recordStale(schoolListViewName)
		v.opts.Logger.Debug("discarding stale district options",
			zap.String("province", province),
			zap.Uint64("sequence", seq),
			zap.Uint64("latest", v.districtSeq),
		)
		return
	}
	if err != nil {
		v.districtOptions = nil
		v.districtsErr = appErrors.FromError(err)
		return
	}
	v.districtsErr = nil
	v.districtOptions = options
}

func (v *SchoolListView) stateLocked() SchoolListState {
	return SchoolListState{
		Page:            v.page,
		Limit:           v.limit,
		Province:        v.province,
		District:        v.district,
		ProvinceOptions: v.provinceOptions,
		DistrictOptions: v.districtOptions,
		PageState:       v.pageState,
		Schools:         v.schools,
		Summary:         v.summary,
		Loading:         v.loading,
		Error:           v.err,
		ProvincesError:  v.provincesErr,
		DistrictsError:  v.districtsErr,
		Sequence:        v.sequence,
	}
}
