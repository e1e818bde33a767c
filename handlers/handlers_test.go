package handlers

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"kdsgroup.co.in/hms/middleware"
	"kdsgroup.co.in/hms/models"
	"kdsgroup.co.in/hms/pkg/datatable"
	"kdsgroup.co.in/hms/pkg/estimation"
	"kdsgroup.co.in/hms/pkg/hmsapi"
	"kdsgroup.co.in/hms/pkg/jurisdiction"
	"kdsgroup.co.in/hms/pkg/session"
	"kdsgroup.co.in/hms/pkg/snapshot"
	"kdsgroup.co.in/hms/pkg/storage"
	"kdsgroup.co.in/hms/pkg/submission"
	"kdsgroup.co.in/hms/utils"
)

const testUser = 42

type fakeAPI struct {
	mu    sync.Mutex
	calls map[string]int
	errs  map[string]error

	login        models.LoginResult
	profile      models.UserProfile
	districts    []models.Location
	blocks       map[int][]models.Location
	gps          map[int][]models.Location
	villages     map[int][]models.Location
	requisitions []models.Requisition
	complaints   []models.Complaint
	handpumps    []models.Handpump
	estimations  []models.Estimation
	mbReports    []models.MBReport

	requisitionIn *models.RequisitionInput
	estimationIn  *models.EstimationInput
	remarksIn     *models.MBRemarksInput
	visitIn       *models.VisitReport
}

func (f *fakeAPI) hit(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name]++
	return f.errs[name]
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) fail(name string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errs == nil {
		f.errs = map[string]error{}
	}
	f.errs[name] = err
}

func (f *fakeAPI) Login(_ context.Context, userName, _ string) (models.LoginResult, error) {
	if err := f.hit("login"); err != nil {
		return models.LoginResult{}, err
	}
	return f.login, nil
}

func (f *fakeAPI) GetUserProfile(_ context.Context, userID int) (models.UserProfile, error) {
	if err := f.hit("profile"); err != nil {
		return models.UserProfile{}, err
	}
	p := f.profile
	p.UserID = userID
	return p, nil
}

func (f *fakeAPI) GetDistricts(_ context.Context, _ int) ([]models.Location, error) {
	return f.districts, f.hit("districts")
}

func (f *fakeAPI) GetBlocks(_ context.Context, id int) ([]models.Location, error) {
	return f.blocks[id], f.hit("blocks")
}

func (f *fakeAPI) GetGramPanchayats(_ context.Context, id int) ([]models.Location, error) {
	return f.gps[id], f.hit("gps")
}

func (f *fakeAPI) GetVillages(_ context.Context, id int) ([]models.Location, error) {
	return f.villages[id], f.hit("villages")
}

func (f *fakeAPI) GetRequisitions(_ context.Context, _ int) ([]models.Requisition, error) {
	if err := f.hit("requisitions"); err != nil {
		return nil, err
	}
	return f.requisitions, nil
}

func (f *fakeAPI) GetComplaints(_ context.Context, _ int) ([]models.Complaint, error) {
	if err := f.hit("complaints"); err != nil {
		return nil, err
	}
	return f.complaints, nil
}

func (f *fakeAPI) GetHandpumps(_ context.Context, _ int) ([]models.Handpump, error) {
	if err := f.hit("handpumps"); err != nil {
		return nil, err
	}
	return f.handpumps, nil
}

func (f *fakeAPI) GetEstimations(_ context.Context, _ int) ([]models.Estimation, error) {
	if err := f.hit("estimations"); err != nil {
		return nil, err
	}
	return f.estimations, nil
}

func (f *fakeAPI) GetMBReports(_ context.Context, _ int) ([]models.MBReport, error) {
	if err := f.hit("mbreports"); err != nil {
		return nil, err
	}
	return f.mbReports, nil
}

func (f *fakeAPI) InsertRequisitionDetails(_ context.Context, in models.RequisitionInput) (json.RawMessage, error) {
	f.requisitionIn = &in
	return json.RawMessage(`{"requisitionId":501}`), f.hit("requisition")
}

func (f *fakeAPI) InsertRequisitionEstimation(_ context.Context, in models.EstimationInput) (json.RawMessage, error) {
	f.estimationIn = &in
	return json.RawMessage(`{"estimationId":77}`), f.hit("estimation")
}

func (f *fakeAPI) UpdateMbItemsRemark(_ context.Context, in models.MBRemarksInput) (json.RawMessage, error) {
	f.remarksIn = &in
	return nil, f.hit("remarks")
}

func (f *fakeAPI) InsertHandpumpVisitMonitoring(_ context.Context, in models.VisitReport) (json.RawMessage, error) {
	f.visitIn = &in
	return nil, f.hit("visit")
}

func intPtr(v int) *int { return &v }

func newTestHandlers(t *testing.T, api *fakeAPI) *Handlers {
	t.Helper()
	cat, err := estimation.LoadCatalogue("")
	require.NoError(t, err)

	sessions := session.NewMemoryStore()
	return New(Deps{
		API:         api,
		Auth:        middleware.NewAuth("test-secret", time.Hour, sessions, session.NewSealer("test-key"), zap.NewNop()),
		Snapshots:   snapshot.NewMemoryStore(time.Minute),
		Submissions: submission.NewMemoryRecorder(),
		Uploader:    storage.NewLocalUploader(t.TempDir()),
		Catalogue:   cat,
		CacheTTL:    time.Minute,
		Log:         zap.NewNop(),
	})
}

func authed(r *http.Request, role string) *http.Request {
	return r.WithContext(middleware.WithClaims(r.Context(), &middleware.Claims{
		UserID:    testUser,
		SessionID: "sess-1",
		Role:      role,
	}))
}

func serve(h http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, r)
	return rec
}

func get(t *testing.T, h http.HandlerFunc, target string) *httptest.ResponseRecorder {
	t.Helper()
	return serve(h, authed(httptest.NewRequest(http.MethodGet, target, nil), "DPRO"))
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func seedRequisitions(n int, district string) []models.Requisition {
	out := make([]models.Requisition, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, models.Requisition{
			RequisitionID: i,
			HandpumpCode:  fmt.Sprintf("HP-%03d", i),
			DistrictName:  district,
			Mode:          models.ModeRepair,
		})
	}
	return out
}

func TestListRequisitions_ViewKeepsPageUntilSearchChanges(t *testing.T) {
	api := &fakeAPI{requisitions: seedRequisitions(25, "Prayagraj")}
	h := newTestHandlers(t, api)
	list := h.ListRequisitions()

	rec := get(t, list, "/api/v1/requisitions?limit=10&page=2")
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[listResponse[models.Requisition]](t, rec)
	assert.Equal(t, 25, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 2, page.Page.Page)
	require.Len(t, page.Data, 10)
	assert.Equal(t, 15, page.Data[0].RequisitionID, "newest first")
	assert.Equal(t, "Pending Estimation", page.Data[0].Stage)

	// no page param: the session's view stays on page 2
	page = decode[listResponse[models.Requisition]](t, get(t, list, "/api/v1/requisitions"))
	assert.Equal(t, 2, page.Page.Page)
	assert.Equal(t, 10, page.Limit)

	page = decode[listResponse[models.Requisition]](t, get(t, list, "/api/v1/requisitions?search=hp-02"))
	assert.Equal(t, 1, page.Page.Page)
	assert.Equal(t, 6, page.Total)
	assert.Equal(t, "hp-02", page.Search)

	assert.Equal(t, 1, api.count("requisitions"), "dataset fetched once")
}

func TestListRequisitions_StageFilter(t *testing.T) {
	api := &fakeAPI{requisitions: []models.Requisition{
		{RequisitionID: 1},
		{RequisitionID: 2, CEStatus: models.NewFlag("Approved")},
		{RequisitionID: 3, CEStatus: models.NewFlag("Approved"), OrderID: models.NewFlag(90)},
		{RequisitionID: 4, OrderID: models.NewFlag(91), MBID: models.NewFlag(12)},
	}}
	h := newTestHandlers(t, api)

	page := decode[listResponse[models.Requisition]](t, get(t, h.ListRequisitions(), "/api/v1/requisitions?stage=ordered"))
	require.Len(t, page.Data, 1)
	assert.Equal(t, 3, page.Data[0].RequisitionID)
	assert.Equal(t, "Work Order Issued", page.Data[0].Stage)

	closures := decode[listResponse[models.Requisition]](t, get(t, h.ListClosures(), "/api/v1/closures"))
	assert.Equal(t, 2, closures.Total)
	assert.Equal(t, 1, api.count("requisitions"), "closures share the requisitions slot")
}

func TestList_LockedJurisdictionOverridesClientFilter(t *testing.T) {
	rows := append(seedRequisitions(3, "Prayagraj"), models.Requisition{RequisitionID: 10, DistrictName: "Lucknow"})
	api := &fakeAPI{
		profile:      models.UserProfile{RoleName: "DPRO", DistrictID: intPtr(7), DistrictName: "Prayagraj"},
		requisitions: rows,
	}
	h := newTestHandlers(t, api)

	rec := get(t, h.ListRequisitions(), "/api/v1/requisitions?district=Lucknow")
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[listResponse[models.Requisition]](t, rec)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, "Prayagraj", page.Filters["district"])
	for _, r := range page.Data {
		assert.Equal(t, "Prayagraj", r.DistrictName)
	}
}

func TestList_LockedJurisdictionWithoutName(t *testing.T) {
	rows := append(seedRequisitions(2, "Prayagraj"), models.Requisition{RequisitionID: 10, DistrictName: "Lucknow"})
	api := &fakeAPI{
		profile:      models.UserProfile{RoleName: "DPRO", DistrictID: intPtr(7)},
		districts:    []models.Location{{ID: 6, Name: "Lucknow"}, {ID: 7, Name: "Prayagraj"}},
		requisitions: rows,
	}
	h := newTestHandlers(t, api)

	rec := get(t, h.ListRequisitions(), "/api/v1/requisitions")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	page := decode[listResponse[models.Requisition]](t, rec)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, "Prayagraj", page.Filters["district"], "name looked up from the district list")

	api = &fakeAPI{
		profile:      models.UserProfile{RoleName: "DPRO", DistrictID: intPtr(8)},
		districts:    []models.Location{{ID: 6, Name: "Lucknow"}},
		requisitions: rows,
	}
	h = newTestHandlers(t, api)

	rec = get(t, h.ListRequisitions(), "/api/v1/requisitions")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Lucknow")
	assert.Zero(t, api.count("requisitions"))
}

func TestList_RefreshRefetches(t *testing.T) {
	api := &fakeAPI{handpumps: []models.Handpump{{HandpumpID: 1, HandpumpCode: "HP-1"}}}
	h := newTestHandlers(t, api)
	list := h.ListHandpumps()

	get(t, list, "/api/v1/handpumps")
	get(t, list, "/api/v1/handpumps")
	assert.Equal(t, 1, api.count("handpumps"))

	get(t, list, "/api/v1/handpumps?refresh=true")
	assert.Equal(t, 2, api.count("handpumps"))
}

func TestList_UpstreamFailure(t *testing.T) {
	api := &fakeAPI{}
	api.fail("complaints", &hmsapi.APIError{Path: "Complaint/GetComplaintListByUserId", StatusCode: 500, Message: "boom"})
	h := newTestHandlers(t, api)

	rec := get(t, h.ListComplaints(), "/api/v1/complaints")
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	// a failed fetch is not cached
	api.fail("complaints", nil)
	rec = get(t, h.ListComplaints(), "/api/v1/complaints")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, api.count("complaints"))
}

func TestList_RequiresUser(t *testing.T) {
	h := newTestHandlers(t, &fakeAPI{})
	rec := serve(h.ListRequisitions(), httptest.NewRequest(http.MethodGet, "/api/v1/requisitions", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestList_BadParams(t *testing.T) {
	h := newTestHandlers(t, &fakeAPI{})
	assert.Equal(t, http.StatusBadRequest, get(t, h.ListRequisitions(), "/api/v1/requisitions?page=two").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h.ListHandpumps(), "/api/v1/handpumps?near=north").Code)
}

func TestListComplaints_OpenIsPending(t *testing.T) {
	api := &fakeAPI{complaints: []models.Complaint{
		{ComplaintID: 1, Status: "Open"},
		{ComplaintID: 2, Status: "Resolved"},
		{ComplaintID: 3, Status: " open "},
	}}
	h := newTestHandlers(t, api)

	for _, status := range []string{"Pending", "Open"} {
		page := decode[listResponse[models.Complaint]](t, get(t, h.ListComplaints(), "/api/v1/complaints?status="+status))
		require.Len(t, page.Data, 2, status)
		for _, c := range page.Data {
			assert.Equal(t, "Pending", c.Status)
		}
	}
}

func TestListMBReports_CompletionFilters(t *testing.T) {
	api := &fakeAPI{mbReports: []models.MBReport{
		{RequisitionID: 1, MBID: models.NewFlag(5)},
		{RequisitionID: 2, VisitMonitoringID: models.NewFlag(8)},
		{RequisitionID: 3},
	}}
	h := newTestHandlers(t, api)

	page := decode[listResponse[models.MBReport]](t, get(t, h.ListMBReports(), "/api/v1/mb/reports?mb=pending"))
	require.Len(t, page.Data, 2)
	assert.Equal(t, 3, page.Data[0].RequisitionID)
	assert.Equal(t, "Pending", page.Data[0].MBStatus)
	assert.Equal(t, "Completed", page.Data[1].VisitStatus)
}

func TestExport_CSV(t *testing.T) {
	api := &fakeAPI{requisitions: seedRequisitions(12, "Prayagraj")}
	h := newTestHandlers(t, api)

	rec := get(t, h.ExportRequisitions(), "/api/v1/requisitions/export?format=csv&search=hp-01")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Requisitions_")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".csv")

	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4, "header plus HP-010..HP-012, unpaginated")
	assert.Equal(t, "Requisition ID", records[0][0])
}

func TestExport_Excel(t *testing.T) {
	api := &fakeAPI{handpumps: []models.Handpump{
		{HandpumpID: 1, HandpumpCode: "HP-1", DistrictName: "Prayagraj"},
		{HandpumpID: 2, HandpumpCode: "HP-2", DistrictName: "Prayagraj"},
	}}
	h := newTestHandlers(t, api)

	rec := get(t, h.ExportHandpumps(), "/api/v1/handpumps/export")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	title, err := f.GetCellValue("Report", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Handpumps", title)
	code, err := f.GetCellValue("Report", "B5")
	require.NoError(t, err)
	assert.Equal(t, "HP-1", code)
}

func TestExport_UnknownFormat(t *testing.T) {
	h := newTestHandlers(t, &fakeAPI{})
	rec := get(t, h.ExportComplaints(), "/api/v1/complaints/export?format=pdf")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandpumpsGeoJSON_Near(t *testing.T) {
	api := &fakeAPI{handpumps: []models.Handpump{
		{HandpumpID: 1, HandpumpCode: "HP-1", Latitude: 25.4358, Longitude: 81.8463},
		{HandpumpID: 2, HandpumpCode: "HP-2", Latitude: 25.4450, Longitude: 81.8500},
		{HandpumpID: 3, HandpumpCode: "HP-3", Latitude: 26.8467, Longitude: 80.9462},
		{HandpumpID: 4, HandpumpCode: "HP-4"},
	}}
	h := newTestHandlers(t, api)

	rec := get(t, h.HandpumpsGeoJSON, "/api/v1/handpumps/geojson")
	require.Equal(t, http.StatusOK, rec.Code)
	fc, err := geojson.UnmarshalFeatureCollection(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Len(t, fc.Features, 3, "pump without coordinates skipped")

	rec = get(t, h.HandpumpsGeoJSON, "/api/v1/handpumps/geojson?near=25.4358,81.8463&radiusKm=5")
	require.Equal(t, http.StatusOK, rec.Code)
	fc, err = geojson.UnmarshalFeatureCollection(rec.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)
	assert.Equal(t, "HP-1", fc.Features[0].Properties.MustString("handpumpCode"))
	assert.Equal(t, "HP-2", fc.Features[1].Properties.MustString("handpumpCode"))
}

func TestFilters_Cascade(t *testing.T) {
	api := &fakeAPI{
		districts: []models.Location{{ID: 1, Name: "Prayagraj"}, {ID: 2, Name: "Lucknow"}},
		blocks:    map[int][]models.Location{1: {{ID: 11, Name: "Phulpur"}}},
		gps:       map[int][]models.Location{11: {{ID: 111, Name: "Sarai"}, {ID: 112, Name: "Bahadurpur"}}},
	}
	h := newTestHandlers(t, api)

	rec := get(t, h.Filters, "/api/v1/filters?districtId=1&blockId=11")
	require.Equal(t, http.StatusOK, rec.Code)
	c := decode[jurisdiction.Cascade](t, rec)

	require.NotNil(t, c.Block.Selected)
	assert.Equal(t, 11, *c.Block.Selected)
	want := []models.Location{{ID: 111, Name: "Sarai"}, {ID: 112, Name: "Bahadurpur"}}
	if diff := cmp.Diff(want, c.GramPanchayat.Options); diff != "" {
		t.Errorf("gram panchayat options (-want +got):\n%s", diff)
	}
	assert.Empty(t, c.Village.Options)
}

func TestFilters_LockedDistrict(t *testing.T) {
	api := &fakeAPI{
		profile: models.UserProfile{RoleName: "DPRO", DistrictID: intPtr(7), DistrictName: "Prayagraj"},
		blocks:  map[int][]models.Location{7: {{ID: 70, Name: "Handia"}}},
	}
	h := newTestHandlers(t, api)

	rec := get(t, h.Filters, "/api/v1/filters?districtId=7")
	require.Equal(t, http.StatusOK, rec.Code)
	c := decode[jurisdiction.Cascade](t, rec)
	assert.True(t, c.District.Disabled)
	if diff := cmp.Diff([]models.Location{{ID: 70, Name: "Handia"}}, c.Block.Options); diff != "" {
		t.Errorf("block options (-want +got):\n%s", diff)
	}
	assert.Zero(t, api.count("districts"), "locked district is synthesised")

	rec = get(t, h.Filters, "/api/v1/filters?districtId=8")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestFilters_FailedFetchBecomesNotice(t *testing.T) {
	api := &fakeAPI{}
	api.fail("districts", &hmsapi.APIError{Path: "Master/GetDistrictListByUserId", StatusCode: 503, Message: "down"})
	h := newTestHandlers(t, api)

	rec := get(t, h.Filters, "/api/v1/filters")
	require.Equal(t, http.StatusOK, rec.Code)
	c := decode[jurisdiction.Cascade](t, rec)
	assert.Empty(t, c.District.Options)
	require.Len(t, c.Notices, 1)
	assert.Equal(t, "error", c.Notices[0].Level)
}

func TestJurisdiction(t *testing.T) {
	api := &fakeAPI{profile: models.UserProfile{RoleName: "BDO", DistrictID: intPtr(7), DistrictName: "Prayagraj", BlockID: intPtr(70), BlockName: "Handia"}}
	h := newTestHandlers(t, api)

	j := decode[models.Jurisdiction](t, get(t, h.Jurisdiction, "/api/v1/jurisdiction"))
	assert.Equal(t, testUser, j.UserID)
	require.NotNil(t, j.BlockID)
	assert.Equal(t, 70, *j.BlockID)
	assert.Nil(t, j.GramPanchayatID)

	get(t, h.Jurisdiction, "/api/v1/jurisdiction")
	assert.Equal(t, 1, api.count("profile"), "profile cached per user")
}

func TestSearch(t *testing.T) {
	api := &fakeAPI{
		handpumps:    []models.Handpump{{HandpumpID: 1, HandpumpCode: "HP-001"}, {HandpumpID: 2, HandpumpCode: "HP-002"}},
		complaints:   []models.Complaint{{ComplaintID: 9, HandpumpCode: "HP-001", Status: "Open"}},
		requisitions: []models.Requisition{{RequisitionID: 3, HandpumpCode: "HP-001"}},
		estimations:  []models.Estimation{{EstimationID: 4, HandpumpCode: "HP-002"}},
	}
	h := newTestHandlers(t, api)

	rec := get(t, h.Search, "/api/v1/search?q=hp-001")
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[snapshot.Results](t, rec)
	assert.Len(t, res.Handpumps, 1)
	require.Len(t, res.Complaints, 1)
	assert.Equal(t, "Pending", res.Complaints[0].Status)
	assert.Len(t, res.Requisitions, 1)
	assert.Empty(t, res.Estimations)

	// lists reuse what the search fetched
	get(t, h.ListRequisitions(), "/api/v1/requisitions")
	assert.Equal(t, 1, api.count("requisitions"))
}

func TestLogin(t *testing.T) {
	api := &fakeAPI{login: models.LoginResult{UserID: testUser, RoleName: "DPRO", Token: "upstream-token"}}
	h := newTestHandlers(t, api)

	post := func(body string) *httptest.ResponseRecorder {
		return serve(h.Login, httptest.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewBufferString(body)))
	}

	assert.Equal(t, http.StatusBadRequest, post(`{"userName":"dpro"}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(`not json`).Code)

	rec := post(`{"userName":"dpro","password":"secret"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[loginResp](t, rec)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "dpro", resp.User.UserName)
	assert.Equal(t, "DPRO", resp.User.Role)

	api.fail("login", &hmsapi.APIError{Path: "Signup/Login", Message: "Invalid username or password"})
	assert.Equal(t, http.StatusUnauthorized, post(`{"userName":"dpro","password":"wrong"}`).Code)

	api.fail("login", &hmsapi.APIError{Path: "Signup/Login", Err: errors.New("connection refused")})
	assert.Equal(t, http.StatusBadGateway, post(`{"userName":"dpro","password":"secret"}`).Code)
}

func TestLogout_DropsCachedState(t *testing.T) {
	api := &fakeAPI{requisitions: seedRequisitions(3, "Prayagraj")}
	h := newTestHandlers(t, api)

	get(t, h.ListRequisitions(), "/api/v1/requisitions")
	require.Equal(t, 1, h.views.ItemCount())

	rec := serve(h.Logout, authed(httptest.NewRequest(http.MethodPost, "/api/v1/logout", nil), "DPRO"))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, h.views.ItemCount())
	_, ok := h.Snapshots.Load(context.Background(), testUser)
	assert.False(t, ok)
}

func TestProfile(t *testing.T) {
	api := &fakeAPI{profile: models.UserProfile{Name: "Asha", RoleName: "CE"}}
	h := newTestHandlers(t, api)

	resp := decode[profileResp](t, get(t, h.Profile, "/api/v1/profile"))
	assert.Equal(t, "Asha", resp.Profile.Name)
	assert.Equal(t, testUser, resp.Jurisdiction.UserID)
	assert.Contains(t, resp.Permissions, utils.PermEstimationCreate)
}

func TestCatalogue(t *testing.T) {
	h := newTestHandlers(t, &fakeAPI{})

	resp := decode[catalogueResp](t, get(t, h.Catalogue, "/api/v1/estimations/catalogue?mode=rebore"))
	assert.Equal(t, 0.18, resp.GSTRate)
	assert.NotEmpty(t, resp.Items)

	all := decode[catalogueResp](t, get(t, h.Catalogue, "/api/v1/estimations/catalogue"))
	assert.Contains(t, all.Modes, models.ModeRepair)
	assert.Contains(t, all.Modes, models.ModeRebore)
}

func TestPage_MatchesPaginate(t *testing.T) {
	api := &fakeAPI{requisitions: seedRequisitions(7, "Prayagraj")}
	h := newTestHandlers(t, api)

	page := decode[listResponse[models.Requisition]](t, get(t, h.ListRequisitions(), "/api/v1/requisitions?limit=3&page=3"))
	want := datatable.Page[int]{Total: 7, Page: 3, Limit: 3, TotalPages: 3, Data: []int{1}}
	got := datatable.Page[int]{Total: page.Total, Page: page.Page.Page, Limit: page.Limit, TotalPages: page.TotalPages}
	for _, r := range page.Data {
		got.Data = append(got.Data, r.RequisitionID)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("last page (-want +got):\n%s", diff)
	}
}
