// Package handlers exposes the HMS screens as JSON endpoints. Every list is
// fetched once per user through the snapshot store and then searched,
// filtered and paginated in memory.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"kdsgroup.co.in/hms/middleware"
	"kdsgroup.co.in/hms/models"
	"kdsgroup.co.in/hms/pkg/datatable"
	"kdsgroup.co.in/hms/pkg/estimation"
	"kdsgroup.co.in/hms/pkg/hmsapi"
	"kdsgroup.co.in/hms/pkg/jurisdiction"
	"kdsgroup.co.in/hms/pkg/snapshot"
	"kdsgroup.co.in/hms/pkg/storage"
	"kdsgroup.co.in/hms/pkg/submission"
)

// Upstream is the part of the HMS backend the gateway calls.
// *hmsapi.Client implements it.
type Upstream interface {
	jurisdiction.ProfileSource
	jurisdiction.LocationSource
	Login(ctx context.Context, userName, password string) (models.LoginResult, error)
	GetRequisitions(ctx context.Context, userID int) ([]models.Requisition, error)
	GetComplaints(ctx context.Context, userID int) ([]models.Complaint, error)
	GetHandpumps(ctx context.Context, userID int) ([]models.Handpump, error)
	GetEstimations(ctx context.Context, userID int) ([]models.Estimation, error)
	GetMBReports(ctx context.Context, userID int) ([]models.MBReport, error)
	InsertRequisitionDetails(ctx context.Context, in models.RequisitionInput) (json.RawMessage, error)
	InsertRequisitionEstimation(ctx context.Context, in models.EstimationInput) (json.RawMessage, error)
	UpdateMbItemsRemark(ctx context.Context, in models.MBRemarksInput) (json.RawMessage, error)
	InsertHandpumpVisitMonitoring(ctx context.Context, in models.VisitReport) (json.RawMessage, error)
}

var _ Upstream = (*hmsapi.Client)(nil)

type Deps struct {
	API         Upstream
	Auth        *middleware.Auth
	Snapshots   snapshot.Store
	Submissions submission.Recorder
	Uploader    storage.Uploader
	Catalogue   *estimation.Catalogue
	CacheTTL    time.Duration
	Log         *zap.Logger
}

type Handlers struct {
	Deps

	resolver *jurisdiction.Resolver
	views    *cache.Cache

	requisitions *datatable.Table[models.Requisition]
	closures     *datatable.Table[models.Requisition]
	complaints   *datatable.Table[models.Complaint]
	handpumps    *datatable.Table[models.Handpump]
	estimations  *datatable.Table[models.Estimation]
	mbReports    *datatable.Table[models.MBReport]
}

func New(d Deps) *Handlers {
	if d.CacheTTL <= 0 {
		d.CacheTTL = 10 * time.Minute
	}
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	h := &Handlers{
		Deps:     d,
		resolver: jurisdiction.NewResolver(d.API, d.CacheTTL),
		views:    cache.New(d.CacheTTL, 2*d.CacheTTL),
	}
	h.buildTables()
	return h
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// requestError is a client mistake reported as 400.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(msg string) error { return &requestError{msg: msg} }

// fail maps an error to a status: missing credentials 401, bad input 400,
// any upstream failure 502.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		reqErr *requestError
		apiErr *hmsapi.APIError
	)
	switch {
	case errors.As(err, &reqErr):
		http.Error(w, reqErr.msg, http.StatusBadRequest)
	case errors.Is(err, hmsapi.ErrMissingToken), errors.Is(err, hmsapi.ErrMissingUserID):
		http.Error(w, "missing credentials", http.StatusUnauthorized)
	case errors.Is(err, jurisdiction.ErrLocked):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, jurisdiction.ErrUnnamedLevel):
		h.Log.Warn("incomplete jurisdiction", zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, "jurisdiction unavailable", http.StatusBadGateway)
	case errors.As(err, &apiErr):
		h.Log.Warn("upstream request failed", zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, "upstream request failed: "+err.Error(), http.StatusBadGateway)
	default:
		h.Log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// user returns the authenticated user id, writing 401 when absent.
func user(w http.ResponseWriter, r *http.Request) (int, bool) {
	id := middleware.GetUserID(r)
	if id == 0 {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return 0, false
	}
	return id, true
}

// fetchContext honours ?refresh=true, the manual retry of a failed or
// stale list.
func fetchContext(r *http.Request) context.Context {
	if v, _ := strconv.ParseBool(r.URL.Query().Get("refresh")); v {
		return snapshot.WithRefresh(r.Context())
	}
	return r.Context()
}

func intParam(r *http.Request, key string) (int, bool, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false, badRequest("invalid " + key)
	}
	return n, true, nil
}
