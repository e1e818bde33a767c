package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"kdsgroup.co.in/hms/middleware"
	"kdsgroup.co.in/hms/models"
	"kdsgroup.co.in/hms/pkg/datatable"
	"kdsgroup.co.in/hms/pkg/export"
	"kdsgroup.co.in/hms/utils"
)

type listResponse[T any] struct {
	datatable.Page[T]
	Search  string            `json:"search"`
	Filters map[string]string `json:"filters"`
}

type viewEntry struct {
	mu sync.Mutex
	v  *datatable.View
}

func viewKey(r *http.Request, table string) string {
	if c := middleware.GetClaims(r); c != nil && c.SessionID != "" {
		return c.SessionID + "/" + table
	}
	return fmt.Sprintf("user:%d/%s", middleware.GetUserID(r), table)
}

// view returns the session's cursor for a table, creating it on first use.
func (h *Handlers) view(key string) *viewEntry {
	if v, ok := h.views.Get(key); ok {
		return v.(*viewEntry)
	}
	e := &viewEntry{v: datatable.NewView(datatable.DefaultRowsPerPage)}
	if err := h.views.Add(key, e, cache.DefaultExpiration); err != nil {
		if v, ok := h.views.Get(key); ok {
			return v.(*viewEntry)
		}
	}
	return e
}

// requestFilters reads search and filter params. Levels fixed by the
// user's jurisdiction override whatever the client sent.
func requestFilters(r *http.Request, keys []string, j models.Jurisdiction) (string, map[string]string, error) {
	q := r.URL.Query()
	filters := map[string]string{}
	for _, k := range keys {
		if k == filterNear {
			continue
		}
		if v := q.Get(k); v != "" {
			filters[k] = v
		}
	}
	if center := q.Get(filterNear); center != "" && slices.Contains(keys, filterNear) {
		n, err := utils.ParseNear(center, q.Get("radiusKm"))
		if err != nil {
			return "", nil, badRequest(err.Error())
		}
		filters[filterNear] = n.String()
	}

	if j.DistrictID != nil {
		filters[filterDistrict] = j.DistrictName
	}
	if j.BlockID != nil {
		filters[filterBlock] = j.BlockName
	}
	if j.GramPanchayatID != nil {
		filters[filterGramPanchayat] = j.GramPanchayatName
	}
	return q.Get("search"), filters, nil
}

func (h *Handlers) load(w http.ResponseWriter, r *http.Request) (int, models.Jurisdiction, bool) {
	userID, ok := user(w, r)
	if !ok {
		return 0, models.Jurisdiction{}, false
	}
	j, err := h.resolver.Resolve(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return 0, models.Jurisdiction{}, false
	}
	return userID, j, true
}

// listHandler serves one page of a table. The session's view remembers
// search, filters and page; an omitted page keeps the current one unless
// search or filters changed.
func listHandler[T any](h *Handlers, t *datatable.Table[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, j, ok := h.load(w, r)
		if !ok {
			return
		}
		search, filters, err := requestFilters(r, t.Filters(), j)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		page, hasPage, err := intParam(r, "page")
		if err != nil {
			h.fail(w, r, err)
			return
		}
		limit, hasLimit, err := intParam(r, "limit")
		if err != nil {
			h.fail(w, r, err)
			return
		}

		rows, err := t.Load(fetchContext(r), userID)
		if err != nil {
			h.fail(w, r, err)
			return
		}

		key := viewKey(r, t.Name())
		e := h.view(key)
		e.mu.Lock()
		e.v.SetSearch(search)
		e.v.ReplaceFilters(filters)
		if hasLimit {
			e.v.SetRowsPerPage(limit)
		}
		if hasPage {
			e.v.SetPage(page)
		}
		q := e.v.Query()
		e.mu.Unlock()
		h.views.SetDefault(key, e)

		writeJSON(w, http.StatusOK, listResponse[T]{
			Page:    t.Query(rows, q),
			Search:  q.Search,
			Filters: q.Filters,
		})
	}
}

// exportHandler writes every filtered row as xlsx (default) or csv.
func exportHandler[T any](h *Handlers, t *datatable.Table[T], title string, cols []export.Column[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, j, ok := h.load(w, r)
		if !ok {
			return
		}
		search, filters, err := requestFilters(r, t.Filters(), j)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		rows, err := t.Load(fetchContext(r), userID)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		rows = t.Apply(rows, search, filters)

		var (
			data        []byte
			ext         string
			contentType string
		)
		switch format := r.URL.Query().Get("format"); format {
		case "", "xlsx":
			buf, err := export.Excel(title, cols, rows)
			if err != nil {
				h.fail(w, r, fmt.Errorf("generate excel: %w", err))
				return
			}
			data, ext = buf.Bytes(), "xlsx"
			contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		case "csv":
			data, err = export.CSV(cols, rows)
			if err != nil {
				h.fail(w, r, fmt.Errorf("generate csv: %w", err))
				return
			}
			ext, contentType = "csv", "text/csv"
		default:
			http.Error(w, "unsupported format "+format, http.StatusBadRequest)
			return
		}

		filename := export.Filename(title, ext, time.Now())
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	}
}

// ListRequisitions godoc
// @Summary      List requisitions
// @Tags         requisitions
// @Produce      json
// @Param        search         query  string  false  "Substring of id, handpump code or location"
// @Param        district       query  string  false  "District name"
// @Param        block          query  string  false  "Block name"
// @Param        gramPanchayat  query  string  false  "Gram panchayat name"
// @Param        village        query  string  false  "Village name"
// @Param        mode           query  string  false  "Repair or Rebore"
// @Param        stage          query  string  false  "pending, estimated, ordered, visited, completed"
// @Param        page           query  int     false  "1-based page"
// @Param        limit          query  int     false  "Rows per page"
// @Param        refresh        query  bool    false  "Refetch from the backend"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {string}  string
// @Failure      502  {string}  string
// @Security     BearerAuth
// @Router       /requisitions [get]
func (h *Handlers) ListRequisitions() http.HandlerFunc { return listHandler(h, h.requisitions) }

// ListClosures godoc
// @Summary      Requisitions awaiting closure
// @Tags         requisitions
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Security     BearerAuth
// @Router       /closures [get]
func (h *Handlers) ListClosures() http.HandlerFunc { return listHandler(h, h.closures) }

// ListComplaints godoc
// @Summary      List complaints
// @Tags         complaints
// @Produce      json
// @Param        status   query  string  false  "Pending, Resolved, ..."
// @Param        urgency  query  string  false  "Urgency"
// @Success      200  {object}  map[string]interface{}
// @Security     BearerAuth
// @Router       /complaints [get]
func (h *Handlers) ListComplaints() http.HandlerFunc { return listHandler(h, h.complaints) }

// ListHandpumps godoc
// @Summary      Handpump roster
// @Tags         handpumps
// @Produce      json
// @Param        near      query  string  false  "lat,lng"
// @Param        radiusKm  query  number  false  "Radius around near, default 5"
// @Param        active    query  bool    false  "Active pumps only"
// @Success      200  {object}  map[string]interface{}
// @Security     BearerAuth
// @Router       /handpumps [get]
func (h *Handlers) ListHandpumps() http.HandlerFunc { return listHandler(h, h.handpumps) }

// ListEstimations godoc
// @Summary      List estimations
// @Tags         estimations
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Security     BearerAuth
// @Router       /estimations [get]
func (h *Handlers) ListEstimations() http.HandlerFunc { return listHandler(h, h.estimations) }

// ListMBReports godoc
// @Summary      MB and visit reports
// @Tags         mb
// @Produce      json
// @Param        mb     query  string  false  "Completed or Pending"
// @Param        visit  query  string  false  "Completed or Pending"
// @Success      200  {object}  map[string]interface{}
// @Security     BearerAuth
// @Router       /mb/reports [get]
func (h *Handlers) ListMBReports() http.HandlerFunc { return listHandler(h, h.mbReports) }

// ExportRequisitions godoc
// @Summary      Export requisitions
// @Description  Filtered rows without pagination, as xlsx (default) or csv.
// @Tags         requisitions
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet,text/csv
// @Param        format  query  string  false  "xlsx or csv"
// @Success      200  {file}  file
// @Security     BearerAuth
// @Router       /requisitions/export [get]
func (h *Handlers) ExportRequisitions() http.HandlerFunc {
	return exportHandler(h, h.requisitions, "Requisitions", export.RequisitionColumns)
}

// ExportClosures godoc
// @Summary      Export closure updates
// @Description  Filtered rows without pagination, as xlsx (default) or csv.
// @Tags         requisitions
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet,text/csv
// @Param        format  query  string  false  "xlsx or csv"
// @Success      200  {file}  file
// @Security     BearerAuth
// @Router       /closures/export [get]
func (h *Handlers) ExportClosures() http.HandlerFunc {
	return exportHandler(h, h.closures, "Closure Updates", export.RequisitionColumns)
}

// ExportComplaints godoc
// @Summary      Export complaints
// @Description  Filtered rows without pagination, as xlsx (default) or csv.
// @Tags         complaints
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet,text/csv
// @Param        format  query  string  false  "xlsx or csv"
// @Success      200  {file}  file
// @Security     BearerAuth
// @Router       /complaints/export [get]
func (h *Handlers) ExportComplaints() http.HandlerFunc {
	return exportHandler(h, h.complaints, "Complaints", export.ComplaintColumns)
}

// ExportHandpumps godoc
// @Summary      Export handpumps
// @Description  Filtered rows without pagination, as xlsx (default) or csv.
// @Tags         handpumps
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet,text/csv
// @Param        format  query  string  false  "xlsx or csv"
// @Success      200  {file}  file
// @Security     BearerAuth
// @Router       /handpumps/export [get]
func (h *Handlers) ExportHandpumps() http.HandlerFunc {
	return exportHandler(h, h.handpumps, "Handpumps", export.HandpumpColumns)
}

// ExportEstimations godoc
// @Summary      Export estimations
// @Description  Filtered rows without pagination, as xlsx (default) or csv.
// @Tags         estimations
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet,text/csv
// @Param        format  query  string  false  "xlsx or csv"
// @Success      200  {file}  file
// @Security     BearerAuth
// @Router       /estimations/export [get]
func (h *Handlers) ExportEstimations() http.HandlerFunc {
	return exportHandler(h, h.estimations, "Estimations", export.EstimationColumns)
}

// ExportMBReports godoc
// @Summary      Export MB and visit reports
// @Description  Filtered rows without pagination, as xlsx (default) or csv.
// @Tags         mb
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet,text/csv
// @Param        format  query  string  false  "xlsx or csv"
// @Success      200  {file}  file
// @Security     BearerAuth
// @Router       /mb/reports/export [get]
func (h *Handlers) ExportMBReports() http.HandlerFunc {
	return exportHandler(h, h.mbReports, "MB Reports", export.MBReportColumns)
}

// HandpumpsGeoJSON godoc
// @Summary      Filtered handpumps as a GeoJSON FeatureCollection
// @Tags         handpumps
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Security     BearerAuth
// @Router       /handpumps/geojson [get]
func (h *Handlers) HandpumpsGeoJSON(w http.ResponseWriter, r *http.Request) {
	userID, j, ok := h.load(w, r)
	if !ok {
		return
	}
	search, filters, err := requestFilters(r, h.handpumps.Filters(), j)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rows, err := h.handpumps.Load(fetchContext(r), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	fc := export.HandpumpFeatures(h.handpumps.Apply(rows, search, filters))
	w.Header().Set("Content-Type", "application/geo+json")
	json.NewEncoder(w).Encode(fc)
}
