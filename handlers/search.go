package handlers

import (
	"net/http"

	"kdsgroup.co.in/hms/pkg/snapshot"
	"kdsgroup.co.in/hms/utils"
)

const defaultSearchLimit = 20

// Search godoc
// @Summary      Search handpumps, complaints, requisitions and estimations
// @Tags         search
// @Produce      json
// @Param        q      query  string  true   "Search term"
// @Param        limit  query  int     false  "Max results per kind"
// @Success      200  {object}  snapshot.Results
// @Security     BearerAuth
// @Router       /search [get]
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	userID, ok := user(w, r)
	if !ok {
		return
	}
	limit, set, err := intParam(r, "limit")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !set {
		limit = defaultSearchLimit
	}

	s, err := snapshot.Warm(fetchContext(r), h.Snapshots, snapshot.Sources{
		Handpumps:    h.API.GetHandpumps,
		Complaints:   h.API.GetComplaints,
		Requisitions: h.API.GetRequisitions,
		Estimations:  h.API.GetEstimations,
	}, userID, h.Log)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	res := snapshot.Search(s, r.URL.Query().Get("q"), limit)
	for i := range res.Complaints {
		res.Complaints[i].Status = utils.ComplaintStatusLabel(res.Complaints[i].Status)
	}
	writeJSON(w, http.StatusOK, res)
}
