package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"kdsgroup.co.in/hms/models"
	"kdsgroup.co.in/hms/pkg/estimation"
)

type catalogueResp struct {
	Mode    string                             `json:"mode,omitempty"`
	GSTRate float64                            `json:"gstRate"`
	Items   []models.EstimationItem            `json:"items,omitempty"`
	Modes   map[string][]models.EstimationItem `json:"modes,omitempty"`
}

func (h *Handlers) gstRate() float64 {
	if h.Deps.Catalogue.GSTRate > 0 {
		return h.Deps.Catalogue.GSTRate
	}
	return estimation.DefaultGSTRate
}

// Catalogue godoc
// @Summary      Predefined estimation items
// @Tags         estimations
// @Produce      json
// @Param        mode  query  string  false  "Repair or Rebore; all modes when omitted"
// @Success      200  {object}  catalogueResp
// @Security     BearerAuth
// @Router       /estimations/catalogue [get]
func (h *Handlers) Catalogue(w http.ResponseWriter, r *http.Request) {
	resp := catalogueResp{GSTRate: h.gstRate()}
	if mode := r.URL.Query().Get("mode"); mode != "" {
		resp.Mode = mode
		resp.Items = h.Deps.Catalogue.Items(mode)
	} else {
		resp.Modes = map[string][]models.EstimationItem{}
		for m := range h.Deps.Catalogue.Modes {
			resp.Modes[m] = h.Deps.Catalogue.Items(m)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type estimationReq struct {
	RequisitionID int                     `json:"requisitionId"`
	Mode          string                  `json:"mode"`
	Items         []models.EstimationItem `json:"items"`
	GSTRate       float64                 `json:"gstRate"`
	Remarks       string                  `json:"remarks"`
}

type estimationResp struct {
	Items     []models.EstimationItem    `json:"items"`
	Breakdown models.EstimationBreakdown `json:"breakdown"`
}

// price resolves the submitted lines against the catalogue and computes
// the rounded breakdown.
func (h *Handlers) price(req estimationReq) estimationResp {
	items := h.Deps.Catalogue.Merge(req.Mode, req.Items)
	rate := req.GSTRate
	if rate <= 0 {
		rate = h.gstRate()
	}
	return estimationResp{
		Items:     items,
		Breakdown: estimation.Rounded(estimation.Calculate(items, rate)),
	}
}

func decodeEstimation(r *http.Request) (estimationReq, error) {
	var req estimationReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, badRequest("invalid JSON")
	}
	for _, it := range req.Items {
		if it.Rate < 0 || it.Quantity < 0 {
			return req, badRequest("rate and quantity must not be negative")
		}
		if it.Custom && strings.TrimSpace(it.ItemName) == "" {
			return req, badRequest("custom items need a name")
		}
	}
	return req, nil
}

// PreviewEstimation godoc
// @Summary      Compute an estimation without submitting it
// @Tags         estimations
// @Accept       json
// @Produce      json
// @Param        body  body      estimationReq  true  "Form"
// @Success      200   {object}  estimationResp
// @Failure      400   {string}  string
// @Security     BearerAuth
// @Router       /estimations/preview [post]
func (h *Handlers) PreviewEstimation(w http.ResponseWriter, r *http.Request) {
	req, err := decodeEstimation(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.price(req))
}

// SubmitEstimation godoc
// @Summary      Submit a CE estimation
// @Tags         estimations
// @Accept       json
// @Produce      json
// @Param        body  body      estimationReq  true  "Form"
// @Success      201   {object}  submissionResp
// @Failure      400   {string}  string
// @Failure      502   {string}  string
// @Security     BearerAuth
// @Router       /estimations [post]
func (h *Handlers) SubmitEstimation(w http.ResponseWriter, r *http.Request) {
	userID, ok := user(w, r)
	if !ok {
		return
	}
	req, err := decodeEstimation(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if req.RequisitionID <= 0 {
		h.fail(w, r, badRequest("requisitionId is required"))
		return
	}
	priced := h.price(req)
	if priced.Breakdown.SelectedItemCnt == 0 {
		h.fail(w, r, badRequest("select at least one item"))
		return
	}

	in := models.EstimationInput{
		RequisitionID: req.RequisitionID,
		Items:         priced.Items,
		GSTRate:       priced.Breakdown.GSTRate,
		Remarks:       req.Remarks,
		Breakdown:     priced.Breakdown,
		CreatedBy:     userID,
	}
	out, err := h.API.InsertRequisitionEstimation(r.Context(), in)
	h.finishSubmission(w, r, models.SubmissionEstimation, userID, in, nil, out, err)
}
