package handlers

import (
	"net/http"

	"kdsgroup.co.in/hms/models"
	"kdsgroup.co.in/hms/pkg/jurisdiction"
)

// Jurisdiction godoc
// @Summary      The user's administrative scope
// @Tags         filters
// @Produce      json
// @Success      200  {object}  models.Jurisdiction
// @Security     BearerAuth
// @Router       /jurisdiction [get]
func (h *Handlers) Jurisdiction(w http.ResponseWriter, r *http.Request) {
	_, j, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, j)
}

var cascadeParams = []struct {
	key   string
	level models.Level
}{
	{"districtId", models.LevelDistrict},
	{"blockId", models.LevelBlock},
	{"gramPanchayatId", models.LevelGramPanchayat},
	{"villageId", models.LevelVillage},
}

// Filters godoc
// @Summary      Cascading location filters
// @Description  Returns the four selectors after applying the given selections top-down.
// @Description  Levels fixed by the jurisdiction are locked; selecting another value there is rejected.
// @Tags         filters
// @Produce      json
// @Param        districtId       query  int  false  "Selected district"
// @Param        blockId          query  int  false  "Selected block"
// @Param        gramPanchayatId  query  int  false  "Selected gram panchayat"
// @Param        villageId        query  int  false  "Selected village"
// @Success      200  {object}  jurisdiction.Cascade
// @Failure      403  {string}  string
// @Security     BearerAuth
// @Router       /filters [get]
func (h *Handlers) Filters(w http.ResponseWriter, r *http.Request) {
	_, j, ok := h.load(w, r)
	if !ok {
		return
	}
	c := jurisdiction.NewCascade(r.Context(), h.API, j)
	for _, p := range cascadeParams {
		id, set, err := intParam(r, p.key)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		if !set {
			continue
		}
		if err := c.Select(r.Context(), p.level, &id); err != nil {
			h.fail(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, c)
}
