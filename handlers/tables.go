package handlers

import (
	"context"
	"strconv"
	"strings"

	"kdsgroup.co.in/hms/models"
	"kdsgroup.co.in/hms/pkg/datatable"
	"kdsgroup.co.in/hms/pkg/snapshot"
	"kdsgroup.co.in/hms/utils"
)

// Filter keys shared by every dataset. Rows carry location names only,
// so the filters compare names.
const (
	filterDistrict      = "district"
	filterBlock         = "block"
	filterGramPanchayat = "gramPanchayat"
	filterVillage       = "village"
	filterNear          = "near"
)

type locationNames struct {
	district, block, gramPanchayat, village string
}

func sameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func withLocation[T any](b *datatable.Builder[T], names func(T) locationNames) *datatable.Builder[T] {
	return b.
		Filter(filterDistrict, func(r T, v string) bool { return sameName(names(r).district, v) }).
		Filter(filterBlock, func(r T, v string) bool { return sameName(names(r).block, v) }).
		Filter(filterGramPanchayat, func(r T, v string) bool { return sameName(names(r).gramPanchayat, v) }).
		Filter(filterVillage, func(r T, v string) bool { return sameName(names(r).village, v) })
}

func field(v string) func(string) bool {
	return func(got string) bool { return sameName(got, v) }
}

func (h *Handlers) buildTables() {
	requisitions := snapshot.Cached(h.Snapshots, snapshot.RequisitionSlot, h.API.GetRequisitions, h.Log)

	requisitionTable := func(name string, fetch datatable.FetchFunc[models.Requisition]) *datatable.Table[models.Requisition] {
		b := datatable.New[models.Requisition](name).
			Fetch(fetch).
			Transform(func(r models.Requisition) models.Requisition {
				r.Stage = utils.StageLabel(utils.RequisitionStage(r))
				return r
			}).
			Search(
				func(r models.Requisition) string { return strconv.Itoa(r.RequisitionID) },
				func(r models.Requisition) string { return r.HandpumpCode },
				func(r models.Requisition) string { return r.VillageName },
				func(r models.Requisition) string { return r.GramPanchayatName },
				func(r models.Requisition) string { return r.BlockName },
				func(r models.Requisition) string { return r.DistrictName },
			).
			Filter("mode", func(r models.Requisition, v string) bool { return field(v)(r.Mode) }).
			Filter("stage", func(r models.Requisition, v string) bool { return field(v)(utils.RequisitionStage(r)) }).
			SortBy(func(a, b models.Requisition) bool { return a.RequisitionID > b.RequisitionID })
		return withLocation(b, func(r models.Requisition) locationNames {
			return locationNames{r.DistrictName, r.BlockName, r.GramPanchayatName, r.VillageName}
		}).Build()
	}
	h.requisitions = requisitionTable("requisitions", requisitions)

	// Closure updates only concern requisitions with a work order.
	h.closures = requisitionTable("closures", func(ctx context.Context, userID int) ([]models.Requisition, error) {
		rows, err := requisitions(ctx, userID)
		if err != nil {
			return nil, err
		}
		out := make([]models.Requisition, 0, len(rows))
		for _, r := range rows {
			if r.OrderID.Set() {
				out = append(out, r)
			}
		}
		return out, nil
	})

	h.complaints = withLocation(
		datatable.New[models.Complaint]("complaints").
			Fetch(snapshot.Cached(h.Snapshots, snapshot.ComplaintSlot, h.API.GetComplaints, h.Log)).
			Transform(func(c models.Complaint) models.Complaint {
				c.Status = utils.ComplaintStatusLabel(c.Status)
				return c
			}).
			Search(
				func(c models.Complaint) string { return strconv.Itoa(c.ComplaintID) },
				func(c models.Complaint) string { return c.HandpumpCode },
				func(c models.Complaint) string { return c.ComplainantName },
				func(c models.Complaint) string { return c.MobileNo },
				func(c models.Complaint) string { return c.VillageName },
				func(c models.Complaint) string { return c.GramPanchayatName },
			).
			Filter("status", func(c models.Complaint, v string) bool { return field(utils.ComplaintStatusLabel(v))(c.Status) }).
			Filter("urgency", func(c models.Complaint, v string) bool { return field(v)(c.Urgency) }).
			Filter("category", func(c models.Complaint, v string) bool { return field(v)(c.Category) }).
			SortBy(func(a, b models.Complaint) bool { return a.ComplaintID > b.ComplaintID }),
		func(c models.Complaint) locationNames {
			return locationNames{c.DistrictName, c.BlockName, c.GramPanchayatName, c.VillageName}
		},
	).Build()

	h.handpumps = withLocation(
		datatable.New[models.Handpump]("handpumps").
			Fetch(snapshot.Cached(h.Snapshots, snapshot.HandpumpSlot, h.API.GetHandpumps, h.Log)).
			Search(
				func(p models.Handpump) string { return p.HandpumpCode },
				func(p models.Handpump) string { return p.VillageName },
				func(p models.Handpump) string { return p.GramPanchayatName },
				func(p models.Handpump) string { return p.BlockName },
				func(p models.Handpump) string { return p.DistrictName },
			).
			Filter("active", func(p models.Handpump, v string) bool {
				want, err := strconv.ParseBool(v)
				return err == nil && p.IsActive == want
			}).
			Filter(filterNear, func(p models.Handpump, v string) bool {
				n, err := utils.ParseNearValue(v)
				return err == nil && p.HasLocation() && n.Contains(utils.Coordinate{Lat: p.Latitude, Lng: p.Longitude})
			}).
			SortBy(func(a, b models.Handpump) bool { return a.HandpumpCode < b.HandpumpCode }),
		func(p models.Handpump) locationNames {
			return locationNames{p.DistrictName, p.BlockName, p.GramPanchayatName, p.VillageName}
		},
	).Build()

	h.estimations = withLocation(
		datatable.New[models.Estimation]("estimations").
			Fetch(snapshot.Cached(h.Snapshots, snapshot.EstimationSlot, h.API.GetEstimations, h.Log)).
			Search(
				func(e models.Estimation) string { return strconv.Itoa(e.EstimationID) },
				func(e models.Estimation) string { return strconv.Itoa(e.RequisitionID) },
				func(e models.Estimation) string { return e.HandpumpCode },
				func(e models.Estimation) string { return e.VillageName },
				func(e models.Estimation) string { return e.GramPanchayatName },
			).
			Filter("mode", func(e models.Estimation, v string) bool { return field(v)(e.Mode) }).
			Filter("status", func(e models.Estimation, v string) bool { return field(v)(e.Status) }).
			SortBy(func(a, b models.Estimation) bool { return a.EstimationID > b.EstimationID }),
		func(e models.Estimation) locationNames {
			return locationNames{e.DistrictName, e.BlockName, e.GramPanchayatName, e.VillageName}
		},
	).Build()

	h.mbReports = withLocation(
		datatable.New[models.MBReport]("mbreports").
			Fetch(snapshot.Cached(h.Snapshots, snapshot.MBReportSlot, h.API.GetMBReports, h.Log)).
			Transform(func(m models.MBReport) models.MBReport {
				m.MBStatus = utils.CompletionLabel(m.MBID)
				m.VisitStatus = utils.CompletionLabel(m.VisitMonitoringID)
				return m
			}).
			Search(
				func(m models.MBReport) string { return strconv.Itoa(m.RequisitionID) },
				func(m models.MBReport) string { return m.HandpumpCode },
				func(m models.MBReport) string { return m.VillageName },
				func(m models.MBReport) string { return m.GramPanchayatName },
			).
			Filter("mode", func(m models.MBReport, v string) bool { return field(v)(m.Mode) }).
			Filter("mb", func(m models.MBReport, v string) bool { return field(v)(utils.CompletionLabel(m.MBID)) }).
			Filter("visit", func(m models.MBReport, v string) bool { return field(v)(utils.CompletionLabel(m.VisitMonitoringID)) }).
			SortBy(func(a, b models.MBReport) bool { return a.RequisitionID > b.RequisitionID }),
		func(m models.MBReport) locationNames {
			return locationNames{m.DistrictName, m.BlockName, m.GramPanchayatName, m.VillageName}
		},
	).Build()
}
