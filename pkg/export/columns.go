package export

import (
	"kdsgroup.co.in/hms/models"
	"kdsgroup.co.in/hms/utils"
)

func date(t models.JSONTime) any { return t.Display() }

var RequisitionColumns = []Column[models.Requisition]{
	{"Requisition ID", func(r models.Requisition) any { return r.RequisitionID }},
	{"Handpump Code", func(r models.Requisition) any { return r.HandpumpCode }},
	{"District", func(r models.Requisition) any { return r.DistrictName }},
	{"Block", func(r models.Requisition) any { return r.BlockName }},
	{"Gram Panchayat", func(r models.Requisition) any { return r.GramPanchayatName }},
	{"Village", func(r models.Requisition) any { return r.VillageName }},
	{"Mode", func(r models.Requisition) any { return r.Mode }},
	{"Stage", func(r models.Requisition) any { return utils.StageLabel(utils.RequisitionStage(r)) }},
	{"Sanction Amount", func(r models.Requisition) any { return r.SanctionAmount }},
	{"Requisition Date", func(r models.Requisition) any { return date(r.RequisitionDate) }},
	{"Completion Date", func(r models.Requisition) any { return date(r.CompletionDate) }},
}

var ComplaintColumns = []Column[models.Complaint]{
	{"Complaint ID", func(c models.Complaint) any { return c.ComplaintID }},
	{"Handpump Code", func(c models.Complaint) any { return c.HandpumpCode }},
	{"Complainant", func(c models.Complaint) any { return c.ComplainantName }},
	{"Mobile", func(c models.Complaint) any { return c.MobileNo }},
	{"District", func(c models.Complaint) any { return c.DistrictName }},
	{"Block", func(c models.Complaint) any { return c.BlockName }},
	{"Gram Panchayat", func(c models.Complaint) any { return c.GramPanchayatName }},
	{"Village", func(c models.Complaint) any { return c.VillageName }},
	{"Category", func(c models.Complaint) any { return c.Category }},
	{"Urgency", func(c models.Complaint) any { return c.Urgency }},
	{"Status", func(c models.Complaint) any { return utils.ComplaintStatusLabel(c.Status) }},
	{"Complaint Date", func(c models.Complaint) any { return date(c.ComplaintDate) }},
}

var HandpumpColumns = []Column[models.Handpump]{
	{"Handpump ID", func(h models.Handpump) any { return h.HandpumpID }},
	{"Handpump Code", func(h models.Handpump) any { return h.HandpumpCode }},
	{"District", func(h models.Handpump) any { return h.DistrictName }},
	{"Block", func(h models.Handpump) any { return h.BlockName }},
	{"Gram Panchayat", func(h models.Handpump) any { return h.GramPanchayatName }},
	{"Village", func(h models.Handpump) any { return h.VillageName }},
	{"Latitude", func(h models.Handpump) any { return h.Latitude }},
	{"Longitude", func(h models.Handpump) any { return h.Longitude }},
	{"Installation Year", func(h models.Handpump) any { return h.InstallationYear }},
	{"Active", func(h models.Handpump) any { return yesNo(h.IsActive) }},
}

var EstimationColumns = []Column[models.Estimation]{
	{"Estimation ID", func(e models.Estimation) any { return e.EstimationID }},
	{"Requisition ID", func(e models.Estimation) any { return e.RequisitionID }},
	{"Handpump Code", func(e models.Estimation) any { return e.HandpumpCode }},
	{"District", func(e models.Estimation) any { return e.DistrictName }},
	{"Block", func(e models.Estimation) any { return e.BlockName }},
	{"Gram Panchayat", func(e models.Estimation) any { return e.GramPanchayatName }},
	{"Village", func(e models.Estimation) any { return e.VillageName }},
	{"Mode", func(e models.Estimation) any { return e.Mode }},
	{"Total", func(e models.Estimation) any { return e.TotalAmount }},
	{"GST", func(e models.Estimation) any { return e.GSTAmount }},
	{"Grand Total", func(e models.Estimation) any { return e.GrandTotal }},
	{"Estimation Date", func(e models.Estimation) any { return date(e.EstimationDate) }},
}

var MBReportColumns = []Column[models.MBReport]{
	{"Requisition ID", func(m models.MBReport) any { return m.RequisitionID }},
	{"Handpump Code", func(m models.MBReport) any { return m.HandpumpCode }},
	{"District", func(m models.MBReport) any { return m.DistrictName }},
	{"Block", func(m models.MBReport) any { return m.BlockName }},
	{"Gram Panchayat", func(m models.MBReport) any { return m.GramPanchayatName }},
	{"Village", func(m models.MBReport) any { return m.VillageName }},
	{"Mode", func(m models.MBReport) any { return m.Mode }},
	{"MB", func(m models.MBReport) any { return utils.CompletionLabel(m.MBID) }},
	{"Visit Report", func(m models.MBReport) any { return utils.CompletionLabel(m.VisitMonitoringID) }},
	{"MB Amount", func(m models.MBReport) any { return m.MBAmount }},
	{"MB Date", func(m models.MBReport) any { return date(m.MBDate) }},
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
