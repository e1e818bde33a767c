package models

// Requisition is a repair/rebore request as returned by
// HandpumpRequisition/GetRequisitionListByUserId. Location fields are the
// backend's denormalised names, not ids.
type Requisition struct {
	RequisitionID     int      `json:"requisitionId"`
	HandpumpID        int      `json:"handpumpId"`
	HandpumpCode      string   `json:"handpumpCode"`
	VillageName       string   `json:"villageName"`
	GramPanchayatName string   `json:"gramPanchayatName"`
	BlockName         string   `json:"blockName"`
	DistrictName      string   `json:"districtName"`
	Mode              string   `json:"mode"`
	RequisitionStatus Flag     `json:"requisitionStatus"`
	OrderID           Flag     `json:"orderId"`
	CEStatus          Flag     `json:"ceStatus"`
	MBID              Flag     `json:"mbId"`
	VisitMonitoringID Flag     `json:"visitMonitoringId"`
	SanctionAmount    float64  `json:"sanctionAmount"`
	RequisitionDate   JSONTime `json:"requisitionDate"`
	CompletionDate    JSONTime `json:"completionDate"`
	ImageURL          string   `json:"imageUrl,omitempty"`
	Remarks           string   `json:"remarks,omitempty"`

	// Stage is the display label derived from the flags above.
	Stage string `json:"stage,omitempty"`
}

const (
	ModeRepair = "Repair"
	ModeRebore = "Rebore"
)

// RequisitionInput is the body forwarded to InsertRequisitionDetails.
type RequisitionInput struct {
	HandpumpID      int      `json:"handpumpId"`
	VillageID       int      `json:"villageId"`
	GramPanchayatID int      `json:"gramPanchayatId"`
	Mode            string   `json:"mode"`
	Problem         string   `json:"problem"`
	Remarks         string   `json:"remarks,omitempty"`
	ImageURL        string   `json:"imageUrl,omitempty"`
	RequisitionDate JSONTime `json:"requisitionDate"`
	CreatedBy       int      `json:"createdBy"`
}
