package models

// MBReport is a row of the MB / visit report screen. Completion of each
// step is read from the nullable ids only.
type MBReport struct {
	RequisitionID     int      `json:"requisitionId"`
	HandpumpCode      string   `json:"handpumpCode"`
	VillageName       string   `json:"villageName"`
	GramPanchayatName string   `json:"gramPanchayatName"`
	BlockName         string   `json:"blockName"`
	DistrictName      string   `json:"districtName"`
	Mode              string   `json:"mode"`
	MBID              Flag     `json:"mbId"`
	VisitMonitoringID Flag     `json:"visitMonitoringId"`
	SanctionAmount    float64  `json:"sanctionAmount"`
	MBAmount          float64  `json:"mbAmount"`
	OrderDate         JSONTime `json:"orderDate"`
	MBDate            JSONTime `json:"mbDate"`

	MBStatus    string `json:"mbStatus,omitempty"`
	VisitStatus string `json:"visitStatus,omitempty"`
}

// MBItemRemark updates the remark of one material book line.
type MBItemRemark struct {
	MBItemID int    `json:"mbItemId"`
	Remark   string `json:"remark"`
}

// MBRemarksInput is the body forwarded to UpdateMbItemsRemark.
type MBRemarksInput struct {
	RequisitionID int            `json:"requisitionId"`
	Items         []MBItemRemark `json:"items"`
	UpdatedBy     int            `json:"updatedBy"`
}

// VisitReport is the inspection form forwarded to
// InsertHandpumpVisitMonitoring.
type VisitReport struct {
	RequisitionID   int      `json:"requisitionId"`
	HandpumpID      int      `json:"handpumpId"`
	IsRusted        bool     `json:"isRusted"`
	IsDamaged       bool     `json:"isDamaged"`
	PlatformDamaged bool     `json:"platformDamaged"`
	MaintenanceDone bool     `json:"maintenanceDone"`
	WaterQuality    string   `json:"waterQuality"`
	Remarks         string   `json:"remarks,omitempty"`
	Photos          []string `json:"photos,omitempty"`
	VisitDate       JSONTime `json:"visitDate"`
	VisitedBy       int      `json:"visitedBy"`
}

// LoginResult is what Signup/Login returns inside the envelope.
type LoginResult struct {
	UserID   int    `json:"userId"`
	UserName string `json:"userName"`
	RoleName string `json:"roleName"`
	Token    string `json:"token"`
}
