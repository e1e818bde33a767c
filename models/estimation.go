package models

// Estimation is a row of the CE estimation list.
type Estimation struct {
	EstimationID      int      `json:"estimationId"`
	RequisitionID     int      `json:"requisitionId"`
	HandpumpCode      string   `json:"handpumpCode"`
	VillageName       string   `json:"villageName"`
	GramPanchayatName string   `json:"gramPanchayatName"`
	BlockName         string   `json:"blockName"`
	DistrictName      string   `json:"districtName"`
	Mode              string   `json:"mode"`
	TotalAmount       float64  `json:"totalAmount"`
	GSTAmount         float64  `json:"gstAmount"`
	GrandTotal        float64  `json:"grandTotal"`
	SanctionAmount    float64  `json:"sanctionAmount"`
	EstimationDate    JSONTime `json:"estimationDate"`
	Status            string   `json:"status"`
}

// EstimationItem is a catalogue or custom line of an estimation form.
type EstimationItem struct {
	ItemID   int     `json:"itemId,omitempty" yaml:"id"`
	ItemName string  `json:"itemName" yaml:"name"`
	Unit     string  `json:"unit,omitempty" yaml:"unit"`
	Rate     float64 `json:"rate" yaml:"rate"`
	Quantity float64 `json:"quantity" yaml:"quantity"`
	Selected bool    `json:"selected" yaml:"-"`
	Custom   bool    `json:"custom,omitempty" yaml:"-"`
}

// Amount is rate × quantity.
func (i EstimationItem) Amount() float64 {
	return i.Rate * i.Quantity
}

// EstimationBreakdown is the derived money summary of an estimation.
type EstimationBreakdown struct {
	Total           float64 `json:"total"`
	GSTRate         float64 `json:"gstRate"`
	GST             float64 `json:"gst"`
	TotalWithGST    float64 `json:"totalWithGst"`
	EstimationFee   float64 `json:"estimationFee"`
	MBFee           float64 `json:"mbFee"`
	GrandTotal      float64 `json:"grandTotal"`
	SelectedItemCnt int     `json:"selectedItems"`
}

// EstimationInput is the body forwarded to InsertRequisitionEstimation.
type EstimationInput struct {
	RequisitionID int                 `json:"requisitionId"`
	Items         []EstimationItem    `json:"items"`
	GSTRate       float64             `json:"gstRate,omitempty"`
	Remarks       string              `json:"remarks,omitempty"`
	Breakdown     EstimationBreakdown `json:"breakdown"`
	CreatedBy     int                 `json:"createdBy"`
}
