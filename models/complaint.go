package models

// Complaint is a citizen-reported issue tied to a handpump.
type Complaint struct {
	ComplaintID       int      `json:"complaintId"`
	HandpumpID        int      `json:"handpumpId"`
	HandpumpCode      string   `json:"handpumpCode"`
	ComplainantName   string   `json:"complainantName"`
	MobileNo          string   `json:"mobileNo"`
	VillageName       string   `json:"villageName"`
	GramPanchayatName string   `json:"gramPanchayatName"`
	BlockName         string   `json:"blockName"`
	DistrictName      string   `json:"districtName"`
	Category          string   `json:"category"`
	Urgency           string   `json:"urgency"`
	Status            string   `json:"status"`
	Description       string   `json:"description"`
	ComplaintDate     JSONTime `json:"complaintDate"`
}
