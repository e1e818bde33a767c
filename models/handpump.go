package models

// Handpump is one row of the handpump roster.
type Handpump struct {
	HandpumpID        int     `json:"handpumpId"`
	HandpumpCode      string  `json:"handpumpCode"`
	VillageName       string  `json:"villageName"`
	GramPanchayatName string  `json:"gramPanchayatName"`
	BlockName         string  `json:"blockName"`
	DistrictName      string  `json:"districtName"`
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
	InstallationYear  int     `json:"installationYear"`
	Depth             float64 `json:"depth"`
	IsActive          bool    `json:"isActive"`
}

// HasLocation is false for pumps registered without coordinates.
func (h Handpump) HasLocation() bool {
	return h.Latitude != 0 || h.Longitude != 0
}
