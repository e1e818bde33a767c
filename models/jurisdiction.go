package models

// UserProfile is the subset of Signup/GetUserProfileById the gateway uses.
type UserProfile struct {
	UserID            int    `json:"userId"`
	UserName          string `json:"userName"`
	Name              string `json:"name"`
	MobileNo          string `json:"mobileNo"`
	RoleID            int    `json:"roleId"`
	RoleName          string `json:"roleName"`
	DistrictID        *int   `json:"districtId"`
	DistrictName      string `json:"districtName"`
	BlockID           *int   `json:"blockId"`
	BlockName         string `json:"blockName"`
	GramPanchayatID   *int   `json:"gramPanchayatId"`
	GramPanchayatName string `json:"gramPanchayatName"`
}

// Jurisdiction is the administrative scope of a user. A nil id at a level
// means the user is unrestricted from that level down.
type Jurisdiction struct {
	UserID            int    `json:"userId"`
	Role              string `json:"role"`
	DistrictID        *int   `json:"districtId"`
	DistrictName      string `json:"districtName,omitempty"`
	BlockID           *int   `json:"blockId"`
	BlockName         string `json:"blockName,omitempty"`
	GramPanchayatID   *int   `json:"gramPanchayatId"`
	GramPanchayatName string `json:"gramPanchayatName,omitempty"`
}

// Jurisdiction derives the scope from the profile. Zero ids are treated
// as unset, the backend sends 0 for admins on some deployments.
func (p UserProfile) Jurisdiction() Jurisdiction {
	return Jurisdiction{
		UserID:            p.UserID,
		Role:              p.RoleName,
		DistrictID:        nonZero(p.DistrictID),
		DistrictName:      p.DistrictName,
		BlockID:           nonZero(p.BlockID),
		BlockName:         p.BlockName,
		GramPanchayatID:   nonZero(p.GramPanchayatID),
		GramPanchayatName: p.GramPanchayatName,
	}
}

// Unrestricted reports whether no level is locked.
func (j Jurisdiction) Unrestricted() bool {
	return j.DistrictID == nil && j.BlockID == nil && j.GramPanchayatID == nil
}

func nonZero(p *int) *int {
	if p == nil || *p == 0 {
		return nil
	}
	v := *p
	return &v
}
