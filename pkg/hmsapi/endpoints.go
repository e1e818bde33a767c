package hmsapi

// DefaultBaseURL is the production HMS backend.
const DefaultBaseURL = "https://hmsapi.kdsgroup.co.in/api"

// Paths relative to the base URL. Spellings follow the backend.
const (
	pathLogin             = "Signup/Login"
	pathUserProfile       = "Signup/GetUserProfileById"
	pathDistricts         = "Master/GetDistrictListByUserId"
	pathBlocks            = "Master/GetBlockListByDistrict"
	pathGramPanchayats    = "Master/GetGramPanchayatByBlock"
	pathVillages          = "Master/GetVillegeByGramPanchayat"
	pathHandpumps         = "Master/GetHandpumpListByUserId"
	pathRequisitions      = "HandpumpRequisition/GetRequisitionListByUserId"
	pathComplaints        = "Complaint/GetComplaintListByUserId"
	pathEstimations       = "HandpumpRequisition/GetRequisitionEstimationListByUserId"
	pathMBReports         = "HandpumpRequisition/GetMBVisitReportListByUserId"
	pathInsertRequisition = "HandpumpRequisition/InsertRequisitionDetails"
	pathInsertEstimation  = "HandpumpRequisition/InsertRequisitionEstimation"
	pathUpdateMBRemarks   = "HandpumpRequisition/UpdateMbItemsRemark"
	pathInsertVisitReport = "HandpumpRequisition/InsertHandpumpVisitMonitoring"
)
