package utils

import "strings"

// Permissions used by the gateway routes. Format is "resource:action".
const (
	PermRequisitionRead   = "requisition:read"
	PermRequisitionCreate = "requisition:create"
	PermComplaintRead     = "complaint:read"
	PermHandpumpRead      = "handpump:read"
	PermEstimationRead    = "estimation:read"
	PermEstimationCreate  = "estimation:create"
	PermMBRead            = "mb:read"
	PermMBUpdate          = "mb:update"
	PermVisitCreate       = "visit:create"
	PermReportExport      = "report:export"
)

// rolePermissions maps backend role names to permission patterns.
// Unknown roles get read access only.
var rolePermissions = map[string][]string{
	"admin": {"*:*"},
	"dpro":  {"*:read", "report:export", "visit:create"},
	"bdo":   {"*:read", "report:export", "visit:create"},
	"ce":    {"*:read", "report:export", "estimation:*", "mb:*"},
	"gp":    {"*:read", "requisition:create", "report:export"},
}

var readOnly = []string{"*:read"}

// PermissionsForRole returns the permission patterns of a backend role name.
// Matching is case-insensitive and tolerates "GP Sachiv" style suffixes.
func PermissionsForRole(role string) []string {
	key := strings.ToLower(strings.TrimSpace(role))
	if p, ok := rolePermissions[key]; ok {
		return p
	}
	if first, _, ok := strings.Cut(key, " "); ok {
		if p, ok := rolePermissions[first]; ok {
			return p
		}
	}
	return readOnly
}

// RoleHasPermission reports whether any of the role's patterns grants perm.
func RoleHasPermission(role, perm string) bool {
	for _, p := range PermissionsForRole(role) {
		if MatchesPermission(p, perm) {
			return true
		}
	}
	return false
}

// MatchesPermission checks if a granted permission pattern matches the required permission.
// Supports wildcard patterns:
//
// Examples:
//   - "*:*:*" or "*" matches everything
//   - "estimation:*" matches all actions on estimations
//   - "*:read" matches read on every resource
//   - "visit:create" exact match
//
// Permission format: "resource:action" or "resource:action:scope"
func MatchesPermission(userPerm, requiredPerm string) bool {
	if userPerm == requiredPerm {
		return true
	}

	if userPerm == "*:*:*" || userPerm == "*" {
		return true
	}

	userParts := strings.Split(userPerm, ":")
	reqParts := strings.Split(requiredPerm, ":")

	// Single-part permissions only match exactly
	if len(userParts) < 2 || len(reqParts) < 2 {
		return userPerm == requiredPerm
	}

	resourceMatch := userParts[0] == "*" || userParts[0] == reqParts[0]
	actionMatch := userParts[1] == "*" || userParts[1] == reqParts[1]

	return resourceMatch && actionMatch
}
