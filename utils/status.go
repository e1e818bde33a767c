package utils

import (
	"strings"

	"kdsgroup.co.in/hms/models"
)

// Requisition stages, derived from which server flags are non-null.
const (
	StagePending   = "pending"
	StageEstimated = "estimated"
	StageOrdered   = "ordered"
	StageVisited   = "visited"
	StageCompleted = "completed"
)

var stageLabels = map[string]string{
	StagePending:   "Pending Estimation",
	StageEstimated: "Estimated",
	StageOrdered:   "Work Order Issued",
	StageVisited:   "Visited",
	StageCompleted: "Completed",
}

// RequisitionStage reads the furthest step the backend has recorded.
func RequisitionStage(r models.Requisition) string {
	switch {
	case r.MBID.Set():
		return StageCompleted
	case r.VisitMonitoringID.Set():
		return StageVisited
	case r.OrderID.Set():
		return StageOrdered
	case r.CEStatus.Set():
		return StageEstimated
	default:
		return StagePending
	}
}

// StageLabel is the display text of a stage key.
func StageLabel(stage string) string {
	if l, ok := stageLabels[stage]; ok {
		return l
	}
	return stage
}

// ComplaintStatusLabel relabels backend complaint statuses for display.
// "Open" is shown as "Pending" everywhere.
func ComplaintStatusLabel(status string) string {
	if strings.EqualFold(strings.TrimSpace(status), "open") {
		return "Pending"
	}
	return status
}

// CompletionLabel renders a nullable step id as Completed/Pending.
func CompletionLabel(f models.Flag) string {
	if f.Set() {
		return "Completed"
	}
	return "Pending"
}
