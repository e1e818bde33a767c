// Package snapshot is the cross-screen search cache: the last-fetched
// datasets of each user, handed out as read-only copies.
package snapshot

import (
	"context"
	"encoding/json"
	"slices"
	"time"

	"kdsgroup.co.in/hms/models"
)

// Snapshot is immutable from the outside: accessors return copies and the
// With* methods return a modified value.
type Snapshot struct {
	handpumps    []models.Handpump
	complaints   []models.Complaint
	requisitions []models.Requisition
	estimations  []models.Estimation
	mbReports    []models.MBReport
	fetchedAt    time.Time
}

func (s Snapshot) Handpumps() ([]models.Handpump, bool) {
	return slices.Clone(s.handpumps), s.handpumps != nil
}

func (s Snapshot) Complaints() ([]models.Complaint, bool) {
	return slices.Clone(s.complaints), s.complaints != nil
}

func (s Snapshot) Requisitions() ([]models.Requisition, bool) {
	return slices.Clone(s.requisitions), s.requisitions != nil
}

func (s Snapshot) Estimations() ([]models.Estimation, bool) {
	return slices.Clone(s.estimations), s.estimations != nil
}

func (s Snapshot) MBReports() ([]models.MBReport, bool) {
	return slices.Clone(s.mbReports), s.mbReports != nil
}

func (s Snapshot) FetchedAt() time.Time { return s.fetchedAt }

func (s Snapshot) WithHandpumps(v []models.Handpump) Snapshot {
	s.handpumps = nonNil(v)
	s.fetchedAt = time.Now()
	return s
}

func (s Snapshot) WithComplaints(v []models.Complaint) Snapshot {
	s.complaints = nonNil(v)
	s.fetchedAt = time.Now()
	return s
}

func (s Snapshot) WithRequisitions(v []models.Requisition) Snapshot {
	s.requisitions = nonNil(v)
	s.fetchedAt = time.Now()
	return s
}

func (s Snapshot) WithEstimations(v []models.Estimation) Snapshot {
	s.estimations = nonNil(v)
	s.fetchedAt = time.Now()
	return s
}

func (s Snapshot) WithMBReports(v []models.MBReport) Snapshot {
	s.mbReports = nonNil(v)
	s.fetchedAt = time.Now()
	return s
}

// nonNil keeps "fetched but empty" distinct from "never fetched".
func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return slices.Clone(v)
}

type wire struct {
	Handpumps    []models.Handpump    `json:"handpumps"`
	Complaints   []models.Complaint   `json:"complaints"`
	Requisitions []models.Requisition `json:"requisitions"`
	Estimations  []models.Estimation  `json:"estimations"`
	MBReports    []models.MBReport    `json:"mbReports"`
	FetchedAt    time.Time            `json:"fetchedAt"`
}

func (s Snapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(wire{
		Handpumps:    s.handpumps,
		Complaints:   s.complaints,
		Requisitions: s.requisitions,
		Estimations:  s.estimations,
		MBReports:    s.mbReports,
		FetchedAt:    s.fetchedAt,
	})
}

func (s *Snapshot) UnmarshalJSON(b []byte) error {
	var w wire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*s = Snapshot{
		handpumps:    w.Handpumps,
		complaints:   w.Complaints,
		requisitions: w.Requisitions,
		estimations:  w.Estimations,
		mbReports:    w.MBReports,
		fetchedAt:    w.FetchedAt,
	}
	return nil
}

// Store keeps one snapshot per user. Writes are last-write-wins.
type Store interface {
	Load(ctx context.Context, userID int) (Snapshot, bool)
	Save(ctx context.Context, userID int, s Snapshot) error
	Invalidate(ctx context.Context, userID int) error
}
