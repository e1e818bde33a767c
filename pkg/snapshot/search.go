package snapshot

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"kdsgroup.co.in/hms/models"
)

// Sources are the raw backend fetchers used to fill a cold snapshot.
type Sources struct {
	Handpumps    func(ctx context.Context, userID int) ([]models.Handpump, error)
	Complaints   func(ctx context.Context, userID int) ([]models.Complaint, error)
	Requisitions func(ctx context.Context, userID int) ([]models.Requisition, error)
	Estimations  func(ctx context.Context, userID int) ([]models.Estimation, error)
}

// Results of a global search, capped per kind.
type Results struct {
	Term         string               `json:"term"`
	Handpumps    []models.Handpump    `json:"handpumps"`
	Complaints   []models.Complaint   `json:"complaints"`
	Requisitions []models.Requisition `json:"requisitions"`
	Estimations  []models.Estimation  `json:"estimations"`
}

// Warm makes sure the four searchable datasets are present, fetching the
// missing ones concurrently and saving the snapshot once.
func Warm(ctx context.Context, store Store, src Sources, userID int, log *zap.Logger) (Snapshot, error) {
	s, _ := store.Load(ctx, userID)
	if refreshing(ctx) {
		mb, ok := s.MBReports()
		s = Snapshot{}
		if ok {
			s = s.WithMBReports(mb)
		}
	}

	var (
		handpumps    []models.Handpump
		complaints   []models.Complaint
		requisitions []models.Requisition
		estimations  []models.Estimation
	)
	_, haveH := s.Handpumps()
	_, haveC := s.Complaints()
	_, haveR := s.Requisitions()
	_, haveE := s.Estimations()

	g, gctx := errgroup.WithContext(ctx)
	if !haveH {
		g.Go(func() (err error) { handpumps, err = src.Handpumps(gctx, userID); return })
	}
	if !haveC {
		g.Go(func() (err error) { complaints, err = src.Complaints(gctx, userID); return })
	}
	if !haveR {
		g.Go(func() (err error) { requisitions, err = src.Requisitions(gctx, userID); return })
	}
	if !haveE {
		g.Go(func() (err error) { estimations, err = src.Estimations(gctx, userID); return })
	}
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	if !haveH {
		s = s.WithHandpumps(handpumps)
	}
	if !haveC {
		s = s.WithComplaints(complaints)
	}
	if !haveR {
		s = s.WithRequisitions(requisitions)
	}
	if !haveE {
		s = s.WithEstimations(estimations)
	}
	dirty := !(haveH && haveC && haveR && haveE)
	if dirty {
		save(ctx, store, userID, s, log)
	}
	return s, nil
}

// Search matches term as a case-insensitive substring of each record's
// identifying fields. limit <= 0 means no cap.
func Search(s Snapshot, term string, limit int) Results {
	term = strings.ToLower(strings.TrimSpace(term))
	res := Results{
		Term:         term,
		Handpumps:    []models.Handpump{},
		Complaints:   []models.Complaint{},
		Requisitions: []models.Requisition{},
		Estimations:  []models.Estimation{},
	}
	if term == "" {
		return res
	}
	hps, _ := s.Handpumps()
	res.Handpumps = collect(hps, term, limit, func(h models.Handpump) []string {
		return []string{h.HandpumpCode, h.VillageName, h.GramPanchayatName, h.BlockName, h.DistrictName}
	})
	cs, _ := s.Complaints()
	res.Complaints = collect(cs, term, limit, func(c models.Complaint) []string {
		return []string{strconv.Itoa(c.ComplaintID), c.HandpumpCode, c.ComplainantName, c.MobileNo, c.VillageName, c.GramPanchayatName}
	})
	rs, _ := s.Requisitions()
	res.Requisitions = collect(rs, term, limit, func(r models.Requisition) []string {
		return []string{strconv.Itoa(r.RequisitionID), r.HandpumpCode, r.VillageName, r.GramPanchayatName, r.BlockName, r.DistrictName}
	})
	es, _ := s.Estimations()
	res.Estimations = collect(es, term, limit, func(e models.Estimation) []string {
		return []string{strconv.Itoa(e.EstimationID), strconv.Itoa(e.RequisitionID), e.HandpumpCode, e.VillageName, e.GramPanchayatName}
	})
	return res
}

func collect[T any](rows []T, term string, limit int, fields func(T) []string) []T {
	out := []T{}
	for _, r := range rows {
		if limit > 0 && len(out) >= limit {
			break
		}
		for _, f := range fields(r) {
			if strings.Contains(strings.ToLower(f), term) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}
