package snapshot

import (
	"context"

	"go.uber.org/zap"
	"kdsgroup.co.in/hms/models"
)

type refreshKey struct{}

// WithRefresh marks ctx so Cached fetches bypass the stored snapshot, the
// equivalent of the screens' manual Retry.
func WithRefresh(ctx context.Context) context.Context {
	return context.WithValue(ctx, refreshKey{}, true)
}

func refreshing(ctx context.Context) bool {
	v, _ := ctx.Value(refreshKey{}).(bool)
	return v
}

// Slot reads and writes one dataset of a snapshot.
type Slot[T any] struct {
	Get func(Snapshot) ([]T, bool)
	Set func(Snapshot, []T) Snapshot
}

var (
	HandpumpSlot    = Slot[models.Handpump]{Get: Snapshot.Handpumps, Set: Snapshot.WithHandpumps}
	ComplaintSlot   = Slot[models.Complaint]{Get: Snapshot.Complaints, Set: Snapshot.WithComplaints}
	RequisitionSlot = Slot[models.Requisition]{Get: Snapshot.Requisitions, Set: Snapshot.WithRequisitions}
	EstimationSlot  = Slot[models.Estimation]{Get: Snapshot.Estimations, Set: Snapshot.WithEstimations}
	MBReportSlot    = Slot[models.MBReport]{Get: Snapshot.MBReports, Set: Snapshot.WithMBReports}
)

// Cached wraps fetch so a user's dataset is fetched once and then served
// from store until invalidated or refreshed.
func Cached[T any](store Store, slot Slot[T], fetch func(ctx context.Context, userID int) ([]T, error), log *zap.Logger) func(ctx context.Context, userID int) ([]T, error) {
	return func(ctx context.Context, userID int) ([]T, error) {
		s, ok := store.Load(ctx, userID)
		if ok && !refreshing(ctx) {
			if rows, have := slot.Get(s); have {
				return rows, nil
			}
		}
		rows, err := fetch(ctx, userID)
		if err != nil {
			return nil, err
		}
		// Re-read so a concurrent write to another slot is not lost. A failed
		// write is not fatal; the next call refetches.
		s, _ = store.Load(ctx, userID)
		save(ctx, store, userID, slot.Set(s, rows), log)
		return rows, nil
	}
}

func save(ctx context.Context, store Store, userID int, s Snapshot, log *zap.Logger) {
	if err := store.Save(ctx, userID, s); err != nil && log != nil {
		log.Warn("snapshot save failed", zap.Int("userId", userID), zap.Error(err))
	}
}
