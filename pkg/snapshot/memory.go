package snapshot

import (
	"context"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps snapshots in process for ttl.
type MemoryStore struct {
	c *cache.Cache
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{c: cache.New(ttl, 2*ttl)}
}

func (m *MemoryStore) Load(_ context.Context, userID int) (Snapshot, bool) {
	v, ok := m.c.Get(strconv.Itoa(userID))
	if !ok {
		return Snapshot{}, false
	}
	return v.(Snapshot), true
}

func (m *MemoryStore) Save(_ context.Context, userID int, s Snapshot) error {
	m.c.SetDefault(strconv.Itoa(userID), s)
	return nil
}

func (m *MemoryStore) Invalidate(_ context.Context, userID int) error {
	m.c.Delete(strconv.Itoa(userID))
	return nil
}
