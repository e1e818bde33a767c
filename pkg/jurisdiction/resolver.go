// Package jurisdiction resolves a user's administrative scope and drives the
// District → Block → Gram Panchayat → Village selectors built on it.
package jurisdiction

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
	"kdsgroup.co.in/hms/models"
)

// ProfileSource fetches a user profile from the backend.
type ProfileSource interface {
	GetUserProfile(ctx context.Context, userID int) (models.UserProfile, error)
}

// ErrUnnamedLevel means a locked level has an id the backend cannot name.
// List clamps match on names, so such a jurisdiction is unusable.
var ErrUnnamedLevel = errors.New("jurisdiction: locked level has no name")

// Source is the backend the resolver reads profiles and location lists from.
type Source interface {
	ProfileSource
	LocationSource
}

// Resolver caches jurisdictions so the profile is fetched once per session.
type Resolver struct {
	src   Source
	cache *cache.Cache
}

func NewResolver(src Source, ttl time.Duration) *Resolver {
	return &Resolver{src: src, cache: cache.New(ttl, 2*ttl)}
}

func (r *Resolver) Resolve(ctx context.Context, userID int) (models.Jurisdiction, error) {
	key := strconv.Itoa(userID)
	if v, ok := r.cache.Get(key); ok {
		return v.(models.Jurisdiction), nil
	}
	p, err := r.src.GetUserProfile(ctx, userID)
	if err != nil {
		return models.Jurisdiction{}, fmt.Errorf("resolve jurisdiction for user %d: %w", userID, err)
	}
	if p.UserID == 0 {
		p.UserID = userID
	}
	j := p.Jurisdiction()
	if err := r.fillNames(ctx, &j); err != nil {
		return models.Jurisdiction{}, fmt.Errorf("resolve jurisdiction for user %d: %w", userID, err)
	}
	r.cache.SetDefault(key, j)
	return j, nil
}

// fillNames looks up the names the profile left blank for locked levels in
// the parent level's list.
func (r *Resolver) fillNames(ctx context.Context, j *models.Jurisdiction) error {
	children := func(parent *int, fetch func(context.Context, int) ([]models.Location, error)) func() ([]models.Location, error) {
		return func() ([]models.Location, error) {
			if parent == nil {
				return nil, nil
			}
			return fetch(ctx, *parent)
		}
	}
	levels := []struct {
		level models.Level
		id    *int
		name  *string
		list  func() ([]models.Location, error)
	}{
		{models.LevelDistrict, j.DistrictID, &j.DistrictName, func() ([]models.Location, error) {
			return r.src.GetDistricts(ctx, j.UserID)
		}},
		{models.LevelBlock, j.BlockID, &j.BlockName, children(j.DistrictID, r.src.GetBlocks)},
		{models.LevelGramPanchayat, j.GramPanchayatID, &j.GramPanchayatName, children(j.BlockID, r.src.GetGramPanchayats)},
	}
	for _, l := range levels {
		if l.id == nil || *l.name != "" {
			continue
		}
		opts, err := l.list()
		if err != nil {
			return fmt.Errorf("look up %s %d: %w", l.level, *l.id, err)
		}
		i := slices.IndexFunc(opts, func(o models.Location) bool { return o.ID == *l.id })
		if i < 0 || opts[i].Name == "" {
			return fmt.Errorf("%w: %s %d", ErrUnnamedLevel, l.level, *l.id)
		}
		*l.name = opts[i].Name
	}
	return nil
}

// Forget drops a cached jurisdiction, e.g. on logout.
func (r *Resolver) Forget(userID int) {
	r.cache.Delete(strconv.Itoa(userID))
}
