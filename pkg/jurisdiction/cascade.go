package jurisdiction

import (
	"context"
	"errors"
	"fmt"

	"kdsgroup.co.in/hms/models"
)

// ErrLocked is returned when a selection would change a level fixed by the
// user's jurisdiction.
var ErrLocked = errors.New("jurisdiction: level is locked")

// LocationSource fetches the option lists of each level.
type LocationSource interface {
	GetDistricts(ctx context.Context, userID int) ([]models.Location, error)
	GetBlocks(ctx context.Context, districtID int) ([]models.Location, error)
	GetGramPanchayats(ctx context.Context, blockID int) ([]models.Location, error)
	GetVillages(ctx context.Context, gramPanchayatID int) ([]models.Location, error)
}

// Notice is a transient, dismissible message about a failed fetch.
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Selector is the state of one dropdown.
type Selector struct {
	Options  []models.Location `json:"options"`
	Selected *int              `json:"selected"`
	Disabled bool              `json:"disabled"`
}

// SelectedName returns the name of the selected option, or "".
func (s Selector) SelectedName() string {
	if s.Selected == nil {
		return ""
	}
	for _, o := range s.Options {
		if o.ID == *s.Selected {
			return o.Name
		}
	}
	return ""
}

// Cascade holds the four selectors. Each child list is fetched only after
// its parent is chosen, and changing a parent clears everything below it.
type Cascade struct {
	District      Selector `json:"district"`
	Block         Selector `json:"block"`
	GramPanchayat Selector `json:"gramPanchayat"`
	Village       Selector `json:"village"`
	Notices       []Notice `json:"notices,omitempty"`

	src LocationSource
}

// NewCascade initialises the selectors for a user. Locked levels are
// synthesised from the jurisdiction without a network call, and the first
// unlocked level below them is fetched straight away.
func NewCascade(ctx context.Context, src LocationSource, j models.Jurisdiction) *Cascade {
	c := &Cascade{src: src}

	if j.DistrictID == nil {
		c.District.Options = c.fetch(ctx, models.LevelDistrict, j.UserID)
		return c
	}
	c.District = locked(*j.DistrictID, j.DistrictName)

	if j.BlockID == nil {
		c.Block.Options = c.fetch(ctx, models.LevelBlock, *j.DistrictID)
		return c
	}
	c.Block = locked(*j.BlockID, j.BlockName)

	if j.GramPanchayatID == nil {
		c.GramPanchayat.Options = c.fetch(ctx, models.LevelGramPanchayat, *j.BlockID)
		return c
	}
	c.GramPanchayat = locked(*j.GramPanchayatID, j.GramPanchayatName)
	c.Village.Options = c.fetch(ctx, models.LevelVillage, *j.GramPanchayatID)
	return c
}

func locked(id int, name string) Selector {
	sel := id
	return Selector{
		Options:  []models.Location{{ID: id, Name: name}},
		Selected: &sel,
		Disabled: true,
	}
}

func (c *Cascade) SelectDistrict(ctx context.Context, id *int) error {
	if c.District.Disabled {
		return lockedErr(models.LevelDistrict, c.District, id)
	}
	c.District.Selected = clone(id)
	c.resetBelow(models.LevelDistrict)
	if id != nil {
		c.Block.Options = c.fetch(ctx, models.LevelBlock, *id)
	}
	return nil
}

func (c *Cascade) SelectBlock(ctx context.Context, id *int) error {
	if c.Block.Disabled {
		return lockedErr(models.LevelBlock, c.Block, id)
	}
	c.Block.Selected = clone(id)
	c.resetBelow(models.LevelBlock)
	if id != nil {
		c.GramPanchayat.Options = c.fetch(ctx, models.LevelGramPanchayat, *id)
	}
	return nil
}

func (c *Cascade) SelectGramPanchayat(ctx context.Context, id *int) error {
	if c.GramPanchayat.Disabled {
		return lockedErr(models.LevelGramPanchayat, c.GramPanchayat, id)
	}
	c.GramPanchayat.Selected = clone(id)
	c.resetBelow(models.LevelGramPanchayat)
	if id != nil {
		c.Village.Options = c.fetch(ctx, models.LevelVillage, *id)
	}
	return nil
}

func (c *Cascade) SelectVillage(_ context.Context, id *int) error {
	c.Village.Selected = clone(id)
	return nil
}

// Select dispatches on level.
func (c *Cascade) Select(ctx context.Context, level models.Level, id *int) error {
	switch level {
	case models.LevelDistrict:
		return c.SelectDistrict(ctx, id)
	case models.LevelBlock:
		return c.SelectBlock(ctx, id)
	case models.LevelGramPanchayat:
		return c.SelectGramPanchayat(ctx, id)
	case models.LevelVillage:
		return c.SelectVillage(ctx, id)
	}
	return fmt.Errorf("jurisdiction: unknown level %d", level)
}

// Names returns the selected name at each level, for filtering rows that
// only carry denormalised names.
func (c *Cascade) Names() map[models.Level]string {
	out := map[models.Level]string{}
	for level, s := range map[models.Level]Selector{
		models.LevelDistrict:      c.District,
		models.LevelBlock:         c.Block,
		models.LevelGramPanchayat: c.GramPanchayat,
		models.LevelVillage:       c.Village,
	} {
		if name := s.SelectedName(); name != "" {
			out[level] = name
		}
	}
	return out
}

func (c *Cascade) resetBelow(level models.Level) {
	if level < models.LevelBlock {
		c.Block = Selector{}
	}
	if level < models.LevelGramPanchayat {
		c.GramPanchayat = Selector{}
	}
	if level < models.LevelVillage {
		c.Village = Selector{}
	}
}

func (c *Cascade) fetch(ctx context.Context, level models.Level, parentID int) []models.Location {
	var (
		opts []models.Location
		err  error
	)
	switch level {
	case models.LevelDistrict:
		opts, err = c.src.GetDistricts(ctx, parentID)
	case models.LevelBlock:
		opts, err = c.src.GetBlocks(ctx, parentID)
	case models.LevelGramPanchayat:
		opts, err = c.src.GetGramPanchayats(ctx, parentID)
	case models.LevelVillage:
		opts, err = c.src.GetVillages(ctx, parentID)
	}
	if err != nil {
		c.Notices = append(c.Notices, Notice{
			Level:   "error",
			Message: fmt.Sprintf("Failed to load %s list", level),
		})
		return []models.Location{}
	}
	if opts == nil {
		opts = []models.Location{}
	}
	return opts
}

// lockedErr lets a caller re-assert the locked value without an error.
func lockedErr(level models.Level, s Selector, id *int) error {
	if id != nil && s.Selected != nil && *id == *s.Selected {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrLocked, level)
}

func clone(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
