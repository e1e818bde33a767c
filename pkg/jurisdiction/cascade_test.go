package jurisdiction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"kdsgroup.co.in/hms/models"
)

type call struct {
	level  models.Level
	parent int
}

type fakeSource struct {
	calls []call
	fail  map[models.Level]bool
}

func (f *fakeSource) list(level models.Level, parent int) ([]models.Location, error) {
	f.calls = append(f.calls, call{level, parent})
	if f.fail[level] {
		return nil, errors.New("upstream down")
	}
	base := parent * 10
	return []models.Location{
		{ID: base + 1, Name: level.String() + "-a"},
		{ID: base + 2, Name: level.String() + "-b"},
	}, nil
}

func (f *fakeSource) GetDistricts(_ context.Context, userID int) ([]models.Location, error) {
	return f.list(models.LevelDistrict, userID)
}
func (f *fakeSource) GetBlocks(_ context.Context, id int) ([]models.Location, error) {
	return f.list(models.LevelBlock, id)
}
func (f *fakeSource) GetGramPanchayats(_ context.Context, id int) ([]models.Location, error) {
	return f.list(models.LevelGramPanchayat, id)
}
func (f *fakeSource) GetVillages(_ context.Context, id int) ([]models.Location, error) {
	return f.list(models.LevelVillage, id)
}

func intp(v int) *int { return &v }

func TestCascadeLockedDistrict(t *testing.T) {
	src := &fakeSource{}
	j := models.Jurisdiction{UserID: 3, DistrictID: intp(5), DistrictName: "Varanasi"}

	c := NewCascade(context.Background(), src, j)

	require.Len(t, c.District.Options, 1)
	assert.Equal(t, models.Location{ID: 5, Name: "Varanasi"}, c.District.Options[0])
	assert.True(t, c.District.Disabled)
	assert.Equal(t, 5, *c.District.Selected)
	assert.Equal(t, []call{{models.LevelBlock, 5}}, src.calls, "district must not be fetched, blocks fetched with district 5")
	assert.Len(t, c.Block.Options, 2)
	assert.False(t, c.Block.Disabled)
}

func TestCascadeUnrestrictedFetchesDistricts(t *testing.T) {
	src := &fakeSource{}
	c := NewCascade(context.Background(), src, models.Jurisdiction{UserID: 9})

	assert.Equal(t, []call{{models.LevelDistrict, 9}}, src.calls)
	assert.False(t, c.District.Disabled)
	assert.Nil(t, c.District.Selected)
	assert.Empty(t, c.Block.Options)
}

func TestCascadeFullyLockedGP(t *testing.T) {
	src := &fakeSource{}
	j := models.Jurisdiction{
		UserID:     1,
		DistrictID: intp(5), DistrictName: "D",
		BlockID: intp(51), BlockName: "B",
		GramPanchayatID: intp(511), GramPanchayatName: "G",
	}
	c := NewCascade(context.Background(), src, j)

	assert.True(t, c.District.Disabled)
	assert.True(t, c.Block.Disabled)
	assert.True(t, c.GramPanchayat.Disabled)
	assert.Equal(t, []call{{models.LevelVillage, 511}}, src.calls)
	assert.Equal(t, map[models.Level]string{
		models.LevelDistrict:      "D",
		models.LevelBlock:         "B",
		models.LevelGramPanchayat: "G",
	}, c.Names())
}

func TestSelectingDistrictResetsDescendants(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{}
	c := NewCascade(ctx, src, models.Jurisdiction{UserID: 1})

	require.NoError(t, c.SelectDistrict(ctx, intp(11)))
	require.NoError(t, c.SelectBlock(ctx, intp(111)))
	require.NoError(t, c.SelectGramPanchayat(ctx, intp(1111)))
	require.NoError(t, c.SelectVillage(ctx, intp(11111)))
	require.NotEmpty(t, c.Village.Options)

	require.NoError(t, c.SelectDistrict(ctx, intp(12)))

	assert.Equal(t, 12, *c.District.Selected)
	assert.Nil(t, c.Block.Selected)
	assert.Nil(t, c.GramPanchayat.Selected)
	assert.Nil(t, c.Village.Selected)
	assert.Empty(t, c.GramPanchayat.Options)
	assert.Empty(t, c.Village.Options)
	assert.Equal(t, []models.Location{{ID: 121, Name: "block-a"}, {ID: 122, Name: "block-b"}}, c.Block.Options)
}

func TestClearingParentFetchesNothing(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{}
	c := NewCascade(ctx, src, models.Jurisdiction{UserID: 1})
	require.NoError(t, c.SelectDistrict(ctx, intp(11)))
	before := len(src.calls)

	require.NoError(t, c.SelectDistrict(ctx, nil))

	assert.Len(t, src.calls, before)
	assert.Nil(t, c.District.Selected)
	assert.Empty(t, c.Block.Options)
}

func TestLockedLevelRejectsChange(t *testing.T) {
	ctx := context.Background()
	c := NewCascade(ctx, &fakeSource{}, models.Jurisdiction{UserID: 1, DistrictID: intp(5), DistrictName: "D"})

	assert.ErrorIs(t, c.SelectDistrict(ctx, intp(6)), ErrLocked)
	assert.ErrorIs(t, c.SelectDistrict(ctx, nil), ErrLocked)
	assert.NoError(t, c.SelectDistrict(ctx, intp(5)))
	assert.Equal(t, 5, *c.District.Selected)
}

func TestFetchFailureLeavesListEmptyWithNotice(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{fail: map[models.Level]bool{models.LevelBlock: true}}
	c := NewCascade(ctx, src, models.Jurisdiction{UserID: 1})

	require.NoError(t, c.SelectDistrict(ctx, intp(11)))

	assert.NotNil(t, c.Block.Options)
	assert.Empty(t, c.Block.Options)
	require.Len(t, c.Notices, 1)
	assert.Equal(t, "Failed to load block list", c.Notices[0].Message)
}

type profileSource struct {
	fakeSource
	profileCalls int
	profile      models.UserProfile
}

func (p *profileSource) GetUserProfile(_ context.Context, userID int) (models.UserProfile, error) {
	p.profileCalls++
	prof := p.profile
	prof.UserID = userID
	return prof, nil
}

func TestResolverCachesPerUser(t *testing.T) {
	src := &profileSource{profile: models.UserProfile{RoleName: "BDO", DistrictID: intp(5), DistrictName: "Varanasi", BlockID: intp(0)}}
	r := NewResolver(src, time.Minute)

	j, err := r.Resolve(context.Background(), 4)
	require.NoError(t, err)
	_, err = r.Resolve(context.Background(), 4)
	require.NoError(t, err)

	assert.Equal(t, 1, src.profileCalls)
	assert.Equal(t, 5, *j.DistrictID)
	assert.Nil(t, j.BlockID, "zero ids are unrestricted")

	r.Forget(4)
	_, err = r.Resolve(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, 2, src.profileCalls)
}

func TestResolverNamesLockedLevels(t *testing.T) {
	// districts for user 4 are 41 and 42, blocks of 41 are 411 and 412
	src := &profileSource{profile: models.UserProfile{RoleName: "BDO", DistrictID: intp(41), BlockID: intp(412)}}
	r := NewResolver(src, time.Minute)

	j, err := r.Resolve(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, models.LevelDistrict.String()+"-a", j.DistrictName)
	assert.Equal(t, models.LevelBlock.String()+"-b", j.BlockName)
	assert.Equal(t, []call{{models.LevelDistrict, 4}, {models.LevelBlock, 41}}, src.calls)
}

func TestResolverFailsClosedOnUnknownLevel(t *testing.T) {
	src := &profileSource{profile: models.UserProfile{RoleName: "DPRO", DistrictID: intp(99)}}
	r := NewResolver(src, time.Minute)

	_, err := r.Resolve(context.Background(), 4)
	assert.ErrorIs(t, err, ErrUnnamedLevel)

	_, err = r.Resolve(context.Background(), 4)
	assert.Error(t, err)
	assert.Equal(t, 2, src.profileCalls, "failures are not cached")
}

func TestResolverLookupFailure(t *testing.T) {
	src := &profileSource{profile: models.UserProfile{RoleName: "BDO", DistrictID: intp(41), DistrictName: "Varanasi", BlockID: intp(412)}}
	src.fail = map[models.Level]bool{models.LevelBlock: true}
	r := NewResolver(src, time.Minute)

	_, err := r.Resolve(context.Background(), 4)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnnamedLevel)
	assert.Equal(t, []call{{models.LevelBlock, 41}}, src.calls, "named district is not looked up")
}
