package submission

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"kdsgroup.co.in/hms/models"
)

func TestNewReferenceSortsByTime(t *testing.T) {
	now := time.Now()
	a := NewReference(now)
	b := NewReference(now)
	c := NewReference(now.Add(time.Second))

	assert.Len(t, a, 26)
	assert.Less(t, a, b, "monotonic within the same millisecond")
	assert.Less(t, b, c)

	id, err := ulid.ParseStrict(a)
	require.NoError(t, err)
	assert.Equal(t, ulid.Timestamp(now), id.Time())
}

func TestNewLog(t *testing.T) {
	l, err := NewLog(models.SubmissionVisit, 9, models.VisitReport{RequisitionID: 3}, []string{"/uploads/a.jpg"}, nil)
	require.NoError(t, err)
	assert.True(t, l.Succeeded)
	assert.Empty(t, l.Error)
	assert.JSONEq(t, `3`, string(mustField(t, l.Payload, "requisitionId")))

	failed, err := NewLog(models.SubmissionVisit, 9, map[string]int{"x": 1}, nil, errors.New("hmsapi: down"))
	require.NoError(t, err)
	assert.False(t, failed.Succeeded)
	assert.Equal(t, "hmsapi: down", failed.Error)

	_, err = NewLog(models.SubmissionVisit, 9, func() {}, nil, nil)
	assert.Error(t, err)
}

func TestMemoryRecorderListsNewestFirst(t *testing.T) {
	ctx := context.Background()
	rec := NewMemoryRecorder()
	for i, user := range []int{1, 2, 1, 1} {
		l, err := NewLog(models.SubmissionMBRemarks, user, map[string]int{"n": i}, nil, nil)
		require.NoError(t, err)
		require.NoError(t, rec.Record(ctx, l))
	}

	logs, err := rec.List(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Greater(t, logs[0].Reference, logs[2].Reference)

	logs, err = rec.List(ctx, 1, 2)
	require.NoError(t, err)
	assert.Len(t, logs, 2)

	logs, err = rec.List(ctx, 3, 0)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func mustField(t *testing.T, raw []byte, key string) []byte {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &m))
	return m[key]
}
