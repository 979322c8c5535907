package way

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fillMiddle completes the middle point at index so the add guard passes.
func fillMiddle(t *testing.T, d *Draft, dir []Office, index int, officeID uint, offset int) {
	t.Helper()
	require.NoError(t, d.SelectOffice(dir, MiddleSlot(index), officeID))
	require.NoError(t, d.SetOffset(MiddleSlot(index), offset))
}

func TestAddMiddlePointSeedsFromMaxOffset(t *testing.T) {
	dir := testDirectory()
	d := NewDraft()

	idx, err := d.AddMiddlePoint()
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	require.NotNil(t, d.Middles[0].Offset)
	assert.Equal(t, 0, *d.Middles[0].Offset, "first middle point seeds from 0")

	fillMiddle(t, d, dir, 0, 2, 120)

	idx, err = d.AddMiddlePoint()
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 120, *d.Middles[1].Offset, "new middle point seeds from current max")
	assert.Equal(t, 120, *d.End.Offset, "end offset resyncs to current max")
}

func TestAddMiddlePointRefusesWhileIncomplete(t *testing.T) {
	d := NewDraft()
	_, err := d.AddMiddlePoint()
	require.NoError(t, err)

	// The fresh point has no office or name yet.
	_, err = d.AddMiddlePoint()
	assert.ErrorIs(t, err, ErrIncompleteMiddle)
	assert.Len(t, d.Middles, 1, "refused add must leave the collection unchanged")
}

func TestRemoveMiddlePointRecomputesEndOffset(t *testing.T) {
	dir := testDirectory()
	d := NewDraft()

	for i, tc := range []struct {
		officeID uint
		offset   int
	}{{2, 60}, {3, 180}} {
		idx, err := d.AddMiddlePoint()
		require.NoError(t, err)
		require.Equal(t, i, idx)
		fillMiddle(t, d, dir, idx, tc.officeID, tc.offset)
	}

	require.NoError(t, d.RemoveMiddlePoint(1))
	assert.Len(t, d.Middles, 1)
	assert.Equal(t, 60, *d.End.Offset, "end offset falls back to the remaining max")

	require.NoError(t, d.RemoveMiddlePoint(0))
	assert.Empty(t, d.Middles)
	assert.Equal(t, 0, *d.End.Offset, "end offset falls back to 0 with no middles left")
}

func TestRemoveMiddlePointOutOfRange(t *testing.T) {
	d := NewDraft()
	assert.ErrorIs(t, d.RemoveMiddlePoint(0), ErrNoSuchPoint)
	assert.ErrorIs(t, d.RemoveMiddlePoint(-1), ErrNoSuchPoint)
}

func TestEndOffsetResyncIsADefaultNotAClamp(t *testing.T) {
	dir := testDirectory()
	d := NewDraft()

	idx, err := d.AddMiddlePoint()
	require.NoError(t, err)
	fillMiddle(t, d, dir, idx, 2, 120)

	// The operator may overwrite the synced default afterwards.
	require.NoError(t, d.SetOffset(EndSlot(), 300))
	assert.Equal(t, 300, *d.End.Offset)
}

func TestSetOffsetRules(t *testing.T) {
	d := NewDraft()

	assert.ErrorIs(t, d.SetOffset(StartSlot(), 10), ErrStartOffsetFixed)
	assert.Equal(t, 0, *d.Start.Offset, "start offset stays pinned at 0")

	assert.ErrorIs(t, d.SetOffset(EndSlot(), -5), ErrNegativeOffset)
	assert.ErrorIs(t, d.SetOffset(MiddleSlot(3), 10), ErrNoSuchPoint)

	require.NoError(t, d.SetOffset(EndSlot(), 45))
	assert.Equal(t, 45, *d.End.Offset)
}
