package way

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDirectory() []Office {
	return []Office{
		{ID: 1, Name: "Saigon Central"},
		{ID: 2, Name: "Bao Loc"},
		{ID: 3, Name: "Dalat Station"},
		{ID: 4, Name: "Nha Trang"},
	}
}

func TestSelectOfficeDerivesNameAndClearsDescription(t *testing.T) {
	dir := testDirectory()
	d := NewDraft()

	require.NoError(t, d.SetPointDescription(StartSlot(), "old text"))
	require.NoError(t, d.SelectOffice(dir, StartSlot(), 1))

	assert.Equal(t, uint(1), d.Start.OfficeID)
	assert.Equal(t, "Saigon Central", d.Start.Name)
	assert.Empty(t, d.Start.Description, "description must be cleared on selection")
}

func TestSelectOfficeRejectsUnknownOffice(t *testing.T) {
	d := NewDraft()
	err := d.SelectOffice(testDirectory(), StartSlot(), 99)
	assert.ErrorIs(t, err, ErrUnknownOffice)
}

func TestSelectOfficeEnforcesExclusivity(t *testing.T) {
	dir := testDirectory()
	d := NewDraft()
	require.NoError(t, d.SelectOffice(dir, StartSlot(), 1))

	err := d.SelectOffice(dir, EndSlot(), 1)
	assert.ErrorIs(t, err, ErrOfficeInUse)
	assert.Zero(t, d.End.OfficeID, "failed selection must not assign the office")
}

func TestSelectOfficeAllowsReselectingOwnOffice(t *testing.T) {
	dir := testDirectory()
	d := NewDraft()
	require.NoError(t, d.SelectOffice(dir, EndSlot(), 3))
	require.NoError(t, d.SetPointDescription(EndSlot(), "platform 2"))

	// Re-selecting the office the slot already holds is not a conflict.
	require.NoError(t, d.SelectOffice(dir, EndSlot(), 3))
	assert.Equal(t, uint(3), d.End.OfficeID)
}

func TestSelectableOfficesExcludesAssignedButKeepsOwn(t *testing.T) {
	dir := testDirectory()
	d := NewDraft()
	require.NoError(t, d.SelectOffice(dir, StartSlot(), 1))
	require.NoError(t, d.SelectOffice(dir, EndSlot(), 3))

	t.Run("own office stays selectable for its slot", func(t *testing.T) {
		offices, err := d.SelectableOffices(dir, StartSlot())
		require.NoError(t, err)
		ids := officeIDs(offices)
		assert.Contains(t, ids, uint(1))
		assert.NotContains(t, ids, uint(3))
	})

	t.Run("other slots no longer see the assigned offices", func(t *testing.T) {
		idx, err := d.AddMiddlePoint()
		require.NoError(t, err)
		offices, err := d.SelectableOffices(dir, MiddleSlot(idx))
		require.NoError(t, err)
		assert.ElementsMatch(t, []uint{2, 4}, officeIDs(offices))
	})
}

func TestSelectableOfficesBlankPointSeesFullRemainingPool(t *testing.T) {
	dir := testDirectory()
	d := NewDraft()

	offices, err := d.SelectableOffices(dir, EndSlot())
	require.NoError(t, err)
	assert.Len(t, offices, len(dir), "a blank draft excludes nothing")
}

func TestSelectableOfficesBadSlot(t *testing.T) {
	d := NewDraft()
	_, err := d.SelectableOffices(testDirectory(), MiddleSlot(0))
	assert.ErrorIs(t, err, ErrNoSuchPoint)
}

func officeIDs(offices []Office) []uint {
	ids := make([]uint, len(offices))
	for i, o := range offices {
		ids[i] = o.ID
	}
	return ids
}
