package way

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validDraft builds the Saigon–Dalat example: start office 1 at 0,
// middle office 2 at 120, end office 3 at 300.
func validDraft(t *testing.T) *Draft {
	t.Helper()
	dir := testDirectory()
	d := NewDraft()
	d.SetInfo("Saigon–Dalat", "Daily express line")

	require.NoError(t, d.SelectOffice(dir, StartSlot(), 1))

	idx, err := d.AddMiddlePoint()
	require.NoError(t, err)
	require.NoError(t, d.SelectOffice(dir, MiddleSlot(idx), 2))
	require.NoError(t, d.SetOffset(MiddleSlot(idx), 120))

	require.NoError(t, d.SelectOffice(dir, EndSlot(), 3))
	require.NoError(t, d.SetOffset(EndSlot(), 300))
	return d
}

func TestValidateAcceptsCompleteDraft(t *testing.T) {
	assert.NoError(t, validDraft(t).Validate())
}

func TestValidateFieldRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Draft)
		field  string
	}{
		{"blank name", func(d *Draft) { d.Name = "   " }, "way_name"},
		{"blank description", func(d *Draft) { d.Description = "" }, "way_description"},
		{"missing start office", func(d *Draft) { d.Start.OfficeID = 0 }, "start_point.office_id"},
		{"missing end office", func(d *Draft) { d.End.OfficeID = 0 }, "end_point.office_id"},
		{"missing end offset", func(d *Draft) { d.End.Offset = nil }, "end_point.pickup_point_time"},
		{"negative end offset", func(d *Draft) { d.End.Offset = intPtr(-1) }, "end_point.pickup_point_time"},
		{"missing middle office", func(d *Draft) { d.Middles[0].OfficeID = 0 }, "middle_points[0].office_id"},
		{"missing middle name", func(d *Draft) { d.Middles[0].Name = "" }, "middle_points[0].pickup_point_name"},
		{"missing middle offset", func(d *Draft) { d.Middles[0].Offset = nil }, "middle_points[0].pickup_point_time"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := validDraft(t)
			tc.mutate(d)

			err := d.Validate()
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			fields := make([]string, len(verr.Fields))
			for i, f := range verr.Fields {
				fields[i] = f.Field
			}
			assert.Contains(t, fields, tc.field)
		})
	}
}

func TestValidateCatchesDuplicateOfficesInDecodedData(t *testing.T) {
	// A payload from elsewhere can carry duplicates SelectOffice would
	// have refused; the gate must still reject it.
	d := validDraft(t)
	d.End.OfficeID = d.Start.OfficeID

	err := d.Validate()
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 1)
	assert.Equal(t, "end_point.office_id", verr.Fields[0].Field)
}

func TestValidateReportsAllFailuresAtOnce(t *testing.T) {
	d := NewDraft()
	err := d.Validate()
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.GreaterOrEqual(t, len(verr.Fields), 4)
}
