package way

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeOrdersPointsStartMiddlesEnd(t *testing.T) {
	d := validDraft(t)
	tr := d.Encode()

	require.Len(t, tr.Points, 3)
	assert.Equal(t, KindStart, tr.Points[0].Kind)
	assert.Equal(t, KindMiddle, tr.Points[1].Kind)
	assert.Equal(t, KindEnd, tr.Points[2].Kind)

	assert.Equal(t, uint(1), tr.Points[0].OfficeID)
	assert.Equal(t, 0, tr.Points[0].Time)
	assert.Equal(t, uint(2), tr.Points[1].OfficeID)
	assert.Equal(t, 120, tr.Points[1].Time)
	assert.Equal(t, uint(3), tr.Points[2].OfficeID)
	assert.Equal(t, 300, tr.Points[2].Time)

	assert.Nil(t, tr.WayID, "a draft that was never persisted has no way id")
}

func TestEncodeForcesStartOffsetToZero(t *testing.T) {
	d := validDraft(t)
	// Simulate a corrupted start offset; the serializer must not trust it.
	d.Start.Offset = intPtr(42)

	tr := d.Encode()
	assert.Equal(t, 0, tr.Points[0].Time)
}

func TestEncodeTrimsWayFields(t *testing.T) {
	d := validDraft(t)
	d.SetInfo("  Saigon–Dalat  ", "\tDaily express line\n")

	tr := d.Encode()
	assert.Equal(t, "Saigon–Dalat", tr.Name)
	assert.Equal(t, "Daily express line", tr.Description)
}

func TestRoundTripIsLosslessForValidWays(t *testing.T) {
	d := validDraft(t)
	id := uint(7)
	d.WayID = &id

	decoded, err := Decode(d.Encode())
	require.NoError(t, err)
	assert.Equal(t, d, decoded)
}

func TestDecodePreservesMiddleOrder(t *testing.T) {
	tr := &Transport{
		Name:        "Loop",
		Description: "desc",
		Points: []TransportPoint{
			{OfficeID: 1, Name: "A", Time: 0, Kind: KindStart},
			{OfficeID: 2, Name: "B", Time: 90, Kind: KindMiddle},
			{OfficeID: 3, Name: "C", Time: 30, Kind: KindMiddle},
			{OfficeID: 4, Name: "D", Time: 200, Kind: KindEnd},
		},
	}

	d, err := Decode(tr)
	require.NoError(t, err)
	require.Len(t, d.Middles, 2)
	// Source order wins even when offsets are not ascending.
	assert.Equal(t, "B", d.Middles[0].Name)
	assert.Equal(t, "C", d.Middles[1].Name)
}

func TestDecodeForcesStartOffsetToZero(t *testing.T) {
	tr := &Transport{
		Name:        "Line",
		Description: "desc",
		Points: []TransportPoint{
			{OfficeID: 1, Name: "A", Time: 55, Kind: KindStart},
			{OfficeID: 2, Name: "B", Time: 100, Kind: KindEnd},
		},
	}

	d, err := Decode(tr)
	require.NoError(t, err)
	require.NotNil(t, d.Start.Offset)
	assert.Equal(t, 0, *d.Start.Offset)
}

func TestDecodeRejectsMalformedPayloads(t *testing.T) {
	start := TransportPoint{OfficeID: 1, Name: "A", Kind: KindStart}
	end := TransportPoint{OfficeID: 2, Name: "B", Kind: KindEnd}

	tests := []struct {
		name   string
		points []TransportPoint
	}{
		{"missing start", []TransportPoint{end}},
		{"missing end", []TransportPoint{start}},
		{"duplicate start", []TransportPoint{start, start, end}},
		{"duplicate end", []TransportPoint{start, end, end}},
		{"unknown kind", []TransportPoint{start, {OfficeID: 3, Kind: Kind(5)}, end}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(&Transport{Name: "x", Description: "y", Points: tc.points})
			assert.Error(t, err)
		})
	}
}
