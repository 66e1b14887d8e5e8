package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

func TestCountSlots(t *testing.T) {
	tests := []struct {
		name string
		flag *int
		want SlotCounts
	}{
		{"low slot", intPtr(11), SlotCounts{LowSlots: 1}},
		{"low slot upper bound", intPtr(18), SlotCounts{LowSlots: 1}},
		{"mid slot", intPtr(19), SlotCounts{MidSlots: 1}},
		{"high slot", intPtr(27), SlotCounts{HighSlots: 1}},
		{"rig slot", intPtr(92), SlotCounts{RigSlots: 1}},
		{"subsystem slot", intPtr(125), SlotCounts{SubsystemSlots: 1}},
		{"drone bay 87", intPtr(87), SlotCounts{Drones: 1}},
		{"drone bay 90", intPtr(90), SlotCounts{Drones: 1}},
		{"cargo hold", intPtr(5), SlotCounts{Cargo: 1}},
		{"unknown flag", intPtr(999), SlotCounts{Other: 1}},
		{"absent flag", nil, SlotCounts{Other: 1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := CountSlots([]Item{{ItemTypeID: int64Ptr(34), Flag: tc.flag}})
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseFullVictim(t *testing.T) {
	payload := []byte(`{
		"victim": {
			"ship_type_id": 587,
			"items": [
				{"item_type_id": 2873, "flag": 27},
				{"item_type_id": 2873, "flag": 28},
				{"item_type_id": 438, "flag": 11},
				{"item_type_id": 31716, "flag": 92},
				{"item_type_id": 12608, "flag": 5}
			]
		}
	}`)

	draft := Parse(payload)
	require.NotNil(t, draft)
	assert.Equal(t, int64(587), draft.ShipTypeID)
	assert.ElementsMatch(t, []int64{2873, 2873, 438, 31716, 12608}, draft.ItemTypeIDs)
	assert.Equal(t, SlotCounts{HighSlots: 2, LowSlots: 1, RigSlots: 1, Cargo: 1}, draft.SlotCounts)
}

func TestParseFullFeedPackage(t *testing.T) {
	payload := []byte(`{
		"killID": 128000001,
		"zkb": {"hash": "abc123hash", "fittedValue": 1734000.5},
		"killmail": {
			"victim": {
				"ship_type_id": 587,
				"items": [
					{"item_type_id": 2873, "flag": 27},
					{"item_type_id": 438, "flag": 11}
				]
			}
		}
	}`)

	draft := Parse(payload)
	require.NotNil(t, draft)
	assert.Equal(t, int64(587), draft.ShipTypeID)
	assert.ElementsMatch(t, []int64{2873, 438}, draft.ItemTypeIDs)
	assert.Equal(t, SlotCounts{HighSlots: 1, LowSlots: 1}, draft.SlotCounts)
}

func TestUnwrapKillmail(t *testing.T) {
	wrapped := []byte(`{"zkb": {"hash": "x"}, "killmail": {"victim": {}}}`)
	assert.JSONEq(t, `{"victim": {}}`, string(UnwrapKillmail(wrapped)))

	bare := []byte(`{"victim": {"ship_type_id": 587}}`)
	assert.Equal(t, bare, UnwrapKillmail(bare))
}

func TestParseMissingShipType(t *testing.T) {
	assert.Nil(t, Parse([]byte(`{"victim": {"items": []}}`)))
	assert.Nil(t, Parse([]byte(`{}`)))
	assert.Nil(t, Parse(nil))
	assert.Nil(t, Parse([]byte(`not json`)))
}

func TestParseItemWithoutType(t *testing.T) {
	payload := []byte(`{
		"victim": {
			"ship_type_id": 587,
			"items": [{"flag": 27}]
		}
	}`)

	draft := Parse(payload)
	require.NotNil(t, draft)
	assert.Empty(t, draft.ItemTypeIDs)
	// still counted as a mounted item even though its type is unknown
	assert.Equal(t, 1, draft.SlotCounts.HighSlots)
}
