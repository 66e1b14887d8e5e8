// Package parser turns raw killmail payloads into fit drafts: the victim's
// ship type, the fitted-item multiset, and per-slot counts derived from EVE's
// mount-location flags.
package parser

import "encoding/json"

// SlotCounts buckets fitted items by mount location.
type SlotCounts struct {
	LowSlots       int `json:"low_slots"`
	MidSlots       int `json:"mid_slots"`
	HighSlots      int `json:"high_slots"`
	RigSlots       int `json:"rig_slots"`
	SubsystemSlots int `json:"subsystem_slots"`
	Drones         int `json:"drones"`
	Cargo          int `json:"cargo"`
	Other          int `json:"other"`
}

// Draft is a parsed fit awaiting persistence.
type Draft struct {
	ShipTypeID  int64
	ItemTypeIDs []int64
	SlotCounts  SlotCounts
}

// Item is a single fitted item as reported by the feed.
type Item struct {
	ItemTypeID *int64 `json:"item_type_id"`
	Flag       *int   `json:"flag"`
}

type killmailEnvelope struct {
	Victim struct {
		ShipTypeID *int64 `json:"ship_type_id"`
		Items      []Item `json:"items"`
	} `json:"victim"`
}

// UnwrapKillmail returns the killmail object nested under a feed package's
// "killmail" key, or the payload unchanged when it is already a bare
// killmail. Stored payloads keep the whole package, so readers unwrap.
func UnwrapKillmail(payload []byte) []byte {
	var wrapper struct {
		Killmail json.RawMessage `json:"killmail"`
	}
	if err := json.Unmarshal(payload, &wrapper); err == nil && len(wrapper.Killmail) > 0 {
		return wrapper.Killmail
	}
	return payload
}

// Parse extracts the victim's fit from a feed payload, either a full
// package or a bare killmail object. A payload without a victim ship type
// is not an error: partial feed items are expected and yield no fit.
func Parse(payload []byte) *Draft {
	if len(payload) == 0 {
		return nil
	}

	var env killmailEnvelope
	if err := json.Unmarshal(UnwrapKillmail(payload), &env); err != nil {
		return nil
	}
	if env.Victim.ShipTypeID == nil || *env.Victim.ShipTypeID == 0 {
		return nil
	}

	itemTypeIDs := make([]int64, 0, len(env.Victim.Items))
	for _, item := range env.Victim.Items {
		if item.ItemTypeID != nil && *item.ItemTypeID != 0 {
			itemTypeIDs = append(itemTypeIDs, *item.ItemTypeID)
		}
	}

	return &Draft{
		ShipTypeID:  *env.Victim.ShipTypeID,
		ItemTypeIDs: itemTypeIDs,
		SlotCounts:  CountSlots(env.Victim.Items),
	}
}

// Slot names as used for slot counting and item type hints.
const (
	SlotLow       = "low"
	SlotMid       = "mid"
	SlotHigh      = "high"
	SlotRig       = "rig"
	SlotSubsystem = "subsystem"
	SlotDrone     = "drone"
	SlotCargo     = "cargo"
	SlotOther     = "other"
)

// SlotForFlag classifies a mount-location flag by EVE's ranges:
// 11-18 low, 19-26 mid, 27-34 high, 92-99 rig, 125-132 subsystem,
// 87/90 drone bay, 5 cargo hold.
func SlotForFlag(flag int) string {
	switch {
	case flag >= 11 && flag <= 18:
		return SlotLow
	case flag >= 19 && flag <= 26:
		return SlotMid
	case flag >= 27 && flag <= 34:
		return SlotHigh
	case flag >= 92 && flag <= 99:
		return SlotRig
	case flag >= 125 && flag <= 132:
		return SlotSubsystem
	case flag == 87 || flag == 90:
		return SlotDrone
	case flag == 5:
		return SlotCargo
	default:
		return SlotOther
	}
}

// CountSlots buckets items by mount location. An absent flag lands in the
// uncategorized bucket.
func CountSlots(items []Item) SlotCounts {
	var counts SlotCounts
	for _, item := range items {
		slot := SlotOther
		if item.Flag != nil {
			slot = SlotForFlag(*item.Flag)
		}
		switch slot {
		case SlotLow:
			counts.LowSlots++
		case SlotMid:
			counts.MidSlots++
		case SlotHigh:
			counts.HighSlots++
		case SlotRig:
			counts.RigSlots++
		case SlotSubsystem:
			counts.SubsystemSlots++
		case SlotDrone:
			counts.Drones++
		case SlotCargo:
			counts.Cargo++
		default:
			counts.Other++
		}
	}
	return counts
}
