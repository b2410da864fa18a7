// Package lineup extracts starting lineups and pitchers from a boxscore.
package lineup

import (
	"mlb-lineup-bot/internal/types"
)

const lineupSize = 9

// ExtractLineup returns a side's batting order as 1-indexed slots. A
// game whose lineup has not posted yet legitimately has an empty order;
// that returns an empty slice, not an error.
func ExtractLineup(box *types.Boxscore, side string) []types.LineupSlot {
	sheet := box.Side(side)
	if len(sheet.BattingOrder) == 0 {
		return nil
	}

	slots := make([]types.LineupSlot, 0, len(sheet.BattingOrder))
	for idx, id := range sheet.BattingOrder {
		slot := types.LineupSlot{Order: idx + 1, ID: id}
		if p, ok := sheet.Players[id]; ok {
			slot.Name = p.Name
			slot.Position = p.Position
		} else {
			slot.Name = "Unknown"
		}
		slots = append(slots, slot)
	}
	return slots
}

// StartingPitcher returns the first entry of the side's pitcher list,
// in the order the upstream reports it. No innings or date tie-break is
// applied; changing that selection rule would change which pitcher's
// recent line shows on the card.
func StartingPitcher(box *types.Boxscore, side string) (types.PitcherInfo, bool) {
	sheet := box.Side(side)
	if len(sheet.Pitchers) == 0 {
		return types.PitcherInfo{}, false
	}

	id := sheet.Pitchers[0]
	info := types.PitcherInfo{ID: id, Position: "P"}
	if p, ok := sheet.Players[id]; ok {
		info.Name = p.Name
		if p.Position != "" {
			info.Position = p.Position
		}
	}
	return info, true
}

// IsOfficial reports whether both sides have a complete batting order.
// Complete means exactly nine: fewer is a lineup still being posted,
// more means extra entries slipped in and the card would mislabel slots.
func IsOfficial(box *types.Boxscore) bool {
	return len(box.Home.BattingOrder) == lineupSize &&
		len(box.Away.BattingOrder) == lineupSize
}
