package console

import (
	"fmt"
	"sort"
	"strings"
)

const (
	BadgeKindTable      = "table"
	BadgeKindOverflow   = "overflow"
	BadgeKindUnassigned = "unassigned"
	BadgeKindCancelled  = "cancelled"
)

// maxTableBadges caps how many code badges a row shows before overflowing
// into a "+N" badge.
const maxTableBadges = 2

type Badge struct {
	Label string `json:"label"`
	Kind  string `json:"kind"`
}

// TableBadges is the derived per-row table display: up to two code badges,
// an optional overflow badge, and a tooltip enumerating every assigned table.
type TableBadges struct {
	Badges  []Badge `json:"badges"`
	Tooltip string  `json:"tooltip,omitempty"`
}

// BadgesFor derives the row badges for a reservation. Codes resolve through
// the cache where available and otherwise fall back to a truncated-ID
// placeholder; the ordering is lexicographic over the displayed value.
func BadgesFor(reservation reservationResource, cache *TableCodeCache) TableBadges {
	tableIDs := reservation.TableIDs()

	if len(tableIDs) == 0 {
		if reservation.Status == statusCancelled {
			return TableBadges{Badges: []Badge{{Label: "cancelled", Kind: BadgeKindCancelled}}}
		}
		return TableBadges{Badges: []Badge{{Label: "unassigned", Kind: BadgeKindUnassigned}}}
	}

	codes := make([]string, 0, len(tableIDs))
	for _, id := range tableIDs {
		codes = append(codes, cache.DisplayCode(id))
	}
	sort.Strings(codes)

	if len(codes) == 1 {
		return TableBadges{Badges: []Badge{{Label: codes[0], Kind: BadgeKindTable}}}
	}

	shown := codes
	if len(shown) > maxTableBadges {
		shown = codes[:maxTableBadges]
	}

	badges := make([]Badge, 0, maxTableBadges+1)
	for _, code := range shown {
		badges = append(badges, Badge{Label: code, Kind: BadgeKindTable})
	}
	if overflow := len(codes) - maxTableBadges; overflow > 0 {
		badges = append(badges, Badge{Label: fmt.Sprintf("+%d", overflow), Kind: BadgeKindOverflow})
	}

	return TableBadges{
		Badges:  badges,
		Tooltip: strings.Join(codes, ", "),
	}
}
