package membership

import "math"

type TierShare struct {
	Level      int     `json:"level"`
	Name       string  `json:"name"`
	Color      string  `json:"color"`
	AnnualFee  int64   `json:"annual_fee"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type StatusShare struct {
	Status     Status  `json:"status"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type Stats struct {
	TotalMembers int           `json:"total_members"`
	Tiers        []TierShare   `json:"tiers"`
	Statuses     []StatusShare `json:"statuses"`
}

// Percentage is count/total*100 rounded to one decimal. A zero total yields 0.
func Percentage(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*1000) / 10
}

// ComputeStats scans members once and derives per-tier and per-status shares.
// Tiers keep the order they were given in; statuses use Statuses order.
func ComputeStats(tiers []Tier, members []MemberProfile) Stats {
	byTier := make(map[int]int, len(tiers))
	byStatus := make(map[Status]int, len(Statuses))
	for _, m := range members {
		byTier[m.TierLevel]++
		byStatus[m.Status]++
	}

	total := len(members)
	out := Stats{
		TotalMembers: total,
		Tiers:        make([]TierShare, 0, len(tiers)),
		Statuses:     make([]StatusShare, 0, len(Statuses)),
	}

	for _, t := range tiers {
		n := byTier[t.Level]
		out.Tiers = append(out.Tiers, TierShare{
			Level:      t.Level,
			Name:       t.Name,
			Color:      t.Color,
			AnnualFee:  t.AnnualFee,
			Count:      n,
			Percentage: Percentage(n, total),
		})
	}
	for _, s := range Statuses {
		n := byStatus[s]
		out.Statuses = append(out.Statuses, StatusShare{
			Status:     s,
			Count:      n,
			Percentage: Percentage(n, total),
		})
	}
	return out
}

// TierInfo returns the share of the tier at level.
func (s Stats) TierInfo(level int) (TierShare, bool) {
	for _, t := range s.Tiers {
		if t.Level == level {
			return t, true
		}
	}
	return TierShare{}, false
}

// StatusInfo returns the share of status st.
func (s Stats) StatusInfo(st Status) (StatusShare, bool) {
	for _, v := range s.Statuses {
		if v.Status == st {
			return v, true
		}
	}
	return StatusShare{}, false
}
