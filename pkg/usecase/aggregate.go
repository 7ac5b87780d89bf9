package usecase

import (
	"sort"

	"github.com/finport-lab/riskcast/pkg/domain/model"
	"github.com/finport-lab/riskcast/pkg/domain/types"
)

// TopImpactedLimit caps the top-impacted list in scenario results
const TopImpactedLimit = 10

// Aggregate folds per-entity impacts into a portfolio-level summary.
// It is a pure function: the same impact set always yields the same
// results, regardless of the order impacts were computed in.
//
// Critical counts are baselineCritical (the critical entities outside
// the impacted subset) plus the counts over the impacted subset, so no
// entity is counted twice.
func Aggregate(impacts []model.Impact, baselineCritical, skipped int) *model.ScenarioResults {
	sorted := make([]model.Impact, len(impacts))
	copy(sorted, impacts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Change != sorted[j].Change {
			return sorted[i].Change > sorted[j].Change
		}
		return sorted[i].EntityID < sorted[j].EntityID
	})

	criticalBefore := baselineCritical
	criticalAfter := baselineCritical
	totalChange := 0
	for _, imp := range sorted {
		if imp.TierBefore == types.RiskTierCritical {
			criticalBefore++
		}
		if imp.TierAfter == types.RiskTierCritical {
			criticalAfter++
		}
		totalChange += imp.Change
	}

	avgChange := 0.0
	if len(sorted) > 0 {
		avgChange = float64(totalChange) / float64(len(sorted))
	}

	top := sorted
	if len(top) > TopImpactedLimit {
		top = top[:TopImpactedLimit]
	}
	topImpacted := make([]model.Impact, len(top))
	copy(topImpacted, top)

	return &model.ScenarioResults{
		Portfolio: model.PortfolioImpact{
			CriticalBefore: criticalBefore,
			CriticalAfter:  criticalAfter,
			AvgScoreChange: avgChange,
			TotalAffected:  len(sorted),
			Skipped:        skipped,
		},
		Sectors:     sectorBreakdown(sorted),
		TopImpacted: topImpacted,
	}
}

func sectorBreakdown(impacts []model.Impact) []model.SectorImpact {
	type bucket struct {
		count int
		total int
	}
	buckets := make(map[string]*bucket)
	for _, imp := range impacts {
		b, ok := buckets[imp.Sector]
		if !ok {
			b = &bucket{}
			buckets[imp.Sector] = b
		}
		b.count++
		b.total += imp.Change
	}

	result := make([]model.SectorImpact, 0, len(buckets))
	for sector, b := range buckets {
		result = append(result, model.SectorImpact{
			Sector:    sector,
			Entities:  b.count,
			AvgChange: float64(b.total) / float64(b.count),
		})
	}

	// Hardest-hit sectors first; sector name breaks ties so the
	// breakdown is deterministic.
	sort.Slice(result, func(i, j int) bool {
		if result[i].AvgChange != result[j].AvgChange {
			return result[i].AvgChange > result[j].AvgChange
		}
		return result[i].Sector < result[j].Sector
	})

	return result
}
