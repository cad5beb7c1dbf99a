package deckgen

import (
	"math"

	"github.com/ramonehamilton/EDH-Companion/internal/cards"
)

// Heuristic fallback shares used when aggregated statistics are missing
// or empty. The curve shares sum to 100%; the type shares deliberately
// leave 4% of slack that the allocator spreads over the flex spell types.
var (
	heuristicCurveShares = map[int]float64{
		0: 0.02, 1: 0.12, 2: 0.20, 3: 0.25, 4: 0.18, 5: 0.12, 6: 0.06, 7: 0.05,
	}

	heuristicTypeShares = map[cards.CardType]float64{
		cards.TypeCreature:     0.45,
		cards.TypeInstant:      0.12,
		cards.TypeSorcery:      0.12,
		cards.TypeArtifact:     0.12,
		cards.TypeEnchantment:  0.12,
		cards.TypePlaneswalker: 0.03,
		cards.TypeBattle:       0.00,
	}

	// flexTypes absorb the heuristic rounding shortfall, keeping the
	// creature target at its documented round(share * nonLandCount).
	flexTypes = []cards.CardType{
		cards.TypeInstant,
		cards.TypeSorcery,
		cards.TypeArtifact,
		cards.TypeEnchantment,
		cards.TypePlaneswalker,
	}
)

// AllocateTargets converts the deck size, land count, and aggregated
// statistics into exact per-type and per-curve-bucket targets.
// Both the stats-driven and the heuristic path guarantee
// sum(TypeTargets) == sum(CurveTargets) == slots − landCount.
func AllocateTargets(slots, landCount, nonBasicPref int, stats *CommanderStats) TargetProfile {
	nonLand := slots - landCount
	if nonLand < 0 {
		nonLand = 0
	}

	profile := TargetProfile{
		LandCount:     landCount,
		NonBasicLands: nonBasicTarget(landCount, nonBasicPref, stats),
	}

	if statsUsable(stats) {
		profile.TypeTargets = typeTargetsFromStats(nonLand, stats.TypeCounts)
		profile.CurveTargets = curveTargets(nonLand, normalizedCurveShares(stats.CurveCounts))
	} else {
		profile.TypeTargets = typeTargetsHeuristic(nonLand)
		profile.CurveTargets = curveTargets(nonLand, heuristicCurveShares)
	}

	return profile
}

func statsUsable(stats *CommanderStats) bool {
	if stats == nil || stats.SampleSize <= 0 {
		return false
	}
	total := 0.0
	for _, count := range stats.TypeCounts {
		total += count
	}
	return total > 0
}

func nonBasicTarget(landCount, nonBasicPref int, stats *CommanderStats) int {
	target := nonBasicPref
	if stats != nil && stats.SampleSize > 0 && stats.Lands.NonBasic > 0 {
		target = int(math.Round(stats.Lands.NonBasic))
	}
	if target < 0 {
		target = 0
	}
	if target > landCount {
		target = landCount
	}
	return target
}

// typeTargetsFromStats rounds each type's share of the sampled decks to a
// count, then corrects the rounding remainder into the single largest
// target (ties broken by the fixed type order).
func typeTargetsFromStats(nonLand int, typeCounts map[cards.CardType]float64) map[cards.CardType]int {
	total := 0.0
	for _, count := range typeCounts {
		total += count
	}

	targets := make(map[cards.CardType]int, len(cards.TypeOrder))
	sum := 0
	for _, t := range cards.TypeOrder {
		target := int(math.Round(typeCounts[t] / total * float64(nonLand)))
		targets[t] = target
		sum += target
	}

	if remainder := nonLand - sum; remainder != 0 {
		largest := cards.TypeOrder[0]
		for _, t := range cards.TypeOrder {
			if targets[t] > targets[largest] {
				largest = t
			}
		}
		targets[largest] += remainder
		if targets[largest] < 0 {
			targets[largest] = 0
		}
	}
	return targets
}

// typeTargetsHeuristic applies the fixed type shares and spreads the
// shortfall one card at a time over the flex types in fixed order.
func typeTargetsHeuristic(nonLand int) map[cards.CardType]int {
	targets := make(map[cards.CardType]int, len(cards.TypeOrder))
	sum := 0
	for _, t := range cards.TypeOrder {
		target := int(math.Round(heuristicTypeShares[t] * float64(nonLand)))
		targets[t] = target
		sum += target
	}

	for i := 0; sum < nonLand; i++ {
		targets[flexTypes[i%len(flexTypes)]]++
		sum++
	}
	for i := 0; sum > nonLand; i++ {
		t := flexTypes[i%len(flexTypes)]
		if targets[t] > 0 {
			targets[t]--
			sum--
		} else if targets[cards.TypeCreature] > 0 {
			targets[cards.TypeCreature]--
			sum--
		}
	}
	return targets
}

// normalizedCurveShares converts a raw curve histogram into shares.
// An empty histogram falls back to the heuristic curve.
func normalizedCurveShares(curveCounts map[int]float64) map[int]float64 {
	total := 0.0
	for _, count := range curveCounts {
		total += count
	}
	if total <= 0 {
		return heuristicCurveShares
	}
	shares := make(map[int]float64, 8)
	for bucket := 0; bucket <= 7; bucket++ {
		shares[bucket] = curveCounts[bucket] / total
	}
	return shares
}

// curveTargets rounds the per-bucket shares to counts and corrects the
// remainder one card at a time into whichever bucket currently holds the
// largest target (ties broken by the lowest bucket).
func curveTargets(nonLand int, shares map[int]float64) map[int]int {
	targets := make(map[int]int, 8)
	sum := 0
	for bucket := 0; bucket <= 7; bucket++ {
		target := int(math.Round(shares[bucket] * float64(nonLand)))
		targets[bucket] = target
		sum += target
	}

	for sum != nonLand {
		largest := 0
		for bucket := 1; bucket <= 7; bucket++ {
			if targets[bucket] > targets[largest] {
				largest = bucket
			}
		}
		if sum < nonLand {
			targets[largest]++
			sum++
		} else {
			targets[largest]--
			sum--
		}
	}
	return targets
}
