package deckgen

import (
	"testing"

	"github.com/ramonehamilton/EDH-Companion/internal/cards"
)

func sumTypes(targets map[cards.CardType]int) int {
	total := 0
	for _, count := range targets {
		total += count
	}
	return total
}

func sumCurve(targets map[int]int) int {
	total := 0
	for _, count := range targets {
		total += count
	}
	return total
}

func TestAllocateTargetsHeuristic(t *testing.T) {
	// 98 slots, 37 lands: 61 non-land cards to distribute.
	profile := AllocateTargets(98, 37, 0, nil)

	if got := sumTypes(profile.TypeTargets); got != 61 {
		t.Errorf("sum(TypeTargets) = %d, want 61", got)
	}
	if got := sumCurve(profile.CurveTargets); got != 61 {
		t.Errorf("sum(CurveTargets) = %d, want 61", got)
	}

	// round(0.45 * 61) = 27 creatures; the rounding shortfall lands on
	// the flexible spell types, not on creatures.
	if got := profile.TypeTargets[cards.TypeCreature]; got != 27 {
		t.Errorf("creature target = %d, want 27", got)
	}
	if got := profile.TypeTargets[cards.TypeBattle]; got != 0 {
		t.Errorf("battle target = %d, want 0", got)
	}
	if profile.LandCount != 37 {
		t.Errorf("LandCount = %d, want 37", profile.LandCount)
	}
}

func TestAllocateTargetsHeuristicSumsForAllFormats(t *testing.T) {
	tests := []struct {
		name      string
		slots     int
		landCount int
	}{
		{"100-card", 98, 37},
		{"100-card partner", 97, 37},
		{"60-card", 59, 24},
		{"40-card", 39, 17},
		{"minimum lands", 98, 30},
		{"maximum lands", 98, 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := AllocateTargets(tt.slots, tt.landCount, 0, nil)
			nonLand := tt.slots - tt.landCount
			if got := sumTypes(profile.TypeTargets); got != nonLand {
				t.Errorf("sum(TypeTargets) = %d, want %d", got, nonLand)
			}
			if got := sumCurve(profile.CurveTargets); got != nonLand {
				t.Errorf("sum(CurveTargets) = %d, want %d", got, nonLand)
			}
		})
	}
}

func TestAllocateTargetsFromStats(t *testing.T) {
	stats := &CommanderStats{
		SampleSize: 1200,
		TypeCounts: map[cards.CardType]float64{
			cards.TypeCreature:    30,
			cards.TypeInstant:     10,
			cards.TypeSorcery:     8,
			cards.TypeArtifact:    7,
			cards.TypeEnchantment: 5,
		},
		CurveCounts: map[int]float64{
			0: 1, 1: 8, 2: 13, 3: 14, 4: 11, 5: 7, 6: 4, 7: 3,
		},
		Lands: LandDistribution{Basic: 12.4, NonBasic: 24.6, Total: 37},
	}

	profile := AllocateTargets(98, 37, 0, stats)

	if got := sumTypes(profile.TypeTargets); got != 61 {
		t.Errorf("sum(TypeTargets) = %d, want 61", got)
	}
	if got := sumCurve(profile.CurveTargets); got != 61 {
		t.Errorf("sum(CurveTargets) = %d, want 61", got)
	}

	// The statistical land split wins over the caller preference.
	if profile.NonBasicLands != 25 {
		t.Errorf("NonBasicLands = %d, want 25 (round of 24.6)", profile.NonBasicLands)
	}

	// Creatures dominate the sample, so the rounding remainder lands there.
	creature := profile.TypeTargets[cards.TypeCreature]
	for _, cardType := range cards.TypeOrder {
		if profile.TypeTargets[cardType] > creature {
			t.Errorf("type %s target %d exceeds creature target %d",
				cardType, profile.TypeTargets[cardType], creature)
		}
	}
}

func TestAllocateTargetsEmptyStatsFallsBack(t *testing.T) {
	// A stats document with a sample but no counts is unusable.
	stats := &CommanderStats{SampleSize: 10}
	profile := AllocateTargets(98, 37, 20, stats)

	heuristic := AllocateTargets(98, 37, 20, nil)
	if profile.TypeTargets[cards.TypeCreature] != heuristic.TypeTargets[cards.TypeCreature] {
		t.Error("empty stats should fall back to heuristic type targets")
	}
	if profile.NonBasicLands != 20 {
		t.Errorf("NonBasicLands = %d, want caller preference 20", profile.NonBasicLands)
	}
}

func TestNonBasicTargetClamped(t *testing.T) {
	stats := &CommanderStats{
		SampleSize: 100,
		TypeCounts: map[cards.CardType]float64{cards.TypeCreature: 1},
		Lands:      LandDistribution{NonBasic: 50},
	}
	profile := AllocateTargets(98, 37, 0, stats)
	if profile.NonBasicLands != 37 {
		t.Errorf("NonBasicLands = %d, want clamp to land count 37", profile.NonBasicLands)
	}
}

func TestCurveTargetsRemainderGoesToLargestBucket(t *testing.T) {
	profile := AllocateTargets(98, 37, 0, nil)

	// Bucket 3 carries the largest heuristic share; any correction must
	// not have pushed another bucket above it by more than the single
	// largest-first increments allow.
	largest := 0
	for bucket := 1; bucket <= 7; bucket++ {
		if profile.CurveTargets[bucket] > profile.CurveTargets[largest] {
			largest = bucket
		}
	}
	if largest != 3 {
		t.Errorf("largest curve bucket = %d, want 3", largest)
	}
}

func TestAllocateTargetsZeroNonLand(t *testing.T) {
	profile := AllocateTargets(37, 37, 0, nil)
	if got := sumTypes(profile.TypeTargets); got != 0 {
		t.Errorf("sum(TypeTargets) = %d, want 0", got)
	}
	if got := sumCurve(profile.CurveTargets); got != 0 {
		t.Errorf("sum(CurveTargets) = %d, want 0", got)
	}
}
