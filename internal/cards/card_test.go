package cards

import (
	"reflect"
	"testing"
)

func TestPrimaryType(t *testing.T) {
	tests := []struct {
		name     string
		typeLine string
		want     CardType
	}{
		{"plain creature", "Creature — Elf Druid", TypeCreature},
		{"instant", "Instant", TypeInstant},
		{"sorcery", "Sorcery", TypeSorcery},
		{"artifact", "Artifact — Equipment", TypeArtifact},
		{"enchantment", "Enchantment — Aura", TypeEnchantment},
		{"planeswalker", "Legendary Planeswalker — Jace", TypePlaneswalker},
		{"battle", "Battle — Siege", TypeBattle},
		{"land beats artifact", "Artifact Land", TypeLand},
		{"creature beats enchantment", "Enchantment Creature — God", TypeCreature},
		{"artifact creature", "Artifact Creature — Golem", TypeCreature},
		{"empty line", "", TypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := &Card{TypeLine: tt.typeLine}
			if got := card.PrimaryType(); got != tt.want {
				t.Errorf("PrimaryType() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCurveBucket(t *testing.T) {
	tests := []struct {
		manaValue float64
		want      int
	}{
		{0, 0},
		{1, 1},
		{2.5, 2}, // fractional mana values floor
		{6, 6},
		{7, 7},
		{8, 7},  // everything above seven collapses into the top bucket
		{15, 7},
		{-1, 0},
	}

	for _, tt := range tests {
		if got := CurveBucket(tt.manaValue); got != tt.want {
			t.Errorf("CurveBucket(%v) = %d, want %d", tt.manaValue, got, tt.want)
		}
	}
}

func TestIdentityWithin(t *testing.T) {
	tests := []struct {
		name     string
		card     []string
		identity []string
		want     bool
	}{
		{"colorless fits anything", nil, []string{"W"}, true},
		{"colorless fits empty", nil, nil, true},
		{"exact match", []string{"W", "U"}, []string{"W", "U"}, true},
		{"subset", []string{"U"}, []string{"W", "U", "B"}, true},
		{"off-color", []string{"R"}, []string{"W", "U"}, false},
		{"partial overlap", []string{"W", "R"}, []string{"W", "U"}, false},
		{"case insensitive", []string{"w"}, []string{"W"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := &Card{ColorIdentity: tt.card}
			if got := card.IdentityWithin(tt.identity); got != tt.want {
				t.Errorf("IdentityWithin(%v) = %v, want %v", tt.identity, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdentity(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"already canonical", []string{"W", "U"}, []string{"W", "U"}},
		{"reordered", []string{"G", "W"}, []string{"W", "G"}},
		{"dedupe", []string{"U", "U", "B"}, []string{"U", "B"}},
		{"lowercase", []string{"r", "g"}, []string{"R", "G"}},
		{"empty", nil, []string{}},
		{"five color", []string{"G", "R", "B", "U", "W"}, []string{"W", "U", "B", "R", "G"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeIdentity(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeIdentity(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCombinedIdentity(t *testing.T) {
	commander := &Card{Name: "A", ColorIdentity: []string{"W", "B"}}
	partner := &Card{Name: "B", ColorIdentity: []string{"U", "B"}}

	got := CombinedIdentity(commander, partner)
	want := []string{"W", "U", "B"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CombinedIdentity() = %v, want %v", got, want)
	}

	solo := CombinedIdentity(commander, nil)
	if !reflect.DeepEqual(solo, []string{"W", "B"}) {
		t.Errorf("CombinedIdentity(commander, nil) = %v", solo)
	}
}

func TestBasicLand(t *testing.T) {
	land, ok := BasicLand("G")
	if !ok {
		t.Fatal("BasicLand(G) not found")
	}
	if land.Name != "Forest" {
		t.Errorf("BasicLand(G).Name = %q, want Forest", land.Name)
	}
	if land.PrimaryType() != TypeLand {
		t.Errorf("basic land PrimaryType = %v", land.PrimaryType())
	}

	if _, ok := BasicLand("X"); ok {
		t.Error("BasicLand(X) should not exist")
	}
}

func TestIsBasicLand(t *testing.T) {
	for _, name := range []string{"Plains", "Island", "Swamp", "Mountain", "Forest", "Wastes"} {
		if !IsBasicLand(name) {
			t.Errorf("IsBasicLand(%q) = false", name)
		}
	}
	if IsBasicLand("Command Tower") {
		t.Error("IsBasicLand(Command Tower) = true")
	}
}
