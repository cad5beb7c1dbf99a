package cards

// Basic land names keyed by color. These never hit the resolver; the
// singleton rule does not apply to them and their data never changes.
var basicLandsByColor = map[string]Card{
	"W": {Name: "Plains", TypeLine: "Basic Land — Plains", ColorIdentity: []string{"W"}},
	"U": {Name: "Island", TypeLine: "Basic Land — Island", ColorIdentity: []string{"U"}},
	"B": {Name: "Swamp", TypeLine: "Basic Land — Swamp", ColorIdentity: []string{"B"}},
	"R": {Name: "Mountain", TypeLine: "Basic Land — Mountain", ColorIdentity: []string{"R"}},
	"G": {Name: "Forest", TypeLine: "Basic Land — Forest", ColorIdentity: []string{"G"}},
}

var basicLandNames = map[string]bool{
	"Plains":   true,
	"Island":   true,
	"Swamp":    true,
	"Mountain": true,
	"Forest":   true,
	"Wastes":   true,
}

// BasicLand returns a fresh copy of the basic land card for a color.
// The second return is false for unknown colors.
func BasicLand(color string) (*Card, bool) {
	card, ok := basicLandsByColor[color]
	if !ok {
		return nil, false
	}
	copied := card
	return &copied, true
}

// IsBasicLand reports whether a card name is one of the basic lands.
func IsBasicLand(name string) bool {
	return basicLandNames[name]
}
