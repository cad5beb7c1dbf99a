package deckgen

import (
	"regexp"
	"strings"

	"github.com/ramonehamilton/EDH-Companion/internal/cards"
)

// Role is the functional deck-building role a card fills.
type Role string

const (
	RoleRemoval   Role = "removal"
	RoleBoardWipe Role = "boardWipe"
	RoleRamp      Role = "ramp"
	RoleCardDraw  Role = "cardDraw"
	RoleSynergy   Role = "synergy"
)

// classifierRule pairs an oracle-text predicate with the role it assigns.
// Rules are evaluated in order; the first match wins.
type classifierRule struct {
	name  string
	match func(card *cards.Card, oracle string) bool
	role  Role
}

var (
	dealsDamageToRe = regexp.MustCompile(`deals \S+ damage to`)
	producesManaRe  = regexp.MustCompile(`add \{|add one mana|add two mana|add three mana`)
)

func containsAny(oracle string, phrases ...string) bool {
	for _, phrase := range phrases {
		if strings.Contains(oracle, phrase) {
			return true
		}
	}
	return false
}

// spellRules classifies instants and sorceries. Board wipes are checked
// before single-target removal so "destroy all creatures" never reads as
// spot removal; the land-search ramp pattern only applies to sorceries.
var spellRules = []classifierRule{
	{
		name: "board wipe",
		match: func(_ *cards.Card, oracle string) bool {
			return containsAny(oracle,
				"destroy all", "exile all",
				"damage to each creature", "damage to each opponent and each creature",
			) || containsAny(oracle, "all creatures get -", "each creature gets -")
		},
		role: RoleBoardWipe,
	},
	{
		name: "land ramp",
		match: func(card *cards.Card, oracle string) bool {
			return card.HasType(cards.TypeSorcery) &&
				strings.Contains(oracle, "search your library") &&
				strings.Contains(oracle, "land")
		},
		role: RoleRamp,
	},
	{
		name: "removal",
		match: func(_ *cards.Card, oracle string) bool {
			return containsAny(oracle,
				"destroy target", "exile target", "counter target", "return target",
			) || dealsDamageToRe.MatchString(oracle)
		},
		role: RoleRemoval,
	},
	{
		name: "card draw",
		match: func(_ *cards.Card, oracle string) bool {
			return strings.Contains(oracle, "draw")
		},
		role: RoleCardDraw,
	},
}

// permanentRules classifies artifacts and enchantments.
var permanentRules = []classifierRule{
	{
		name: "mana source",
		match: func(_ *cards.Card, oracle string) bool {
			return producesManaRe.MatchString(oracle)
		},
		role: RoleRamp,
	},
	{
		name: "card draw",
		match: func(_ *cards.Card, oracle string) bool {
			return strings.Contains(oracle, "draw")
		},
		role: RoleCardDraw,
	},
}

// Classify assigns an instant, sorcery, artifact, or enchantment to
// exactly one functional role. It is pure and deterministic, and an
// unmatched card always defaults to synergy. Other types are not its
// business and also default to synergy.
func Classify(card *cards.Card) Role {
	oracle := strings.ToLower(card.OracleText)

	var rules []classifierRule
	switch card.PrimaryType() {
	case cards.TypeInstant, cards.TypeSorcery:
		rules = spellRules
	case cards.TypeArtifact, cards.TypeEnchantment:
		rules = permanentRules
	default:
		return RoleSynergy
	}

	for _, rule := range rules {
		if rule.match(card, oracle) {
			return rule.role
		}
	}
	return RoleSynergy
}

// categoryForRole maps a classifier role onto a deck category.
func categoryForRole(role Role) Category {
	switch role {
	case RoleRemoval:
		return CategoryRemoval
	case RoleBoardWipe:
		return CategoryBoardWipes
	case RoleRamp:
		return CategoryRamp
	case RoleCardDraw:
		return CategoryCardDraw
	default:
		return CategorySynergy
	}
}

// categorize routes a selected card into its deck category: creatures and
// lands keep their own groups, planeswalkers and battles count as
// utility, and the ambiguous types go through the classifier.
func categorize(card *cards.Card) Category {
	switch card.PrimaryType() {
	case cards.TypeCreature:
		return CategoryCreatures
	case cards.TypeLand:
		return CategoryLands
	case cards.TypePlaneswalker, cards.TypeBattle:
		return CategoryUtility
	default:
		return categoryForRole(Classify(card))
	}
}
