package cards

// SearchQuery describes a generic card database search used as a
// fallback when recommendation pools run dry.
type SearchQuery struct {
	TypeLine      string   // card type to search for, e.g. "creature"
	ColorIdentity []string // identity the results must fit within
	ExcludeBasics bool
	SortOrder     string // e.g. "edhrec"
}
