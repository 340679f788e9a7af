// Package view derives the ordered character subset a list renders from the
// fetched characters, the favorite set and the user's filter state.
package view

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/five82/citadel/internal/favorites"
	"github.com/five82/citadel/internal/rickmorty"
)

// Scope is the All/Starred/Others partition control.
type Scope int

const (
	ScopeAll Scope = iota
	ScopeStarred
	ScopeOthers
)

func (s Scope) String() string {
	switch s {
	case ScopeStarred:
		return "Starred"
	case ScopeOthers:
		return "Others"
	default:
		return "All"
	}
}

// SortOrder orders characters by name.
type SortOrder int

const (
	SortAZ SortOrder = iota
	SortZA
)

func (o SortOrder) String() string {
	if o == SortZA {
		return "Z-A"
	}
	return "A-Z"
}

// SpeciesAll disables species filtering. Any other value must match a
// character's species exactly.
const SpeciesAll = "All"

// SpeciesChoices is the cycle the UI offers.
var SpeciesChoices = []string{SpeciesAll, "Human", "Alien"}

// State is the ephemeral filter state of one mounted list. It is never
// persisted.
type State struct {
	Scope   Scope
	Species string
	Search  string
	Sort    SortOrder
}

// DefaultState shows everything A-Z.
func DefaultState() State {
	return State{Scope: ScopeAll, Species: SpeciesAll, Sort: SortAZ}
}

// Options configure which steps a list applies.
type Options struct {
	// Search enables the free-text name filter.
	Search bool
}

var (
	// HomeOptions is the home list configuration, which has no search box.
	HomeOptions = Options{Search: false}
	// SidebarOptions is the sidebar configuration with search.
	SidebarOptions = Options{Search: true}
)

// Result is the filtered, sorted list and its two labeled groups.
type Result struct {
	Items   []rickmorty.Character
	Starred []rickmorty.Character
	Others  []rickmorty.Character
}

// Select applies scope, species and (when enabled) search filters, sorts by
// name and partitions the result into starred and other characters. It does
// not modify characters.
func Select(characters []rickmorty.Character, favs favorites.Set, state State, opts Options) Result {
	starred := favs.Lookup()
	search := ""
	if opts.Search {
		search = strings.ToLower(strings.TrimSpace(state.Search))
	}
	species := state.Species
	if species == "" {
		species = SpeciesAll
	}

	items := make([]rickmorty.Character, 0, len(characters))
	for _, c := range characters {
		switch state.Scope {
		case ScopeStarred:
			if !starred[c.ID] {
				continue
			}
		case ScopeOthers:
			if starred[c.ID] {
				continue
			}
		}
		if species != SpeciesAll && c.Species != species {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(c.Name), search) {
			continue
		}
		items = append(items, c)
	}

	sortByName(items, state.Sort)

	res := Result{Items: items}
	for _, c := range items {
		if starred[c.ID] {
			res.Starred = append(res.Starred, c)
		} else {
			res.Others = append(res.Others, c)
		}
	}
	return res
}

// sortByName sorts with root-locale collation; the collator is not safe for
// concurrent use, so each call builds its own. Names the collator treats as
// equal but that differ in bytes (composed and decomposed accents) fall back
// to byte order, so Z-A is always the exact reverse of A-Z.
func sortByName(items []rickmorty.Character, order SortOrder) {
	col := collate.New(language.Und)
	slices.SortStableFunc(items, func(a, b rickmorty.Character) int {
		cmp := col.CompareString(a.Name, b.Name)
		if cmp == 0 {
			cmp = strings.Compare(a.Name, b.Name)
		}
		if order == SortZA {
			return -cmp
		}
		return cmp
	})
}

// NextScope cycles All -> Starred -> Others.
func NextScope(s Scope) Scope {
	switch s {
	case ScopeAll:
		return ScopeStarred
	case ScopeStarred:
		return ScopeOthers
	default:
		return ScopeAll
	}
}

// NextSpecies cycles through SpeciesChoices. Unknown values restart at All.
func NextSpecies(current string) string {
	i := slices.Index(SpeciesChoices, current)
	return SpeciesChoices[(i+1)%len(SpeciesChoices)]
}

// ToggleSort flips the sort order.
func ToggleSort(o SortOrder) SortOrder {
	if o == SortAZ {
		return SortZA
	}
	return SortAZ
}

// ParseScope accepts all, starred or others in any case.
func ParseScope(value string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "all":
		return ScopeAll, nil
	case "starred":
		return ScopeStarred, nil
	case "others":
		return ScopeOthers, nil
	}
	return ScopeAll, fmt.Errorf("unknown scope %q (want all, starred or others)", value)
}

// ParseSort accepts a-z or z-a in any case.
func ParseSort(value string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "a-z", "az", "asc":
		return SortAZ, nil
	case "z-a", "za", "desc":
		return SortZA, nil
	}
	return SortAZ, fmt.Errorf("unknown sort order %q (want a-z or z-a)", value)
}

// ParseSpecies normalizes the species flag. "all" in any case disables the
// filter; anything else is matched exactly.
func ParseSpecies(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || strings.EqualFold(trimmed, SpeciesAll) {
		return SpeciesAll
	}
	return trimmed
}
