// Package route models the two navigable locations and the one-shot home
// redirect.
package route

import (
	"strings"
	"sync"

	"github.com/five82/citadel/internal/favorites"
	"github.com/five82/citadel/internal/rickmorty"
)

// FallbackID is the character shown when there are no favorites.
const FallbackID = "1"

// Kind identifies a route shape.
type Kind int

const (
	KindUnknown Kind = iota
	KindHome
	KindCharacter
)

// Route is a parsed location. ID is set for KindCharacter and is opaque.
type Route struct {
	Kind Kind
	ID   string
}

// Home is the "/" route.
var Home = Route{Kind: KindHome}

// Character returns the detail route for id.
func Character(id string) Route {
	return Route{Kind: KindCharacter, ID: id}
}

// Path renders the route.
func (r Route) Path() string {
	switch r.Kind {
	case KindHome:
		return "/"
	case KindCharacter:
		return "/character/" + r.ID
	default:
		return ""
	}
}

// Parse recognizes "/" and "/character/:id". Anything else is KindUnknown.
func Parse(path string) Route {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" || trimmed == "/" {
		return Home
	}
	rest, ok := strings.CutPrefix(trimmed, "/character/")
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return Route{Kind: KindUnknown}
	}
	return Character(rest)
}

// HomeTarget picks where the home view redirects: the first character in
// list order that is a favorite, else FallbackID when listed.
func HomeTarget(characters []rickmorty.Character, favs favorites.Set) (Route, bool) {
	if len(favs) > 0 {
		starred := favs.Lookup()
		for _, c := range characters {
			if starred[c.ID] {
				return Character(c.ID), true
			}
		}
	}
	for _, c := range characters {
		if c.ID == FallbackID {
			return Character(FallbackID), true
		}
	}
	return Route{}, false
}

// Redirector performs the home redirect at most once per session.
type Redirector struct {
	once sync.Once
}

// Resolve returns the redirect target the first time it is called with a
// loaded list. Later calls, and calls after a first call that found no
// target, report false.
func (r *Redirector) Resolve(characters []rickmorty.Character, favs favorites.Set) (Route, bool) {
	var (
		target Route
		ok     bool
	)
	r.once.Do(func() {
		target, ok = HomeTarget(characters, favs)
	})
	return target, ok
}
