package rickmorty

import (
	"errors"
	"fmt"
	"strings"
)

// Unknown is displayed for character fields the API left empty.
const Unknown = "unknown"

// ErrNotFound reports a successful query that returned no character.
var ErrNotFound = errors.New("character not found")

// Character mirrors the fields Citadel reads from the character type.
type Character struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Species string `json:"species"`
	Status  string `json:"status"`
	Gender  string `json:"gender"`
	Image   string `json:"image"`
	Origin  Origin `json:"origin"`
}

// Origin is the character's place of origin.
type Origin struct {
	Name string `json:"name"`
}

// DisplayName returns the name or Unknown.
func (c Character) DisplayName() string { return orUnknown(c.Name) }

// DisplaySpecies returns the species or Unknown.
func (c Character) DisplaySpecies() string { return orUnknown(c.Species) }

// DisplayStatus returns the status or Unknown.
func (c Character) DisplayStatus() string { return orUnknown(c.Status) }

// DisplayGender returns the gender or Unknown.
func (c Character) DisplayGender() string { return orUnknown(c.Gender) }

// DisplayOrigin returns the origin name or Unknown.
func (c Character) DisplayOrigin() string { return orUnknown(c.Origin.Name) }

func orUnknown(value string) string {
	if strings.TrimSpace(value) == "" {
		return Unknown
	}
	return value
}

// QueryError carries the messages from a GraphQL errors array.
type QueryError struct {
	Messages []string
}

func (e *QueryError) Error() string {
	switch len(e.Messages) {
	case 0:
		return "graphql error"
	case 1:
		return e.Messages[0]
	default:
		return fmt.Sprintf("%s (+%d more)", e.Messages[0], len(e.Messages)-1)
	}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type pageInfo struct {
	Pages int  `json:"pages"`
	Next  *int `json:"next"`
}

type charactersPayload struct {
	Characters *struct {
		Info    pageInfo    `json:"info"`
		Results []Character `json:"results"`
	} `json:"characters"`
}

type characterPayload struct {
	Character *Character `json:"character"`
}
