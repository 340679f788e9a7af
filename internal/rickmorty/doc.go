// Package rickmorty provides a GraphQL client for the Rick and Morty API.
//
// # Overview
//
// Citadel consumes two queries and treats the API as a black box:
//
//   - characters(page): the character list, one page at a time
//   - character(id): a single character or null
//
// FetchCharacters reads the first page to learn the page count and then
// fetches the rest concurrently (at most four requests in flight), returning
// characters in API list order.
//
// # Error Handling
//
//   - Network and HTTP status failures are wrapped with the step that failed
//   - A GraphQL errors array becomes *QueryError whose message is the first
//     server message verbatim
//   - A successful by-id query with a null result returns ErrNotFound
//
// # Missing Fields
//
// The API omits or blanks some fields for obscure characters. The Display*
// helpers on Character substitute Unknown so callers never render blanks.
package rickmorty
