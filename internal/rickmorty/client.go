package rickmorty

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// CharacterSource defines the queries Citadel consumes from the API.
// This interface is implemented by *Client and can be used for testing.
type CharacterSource interface {
	FetchCharacters(ctx context.Context) ([]Character, error)
	FetchCharacter(ctx context.Context, id string) (*Character, error)
}

// Ensure Client implements CharacterSource at compile time.
var _ CharacterSource = (*Client)(nil)

// Client talks to the Rick and Morty GraphQL API.
type Client struct {
	endpoint  *url.URL
	http      *http.Client
	userAgent string
	maxPages  int
}

const (
	// DefaultEndpoint is the public GraphQL endpoint.
	DefaultEndpoint  = "https://rickandmortyapi.com/graphql"
	defaultUserAgent = "citadel/0.1"
	requestTimeout   = 10 * time.Second
	pageConcurrency  = 4
)

const characterFields = `id name species image status gender origin { name }`

var (
	charactersQuery = `query Characters($page: Int) { characters(page: $page) { info { pages next } results { ` + characterFields + ` } } }`
	characterQuery  = `query Character($id: ID!) { character(id: $id) { ` + characterFields + ` } }`
)

// NewClient builds a Client for the given endpoint. maxPages limits how many
// list pages FetchCharacters reads; zero or negative reads every page.
func NewClient(endpoint string, maxPages int) (*Client, error) {
	u, err := parseEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	return &Client{
		endpoint: u,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		maxPages:  maxPages,
	}, nil
}

// FetchCharacters returns every character in API list order. The first page
// reports the page count; the remaining pages are fetched concurrently.
func (c *Client) FetchCharacters(ctx context.Context) ([]Character, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	first, info, err := c.fetchPage(ctx, 1)
	if err != nil {
		return nil, err
	}
	pages := info.Pages
	if c.maxPages > 0 && pages > c.maxPages {
		pages = c.maxPages
	}
	if pages <= 1 {
		return first, nil
	}

	results := make([][]Character, pages)
	results[0] = first

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(pageConcurrency)
	for page := 2; page <= pages; page++ {
		g.Go(func() error {
			chars, _, err := c.fetchPage(gctx, page)
			if err != nil {
				return fmt.Errorf("page %d: %w", page, err)
			}
			results[page-1] = chars
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	all := make([]Character, 0, total)
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}

// FetchCharacter looks up a single character. A null result is reported as
// ErrNotFound.
func (c *Client) FetchCharacter(ctx context.Context, id string) (*Character, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload characterPayload
	if err := c.query(ctx, characterQuery, map[string]any{"id": id}, &payload); err != nil {
		return nil, err
	}
	if payload.Character == nil || payload.Character.ID == "" {
		return nil, ErrNotFound
	}
	return payload.Character, nil
}

func (c *Client) fetchPage(ctx context.Context, page int) ([]Character, pageInfo, error) {
	var payload charactersPayload
	if err := c.query(ctx, charactersQuery, map[string]any{"page": page}, &payload); err != nil {
		return nil, pageInfo{}, err
	}
	if payload.Characters == nil {
		return nil, pageInfo{}, nil
	}
	return payload.Characters.Results, payload.Characters.Info, nil
}

func (c *Client) query(ctx context.Context, query string, variables map[string]any, dest any) error {
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphQLError  `json:"errors"`
	}
	decodeErr := json.NewDecoder(resp.Body).Decode(&envelope)

	// GraphQL servers often pair a 4xx with an errors array; prefer its message.
	if decodeErr == nil && len(envelope.Errors) > 0 {
		qerr := &QueryError{}
		for _, e := range envelope.Errors {
			qerr.Messages = append(qerr.Messages, e.Message)
		}
		return qerr
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("graphql endpoint returned status %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return fmt.Errorf("decode response: %w", decodeErr)
	}
	if dest == nil || len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, dest); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

func parseEndpoint(endpoint string) (*url.URL, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		trimmed = DefaultEndpoint
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint %q: %w", endpoint, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse endpoint %q: missing host", endpoint)
	}
	u.Fragment = ""
	return u, nil
}
