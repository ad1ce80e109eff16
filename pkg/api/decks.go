package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// GenerateDeck asks the backend to generate a slide deck. Generation is
// asynchronous; the completed task's result carries the deck id.
func (c *Client) GenerateDeck(ctx context.Context, req DeckRequest) (*TaskRef, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid deck request: %w", err)
	}

	var ref TaskRef
	if err := c.do(ctx, http.MethodPost, pathDeckGen, req, &ref); err != nil {
		return nil, fmt.Errorf("requesting deck generation: %w", err)
	}

	if ref.TaskID == "" {
		return nil, fmt.Errorf("backend returned no task id")
	}

	return &ref, nil
}

// GetDeck fetches a generated deck by id.
func (c *Client) GetDeck(ctx context.Context, deckID string) (*Deck, error) {
	if deckID == "" {
		return nil, fmt.Errorf("deck id must not be empty")
	}

	var deck Deck

	path := fmt.Sprintf(pathDeckFmt, url.PathEscape(deckID))
	if err := c.do(ctx, http.MethodGet, path, nil, &deck); err != nil {
		return nil, fmt.Errorf("fetching deck: %w", err)
	}

	return &deck, nil
}
