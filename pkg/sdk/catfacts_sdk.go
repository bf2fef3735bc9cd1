package sdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListFacts returns the newest facts
func (c *Client) ListFacts(ctx context.Context) ([]Fact, error) {
	var out ApiResponse[[]Fact]
	if err := c.doJSON(ctx, http.MethodGet, "/api/catfacts", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// RandomFact returns a random fact. A 404 ResponseError means there are no facts.
func (c *Client) RandomFact(ctx context.Context) (*RandomFact, error) {
	var out ApiResponse[RandomFact]
	if err := c.doJSON(ctx, http.MethodGet, "/api/catfacts/random", nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// AddFact stores a new fact
func (c *Client) AddFact(ctx context.Context, fact string) error {
	return c.doForm(ctx, http.MethodPost, "/api/catfacts", url.Values{"fact": {fact}}, nil)
}

// UpdateFact replaces the text of a fact
func (c *Client) UpdateFact(ctx context.Context, id uint, fact string) error {
	path := fmt.Sprintf("/api/catfacts/%d", id)
	return c.doJSON(ctx, http.MethodPut, path, &UpdateFactRequest{Fact: fact}, nil)
}

// DeleteFact removes a fact
func (c *Client) DeleteFact(ctx context.Context, id uint) error {
	path := fmt.Sprintf("/api/catfacts/%d", id)
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

// FetchFact asks the server to pull one fact from the external api and store it
func (c *Client) FetchFact(ctx context.Context) (*FetchedFact, error) {
	var out ApiResponse[FetchedFact]
	if err := c.doJSON(ctx, http.MethodPost, "/api/catfacts/fetch", nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// ListLikes returns liked facts, most recent first
func (c *Client) ListLikes(ctx context.Context) ([]LikedFact, error) {
	var out ApiResponse[[]LikedFact]
	if err := c.doJSON(ctx, http.MethodGet, "/api/likes", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// LikeFact likes a fact
func (c *Client) LikeFact(ctx context.Context, id uint) error {
	return c.doJSON(ctx, http.MethodPost, "/api/likes", &LikeRequest{FactID: &id}, nil)
}

// UnlikeFact removes the like on a fact
func (c *Client) UnlikeFact(ctx context.Context, id uint) error {
	path := fmt.Sprintf("/api/likes/%d", id)
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

// Health returns the server's dependency status
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var out ApiResponse[HealthStatus]
	if err := c.doJSON(ctx, http.MethodGet, "/api/health", nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}
