// internal/adapters/out/catalogapi/client.go
package catalogapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	itemdom "sweetshop/internal/domain/item"
)

var (
	ErrUnauthorized = errors.New("catalogapi: missing or rejected bearer token")
	ErrNotFound     = errors.New("catalogapi: item not found")
)

// TokenProvider hands out the bearer token for mutating calls. Backed by the
// local token store (key "firebaseToken").
type TokenProvider interface {
	Token() (string, error)
}

// Client is the thin request layer against the sweets backend API.
//
// Contract:
// - GET    /api/sweets        -> []Item
// - POST   /api/sweets        -> created Item (bearer required)
// - PUT    /api/sweets/{id}   -> updated Item (bearer required)
// - DELETE /api/sweets/{id}   -> no body (bearer required)
//
// 4xx responses carry {"message": "..."}.
type Client struct {
	baseURL string
	tokens  TokenProvider
	client  *http.Client
}

// NewClient builds a client for baseURL, e.g. http://localhost:5000.
func NewClient(baseURL string, tokens TokenProvider) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		tokens:  tokens,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// List fetches the full catalog.
func (c *Client) List(ctx context.Context) ([]itemdom.Item, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/sweets", nil, false)
	if err != nil {
		return nil, err
	}

	var items []itemdom.Item
	if err := c.do(req, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []itemdom.Item{}
	}
	return items, nil
}

// Create posts a new item and returns it with the backend-assigned id.
func (c *Client) Create(ctx context.Context, it itemdom.Item) (itemdom.Item, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/sweets", itemBody(it), true)
	if err != nil {
		return itemdom.Item{}, err
	}

	var created itemdom.Item
	if err := c.do(req, &created); err != nil {
		return itemdom.Item{}, err
	}
	return created, nil
}

// Update replaces the item with the given id and returns the committed state.
func (c *Client) Update(ctx context.Context, it itemdom.Item) (itemdom.Item, error) {
	id := strings.TrimSpace(it.ID)
	if id == "" {
		return itemdom.Item{}, ErrNotFound
	}

	req, err := c.newRequest(ctx, http.MethodPut, "/api/sweets/"+id, itemBody(it), true)
	if err != nil {
		return itemdom.Item{}, err
	}

	var updated itemdom.Item
	if err := c.do(req, &updated); err != nil {
		return itemdom.Item{}, err
	}
	return updated, nil
}

// Delete removes the item with the given id.
func (c *Client) Delete(ctx context.Context, itemID string) error {
	id := strings.TrimSpace(itemID)
	if id == "" {
		return ErrNotFound
	}

	req, err := c.newRequest(ctx, http.MethodDelete, "/api/sweets/"+id, nil, true)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// itemBody is the request shape for create/update: everything but the id,
// which travels in the URL (or is assigned by the backend).
func itemBody(it itemdom.Item) any {
	return map[string]any{
		"name":        it.Name,
		"description": it.Description,
		"category":    it.Category,
		"price":       it.Price,
		"quantity":    it.Quantity,
		"image":       it.Image,
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any, withAuth bool) (*http.Request, error) {
	if c == nil || c.baseURL == "" {
		return nil, errors.New("catalogapi: client is not configured")
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if withAuth {
		if c.tokens == nil {
			return nil, ErrUnauthorized
		}
		token, err := c.tokens.Token()
		if err != nil || strings.TrimSpace(token) == "" {
			return nil, ErrUnauthorized
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case res.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case res.StatusCode >= 400:
		return errors.New(apiMessage(res))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

// apiMessage extracts the backend's {"message": ...} error body; falls back
// to the raw body or status when the shape differs.
func apiMessage(res *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(res.Body, 1<<20))

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && strings.TrimSpace(payload.Message) != "" {
		return fmt.Sprintf("catalogapi: %s", strings.TrimSpace(payload.Message))
	}

	text := strings.TrimSpace(string(body))
	if text == "" {
		return fmt.Sprintf("catalogapi: request failed status=%d", res.StatusCode)
	}
	return fmt.Sprintf("catalogapi: request failed status=%d body=%s", res.StatusCode, text)
}
