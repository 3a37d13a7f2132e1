package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/brewdesk/brewdesk/internal/models"
)

// ListParams selects a page of a collection. Page is zero-based; the wire
// protocol is one-based, so the client adds one when building the query. A
// zero-value ListParams sends no pagination query and gets the server's
// default page.
type ListParams struct {
	Page   int
	Limit  int
	Search string
}

func (p ListParams) query() url.Values {
	q := url.Values{}
	if p.Limit > 0 {
		q.Set("page", strconv.Itoa(p.Page+1))
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	return q
}

// InventoryPage is one page of inventory items plus the unfiltered total,
// which drives the pagination footer.
type InventoryPage struct {
	Items      []models.InventoryItem `json:"inventory"`
	TotalItems int                    `json:"total_items"`
}

// ListInventory fetches a page of inventory items, optionally filtered by a
// case-insensitive name search.
func (c *Client) ListInventory(ctx context.Context, p ListParams) (*InventoryPage, error) {
	data, _, err := c.do(ctx, http.MethodGet, "/inventory", p.query(), nil)
	if err != nil {
		return nil, err
	}
	var page InventoryPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("decode inventory: %w", err)
	}
	return &page, nil
}

// CreateInventory adds a new inventory item.
func (c *Client) CreateInventory(ctx context.Context, in models.InventoryInput) (Notice, error) {
	_, n, err := c.do(ctx, http.MethodPost, "/inventory", nil, in)
	return n, err
}

// UpdateInventory replaces the item with the given ID.
func (c *Client) UpdateInventory(ctx context.Context, id uint, in models.InventoryInput) (Notice, error) {
	_, n, err := c.do(ctx, http.MethodPut, "/inventory/"+strconv.FormatUint(uint64(id), 10), nil, in)
	return n, err
}

// DeleteInventory removes the item with the given ID.
func (c *Client) DeleteInventory(ctx context.Context, id uint) (Notice, error) {
	_, n, err := c.do(ctx, http.MethodDelete, "/inventory/"+strconv.FormatUint(uint64(id), 10), nil, nil)
	return n, err
}
