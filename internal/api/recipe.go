package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/brewdesk/brewdesk/internal/models"
)

// RecipePage is one page of recipes plus the unfiltered total.
type RecipePage struct {
	Recipes    []models.Recipe `json:"recipes"`
	TotalItems int             `json:"total_items"`
}

// ListRecipes fetches a page of recipes, optionally filtered by a SKU
// search.
func (c *Client) ListRecipes(ctx context.Context, p ListParams) (*RecipePage, error) {
	data, _, err := c.do(ctx, http.MethodGet, "/recipe", p.query(), nil)
	if err != nil {
		return nil, err
	}
	var page RecipePage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("decode recipes: %w", err)
	}
	return &page, nil
}

// CreateRecipe adds a new recipe. The backend assigns the SKU and computes
// the cost of goods sold from current inventory prices.
func (c *Client) CreateRecipe(ctx context.Context, in models.RecipeInput) (Notice, error) {
	_, n, err := c.do(ctx, http.MethodPost, "/recipe", nil, in)
	return n, err
}

// UpdateRecipe replaces the recipe with the given ID. There is no delete;
// recipes are kept for costing history.
func (c *Client) UpdateRecipe(ctx context.Context, id uint, in models.RecipeInput) (Notice, error) {
	_, n, err := c.do(ctx, http.MethodPut, "/recipe/"+strconv.FormatUint(uint64(id), 10), nil, in)
	return n, err
}
