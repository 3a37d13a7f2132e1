// Package testutil provides an in-memory fake of the Brewdesk backend for
// tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/brewdesk/brewdesk/internal/models"
)

// AccessToken is the bearer token the fake backend accepts once a magic
// link has been consumed.
const AccessToken = "test-access-token"

// Backend is a fake REST backend speaking the production wire contract:
// the {message, data, error} envelope, one-based pagination and magic-link
// auth with single-use tokens.
type Backend struct {
	mu sync.Mutex

	srv *httptest.Server

	// MagicTokens holds tokens a magic link may be consumed with. A
	// consumed token moves to usedTokens.
	MagicTokens map[string]bool
	usedTokens  map[string]bool

	items   []models.InventoryItem
	recipes []models.Recipe
	nextID  uint

	// Delay, when set, is slept before answering list requests. Tests use
	// it to force out-of-order responses.
	Delay time.Duration

	// Requests counts list requests per path, for assertions.
	Requests map[string]int
}

// NewBackend starts the fake backend.
func NewBackend() *Backend {
	b := &Backend{
		MagicTokens: map[string]bool{},
		usedTokens:  map[string]bool{},
		nextID:      1,
		Requests:    map[string]int{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/submit-email", b.submitEmail)
	mux.HandleFunc("GET /auth/magic-link", b.magicLink)
	mux.HandleFunc("GET /inventory", b.auth(b.listInventory))
	mux.HandleFunc("POST /inventory", b.auth(b.addInventory))
	mux.HandleFunc("PUT /inventory/{id}", b.auth(b.updateInventory))
	mux.HandleFunc("DELETE /inventory/{id}", b.auth(b.deleteInventory))
	mux.HandleFunc("GET /recipe", b.auth(b.listRecipes))
	mux.HandleFunc("POST /recipe", b.auth(b.addRecipe))
	mux.HandleFunc("PUT /recipe/{id}", b.auth(b.updateRecipe))

	b.srv = httptest.NewServer(mux)
	return b
}

// URL returns the backend base URL.
func (b *Backend) URL() string {
	return b.srv.URL
}

// Close shuts the backend down.
func (b *Backend) Close() {
	b.srv.Close()
}

// AddItem seeds an inventory item and returns it with its assigned ID.
func (b *Backend) AddItem(name string, qty int, uom models.Unit, price int) models.InventoryItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	item := models.InventoryItem{
		ID:          b.nextID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		ItemName:    name,
		Quantity:    qty,
		UOM:         uom,
		PricePerQty: price,
	}
	b.nextID++
	b.items = append(b.items, item)
	return item
}

// AddRecipe seeds a recipe and returns it with its assigned ID and SKU.
func (b *Backend) AddRecipe(cups int, ingredients map[string]models.Measurement) models.Recipe {
	b.mu.Lock()
	defer b.mu.Unlock()
	r := models.Recipe{
		ID:           b.nextID,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
		SKU:          fmt.Sprintf("IC-%s-%03d", time.Now().Format("20060102"), len(b.recipes)+1),
		NumberOfCups: cups,
		Ingredients:  ingredients,
		COGS:         float64(cups) * 1000,
	}
	b.nextID++
	b.recipes = append(b.recipes, r)
	return r
}

// Items returns a copy of the stored inventory.
func (b *Backend) Items() []models.InventoryItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.InventoryItem, len(b.items))
	copy(out, b.items)
	return out
}

// Recipes returns a copy of the stored recipes.
func (b *Backend) Recipes() []models.Recipe {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Recipe, len(b.recipes))
	copy(out, b.recipes)
	return out
}

type message struct {
	Success string `json:"success,omitempty"`
	Warning string `json:"warning,omitempty"`
	Danger  string `json:"danger,omitempty"`
}

type envelope struct {
	Message message           `json:"message"`
	Data    any               `json:"data"`
	Error   map[string]string `json:"error,omitempty"`
}

func writeSuccess(w http.ResponseWriter, text string, data any) {
	writeJSON(w, http.StatusOK, envelope{Message: message{Success: text}, Data: data})
}

func writeWarning(w http.ResponseWriter, status int, text string) {
	writeJSON(w, status, envelope{Message: message{Warning: text}})
}

func writeDanger(w http.ResponseWriter, status int, text string) {
	writeJSON(w, status, envelope{Message: message{Danger: text}})
}

func writeJSON(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

func (b *Backend) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header != "Bearer "+AccessToken {
			writeDanger(w, http.StatusUnauthorized, "Authorization token required")
			return
		}
		next(w, r)
	}
}

func (b *Backend) submitEmail(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" {
		writeWarning(w, http.StatusBadRequest, "Invalid email format")
		return
	}
	writeSuccess(w, "Magic link sent", nil)
}

func (b *Backend) magicLink(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeWarning(w, http.StatusBadRequest, "Token is required")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.usedTokens[token] {
		writeDanger(w, http.StatusUnauthorized, "Token already used")
		return
	}
	if !b.MagicTokens[token] {
		writeDanger(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	b.usedTokens[token] = true

	writeSuccess(w, "Authentication successful", map[string]string{
		"access_token": AccessToken,
	})
}

func pageParams(r *http.Request) (page, limit int, search string) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 10
	}
	return page, limit, r.URL.Query().Get("search")
}

func (b *Backend) listInventory(w http.ResponseWriter, r *http.Request) {
	if b.Delay > 0 {
		time.Sleep(b.Delay)
	}
	page, limit, search := pageParams(r)

	b.mu.Lock()
	b.Requests["/inventory"]++
	var filtered []models.InventoryItem
	for _, it := range b.items {
		if search == "" || strings.Contains(strings.ToLower(it.ItemName), strings.ToLower(search)) {
			filtered = append(filtered, it)
		}
	}
	b.mu.Unlock()

	total := len(filtered)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	writeSuccess(w, "Inventory retrieved successfully", map[string]any{
		"page":        page,
		"limit":       limit,
		"total_items": total,
		"total_pages": (total + limit - 1) / limit,
		"inventory":   filtered[start:end],
	})
}

func (b *Backend) addInventory(w http.ResponseWriter, r *http.Request) {
	var in models.InventoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeWarning(w, http.StatusBadRequest, "Invalid input")
		return
	}

	b.mu.Lock()
	item := models.InventoryItem{
		ID:          b.nextID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		ItemName:    in.ItemName,
		Quantity:    in.Quantity,
		UOM:         models.Unit(in.UOM),
		PricePerQty: in.PricePerQty,
	}
	b.nextID++
	b.items = append(b.items, item)
	b.mu.Unlock()

	writeSuccess(w, "Inventory item added successfully", map[string]any{"inventory": item})
}

func (b *Backend) updateInventory(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.PathValue("id"))

	var in models.InventoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeWarning(w, http.StatusBadRequest, "Invalid input")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.items {
		if b.items[i].ID == uint(id) {
			b.items[i].ItemName = in.ItemName
			b.items[i].Quantity = in.Quantity
			b.items[i].UOM = models.Unit(in.UOM)
			b.items[i].PricePerQty = in.PricePerQty
			b.items[i].UpdatedAt = time.Now()
			writeSuccess(w, "Inventory item updated successfully", map[string]any{"inventory": b.items[i]})
			return
		}
	}
	writeWarning(w, http.StatusNotFound, "Inventory item not found")
}

func (b *Backend) deleteInventory(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.PathValue("id"))

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.items {
		if b.items[i].ID == uint(id) {
			b.items = append(b.items[:i], b.items[i+1:]...)
			writeSuccess(w, "Inventory item deleted successfully", nil)
			return
		}
	}
	writeWarning(w, http.StatusNotFound, "Inventory item not found")
}

func (b *Backend) listRecipes(w http.ResponseWriter, r *http.Request) {
	if b.Delay > 0 {
		time.Sleep(b.Delay)
	}
	page, limit, search := pageParams(r)

	b.mu.Lock()
	b.Requests["/recipe"]++
	var filtered []models.Recipe
	for _, rec := range b.recipes {
		if search == "" || strings.Contains(strings.ToLower(rec.SKU), strings.ToLower(search)) {
			filtered = append(filtered, rec)
		}
	}
	b.mu.Unlock()

	total := len(filtered)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	writeSuccess(w, "Recipes retrieved successfully", map[string]any{
		"page":        page,
		"limit":       limit,
		"total_items": total,
		"total_pages": (total + limit - 1) / limit,
		"recipes":     filtered[start:end],
	})
}

func (b *Backend) addRecipe(w http.ResponseWriter, r *http.Request) {
	var in models.RecipeInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeWarning(w, http.StatusBadRequest, "Invalid input")
		return
	}

	// Ingredient names must exist in inventory, like the real COGS
	// computation requires.
	b.mu.Lock()
	for name := range in.Ingredients {
		found := false
		for _, it := range b.items {
			if it.ItemName == name {
				found = true
				break
			}
		}
		if !found {
			b.mu.Unlock()
			writeDanger(w, http.StatusInternalServerError, "Failed to calculate COGS")
			return
		}
	}

	rec := models.Recipe{
		ID:           b.nextID,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
		SKU:          fmt.Sprintf("IC-%s-%03d", time.Now().Format("20060102"), len(b.recipes)+1),
		NumberOfCups: in.NumberOfCups,
		Ingredients:  in.Ingredients,
		COGS:         float64(in.NumberOfCups) * 1000,
	}
	b.nextID++
	b.recipes = append(b.recipes, rec)
	b.mu.Unlock()

	writeSuccess(w, "Recipe added successfully", map[string]any{
		"sku":            rec.SKU,
		"cogs":           rec.COGS,
		"number_of_cups": rec.NumberOfCups,
	})
}

func (b *Backend) updateRecipe(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.PathValue("id"))

	var in models.RecipeInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeWarning(w, http.StatusBadRequest, "Invalid input")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.recipes {
		if b.recipes[i].ID == uint(id) {
			b.recipes[i].NumberOfCups = in.NumberOfCups
			b.recipes[i].Ingredients = in.Ingredients
			b.recipes[i].COGS = float64(in.NumberOfCups) * 1000
			b.recipes[i].UpdatedAt = time.Now()
			writeSuccess(w, "Recipe updated successfully", map[string]any{
				"sku":            b.recipes[i].SKU,
				"cogs":           b.recipes[i].COGS,
				"number_of_cups": b.recipes[i].NumberOfCups,
			})
			return
		}
	}
	writeWarning(w, http.StatusNotFound, "Recipe not found")
}
