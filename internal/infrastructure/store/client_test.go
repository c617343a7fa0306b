package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	common.Logger = zap.NewNop()
}

func testClient(baseURL string) *Client {
	return NewClient(&config.Config{
		Store: config.StoreConfig{
			URL:     baseURL,
			APIKey:  "test-key",
			Timeout: 5 * time.Second,
		},
	})
}

func TestClientAuthHeaders(t *testing.T) {
	var gotAPIKey, gotAuth, gotPrefer string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		gotPrefer = r.Header.Get("Prefer")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).ListRecipes(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "test-key", gotAPIKey)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "return=representation", gotPrefer)
}

func TestMealPlanRangeFilters(t *testing.T) {
	var gotQuery []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()["date"]
		_, _ = w.Write([]byte(`[{"id":"e1","date":"2026-08-23","recipe_id":"r1"}]`))
	}))
	defer server.Close()

	entries, err := testClient(server.URL).MealPlanRange(context.Background(), "2026-08-23", "2026-08-29")
	require.NoError(t, err)

	// 同一欄位帶兩個區間過濾
	assert.ElementsMatch(t, []string{"gte.2026-08-23", "lte.2026-08-29"}, gotQuery)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].RecipeID)
	assert.Equal(t, "r1", *entries[0].RecipeID)
}

func TestUpsertIngredientIgnoresDuplicates(t *testing.T) {
	var gotConflict, gotPrefer string
	var gotBody NewIngredient
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotConflict = r.URL.Query().Get("on_conflict")
		gotPrefer = r.Header.Get("Prefer")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	err := testClient(server.URL).UpsertIngredient(context.Background(), NewIngredient{
		Name:              "onion",
		Category:          "pantry",
		PurchaseFrequency: "weekly",
		StoreSection:      "other",
	})
	require.NoError(t, err)

	assert.Equal(t, "name", gotConflict)
	assert.Equal(t, "resolution=ignore-duplicates", gotPrefer)
	assert.Equal(t, "onion", gotBody.Name)
}

func TestRecipeByIDNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).RecipeByID(context.Background(), "missing")
	require.Error(t, err)

	ce, ok := common.AsCustomError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrCodeNotFound, ce.Code)
}

func TestStoreErrorOnNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := testClient(server.URL).ListRecipes(context.Background())
	require.Error(t, err)

	ce, ok := common.AsCustomError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrCodeStoreError, ce.Code)
	assert.Equal(t, http.StatusBadGateway, ce.Status)
}

func TestRecipeIngredientsJoinSelect(t *testing.T) {
	var gotSelect, gotFilter string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSelect = r.URL.Query().Get("select")
		gotFilter = r.URL.Query().Get("recipe_id")
		_, _ = w.Write([]byte(`[{"recipe_id":"r1","ingredient_id":"i1","quantity":2,"unit":"cups","notes":"",
			"ingredient":{"id":"i1","name":"flour","store_section":"grains","purchase_frequency":"weekly"}}]`))
	}))
	defer server.Close()

	links, err := testClient(server.URL).RecipeIngredients(context.Background(), []string{"r1", "r2"})
	require.NoError(t, err)

	assert.Equal(t, "in.(r1,r2)", gotFilter)
	assert.Contains(t, gotSelect, "ingredient:ingredients(")
	require.Len(t, links, 1)
	require.NotNil(t, links[0].Ingredient)
	assert.Equal(t, "flour", links[0].Ingredient.Name)
	assert.Equal(t, "grains", links[0].Ingredient.StoreSection)
}
