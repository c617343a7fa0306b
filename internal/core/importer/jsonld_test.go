package importer

import (
	"testing"

	"meal-planner/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const recipePage = `<!DOCTYPE html>
<html><head>
<script type="application/ld+json">{"@type":"Organization","name":"Example Kitchen"}</script>
<script type="application/ld+json">{broken json</script>
<script type="application/ld+json">
{"@context":"https://schema.org","@graph":[
  {"@type":"WebPage","name":"page"},
  {"@type":"Recipe","name":"Weeknight Chili","description":"<p>A hearty chili.</p>",
   "recipeCuisine":["Mexican"],"prepTime":"PT15M","cookTime":"PT1H",
   "recipeYield":"4 servings",
   "recipeInstructions":[{"@type":"HowToStep","text":"Brown the beef."},{"@type":"HowToStep","text":"Simmer."}],
   "recipeIngredient":["1 pound ground beef","2 cans kidney beans, drained","Salt to taste"]}
]}
</script>
</head><body></body></html>`

func TestExtractFromHTML(t *testing.T) {
	recipe, err := ExtractFromHTML(recipePage)
	require.NoError(t, err)

	assert.Equal(t, "Weeknight Chili", recipe.Name)
	assert.Equal(t, "A hearty chili.", recipe.Description)
	assert.Equal(t, "Mexican", recipe.CuisineType)
	assert.Equal(t, DifficultyEasy, recipe.Difficulty)
	assert.Equal(t, 15, recipe.PrepTimeMinutes)
	assert.Equal(t, 60, recipe.CookTimeMinutes)
	require.NotNil(t, recipe.Servings)
	assert.Equal(t, 4, *recipe.Servings)
	assert.Equal(t, "Brown the beef.\n\nSimmer.", recipe.Instructions)

	require.Len(t, recipe.Ingredients, 3)
	assert.Equal(t, IngredientLine{Quantity: "1", Unit: "pound", Name: "ground beef"}, recipe.Ingredients[0])
	assert.Equal(t, IngredientLine{Quantity: "2", Unit: "cans", Name: "kidney beans", Notes: "drained"}, recipe.Ingredients[1])
	assert.Equal(t, IngredientLine{Name: "Salt to taste"}, recipe.Ingredients[2])
}

func TestExtractFromHTMLTopLevelArray(t *testing.T) {
	html := `<html><head><script type="application/ld+json">
[{"@type":"BreadcrumbList"},{"@type":["Recipe","Thing"],"name":"Pasta","recipeIngredient":["200 g spaghetti"]}]
</script></head></html>`

	recipe, err := ExtractFromHTML(html)
	require.NoError(t, err)
	assert.Equal(t, "Pasta", recipe.Name)
	require.Len(t, recipe.Ingredients, 1)
	assert.Equal(t, "spaghetti", recipe.Ingredients[0].Name)
	assert.Equal(t, "g", recipe.Ingredients[0].Unit)
}

func TestExtractFromHTMLNoRecipe(t *testing.T) {
	html := `<html><head>
<script type="application/ld+json">{"@type":"NewsArticle","headline":"x"}</script>
</head><body><h1>Just a blog post</h1></body></html>`

	_, err := ExtractFromHTML(html)
	require.Error(t, err)
	ce, ok := common.AsCustomError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrCodeNoStructuredData, ce.Code)
}

func TestExtractFromHTMLDeterministic(t *testing.T) {
	first, err := ExtractFromHTML(recipePage)
	require.NoError(t, err)
	second, err := ExtractFromHTML(recipePage)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestExtractFromHTMLEmptyIngredientsNotNil(t *testing.T) {
	html := `<html><head><script type="application/ld+json">{"@type":"Recipe","name":"Bare"}</script></head></html>`
	recipe, err := ExtractFromHTML(html)
	require.NoError(t, err)
	assert.NotNil(t, recipe.Ingredients)
	assert.Empty(t, recipe.Ingredients)
}
