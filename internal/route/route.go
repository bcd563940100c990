// Package route extracts the recipe id carried by a page URL.
package route

import (
	"fmt"
	"net/url"
	"strings"
)

// RecipeParam is the query parameter accepted in place of a fragment.
const RecipeParam = "recipe"

// RecipeID returns the recipe id of rawURL. The fragment (#id) wins over the
// recipe query parameter; an empty string means no recipe is selected.
func RecipeID(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse url %q: %w", rawURL, err)
	}
	if id := strings.TrimSpace(u.Fragment); id != "" {
		return id, nil
	}
	return strings.TrimSpace(u.Query().Get(RecipeParam)), nil
}

// RecipeURL is the canonical link to id.
func RecipeURL(id string) string {
	return "/recipes/" + url.PathEscape(id)
}
