package view

import (
	"recipe-finder/internal/pagination"
	"recipe-finder/internal/recipe"

	"golang.org/x/net/html"
)

// Default messages shown by the concrete views.
const (
	RecipeErrorMessage    = "We could not find that recipe. Please try another one!"
	ResultsErrorMessage   = "No recipes found for your query! Please try again."
	BookmarksErrorMessage = "No bookmarks yet. Find a nice recipe and bookmark it ;)"
	UploadMessage         = "Recipe was successfully uploaded"
)

// PreviewList is a list of previews with the currently open recipe marked.
type PreviewList struct {
	Previews []recipe.Preview
	ActiveID string
}

// NewPreviewList projects bookmarked recipes into a PreviewList.
func NewPreviewList(recipes []recipe.Recipe, activeID string) PreviewList {
	previews := make([]recipe.Preview, len(recipes))
	for i, r := range recipes {
		previews[i] = r.Preview()
	}
	return PreviewList{Previews: previews, ActiveID: activeID}
}

func emptyPreviews(l PreviewList) bool {
	return len(l.Previews) == 0
}

// NewRecipeView renders the current recipe.
func NewRecipeView(mount *html.Node) *View[recipe.Recipe] {
	return New("recipe", mount, func(r recipe.Recipe) (string, error) {
		return execute("recipe", r)
	}).WithMessages(RecipeErrorMessage, "")
}

// NewResultsView renders one page of search results.
func NewResultsView(mount *html.Node) *View[PreviewList] {
	return New("results", mount, previewMarkup).
		WithEmpty(emptyPreviews).
		WithMessages(ResultsErrorMessage, "")
}

// NewBookmarksView renders the bookmark list.
func NewBookmarksView(mount *html.Node) *View[PreviewList] {
	return New("bookmarks", mount, previewMarkup).
		WithEmpty(emptyPreviews).
		WithMessages(BookmarksErrorMessage, "")
}

// NewPaginationView renders the prev/next buttons for the results list.
func NewPaginationView(mount *html.Node) *View[pagination.Navigation] {
	return New("pagination", mount, func(n pagination.Navigation) (string, error) {
		return execute("pagination", n)
	})
}

// NewUploadView renders the upload form, prefilled with form.
func NewUploadView(mount *html.Node) *View[recipe.Form] {
	return New("upload", mount, func(f recipe.Form) (string, error) {
		if f == nil {
			f = recipe.Form{}
		}
		return execute("upload", f)
	}).WithMessages("", UploadMessage)
}

func previewMarkup(l PreviewList) (string, error) {
	return execute("previews", l)
}
