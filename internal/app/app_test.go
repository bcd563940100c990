package app

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"recipe-finder/internal/catalog"
	"recipe-finder/internal/recipe"
	"recipe-finder/internal/store"
	"recipe-finder/internal/view"

	"github.com/PuerkitoBio/goquery"
)

type mockCatalog struct {
	recipes  map[string]recipe.WireRecipe
	previews []recipe.WirePreview
	err      error
	creates  int
}

func (m *mockCatalog) GetRecipe(ctx context.Context, id string) (recipe.WireRecipe, error) {
	if m.err != nil {
		return recipe.WireRecipe{}, m.err
	}
	w, ok := m.recipes[id]
	if !ok {
		return recipe.WireRecipe{}, &catalog.HTTPError{StatusCode: 400, Message: "Invalid _id: " + id}
	}
	return w, nil
}

func (m *mockCatalog) Search(ctx context.Context, query string) ([]recipe.WirePreview, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.previews, nil
}

func (m *mockCatalog) CreateRecipe(ctx context.Context, rec recipe.WireRecipe) (recipe.WireRecipe, error) {
	m.creates++
	if m.err != nil {
		return recipe.WireRecipe{}, m.err
	}
	rec.ID = "uploaded"
	rec.Key = "k"
	return rec, nil
}

type memBookmarks struct {
	saved []recipe.Recipe
}

func (m *memBookmarks) Load(ctx context.Context) ([]recipe.Recipe, error) { return m.saved, nil }

func (m *memBookmarks) Save(ctx context.Context, b []recipe.Recipe) error {
	m.saved = append([]recipe.Recipe(nil), b...)
	return nil
}

func (m *memBookmarks) Close() error { return nil }

func wirePizza() recipe.WireRecipe {
	return recipe.WireRecipe{
		ID:          "pizza",
		Title:       "Pizza",
		Publisher:   "Home",
		SourceURL:   "http://example.com/pizza",
		ImageURL:    "http://example.com/pizza.jpg",
		Servings:    4,
		CookingTime: 45,
		Ingredients: []recipe.WireIngredient{
			{Quantity: recipe.Quantity(2), Unit: "cups", Description: "flour"},
		},
	}
}

func newTestApp(t *testing.T, cat *mockCatalog) *App {
	t.Helper()
	st, err := store.New(context.Background(), cat, &memBookmarks{}, 10)
	if err != nil {
		t.Fatalf("store.New failed: %v", err)
	}
	page, err := view.NewPage()
	if err != nil {
		t.Fatalf("view.NewPage failed: %v", err)
	}
	a := NewApp(st, page)
	if err := a.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return a
}

func render(t *testing.T, a *App) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	if err := a.WritePage(&buf); err != nil {
		t.Fatalf("WritePage failed: %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestInit(t *testing.T) {
	a := newTestApp(t, &mockCatalog{})
	doc := render(t, a)

	if got := doc.Find(".bookmarks__list .error p").Text(); got != view.BookmarksErrorMessage {
		t.Errorf("Expected empty bookmarks message, got %q", got)
	}
	if doc.Find(`.upload input[name="title"]`).Length() != 1 {
		t.Error("Expected upload form to be rendered")
	}
}

func TestControlRecipe(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		a := newTestApp(t, &mockCatalog{recipes: map[string]recipe.WireRecipe{"pizza": wirePizza()}})
		if err := a.ControlRecipe(ctx, "pizza"); err != nil {
			t.Fatalf("ControlRecipe failed: %v", err)
		}
		doc := render(t, a)
		if got := doc.Find(".recipe__title span").Text(); got != "Pizza" {
			t.Errorf("Expected Pizza, got %q", got)
		}
		if got := doc.Find("title").Text(); got != "Pizza" {
			t.Errorf("Expected document title Pizza, got %q", got)
		}
	})

	t.Run("EmptyIDIsNoop", func(t *testing.T) {
		a := newTestApp(t, &mockCatalog{})
		if err := a.ControlRecipe(ctx, ""); err != nil {
			t.Fatal(err)
		}
		if a.page.Recipe.State() != view.StateEmpty {
			t.Errorf("Expected recipe view untouched, got %s", a.page.Recipe.State())
		}
	})

	t.Run("HTTPError", func(t *testing.T) {
		a := newTestApp(t, &mockCatalog{})
		err := a.ControlRecipe(ctx, "nope")
		var httpErr *catalog.HTTPError
		if !errors.As(err, &httpErr) {
			t.Fatalf("Expected HTTPError, got %v", err)
		}
		doc := render(t, a)
		if got := doc.Find(".recipe .error p").Text(); got != "Invalid _id: nope (400)" {
			t.Errorf("Unexpected error text %q", got)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		a := newTestApp(t, &mockCatalog{err: catalog.ErrNotFound})
		if err := a.ControlRecipe(ctx, "x"); !errors.Is(err, catalog.ErrNotFound) {
			t.Fatalf("Expected ErrNotFound, got %v", err)
		}
		doc := render(t, a)
		if got := doc.Find(".recipe .error p").Text(); got != view.RecipeErrorMessage {
			t.Errorf("Expected default recipe error, got %q", got)
		}
	})
}

func TestControlSearchAndPagination(t *testing.T) {
	ctx := context.Background()
	previews := make([]recipe.WirePreview, 25)
	for i := range previews {
		previews[i] = recipe.WirePreview{ID: string(rune('a' + i)), Title: "Recipe"}
	}
	a := newTestApp(t, &mockCatalog{previews: previews})

	if err := a.ControlSearchResults(ctx, "pizza"); err != nil {
		t.Fatalf("ControlSearchResults failed: %v", err)
	}
	doc := render(t, a)
	if got := doc.Find(".results .preview").Length(); got != 10 {
		t.Errorf("Expected 10 results, got %d", got)
	}
	if got := doc.Find(".pagination .pagination__btn--next").AttrOr("data-goto", ""); got != "2" {
		t.Errorf("Expected next button to page 2, got %q", got)
	}

	if err := a.ControlPagination(3); err != nil {
		t.Fatal(err)
	}
	doc = render(t, a)
	if got := doc.Find(".results .preview").Length(); got != 5 {
		t.Errorf("Expected 5 results on the last page, got %d", got)
	}
	if doc.Find(".pagination .pagination__btn--next").Length() != 0 {
		t.Error("Expected no next button on the last page")
	}
	if got := doc.Find(".pagination .pagination__btn--prev").AttrOr("data-goto", ""); got != "2" {
		t.Errorf("Expected prev button to page 2, got %q", got)
	}

	t.Run("NoResults", func(t *testing.T) {
		a := newTestApp(t, &mockCatalog{})
		if err := a.ControlSearchResults(ctx, "zzz"); err != nil {
			t.Fatal(err)
		}
		doc := render(t, a)
		if got := doc.Find(".results .error p").Text(); got != view.ResultsErrorMessage {
			t.Errorf("Expected no results message, got %q", got)
		}
	})

	t.Run("Timeout", func(t *testing.T) {
		a := newTestApp(t, &mockCatalog{err: catalog.ErrTimeout})
		if err := a.ControlSearchResults(ctx, "pizza"); !errors.Is(err, catalog.ErrTimeout) {
			t.Fatalf("Expected ErrTimeout, got %v", err)
		}
		doc := render(t, a)
		if got := doc.Find(".results .error p").Text(); !strings.Contains(got, "took too long") {
			t.Errorf("Expected timeout message, got %q", got)
		}
	})
}

func TestControlServingsAndBookmarks(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t, &mockCatalog{recipes: map[string]recipe.WireRecipe{"pizza": wirePizza()}})

	if err := a.ControlServings(2); !errors.Is(err, store.ErrNoRecipe) {
		t.Errorf("Expected ErrNoRecipe before a recipe is loaded, got %v", err)
	}
	if err := a.ControlRecipe(ctx, "pizza"); err != nil {
		t.Fatal(err)
	}

	if err := a.ControlServings(0); !errors.Is(err, ErrInvalidServings) {
		t.Errorf("Expected ErrInvalidServings, got %v", err)
	}
	if err := a.ControlServings(8); err != nil {
		t.Fatalf("ControlServings failed: %v", err)
	}
	doc := render(t, a)
	if got := doc.Find(".recipe__info-data--people").Text(); got != "8" {
		t.Errorf("Expected 8 servings, got %q", got)
	}
	if got := doc.Find(".recipe__quantity").First().Text(); got != "4" {
		t.Errorf("Expected quantity 4, got %q", got)
	}

	if err := a.ControlToggleBookmark(ctx); err != nil {
		t.Fatalf("ControlToggleBookmark failed: %v", err)
	}
	doc = render(t, a)
	if got := doc.Find(".bookmarks__list .preview").Length(); got != 1 {
		t.Errorf("Expected 1 bookmark, got %d", got)
	}
	if !doc.Find(".bookmarks__list .preview__link").HasClass("preview__link--active") {
		t.Error("Expected bookmark of the open recipe to be active")
	}
	href, _ := doc.Find(".btn--bookmark use").Attr("href")
	if !strings.HasSuffix(href, "#icon-bookmark-fill") {
		t.Errorf("Expected filled bookmark icon, got %q", href)
	}

	if err := a.ControlDeleteBookmark(ctx, "pizza"); err != nil {
		t.Fatal(err)
	}
	doc = render(t, a)
	if got := doc.Find(".bookmarks__list .error p").Text(); got != view.BookmarksErrorMessage {
		t.Errorf("Expected empty bookmarks message, got %q", got)
	}
	href, _ = doc.Find(".btn--bookmark use").Attr("href")
	if !strings.HasSuffix(href, "#icon-bookmark") {
		t.Errorf("Expected empty bookmark icon, got %q", href)
	}
}

func TestControlServingsAfterFailedLoad(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t, &mockCatalog{recipes: map[string]recipe.WireRecipe{"pizza": wirePizza()}})

	if err := a.ControlRecipe(ctx, "pizza"); err != nil {
		t.Fatal(err)
	}
	if err := a.ControlRecipe(ctx, "missing"); err == nil {
		t.Fatal("Expected loading a missing recipe to fail")
	}

	if err := a.ControlServings(8); !errors.Is(err, store.ErrNoRecipe) {
		t.Errorf("Expected ErrNoRecipe while the error is shown, got %v", err)
	}
	if a.page.Recipe.State() != view.StateError {
		t.Errorf("Expected recipe view to stay in error state, got %s", a.page.Recipe.State())
	}
	doc := render(t, a)
	if got := doc.Find(".recipe .error p").Text(); got != "Invalid _id: missing (400)" {
		t.Errorf("Expected error block untouched, got %q", got)
	}
	if rec, _ := a.store.Recipe(); rec.Servings != 4 {
		t.Errorf("Expected stored servings unchanged, got %d", rec.Servings)
	}
}

func TestControlAddRecipe(t *testing.T) {
	ctx := context.Background()

	t.Run("Malformed", func(t *testing.T) {
		cat := &mockCatalog{}
		a := newTestApp(t, cat)
		_, err := a.ControlAddRecipe(ctx, recipe.Form{"title": "x", "cookingTime": "1", "servings": "1", "ingredient-1": "rice"})
		if !errors.Is(err, recipe.ErrMalformedIngredient) {
			t.Fatalf("Expected ErrMalformedIngredient, got %v", err)
		}
		if cat.creates != 0 {
			t.Error("Expected no upload request")
		}
		doc := render(t, a)
		if got := doc.Find(".upload .error p").Text(); !strings.Contains(got, "wrong ingredient format") {
			t.Errorf("Expected format error, got %q", got)
		}
	})

	t.Run("Success", func(t *testing.T) {
		a := newTestApp(t, &mockCatalog{})
		id, err := a.ControlAddRecipe(ctx, recipe.Form{
			"title":        "Soup",
			"sourceUrl":    "http://example.com/soup",
			"image":        "http://example.com/soup.jpg",
			"publisher":    "Me",
			"cookingTime":  "20",
			"servings":     "2",
			"ingredient-1": "1,l,water",
		})
		if err != nil {
			t.Fatalf("ControlAddRecipe failed: %v", err)
		}
		if id != "uploaded" {
			t.Errorf("Expected id 'uploaded', got %q", id)
		}

		doc := render(t, a)
		if got := doc.Find(".upload .message p").Text(); got != view.UploadMessage {
			t.Errorf("Expected upload message, got %q", got)
		}
		if got := doc.Find(".recipe__title span").Text(); got != "Soup" {
			t.Errorf("Expected uploaded recipe shown, got %q", got)
		}
		if doc.Find(".recipe__user-generated").HasClass("hidden") {
			t.Error("Expected user generated badge")
		}
		if got := doc.Find(".bookmarks__list .preview").Length(); got != 1 {
			t.Errorf("Expected uploaded recipe bookmarked, got %d", got)
		}

		if err := a.ControlUploadForm(); err != nil {
			t.Fatal(err)
		}
		doc = render(t, a)
		if doc.Find(`.upload input[name="title"]`).Length() != 1 {
			t.Error("Expected form to be restored")
		}
	})
}
