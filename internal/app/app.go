// Package app wires the store to the page views. Every Control method turns
// failures into an error render on the affected view and still returns the
// error so callers can pick a status code.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"recipe-finder/internal/catalog"
	"recipe-finder/internal/logging"
	"recipe-finder/internal/pagination"
	"recipe-finder/internal/recipe"
	"recipe-finder/internal/store"
	"recipe-finder/internal/view"
)

// ErrInvalidServings is returned for serving counts below one.
var ErrInvalidServings = errors.New("servings must be at least 1")

// App holds the application's dependencies.
type App struct {
	mu    sync.Mutex
	store *store.Store
	page  *view.Page
}

// NewApp creates and initializes a new App instance.
func NewApp(st *store.Store, page *view.Page) *App {
	return &App{store: st, page: page}
}

// Store exposes the underlying state store.
func (a *App) Store() *store.Store {
	return a.store
}

// Init performs the first render of the persisted bookmarks and the empty
// upload form.
func (a *App) Init() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.renderBookmarks(); err != nil {
		return err
	}
	return a.page.Upload.Render(recipe.Form{})
}

// WritePage serializes the current page.
func (a *App) WritePage(w io.Writer) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.page.Render(w)
}

// ControlRecipe loads and shows the recipe id. An empty id is a no-op.
func (a *App) ControlRecipe(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.page.Recipe.RenderSpinner(); err != nil {
		return err
	}

	if err := a.store.LoadRecipe(ctx, id); err != nil {
		a.renderError(a.page.Recipe.RenderError, err)
		return err
	}

	rec, _ := a.store.Recipe()
	a.page.SetTitle(rec.Title)
	if err := a.page.Recipe.Render(rec); err != nil {
		return err
	}

	// Move the active marker without rebuilding the lists.
	if a.page.Results.State() == view.StateRendered {
		if _, err := a.page.Results.Update(a.resultsList(a.store.CurrentResultsPage())); err != nil {
			return err
		}
	}
	if a.page.Bookmarks.State() == view.StateRendered {
		if _, err := a.page.Bookmarks.Update(a.bookmarksList()); err != nil {
			return err
		}
	}
	return nil
}

// ControlSearchResults runs query and shows the first page of hits. An empty
// query is a no-op.
func (a *App) ControlSearchResults(ctx context.Context, query string) error {
	if query == "" {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.page.Results.RenderSpinner(); err != nil {
		return err
	}

	if err := a.store.LoadSearch(ctx, query); err != nil {
		a.renderError(a.page.Results.RenderError, err)
		return err
	}

	return a.renderResults(a.store.ResultsPage(1))
}

// ControlPagination shows results page n.
func (a *App) ControlPagination(n int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.renderResults(a.store.ResultsPage(n))
}

// ControlServings rescales the current recipe to n servings.
func (a *App) ControlServings(n int) error {
	if n < 1 {
		return fmt.Errorf("%d: %w", n, ErrInvalidServings)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if state := a.page.Recipe.State(); state != view.StateRendered {
		return fmt.Errorf("recipe view is %s: %w", state, store.ErrNoRecipe)
	}
	if err := a.store.UpdateServings(n); err != nil {
		return err
	}
	rec, _ := a.store.Recipe()
	_, err := a.page.Recipe.Update(rec)
	return err
}

// ControlToggleBookmark bookmarks the current recipe or removes its bookmark.
func (a *App) ControlToggleBookmark(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.store.ToggleBookmark(ctx); err != nil {
		return err
	}
	if err := a.updateRecipe(); err != nil {
		return err
	}
	return a.renderBookmarks()
}

// ControlDeleteBookmark removes the bookmark id.
func (a *App) ControlDeleteBookmark(ctx context.Context, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.store.DeleteBookmark(ctx, id); err != nil {
		return err
	}
	if err := a.updateRecipe(); err != nil {
		return err
	}
	return a.renderBookmarks()
}

// ControlClearBookmarks removes every bookmark.
func (a *App) ControlClearBookmarks(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.store.ClearBookmarks(ctx); err != nil {
		return err
	}
	if err := a.updateRecipe(); err != nil {
		return err
	}
	return a.renderBookmarks()
}

// ControlAddRecipe uploads the form, shows the new recipe and bookmarks it.
// It returns the id assigned by the catalog.
func (a *App) ControlAddRecipe(ctx context.Context, form recipe.Form) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.page.Upload.RenderSpinner(); err != nil {
		return "", err
	}

	if err := a.store.UploadRecipe(ctx, form); err != nil {
		if rerr := a.page.Upload.RenderError(errorMessage(err)); rerr != nil {
			logging.Log.WithError(rerr).Error("failed to render upload error")
		}
		return "", err
	}

	rec, _ := a.store.Recipe()
	a.page.SetTitle(rec.Title)
	if err := a.page.Recipe.Render(rec); err != nil {
		return "", err
	}
	if err := a.page.Upload.RenderMessage(""); err != nil {
		return "", err
	}
	if err := a.renderBookmarks(); err != nil {
		return "", err
	}
	return rec.ID, nil
}

// ControlUploadForm puts an empty upload form back after a message or error.
func (a *App) ControlUploadForm() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.page.Upload.Render(recipe.Form{})
}

func (a *App) activeID() string {
	if rec, ok := a.store.Recipe(); ok {
		return rec.ID
	}
	return ""
}

func (a *App) resultsList(previews []recipe.Preview) view.PreviewList {
	return view.PreviewList{Previews: previews, ActiveID: a.activeID()}
}

func (a *App) bookmarksList() view.PreviewList {
	return view.NewPreviewList(a.store.Bookmarks(), a.activeID())
}

func (a *App) renderResults(previews []recipe.Preview) error {
	if err := a.page.Results.Render(a.resultsList(previews)); err != nil {
		return err
	}
	s := a.store.Search()
	return a.page.Pagination.Render(pagination.Navigate(s.Page, len(s.Results), s.ResultsPerPage))
}

func (a *App) renderBookmarks() error {
	return a.page.Bookmarks.Render(a.bookmarksList())
}

// updateRecipe refreshes the recipe view after a bookmark change. Nothing is
// written when no recipe is shown.
func (a *App) updateRecipe() error {
	rec, ok := a.store.Recipe()
	if !ok || a.page.Recipe.State() != view.StateRendered {
		return nil
	}
	_, err := a.page.Recipe.Update(rec)
	return err
}

func (a *App) renderError(render func(string) error, cause error) {
	if err := render(errorMessage(cause)); err != nil {
		logging.Log.WithError(err).Error("failed to render error")
	}
}

// errorMessage picks the text shown to the user. An empty string selects the
// view's default message.
func errorMessage(err error) string {
	var httpErr *catalog.HTTPError
	var netErr *catalog.NetworkError
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return ""
	case errors.As(err, &httpErr):
		return httpErr.Error()
	case errors.Is(err, catalog.ErrTimeout):
		return "Request took too long! Please try again."
	case errors.As(err, &netErr):
		return "Could not reach the recipe catalog. Please check your connection."
	case errors.Is(err, recipe.ErrMalformedIngredient), errors.Is(err, recipe.ErrInvalidField):
		return err.Error()
	default:
		return ""
	}
}
