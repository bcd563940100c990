// Package store is the single owner of the current recipe, the search state
// and the bookmark set.
//
// Network calls run outside the lock, so overlapping LoadRecipe or LoadSearch
// calls resolve last-writer-wins: a slow earlier response can overwrite a
// faster later one. Callers that need ordering must serialize their calls.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"recipe-finder/internal/catalog"
	"recipe-finder/internal/logging"
	"recipe-finder/internal/pagination"
	"recipe-finder/internal/recipe"
	"recipe-finder/internal/storage"

	"github.com/sirupsen/logrus"
)

// ErrNoRecipe is returned by operations that need a current recipe before one
// was loaded.
var ErrNoRecipe = errors.New("no recipe loaded")

// Search is the state of the last submitted search.
type Search struct {
	Query          string
	Results        []recipe.Preview
	ResultsPerPage int
	Page           int
}

// Store holds the application state.
type Store struct {
	mu sync.Mutex

	catalog catalog.Client
	persist storage.BookmarkStore
	log     logrus.FieldLogger

	current   *recipe.Recipe
	search    Search
	bookmarks []recipe.Recipe
}

// New creates a Store and loads the persisted bookmark set once.
func New(ctx context.Context, client catalog.Client, persist storage.BookmarkStore, resultsPerPage int) (*Store, error) {
	if resultsPerPage <= 0 {
		return nil, fmt.Errorf("results per page must be positive, got %d", resultsPerPage)
	}

	bookmarks, err := persist.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookmarks: %w", err)
	}
	if bookmarks == nil {
		bookmarks = []recipe.Recipe{}
	}

	return &Store{
		catalog:   client,
		persist:   persist,
		log:       logging.Log.WithField("component", "store"),
		search:    Search{ResultsPerPage: resultsPerPage, Page: 1},
		bookmarks: bookmarks,
	}, nil
}

// LoadRecipe fetches id and makes it the current recipe. On failure the
// current recipe is left untouched.
func (s *Store) LoadRecipe(ctx context.Context, id string) error {
	w, err := s.catalog.GetRecipe(ctx, id)
	if err != nil {
		s.log.WithError(err).WithField("id", id).Error("failed to load recipe")
		return fmt.Errorf("failed to load recipe %s: %w", id, err)
	}

	rec := recipe.FromWire(w)

	s.mu.Lock()
	defer s.mu.Unlock()
	rec.Bookmarked = s.isBookmarkedLocked(rec.ID)
	s.current = &rec
	return nil
}

// LoadSearch replaces the search results with the hits for query and goes
// back to page 1.
func (s *Store) LoadSearch(ctx context.Context, query string) error {
	hits, err := s.catalog.Search(ctx, query)
	if err != nil {
		s.log.WithError(err).WithField("query", query).Error("failed to search recipes")
		return fmt.Errorf("failed to search for %q: %w", query, err)
	}

	results := make([]recipe.Preview, 0, len(hits))
	for _, h := range hits {
		results = append(results, recipe.PreviewFromWire(h))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.search.Query = query
	s.search.Results = results
	s.search.Page = 1
	return nil
}

// ResultsPage moves to page and returns its window of results. Pages past
// the end give an empty slice; pages below 1 are treated as 1.
func (s *Store) ResultsPage(page int) []recipe.Preview {
	s.mu.Lock()
	defer s.mu.Unlock()
	if page < 1 {
		page = 1
	}
	s.search.Page = page
	return s.windowLocked()
}

// CurrentResultsPage returns the window of the current page.
func (s *Store) CurrentResultsPage() []recipe.Preview {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.windowLocked()
}

func (s *Store) windowLocked() []recipe.Preview {
	start, end := pagination.Window(s.search.Page, len(s.search.Results), s.search.ResultsPerPage)
	out := make([]recipe.Preview, end-start)
	copy(out, s.search.Results[start:end])
	return out
}

// UpdateServings rescales every ingredient to newServings. All ratios use the
// servings value from before the call. newServings is not validated.
func (s *Store) UpdateServings(newServings int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ErrNoRecipe
	}

	r := s.current
	old := float64(r.Servings)
	scaled := make([]*float64, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		if ing.Quantity == nil {
			continue
		}
		q := *ing.Quantity * float64(newServings) / old
		scaled[i] = &q
	}

	for i := range r.Ingredients {
		r.Ingredients[i].Quantity = scaled[i]
	}
	r.Servings = newServings
	return nil
}

// AddBookmark appends rec to the bookmark set and persists it. Duplicates
// are not checked.
func (s *Store) AddBookmark(ctx context.Context, rec recipe.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addBookmarkLocked(ctx, rec)
}

func (s *Store) addBookmarkLocked(ctx context.Context, rec recipe.Recipe) error {
	snapshot := rec.Clone()
	snapshot.Bookmarked = true

	next := make([]recipe.Recipe, 0, len(s.bookmarks)+1)
	next = append(next, s.bookmarks...)
	return s.commitLocked(ctx, append(next, snapshot), rec.ID, true)
}

// DeleteBookmark removes the first bookmark with id and persists the set.
// Unknown ids are a no-op.
func (s *Store) DeleteBookmark(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteBookmarkLocked(ctx, id)
}

func (s *Store) deleteBookmarkLocked(ctx context.Context, id string) error {
	next := make([]recipe.Recipe, 0, len(s.bookmarks))
	removed := false
	for _, b := range s.bookmarks {
		if !removed && b.ID == id {
			removed = true
			continue
		}
		next = append(next, b)
	}
	return s.commitLocked(ctx, next, id, false)
}

// ToggleBookmark bookmarks the current recipe, or removes it when it is
// already bookmarked.
func (s *Store) ToggleBookmark(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ErrNoRecipe
	}

	if s.current.Bookmarked {
		return s.deleteBookmarkLocked(ctx, s.current.ID)
	}
	return s.addBookmarkLocked(ctx, *s.current)
}

// ClearBookmarks empties the bookmark set.
func (s *Store) ClearBookmarks(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked(ctx, []recipe.Recipe{}, "", false)
}

// commitLocked installs next as the bookmark set and sets the current
// recipe's flag when its id matches (any id when id is empty). If persisting
// fails both are restored, so memory never runs ahead of storage.
func (s *Store) commitLocked(ctx context.Context, next []recipe.Recipe, id string, bookmarked bool) error {
	prev := s.bookmarks
	var prevFlag bool
	touch := s.current != nil && (id == "" || s.current.ID == id)
	if touch {
		prevFlag = s.current.Bookmarked
		s.current.Bookmarked = bookmarked
	}
	s.bookmarks = next

	if err := s.persistLocked(ctx); err != nil {
		s.bookmarks = prev
		if touch {
			s.current.Bookmarked = prevFlag
		}
		return err
	}
	return nil
}

// UploadRecipe validates the form, creates the recipe in the catalog, makes
// it the current recipe and bookmarks it. Malformed ingredients fail before
// any request is sent.
func (s *Store) UploadRecipe(ctx context.Context, form recipe.Form) error {
	payload, err := recipe.ParseUpload(form)
	if err != nil {
		s.log.WithError(err).Warn("rejected recipe upload")
		return err
	}

	created, err := s.catalog.CreateRecipe(ctx, payload)
	if err != nil {
		s.log.WithError(err).WithField("title", payload.Title).Error("failed to upload recipe")
		return fmt.Errorf("failed to upload recipe: %w", err)
	}

	rec := recipe.FromWire(created)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &rec
	return s.addBookmarkLocked(ctx, rec)
}

// Recipe returns a copy of the current recipe.
func (s *Store) Recipe() (recipe.Recipe, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return recipe.Recipe{}, false
	}
	return s.current.Clone(), true
}

// Search returns a copy of the search state.
func (s *Store) Search() Search {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.search
	out.Results = append([]recipe.Preview(nil), s.search.Results...)
	return out
}

// Bookmarks returns a copy of the bookmark set in insertion order.
func (s *Store) Bookmarks() []recipe.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]recipe.Recipe, len(s.bookmarks))
	for i, b := range s.bookmarks {
		out[i] = b.Clone()
	}
	return out
}

// IsBookmarked reports whether id is in the bookmark set.
func (s *Store) IsBookmarked(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isBookmarkedLocked(id)
}

func (s *Store) isBookmarkedLocked(id string) bool {
	for _, b := range s.bookmarks {
		if b.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) persistLocked(ctx context.Context) error {
	if err := s.persist.Save(ctx, s.bookmarks); err != nil {
		s.log.WithError(err).Error("failed to persist bookmarks")
		return fmt.Errorf("failed to persist bookmarks: %w", err)
	}
	return nil
}
