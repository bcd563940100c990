package view

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"

	"recipe-finder/internal/pagination"
	"recipe-finder/internal/recipe"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Mount selectors inside the page shell.
const (
	RecipeSelector     = ".recipe"
	ResultsSelector    = ".results"
	BookmarksSelector  = ".bookmarks__list"
	PaginationSelector = ".pagination"
	UploadSelector     = ".upload"
)

//go:embed templates/page.shell
var shell []byte

// Page is the in-memory document every view is mounted into.
type Page struct {
	doc *goquery.Document

	Recipe     *View[recipe.Recipe]
	Results    *View[PreviewList]
	Bookmarks  *View[PreviewList]
	Pagination *View[pagination.Navigation]
	Upload     *View[recipe.Form]
}

// NewPage parses the page shell and mounts every view.
func NewPage() (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(shell))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page shell: %w", err)
	}

	p := &Page{doc: doc}
	mounts := make(map[string]*html.Node)
	for _, sel := range []string{RecipeSelector, ResultsSelector, BookmarksSelector, PaginationSelector, UploadSelector} {
		s := doc.Find(sel).First()
		if s.Length() == 0 {
			return nil, fmt.Errorf("page shell has no mount point %q", sel)
		}
		mounts[sel] = s.Get(0)
	}

	p.Recipe = NewRecipeView(mounts[RecipeSelector])
	p.Results = NewResultsView(mounts[ResultsSelector])
	p.Bookmarks = NewBookmarksView(mounts[BookmarksSelector])
	p.Pagination = NewPaginationView(mounts[PaginationSelector])
	p.Upload = NewUploadView(mounts[UploadSelector])
	return p, nil
}

// Document exposes the page for querying.
func (p *Page) Document() *goquery.Document {
	return p.doc
}

// Render writes the whole page.
func (p *Page) Render(w io.Writer) error {
	out, err := p.doc.Html()
	if err != nil {
		return fmt.Errorf("failed to serialize page: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

// SetTitle sets the document title.
func (p *Page) SetTitle(title string) {
	p.doc.Find("title").SetText(title)
}
