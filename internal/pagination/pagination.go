// Package pagination holds the pure windowing and navigation rules for
// search results.
package pagination

// Direction of a navigation button.
type Direction string

const (
	Prev Direction = "prev"
	Next Direction = "next"
)

// Button is one navigation target. Targets are always adjacent pages.
type Button struct {
	Direction Direction
	Page      int
}

// Navigation describes which buttons a results page shows.
type Navigation struct {
	Page     int
	NumPages int
	Buttons  []Button
}

// HasPrev reports whether a prev button is shown.
func (n Navigation) HasPrev() bool {
	return n.has(Prev)
}

// HasNext reports whether a next button is shown.
func (n Navigation) HasNext() bool {
	return n.has(Next)
}

func (n Navigation) has(d Direction) bool {
	for _, b := range n.Buttons {
		if b.Direction == d {
			return true
		}
	}
	return false
}

// NumPages is ceil(count / perPage).
func NumPages(count, perPage int) int {
	if perPage <= 0 || count <= 0 {
		return 0
	}
	return (count + perPage - 1) / perPage
}

// Navigate applies the button rules in priority order: first page, last
// page, middle page, single page.
func Navigate(page, count, perPage int) Navigation {
	numPages := NumPages(count, perPage)
	nav := Navigation{Page: page, NumPages: numPages}

	switch {
	case page == 1 && numPages > 1:
		nav.Buttons = []Button{{Direction: Next, Page: page + 1}}
	case page == numPages && numPages > 1:
		nav.Buttons = []Button{{Direction: Prev, Page: page - 1}}
	case page > 1 && page < numPages:
		nav.Buttons = []Button{
			{Direction: Prev, Page: page - 1},
			{Direction: Next, Page: page + 1},
		}
	}
	return nav
}

// Window returns the [start, end) bounds of page within count items,
// clipped so that start <= end <= count. Out-of-range pages give an empty
// window.
func Window(page, count, perPage int) (start, end int) {
	if page < 1 || perPage <= 0 {
		return 0, 0
	}
	start = (page - 1) * perPage
	end = page * perPage
	if start > count {
		start = count
	}
	if end > count {
		end = count
	}
	return start, end
}
