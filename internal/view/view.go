// Package view renders application state into mounted HTML subtrees.
//
// A View owns one mount node inside the page document. Render replaces the
// mount's children; Update reconciles a fresh rendering against the mounted
// nodes by position, writing only text and attributes that differ.
package view

import (
	"fmt"
	"strings"

	"recipe-finder/internal/logging"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// State is the last kind of content a view put on its mount.
type State int

const (
	StateEmpty State = iota
	StateSpinner
	StateRendered
	StateError
	StateMessage
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateSpinner:
		return "spinner"
	case StateRendered:
		return "rendered"
	case StateError:
		return "error"
	case StateMessage:
		return "message"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Markup turns view data into an HTML fragment.
type Markup[T any] func(data T) (string, error)

// View is one reconcilable region of the page.
type View[T any] struct {
	name   string
	mount  *html.Node
	markup Markup[T]

	isEmpty      func(T) bool
	errorMessage string
	message      string

	data    T
	hasData bool
	state   State
}

// New creates a view rendering markup into mount.
func New[T any](name string, mount *html.Node, markup Markup[T]) *View[T] {
	return &View[T]{name: name, mount: mount, markup: markup}
}

// WithEmpty makes Render show the default error message when isEmpty
// reports true for the data.
func (v *View[T]) WithEmpty(isEmpty func(T) bool) *View[T] {
	v.isEmpty = isEmpty
	return v
}

// WithMessages sets the defaults used by RenderError and RenderMessage.
func (v *View[T]) WithMessages(errorMessage, message string) *View[T] {
	v.errorMessage = errorMessage
	v.message = message
	return v
}

// Name identifies the view in logs.
func (v *View[T]) Name() string { return v.name }

// Mount returns the node the view renders into.
func (v *View[T]) Mount() *html.Node { return v.mount }

// State returns what the view currently shows.
func (v *View[T]) State() State { return v.state }

// Data returns the last data passed to Render or Update.
func (v *View[T]) Data() (T, bool) { return v.data, v.hasData }

// Render replaces the mount's content with the markup for data.
func (v *View[T]) Render(data T) error {
	if v.isEmpty != nil && v.isEmpty(data) {
		return v.RenderError("")
	}

	markup, err := v.markup(data)
	if err != nil {
		return fmt.Errorf("failed to render %s view: %w", v.name, err)
	}
	if err := v.replace(markup); err != nil {
		return err
	}

	v.data = data
	v.hasData = true
	v.state = StateRendered
	return nil
}

// Update reconciles the markup for data against the mounted nodes. A view
// that is not showing rendered data (spinner, error, message or nothing) has
// no nodes to pair with, so it is rendered from scratch instead and the
// returned Patch is empty.
func (v *View[T]) Update(data T) (Patch, error) {
	if v.state != StateRendered {
		return Patch{}, v.Render(data)
	}

	markup, err := v.markup(data)
	if err != nil {
		return Patch{}, fmt.Errorf("failed to render %s view: %w", v.name, err)
	}

	fresh, err := v.parse(markup)
	if err != nil {
		return Patch{}, err
	}

	patch := reconcile(v.mount, fresh)
	logging.Log.WithFields(logrus.Fields{
		"view":        v.name,
		"text_writes": patch.TextWrites,
		"attr_writes": patch.AttrWrites,
		"unpaired":    patch.Unpaired,
	}).Debug("view updated")

	v.data = data
	v.hasData = true
	v.state = StateRendered
	return patch, nil
}

// RenderSpinner shows the loading indicator.
func (v *View[T]) RenderSpinner() error {
	markup, err := spinnerMarkup()
	if err != nil {
		return err
	}
	if err := v.replace(markup); err != nil {
		return err
	}
	v.state = StateSpinner
	return nil
}

// RenderError shows msg, or the view's default error message when msg is
// empty.
func (v *View[T]) RenderError(msg string) error {
	if msg == "" {
		msg = v.errorMessage
	}
	markup, err := errorMarkup(msg)
	if err != nil {
		return err
	}
	if err := v.replace(markup); err != nil {
		return err
	}
	v.state = StateError
	return nil
}

// RenderMessage shows msg, or the view's default message when msg is empty.
func (v *View[T]) RenderMessage(msg string) error {
	if msg == "" {
		msg = v.message
	}
	markup, err := messageMarkup(msg)
	if err != nil {
		return err
	}
	if err := v.replace(markup); err != nil {
		return err
	}
	v.state = StateMessage
	return nil
}

func (v *View[T]) replace(markup string) error {
	fresh, err := v.parse(markup)
	if err != nil {
		return err
	}
	removeChildren(v.mount)
	for _, n := range fresh {
		v.mount.AppendChild(n)
	}
	return nil
}

// parse builds the markup off-screen, in the mount's element context so
// fragments like <li> parse the same way they would inside the mount.
func (v *View[T]) parse(markup string) ([]*html.Node, error) {
	ctx := v.mount
	if ctx == nil || ctx.Type != html.ElementNode {
		ctx = &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s markup: %w", v.name, err)
	}
	return nodes, nil
}

func removeChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
}
