package view

import (
	"strings"

	"golang.org/x/net/html"
)

// Patch counts the writes one Update performed.
type Patch struct {
	TextWrites int
	AttrWrites int
	// Unpaired is the number of new elements with no mounted counterpart.
	// They are never inserted.
	Unpaired int
	// Stale is the number of mounted elements with no new counterpart.
	// They are never removed.
	Stale int
}

// Writes is the total number of mutations applied to the mounted tree.
func (p Patch) Writes() int {
	return p.TextWrites + p.AttrWrites
}

// reconcile pairs the element descendants of mount and of the fresh nodes by
// document order and patches each mounted element toward its pair. Both
// sequences are taken before any write, so a text write that detaches
// mounted descendants leaves later pairs pointing at the detached nodes.
func reconcile(mount *html.Node, fresh []*html.Node) Patch {
	var newEls []*html.Node
	for _, n := range fresh {
		newEls = appendElements(newEls, n)
	}
	curEls := flatten(mount)

	var p Patch
	for i, newEl := range newEls {
		if i >= len(curEls) {
			p.Unpaired++
			continue
		}
		curEl := curEls[i]
		if isEqualNode(newEl, curEl) {
			continue
		}

		if fc := newEl.FirstChild; fc != nil && fc.Type == html.TextNode && strings.TrimSpace(fc.Data) != "" {
			setTextContent(curEl, textContent(newEl))
			p.TextWrites++
		}
		for _, a := range newEl.Attr {
			setAttr(curEl, a)
			p.AttrWrites++
		}
	}
	if len(curEls) > len(newEls) {
		p.Stale = len(curEls) - len(newEls)
	}
	return p
}

// flatten lists the element descendants of n in document order, excluding n.
func flatten(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = appendElements(out, c)
	}
	return out
}

func appendElements(out []*html.Node, n *html.Node) []*html.Node {
	if n.Type == html.ElementNode {
		out = append(out, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = appendElements(out, c)
	}
	return out
}

// isEqualNode reports structural equality: same node type, tag, attribute
// set regardless of order, and pairwise equal children.
func isEqualNode(a, b *html.Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Type != b.Type || a.Data != b.Data || a.Namespace != b.Namespace {
		return false
	}
	if !sameAttrs(a.Attr, b.Attr) {
		return false
	}

	ca, cb := a.FirstChild, b.FirstChild
	for ca != nil && cb != nil {
		if !isEqualNode(ca, cb) {
			return false
		}
		ca, cb = ca.NextSibling, cb.NextSibling
	}
	return ca == nil && cb == nil
}

func sameAttrs(a, b []html.Attribute) bool {
	if len(a) != len(b) {
		return false
	}
	for _, x := range a {
		found := false
		for _, y := range b {
			if x.Namespace == y.Namespace && x.Key == y.Key {
				found = x.Val == y.Val
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// textContent concatenates every descendant text node.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// setTextContent replaces all children of n with a single text node.
func setTextContent(n *html.Node, text string) {
	removeChildren(n)
	if text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
}

// setAttr overwrites or appends one attribute.
func setAttr(n *html.Node, attr html.Attribute) {
	for i := range n.Attr {
		if n.Attr[i].Namespace == attr.Namespace && n.Attr[i].Key == attr.Key {
			n.Attr[i].Val = attr.Val
			return
		}
	}
	n.Attr = append(n.Attr, attr)
}
