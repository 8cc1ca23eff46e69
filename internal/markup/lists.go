package markup

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RepairLists fixes the paragraph-wrapped list markup WordPress frequently
// emits: a <p> wrapping an entire <ul>/<ol> is unwrapped, and a <p> that is
// the sole child of an <li> is unwrapped. Nested lists and paragraphs with
// siblings inside an <li> are left alone. The repair applies recursively,
// including lists inside <blockquote>.
func RepairLists(rawHTML string) string {
	body, err := parseFragment(rawHTML)
	if err != nil {
		return rawHTML
	}
	repairListsIn(body)
	return renderChildren(body)
}

func repairListsIn(n *html.Node) {
	// Children first; the snapshot lets the repairs below mutate freely.
	for _, c := range childNodes(n) {
		repairListsIn(c)
	}

	if n.Type != html.ElementNode {
		return
	}

	switch n.DataAtom {
	case atom.Li:
		if p := soleParagraph(n); p != nil {
			unwrap(p)
		}
	case atom.P:
		// The HTML parser has already closed a <p> that illegally wrapped
		// a list, leaving an empty paragraph next to the list. Remove it.
		if isEffectivelyEmpty(n) && adjacentToList(n) {
			n.Parent.RemoveChild(n)
		}
	}
}

// soleParagraph returns the <p> that is the only non-whitespace child of
// li, or nil.
func soleParagraph(li *html.Node) *html.Node {
	var only *html.Node
	for c := li.FirstChild; c != nil; c = c.NextSibling {
		if isWhitespaceText(c) {
			continue
		}
		if only != nil {
			return nil // more than one meaningful child
		}
		only = c
	}
	if only != nil && only.Type == html.ElementNode && only.DataAtom == atom.P {
		return only
	}
	return nil
}

// isEffectivelyEmpty reports whether the element has no children other
// than whitespace text.
func isEffectivelyEmpty(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !isWhitespaceText(c) {
			return false
		}
	}
	return true
}

// adjacentToList reports whether the nearest element sibling on either
// side is a <ul> or <ol>.
func adjacentToList(n *html.Node) bool {
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if isWhitespaceText(s) {
			continue
		}
		if s.Type == html.ElementNode && (s.DataAtom == atom.Ul || s.DataAtom == atom.Ol) {
			return true
		}
		break
	}
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if isWhitespaceText(s) {
			continue
		}
		if s.Type == html.ElementNode && (s.DataAtom == atom.Ul || s.DataAtom == atom.Ol) {
			return true
		}
		break
	}
	return false
}
