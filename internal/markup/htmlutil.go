// Package markup implements the ordered HTML normalization pipeline applied
// to imported post content: WordPress comment markers, quicktags, list
// repair, code block canonicalization, embed detection, media policy and
// final sanitization.
package markup

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// parseFragment parses rawHTML as body content and returns a detached body
// element holding the fragment, so transforms can mutate a rooted tree.
func parseFragment(rawHTML string) (*html.Node, error) {
	nodes, err := html.ParseFragment(strings.NewReader(rawHTML), &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	})
	if err != nil {
		return nil, err
	}

	body := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}
	return body, nil
}

// renderChildren renders the children of a container back to HTML.
func renderChildren(container *html.Node) string {
	var buf bytes.Buffer
	for c := container.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return ""
		}
	}
	return buf.String()
}

// attrVal returns the value of the named attribute, or "".
func attrVal(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// hasClass reports whether the element's class attribute contains the token.
func hasClass(n *html.Node, token string) bool {
	for _, c := range strings.Fields(attrVal(n, "class")) {
		if c == token {
			return true
		}
	}
	return false
}

// childElements returns a snapshot of n's children, so callers can mutate
// the tree while iterating.
func childNodes(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// isWhitespaceText reports whether n is a text node containing only spaces.
func isWhitespaceText(n *html.Node) bool {
	return n.Type == html.TextNode && strings.TrimSpace(n.Data) == ""
}

// unwrap replaces n with its own children.
func unwrap(n *html.Node) {
	parent := n.Parent
	for n.FirstChild != nil {
		c := n.FirstChild
		n.RemoveChild(c)
		parent.InsertBefore(c, n)
	}
	parent.RemoveChild(n)
}

// replaceNode swaps n for repl in n's parent.
func replaceNode(n, repl *html.Node) {
	n.Parent.InsertBefore(repl, n)
	n.Parent.RemoveChild(n)
}

// findFirst returns the first descendant element with the given atom.
func findFirst(n *html.Node, a atom.Atom) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == a {
			return c
		}
		if found := findFirst(c, a); found != nil {
			return found
		}
	}
	return nil
}

// newElement builds a detached element node.
func newElement(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}
