package markup

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// CanonicalizeCodeBlocks rewrites the "Highlighting Code Block" plugin's
// wrapper markup
//
//	<div class="hcb_wrap"><pre class="prism line-numbers lang-go" data-lang="Go"><code>...</code></pre></div>
//
// to a plain <pre data-language="go"><code>...</code></pre>. The code text
// itself is moved, not re-escaped.
func CanonicalizeCodeBlocks(rawHTML string) string {
	body, err := parseFragment(rawHTML)
	if err != nil {
		return rawHTML
	}

	var wrappers []*html.Node
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Div && hasClass(n, "hcb_wrap") {
			wrappers = append(wrappers, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(body)

	if len(wrappers) == 0 {
		return rawHTML
	}

	for _, div := range wrappers {
		pre := findFirst(div, atom.Pre)
		if pre == nil {
			// Wrapper without a code block: drop the vendor div, keep content.
			unwrap(div)
			continue
		}
		replaceNode(div, canonicalPre(pre))
	}

	return renderChildren(body)
}

// canonicalPre builds the replacement <pre><code> pair from the vendor pre.
func canonicalPre(pre *html.Node) *html.Node {
	lang := codeLanguage(pre)

	newPre := newElement(atom.Pre)
	if lang != "" {
		newPre.Attr = []html.Attribute{{Key: "data-language", Val: lang}}
	}
	newCode := newElement(atom.Code)
	newPre.AppendChild(newCode)

	src := pre
	if code := findFirst(pre, atom.Code); code != nil {
		src = code
	}
	for src.FirstChild != nil {
		c := src.FirstChild
		src.RemoveChild(c)
		newCode.AppendChild(c)
	}

	return newPre
}

// codeLanguage extracts the language from data-lang or a lang-X class
// token, lower-cased.
func codeLanguage(pre *html.Node) string {
	if lang := attrVal(pre, "data-lang"); lang != "" {
		return strings.ToLower(lang)
	}
	for _, c := range strings.Fields(attrVal(pre, "class")) {
		if rest, ok := strings.CutPrefix(c, "lang-"); ok && rest != "" {
			return strings.ToLower(rest)
		}
	}
	return ""
}
