package media

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// linkedExts are the file extensions that make a plain <a href> count as a
// media reference worth relocating.
var linkedExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
	".svg": true, ".bmp": true,
	".mp4": true, ".webm": true, ".mov": true, ".avi": true,
	".mp3": true, ".ogg": true, ".wav": true, ".m4a": true,
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	".ppt": true, ".pptx": true, ".zip": true,
}

// Scan extracts every referenceable media URL from post HTML, in document
// order: img src and srcset candidates, video/audio sources and posters,
// and links pointing at recognized media or document files. Unparseable
// HTML yields no references rather than an error.
func Scan(rawHTML string) []string {
	nodes, err := html.ParseFragment(strings.NewReader(rawHTML), &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	})
	if err != nil {
		return nil
	}

	var urls []string
	add := func(u string) {
		u = strings.TrimSpace(u)
		if u == "" || strings.HasPrefix(u, "data:") || strings.HasPrefix(u, "#") {
			return
		}
		urls = append(urls, u)
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Img:
				add(attrVal(n, "src"))
				for _, cand := range srcsetCandidates(attrVal(n, "srcset")) {
					add(cand)
				}
			case atom.Video:
				add(attrVal(n, "src"))
				add(attrVal(n, "poster"))
			case atom.Audio:
				add(attrVal(n, "src"))
			case atom.Source:
				add(attrVal(n, "src"))
			case atom.A:
				if href := attrVal(n, "href"); linkedExts[Ext(href)] {
					add(href)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}

	return urls
}

// srcsetCandidates splits a srcset attribute into its candidate URLs,
// dropping the width/density descriptors.
func srcsetCandidates(srcset string) []string {
	if srcset == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(srcset, ",") {
		fields := strings.Fields(part)
		if len(fields) > 0 {
			out = append(out, fields[0])
		}
	}
	return out
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
