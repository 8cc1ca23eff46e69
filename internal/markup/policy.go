package markup

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RelocatedFunc reports whether a media URL was successfully relocated into
// target storage.
type RelocatedFunc func(url string) bool

// ApplyMediaPolicy enforces the iframe and video import policy:
//
//   - An <iframe> survives only when its src host is an allowed embed
//     provider (YouTube). Everything else becomes a placeholder image.
//   - A <video> survives only when every media URL it references (its own
//     src, every <source> src, and the poster) was relocated. One remote
//     leftover replaces the whole element, not just the failing source, so
//     imported content never silently depends on the old host.
func ApplyMediaPolicy(rawHTML string, relocated RelocatedFunc, placeholderURL string) string {
	body, err := parseFragment(rawHTML)
	if err != nil {
		return rawHTML
	}

	var iframes, videos []*html.Node
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Iframe:
				iframes = append(iframes, n)
			case atom.Video:
				videos = append(videos, n)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(body)

	if len(iframes) == 0 && len(videos) == 0 {
		return rawHTML
	}

	for _, frame := range iframes {
		if EmbedProvider(attrVal(frame, "src")) != "youtube" {
			replaceNode(frame, placeholderImage(placeholderURL))
		}
	}

	for _, video := range videos {
		if !allRelocated(videoURLs(video), relocated) {
			replaceNode(video, placeholderImage(placeholderURL))
		}
	}

	return renderChildren(body)
}

// videoURLs gathers every media URL a <video> element references.
func videoURLs(video *html.Node) []string {
	var urls []string
	if src := attrVal(video, "src"); src != "" {
		urls = append(urls, src)
	}
	if poster := attrVal(video, "poster"); poster != "" {
		urls = append(urls, poster)
	}
	for c := video.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Source {
			if src := attrVal(c, "src"); src != "" {
				urls = append(urls, src)
			}
		}
	}
	return urls
}

func allRelocated(urls []string, relocated RelocatedFunc) bool {
	for _, u := range urls {
		if !relocated(u) {
			return false
		}
	}
	return true
}

// placeholderImage builds the "cannot be imported" stand-in element.
func placeholderImage(placeholderURL string) *html.Node {
	return newElement(atom.Img,
		html.Attribute{Key: "src", Val: placeholderURL},
		html.Attribute{Key: "alt", Val: "Embedded content could not be imported"},
	)
}
