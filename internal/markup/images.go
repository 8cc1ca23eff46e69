package markup

import "golang.org/x/net/html/atom"

// FirstImage returns the src and alt of the first <img> in the fragment, or
// empty strings when there is none.
func FirstImage(rawHTML string) (src, alt string) {
	body, err := parseFragment(rawHTML)
	if err != nil {
		return "", ""
	}
	img := findFirst(body, atom.Img)
	if img == nil {
		return "", ""
	}
	return attrVal(img, "src"), attrVal(img, "alt")
}
