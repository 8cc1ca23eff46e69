package importer

import (
	"strconv"
	"strings"

	"github.com/contentforge/wxrimport/internal/wxr"
)

// ThreadedComment is a comment with its recomputed threading position.
type ThreadedComment struct {
	wxr.Comment

	// Path is the materialized ancestor chain of source-local ids,
	// root first, own id last, e.g. "12/15/19".
	Path string

	// Depth is 0 for roots, 1 for their children, and so on.
	Depth int
}

// Thread recomputes the materialized path and depth of every comment from
// its source-local parent pointers. A comment whose declared parent is
// absent becomes a root; a cycle is broken at the comment where it closes.
// Input order is preserved.
func Thread(comments []wxr.Comment) []ThreadedComment {
	byID := make(map[int]*wxr.Comment, len(comments))
	for i := range comments {
		byID[comments[i].ID] = &comments[i]
	}

	out := make([]ThreadedComment, 0, len(comments))
	for _, c := range comments {
		chain := ancestorChain(c, byID)
		out = append(out, ThreadedComment{
			Comment: c,
			Path:    joinIDs(chain),
			Depth:   len(chain) - 1,
		})
	}
	return out
}

// ancestorChain returns the comment ids from the thread root down to c.
func ancestorChain(c wxr.Comment, byID map[int]*wxr.Comment) []int {
	chain := []int{c.ID}
	seen := map[int]bool{c.ID: true}

	parentID := c.ParentID
	for parentID != 0 {
		parent, ok := byID[parentID]
		if !ok || seen[parentID] {
			break // absent parent or cycle: treat the last known node as root
		}
		chain = append(chain, parentID)
		seen[parentID] = true
		parentID = parent.ParentID
	}

	// Reverse into root-first order.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, "/")
}
