package client

import (
	"slices"
	"strings"

	"github.com/nasermirzaei89/corkboard/board"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortOrder string

const (
	SortNewest     SortOrder = "newest"
	SortOldest     SortOrder = "oldest"
	SortByUsername SortOrder = "username"
)

// ViewState is the transient presentation state of the post list. It
// is supplied fresh on every render and never persisted.
type ViewState struct {
	SortOrder  SortOrder
	SearchTerm string
}

// Apply sorts the full list first and filters the sorted result, so
// filtering preserves the sort order.
func (vs ViewState) Apply(posts []board.Post) []board.Post {
	return FilterPosts(SortPosts(posts, vs.SortOrder), vs.SearchTerm)
}

// SortPosts returns a sorted copy of posts. Unknown orders fall back
// to newest first.
func SortPosts(posts []board.Post, order SortOrder) []board.Post {
	out := slices.Clone(posts)

	switch order {
	case SortOldest:
		slices.SortStableFunc(out, func(a, b board.Post) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		})
	case SortByUsername:
		coll := collate.New(language.English, collate.Loose)

		slices.SortStableFunc(out, func(a, b board.Post) int {
			return coll.CompareString(a.Username, b.Username)
		})
	case SortNewest:
		fallthrough
	default:
		slices.SortStableFunc(out, func(a, b board.Post) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	}

	return out
}

// FilterPosts keeps posts whose username or message contains term,
// case-insensitively. An empty term matches everything.
func FilterPosts(posts []board.Post, term string) []board.Post {
	term = strings.ToLower(term)

	out := make([]board.Post, 0, len(posts))

	for _, post := range posts {
		if strings.Contains(strings.ToLower(post.Username), term) ||
			strings.Contains(strings.ToLower(post.Message), term) {
			out = append(out, post)
		}
	}

	return out
}
