package client_test

import (
	"testing"
	"time"

	"github.com/nasermirzaei89/corkboard/board"
	"github.com/nasermirzaei89/corkboard/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postAt(username, message string, createdAt time.Time) board.Post {
	return board.Post{
		Username:  username,
		Message:   message,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
		Replies:   []board.Reply{},
	}
}

func usernames(posts []board.Post) []string {
	names := make([]string, 0, len(posts))
	for _, post := range posts {
		names = append(names, post.Username)
	}

	return names
}

func TestSortPosts(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	posts := []board.Post{
		postAt("bob", "second", base.Add(time.Hour)),
		postAt("Alice", "first", base),
		postAt("cleo", "third", base.Add(2*time.Hour)),
	}

	t.Run("newest first", func(t *testing.T) {
		t.Parallel()

		sorted := client.SortPosts(posts, client.SortNewest)
		assert.Equal(t, []string{"cleo", "bob", "Alice"}, usernames(sorted))
	})

	t.Run("oldest first", func(t *testing.T) {
		t.Parallel()

		sorted := client.SortPosts(posts, client.SortOldest)
		assert.Equal(t, []string{"Alice", "bob", "cleo"}, usernames(sorted))
	})

	t.Run("by username ignores case", func(t *testing.T) {
		t.Parallel()

		sorted := client.SortPosts([]board.Post{
			postAt("bob", "hi", base),
			postAt("Alice", "hi", base),
		}, client.SortByUsername)

		assert.Equal(t, []string{"Alice", "bob"}, usernames(sorted))
	})

	t.Run("unknown order falls back to newest", func(t *testing.T) {
		t.Parallel()

		sorted := client.SortPosts(posts, client.SortOrder("bogus"))
		assert.Equal(t, []string{"cleo", "bob", "Alice"}, usernames(sorted))
	})

	t.Run("input is not mutated", func(t *testing.T) {
		t.Parallel()

		_ = client.SortPosts(posts, client.SortOldest)
		assert.Equal(t, []string{"bob", "Alice", "cleo"}, usernames(posts))
	})
}

func TestFilterPosts(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	posts := []board.Post{
		postAt("amy", "hi there", base),
		postAt("bo", "bye", base),
		postAt("Hilda", "unrelated", base),
	}

	t.Run("matches message substring", func(t *testing.T) {
		t.Parallel()

		filtered := client.FilterPosts(posts[:2], "hi")
		require.Len(t, filtered, 1)
		assert.Equal(t, "hi there", filtered[0].Message)
	})

	t.Run("matches username case-insensitively", func(t *testing.T) {
		t.Parallel()

		filtered := client.FilterPosts(posts, "hi")
		assert.Equal(t, []string{"amy", "Hilda"}, usernames(filtered))
	})

	t.Run("empty term matches everything", func(t *testing.T) {
		t.Parallel()

		filtered := client.FilterPosts(posts, "")
		assert.Len(t, filtered, len(posts))
	})
}

func TestViewStateApply(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	posts := []board.Post{
		postAt("bob", "hello world", base.Add(time.Hour)),
		postAt("Alice", "hello there", base),
		postAt("cleo", "goodbye", base.Add(2*time.Hour)),
	}

	// Sort applies to the full list first; filtering preserves the
	// sorted order.
	viewState := client.ViewState{SortOrder: client.SortOldest, SearchTerm: "hello"}

	result := viewState.Apply(posts)
	assert.Equal(t, []string{"Alice", "bob"}, usernames(result))
}
