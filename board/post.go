package board

import (
	"context"
	"fmt"
	"time"
)

// Post is a top-level board message with its replies embedded.
type Post struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Replies   []Reply   `json:"replies"`
}

// Reply is an append-only child message of a Post. Replies have no
// identity of their own and never change after creation.
type Reply struct {
	Username  string    `json:"username"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

type PostRepository interface {
	Insert(ctx context.Context, post *Post) (err error)
	Find(ctx context.Context, postID string) (post *Post, err error)
	List(ctx context.Context) (posts []*Post, err error)
	UpdateMessage(ctx context.Context, postID, message string, updatedAt time.Time) (err error)
	AppendReply(ctx context.Context, postID string, reply Reply) (err error)
	Delete(ctx context.Context, postID string) (err error)
}

type PostNotFoundError struct {
	ID string
}

func (err PostNotFoundError) Error() string {
	return fmt.Sprintf("post with id %q not found", err.ID)
}

type ValidationError struct {
	Field string
}

func (err ValidationError) Error() string {
	return fmt.Sprintf("field %q is required", err.Field)
}
