package sqlite3

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/nasermirzaei89/corkboard/board"
)

const tablePosts = "posts"

type PostRepository struct {
	db *sql.DB
}

var _ board.PostRepository = (*PostRepository)(nil)

func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

const (
	postFieldID        = "id"
	postFieldUsername  = "username"
	postFieldMessage   = "message"
	postFieldCreatedAt = "created_at"
	postFieldUpdatedAt = "updated_at"
	postFieldReplies   = "replies"
)

func postColumns() []string {
	return []string{
		postFieldID,
		postFieldUsername,
		postFieldMessage,
		postFieldCreatedAt,
		postFieldUpdatedAt,
		postFieldReplies,
	}
}

func scanPost(row sq.RowScanner) (*board.Post, error) {
	var (
		post        board.Post
		repliesJSON []byte
	)

	err := row.Scan(
		&post.ID,
		&post.Username,
		&post.Message,
		&post.CreatedAt,
		&post.UpdatedAt,
		&repliesJSON,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}

	err = json.Unmarshal(repliesJSON, &post.Replies)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal replies: %w", err)
	}

	// A post always carries a replies list, even when the stored
	// document predates the column default.
	if post.Replies == nil {
		post.Replies = []board.Reply{}
	}

	return &post, nil
}

// Insert persists a new post and assigns its identifier.
func (repo *PostRepository) Insert(ctx context.Context, post *board.Post) error {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}

	repliesJSON, err := json.Marshal(post.Replies)
	if err != nil {
		return fmt.Errorf("failed to marshal replies: %w", err)
	}

	q := sq.Insert(tablePosts).
		Columns(postColumns()...).
		Values(
			post.ID,
			post.Username,
			post.Message,
			post.CreatedAt,
			post.UpdatedAt,
			string(repliesJSON),
		)

	q = q.RunWith(repo.db)

	_, err = q.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to exec insert: %w", err)
	}

	return nil
}

func (repo *PostRepository) Find(ctx context.Context, postID string) (*board.Post, error) {
	q := sq.Select(postColumns()...).
		From(tablePosts).
		Where(sq.Eq{postFieldID: postID})

	q = q.RunWith(repo.db)

	row := q.QueryRowContext(ctx)

	post, err := scanPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, board.PostNotFoundError{ID: postID}
		}

		return nil, fmt.Errorf("failed to scan post: %w", err)
	}

	return post, nil
}

// List returns every post, most recent first.
func (repo *PostRepository) List(ctx context.Context) ([]*board.Post, error) {
	q := sq.Select(postColumns()...).
		From(tablePosts).
		OrderBy(postFieldCreatedAt + " DESC")

	q = q.RunWith(repo.db)

	rows, err := q.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			slog.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	posts := make([]*board.Post, 0)

	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}

		posts = append(posts, post)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return posts, nil
}

func (repo *PostRepository) UpdateMessage(
	ctx context.Context,
	postID, message string,
	updatedAt time.Time,
) error {
	q := sq.Update(tablePosts).
		Set(postFieldMessage, message).
		Set(postFieldUpdatedAt, updatedAt).
		Where(sq.Eq{postFieldID: postID})

	q = q.RunWith(repo.db)

	res, err := q.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to exec update: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if affected == 0 {
		return board.PostNotFoundError{ID: postID}
	}

	return nil
}

// AppendReply adds a reply to the post's replies array in a single
// statement. Concurrent appends on the same post both land; neither
// overwrites the other.
func (repo *PostRepository) AppendReply(ctx context.Context, postID string, reply board.Reply) error {
	replyJSON, err := json.Marshal(reply)
	if err != nil {
		return fmt.Errorf("failed to marshal reply: %w", err)
	}

	q := sq.Update(tablePosts).
		Set(postFieldReplies, sq.Expr(
			"json_insert("+postFieldReplies+", '$[#]', json(?))",
			string(replyJSON),
		)).
		Where(sq.Eq{postFieldID: postID})

	q = q.RunWith(repo.db)

	res, err := q.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to exec update: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if affected == 0 {
		return board.PostNotFoundError{ID: postID}
	}

	return nil
}

// Delete removes a post and its embedded replies. Absent ids are a no-op.
func (repo *PostRepository) Delete(ctx context.Context, postID string) error {
	q := sq.Delete(tablePosts).
		Where(sq.Eq{postFieldID: postID})

	q = q.RunWith(repo.db)

	_, err := q.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to exec delete: %w", err)
	}

	return nil
}
