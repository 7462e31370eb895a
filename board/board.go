package board

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type Service struct {
	postRepo PostRepository
}

func NewService(postRepo PostRepository) *Service {
	return &Service{
		postRepo: postRepo,
	}
}

func (svc *Service) ListPosts(ctx context.Context) ([]*Post, error) {
	posts, err := svc.postRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	return posts, nil
}

type CreatePostRequest struct {
	Username string
	Message  string
}

func (svc *Service) CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	if strings.TrimSpace(req.Username) == "" {
		return nil, ValidationError{Field: "username"}
	}

	if strings.TrimSpace(req.Message) == "" {
		return nil, ValidationError{Field: "message"}
	}

	now := time.Now().UTC()

	post := &Post{
		Username:  req.Username,
		Message:   req.Message,
		CreatedAt: now,
		UpdatedAt: now,
		Replies:   []Reply{},
	}

	err := svc.postRepo.Insert(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("failed to insert post: %w", err)
	}

	return post, nil
}

type AddReplyRequest struct {
	PostID   string
	Username string
	Message  string
}

func (svc *Service) AddReply(ctx context.Context, req AddReplyRequest) error {
	if strings.TrimSpace(req.Username) == "" {
		return ValidationError{Field: "username"}
	}

	if strings.TrimSpace(req.Message) == "" {
		return ValidationError{Field: "message"}
	}

	// The append itself is atomic in the repository, but a reply to an
	// unknown post must fail with not found rather than write blindly.
	_, err := svc.postRepo.Find(ctx, req.PostID)
	if err != nil {
		return fmt.Errorf("failed to find post: %w", err)
	}

	reply := Reply{
		Username:  req.Username,
		Message:   req.Message,
		CreatedAt: time.Now().UTC(),
	}

	err = svc.postRepo.AppendReply(ctx, req.PostID, reply)
	if err != nil {
		return fmt.Errorf("failed to append reply: %w", err)
	}

	return nil
}

type EditPostRequest struct {
	PostID  string
	Message string
}

type EditPostResponse struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (svc *Service) EditPost(ctx context.Context, req EditPostRequest) (*EditPostResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, ValidationError{Field: "message"}
	}

	updatedAt := time.Now().UTC()

	err := svc.postRepo.UpdateMessage(ctx, req.PostID, req.Message, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	return &EditPostResponse{
		ID:        req.PostID,
		Message:   req.Message,
		UpdatedAt: updatedAt,
	}, nil
}

// DeletePost removes a post and its embedded replies. Deleting an id
// that is already gone is not an error.
func (svc *Service) DeletePost(ctx context.Context, postID string) error {
	err := svc.postRepo.Delete(ctx, postID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	return nil
}
