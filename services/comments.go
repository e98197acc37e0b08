package services

import (
	"context"
	"fmt"

	"socialweb/models"
	"socialweb/transport"
)

type CommentService struct {
	api *transport.Client
}

func NewCommentService(api *transport.Client) *CommentService {
	return &CommentService{api: api}
}

func (s *CommentService) List(ctx context.Context, postID int64) ([]models.Comment, error) {
	var out []models.Comment
	if err := s.api.Get(ctx, "comments.list", fmt.Sprintf("/posts/%d/comments", postID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *CommentService) Create(ctx context.Context, postID int64, content string) (*models.Comment, error) {
	var out models.Comment
	path := fmt.Sprintf("/posts/%d/comment", postID)
	if err := s.api.Post(ctx, "comments.create", path, models.CommentInput{Content: content}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
