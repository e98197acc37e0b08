package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"socialweb/models"
	"socialweb/transport"
)

const (
	DefaultPageLimit = 10
)

type PostService struct {
	api *transport.Client
}

func NewPostService(api *transport.Client) *PostService {
	return &PostService{api: api}
}

// List - GET /posts/?limit=&skip=&search=
func (s *PostService) List(ctx context.Context, q models.PostQuery) ([]models.Post, error) {
	if q.Limit <= 0 {
		q.Limit = DefaultPageLimit
	}
	if q.Skip < 0 {
		q.Skip = 0
	}
	query := url.Values{}
	query.Set("limit", strconv.Itoa(q.Limit))
	query.Set("skip", strconv.Itoa(q.Skip))
	query.Set("search", q.Search)

	var out []models.Post
	if err := s.api.Get(ctx, "posts.list", "/posts/", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostService) ByID(ctx context.Context, id int64) (*models.Post, error) {
	var out models.Post
	if err := s.api.Get(ctx, "posts.get", fmt.Sprintf("/posts/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *PostService) Latest(ctx context.Context) (*models.Post, error) {
	var out models.Post
	if err := s.api.Get(ctx, "posts.latest", "/posts/latest", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *PostService) Create(ctx context.Context, in models.PostInput) (*models.Post, error) {
	var out models.Post
	if err := s.api.Post(ctx, "posts.create", "/posts/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *PostService) Update(ctx context.Context, id int64, in models.PostInput) (*models.Post, error) {
	var out models.Post
	if err := s.api.Put(ctx, "posts.update", fmt.Sprintf("/posts/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *PostService) Delete(ctx context.Context, id int64) error {
	return s.api.Delete(ctx, "posts.delete", fmt.Sprintf("/posts/%d", id))
}

// Vote - POST /vote/, бэкенд сам переключает голос
func (s *PostService) Vote(ctx context.Context, postID int64) (*models.VoteResult, error) {
	var out models.VoteResult
	if err := s.api.Post(ctx, "posts.vote", "/vote/", map[string]int64{"post_id": postID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
