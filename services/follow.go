package services

import (
	"context"
	"fmt"

	"socialweb/models"
	"socialweb/transport"
)

type FollowService struct {
	api *transport.Client
}

func NewFollowService(api *transport.Client) *FollowService {
	return &FollowService{api: api}
}

func (s *FollowService) Follow(ctx context.Context, userID int64) error {
	return s.api.Post(ctx, "follow.follow", fmt.Sprintf("/users/follow/%d", userID), nil, nil)
}

func (s *FollowService) Unfollow(ctx context.Context, userID int64) error {
	return s.api.Post(ctx, "follow.unfollow", fmt.Sprintf("/users/unfollow/%d", userID), nil, nil)
}

func (s *FollowService) Followers(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := s.api.Get(ctx, "follow.followers", "/users/followers", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *FollowService) Following(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := s.api.Get(ctx, "follow.following", "/users/following", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
