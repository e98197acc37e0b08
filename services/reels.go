package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"socialweb/models"
	"socialweb/transport"
)

// Имя поля видео в multipart
const VideoFileField = "video_file"

type ReelService struct {
	api *transport.Client
}

func NewReelService(api *transport.Client) *ReelService {
	return &ReelService{api: api}
}

// List - GET /reels/?limit=&skip=[&user_id=]
func (s *ReelService) List(ctx context.Context, q models.ReelQuery) ([]models.Reel, error) {
	if q.Limit <= 0 {
		q.Limit = DefaultPageLimit
	}
	if q.Skip < 0 {
		q.Skip = 0
	}
	query := url.Values{}
	query.Set("limit", strconv.Itoa(q.Limit))
	query.Set("skip", strconv.Itoa(q.Skip))
	if q.UserID != nil {
		query.Set("user_id", strconv.FormatInt(*q.UserID, 10))
	}

	var out []models.Reel
	if err := s.api.Get(ctx, "reels.list", "/reels/", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ReelService) ByID(ctx context.Context, id int64) (*models.Reel, error) {
	var out models.Reel
	if err := s.api.Get(ctx, "reels.get", fmt.Sprintf("/reels/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create - multipart: title, description, video_file
func (s *ReelService) Create(ctx context.Context, in models.ReelInput) (*models.Reel, error) {
	var out models.Reel
	if err := s.api.Upload(ctx, "reels.create", http.MethodPost, "/reels/", reelForm(in), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update - файл отправляется только если выбран новый
func (s *ReelService) Update(ctx context.Context, id int64, in models.ReelInput) (*models.Reel, error) {
	var out models.Reel
	if err := s.api.Upload(ctx, "reels.update", http.MethodPut, fmt.Sprintf("/reels/%d", id), reelForm(in), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ReelService) Delete(ctx context.Context, id int64) error {
	return s.api.Delete(ctx, "reels.delete", fmt.Sprintf("/reels/%d", id))
}

func (s *ReelService) Like(ctx context.Context, reelID int64) (*models.LikeResult, error) {
	var out models.LikeResult
	if err := s.api.Post(ctx, "reels.like", "/reels/like/", map[string]int64{"reel_id": reelID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ReelService) Comments(ctx context.Context, reelID int64) ([]models.Comment, error) {
	var out []models.Comment
	if err := s.api.Get(ctx, "reels.comments", fmt.Sprintf("/reels/%d/comments", reelID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ReelService) Comment(ctx context.Context, reelID int64, content string) error {
	path := fmt.Sprintf("/reels/%d/comment", reelID)
	return s.api.Post(ctx, "reels.comment", path, models.CommentInput{Content: content}, nil)
}

func reelForm(in models.ReelInput) *transport.Multipart {
	return transport.NewMultipart().
		Field("title", in.Title).
		Field("description", in.Description).
		File(VideoFileField, in.Video)
}
