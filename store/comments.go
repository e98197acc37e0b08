package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"socialweb/models"
	"socialweb/services"
)

// CommentsStore - комментарии постов, сгруппированные по postID
type CommentsStore struct {
	opStatus

	mu       sync.RWMutex
	comments map[int64][]models.Comment

	api    *services.CommentService
	notify emitFunc
	log    *zap.Logger
}

func newCommentsStore(api *services.CommentService, n Notifier, log *zap.Logger) *CommentsStore {
	return &CommentsStore{
		comments: make(map[int64][]models.Comment),
		api:      api,
		notify:   emitter("comments", n),
		log:      log,
	}
}

func (s *CommentsStore) CommentsByPostID(postID int64) []models.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Comment{}, s.comments[postID]...)
}

func (s *CommentsStore) FetchComments(ctx context.Context, postID int64) ([]models.Comment, error) {
	s.begin()
	defer s.end()

	comments, err := s.load(ctx, postID)
	if err != nil {
		return nil, s.fail(err)
	}
	return comments, nil
}

// CreateComment отправляет комментарий и перечитывает список с сервера
func (s *CommentsStore) CreateComment(ctx context.Context, postID int64, content string) (*models.Comment, error) {
	s.begin()
	defer s.end()

	if err := validateInput(models.CommentInput{Content: content}); err != nil {
		return nil, s.fail(err)
	}
	created, err := s.api.Create(ctx, postID, content)
	if err != nil {
		return nil, s.fail(err)
	}
	if _, err = s.load(ctx, postID); err != nil {
		return nil, s.fail(err)
	}
	return created, nil
}

func (s *CommentsStore) load(ctx context.Context, postID int64) ([]models.Comment, error) {
	comments, err := s.api.List(ctx, postID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.comments[postID] = append([]models.Comment{}, comments...)
	s.mu.Unlock()
	s.notify("set_comments", postID)
	return comments, nil
}
