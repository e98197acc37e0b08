package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"socialweb/models"
	"socialweb/services"
)

// ReelsStore - кеш reels, текущий reel и комментарии по reelID
type ReelsStore struct {
	opStatus

	mu       sync.RWMutex
	reels    []models.Reel
	current  *models.Reel
	comments map[int64][]models.Comment

	api    *services.ReelService
	notify emitFunc
	log    *zap.Logger
}

func newReelsStore(api *services.ReelService, n Notifier, log *zap.Logger) *ReelsStore {
	return &ReelsStore{
		comments: make(map[int64][]models.Comment),
		api:      api,
		notify:   emitter("reels", n),
		log:      log,
	}
}

func (s *ReelsStore) Reels() []models.Reel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Reel(nil), s.reels...)
}

func (s *ReelsStore) ReelByID(id int64) (models.Reel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.reels {
		if r.ID == id {
			return r, true
		}
	}
	return models.Reel{}, false
}

func (s *ReelsStore) CurrentReel() *models.Reel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	r := *s.current
	return &r
}

// ReelComments - пустой срез, если комментарии не загружались
func (s *ReelsStore) ReelComments(reelID int64) []models.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Comment{}, s.comments[reelID]...)
}

func (s *ReelsStore) FetchReels(ctx context.Context, q models.ReelQuery) ([]models.Reel, error) {
	s.begin()
	defer s.end()

	reels, err := s.api.List(ctx, q)
	if err != nil {
		return nil, s.fail(err)
	}
	s.mu.Lock()
	s.reels = append([]models.Reel(nil), reels...)
	s.mu.Unlock()
	s.notify("set_reels", 0)
	return reels, nil
}

func (s *ReelsStore) FetchReelByID(ctx context.Context, id int64) (*models.Reel, error) {
	s.begin()
	defer s.end()

	reel, err := s.api.ByID(ctx, id)
	if err != nil {
		return nil, s.fail(err)
	}
	s.mu.Lock()
	r := *reel
	s.current = &r
	s.replaceLocked(r)
	s.mu.Unlock()
	s.notify("set_current_reel", reel.ID)
	return reel, nil
}

// CreateReel - без видеофайла запрос не отправляется
func (s *ReelsStore) CreateReel(ctx context.Context, in models.ReelInput) (*models.Reel, error) {
	s.begin()
	defer s.end()

	if !in.Video.Present() {
		return nil, s.fail(ErrFileAbsent)
	}
	if err := validateInput(in); err != nil {
		return nil, s.fail(err)
	}
	reel, err := s.api.Create(ctx, in)
	if err != nil {
		return nil, s.fail(err)
	}
	s.mu.Lock()
	s.reels = append([]models.Reel{*reel}, s.reels...)
	s.mu.Unlock()
	s.notify("add_reel", reel.ID)
	return reel, nil
}

// UpdateReel - видео опционально, отсутствующий файл просто не отправляется
func (s *ReelsStore) UpdateReel(ctx context.Context, id int64, in models.ReelInput) (*models.Reel, error) {
	s.begin()
	defer s.end()

	if err := validateInput(in); err != nil {
		return nil, s.fail(err)
	}
	reel, err := s.api.Update(ctx, id, in)
	if err != nil {
		return nil, s.fail(err)
	}
	if reel.ID == 0 {
		reel.ID = id
	}
	s.mu.Lock()
	s.replaceLocked(*reel)
	if s.current != nil && s.current.ID == reel.ID {
		r := *reel
		s.current = &r
	}
	s.mu.Unlock()
	s.notify("update_reel", reel.ID)
	return reel, nil
}

func (s *ReelsStore) replaceLocked(reel models.Reel) {
	for i := range s.reels {
		if s.reels[i].ID == reel.ID {
			s.reels[i] = reel
			return
		}
	}
}

func (s *ReelsStore) DeleteReel(ctx context.Context, id int64) error {
	s.begin()
	defer s.end()

	if err := s.api.Delete(ctx, id); err != nil {
		return s.fail(err)
	}
	s.mu.Lock()
	kept := s.reels[:0:0]
	for _, r := range s.reels {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	s.reels = kept
	if s.current != nil && s.current.ID == id {
		s.current = nil
	}
	delete(s.comments, id)
	s.mu.Unlock()
	s.notify("remove_reel", id)
	return nil
}

// LikeReel применяет счетчик и is_liked из ответа сервера, без локальной арифметики
func (s *ReelsStore) LikeReel(ctx context.Context, id int64) error {
	s.begin()
	defer s.end()

	res, err := s.api.Like(ctx, id)
	if err != nil {
		return s.fail(err)
	}
	var (
		count int
		liked bool
	)
	if res.Complete() {
		count, _ = res.Count()
		liked = *res.IsLiked
	} else {
		reel, fetchErr := s.api.ByID(ctx, id)
		if fetchErr != nil {
			return s.fail(fetchErr)
		}
		count, liked = reel.LikeCount(), reel.IsLiked
	}

	s.mu.Lock()
	for i := range s.reels {
		if s.reels[i].ID == id {
			s.reels[i].SetLikes(count, liked)
		}
	}
	if s.current != nil && s.current.ID == id {
		r := *s.current
		r.SetLikes(count, liked)
		s.current = &r
	}
	s.mu.Unlock()
	s.notify("set_reel_like", id)
	return nil
}

func (s *ReelsStore) FetchReelComments(ctx context.Context, reelID int64) ([]models.Comment, error) {
	s.begin()
	defer s.end()

	comments, err := s.loadComments(ctx, reelID)
	if err != nil {
		return nil, s.fail(err)
	}
	return comments, nil
}

// CommentOnReel не добавляет комментарий локально, а перечитывает весь список
func (s *ReelsStore) CommentOnReel(ctx context.Context, reelID int64, content string) error {
	s.begin()
	defer s.end()

	if err := validateInput(models.CommentInput{Content: content}); err != nil {
		return s.fail(err)
	}
	if err := s.api.Comment(ctx, reelID, content); err != nil {
		return s.fail(err)
	}
	if _, err := s.loadComments(ctx, reelID); err != nil {
		return s.fail(err)
	}
	return nil
}

func (s *ReelsStore) loadComments(ctx context.Context, reelID int64) ([]models.Comment, error) {
	comments, err := s.api.Comments(ctx, reelID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.comments[reelID] = append([]models.Comment{}, comments...)
	s.mu.Unlock()
	s.notify("set_reel_comments", reelID)
	return comments, nil
}
