package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"socialweb/models"
	"socialweb/services"
)

// PostsStore - кеш постов: список в порядке сервера и текущий пост
type PostsStore struct {
	opStatus

	mu      sync.RWMutex
	posts   []models.Post
	current *models.Post

	api    *services.PostService
	notify emitFunc
	log    *zap.Logger
}

func newPostsStore(api *services.PostService, n Notifier, log *zap.Logger) *PostsStore {
	return &PostsStore{api: api, notify: emitter("posts", n), log: log}
}

func (s *PostsStore) Posts() []models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Post(nil), s.posts...)
}

func (s *PostsStore) PostByID(id int64) (models.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.posts {
		if p.ID == id {
			return p, true
		}
	}
	return models.Post{}, false
}

func (s *PostsStore) CurrentPost() *models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	p := *s.current
	return &p
}

func (s *PostsStore) FetchPosts(ctx context.Context, q models.PostQuery) ([]models.Post, error) {
	s.begin()
	defer s.end()

	posts, err := s.api.List(ctx, q)
	if err != nil {
		return nil, s.fail(err)
	}
	s.mu.Lock()
	s.posts = append([]models.Post(nil), posts...)
	s.mu.Unlock()
	s.notify("set_posts", 0)
	return posts, nil
}

func (s *PostsStore) FetchPostByID(ctx context.Context, id int64) (*models.Post, error) {
	s.begin()
	defer s.end()

	post, err := s.api.ByID(ctx, id)
	if err != nil {
		return nil, s.fail(err)
	}
	s.setCurrent(*post)
	return post, nil
}

// FetchLatestPost - GET /posts/latest, результат попадает в текущий пост
func (s *PostsStore) FetchLatestPost(ctx context.Context) (*models.Post, error) {
	s.begin()
	defer s.end()

	post, err := s.api.Latest(ctx)
	if err != nil {
		return nil, s.fail(err)
	}
	s.setCurrent(*post)
	return post, nil
}

// setCurrent обновляет текущий пост и его копию в списке, если она там есть
func (s *PostsStore) setCurrent(post models.Post) {
	s.mu.Lock()
	s.current = &post
	s.replaceLocked(post)
	s.mu.Unlock()
	s.notify("set_current_post", post.ID)
}

// CreatePost - новый пост всегда в начало списка
func (s *PostsStore) CreatePost(ctx context.Context, in models.PostInput) (*models.Post, error) {
	s.begin()
	defer s.end()

	if err := validateInput(in); err != nil {
		return nil, s.fail(err)
	}
	post, err := s.api.Create(ctx, in)
	if err != nil {
		return nil, s.fail(err)
	}
	s.mu.Lock()
	s.posts = append([]models.Post{*post}, s.posts...)
	s.mu.Unlock()
	s.notify("add_post", post.ID)
	return post, nil
}

// UpdatePost заменяет пост на его месте и в слоте текущего поста
func (s *PostsStore) UpdatePost(ctx context.Context, id int64, in models.PostInput) (*models.Post, error) {
	s.begin()
	defer s.end()

	if err := validateInput(in); err != nil {
		return nil, s.fail(err)
	}
	post, err := s.api.Update(ctx, id, in)
	if err != nil {
		return nil, s.fail(err)
	}
	if post.ID == 0 {
		post.ID = id
	}
	s.mu.Lock()
	s.replaceLocked(*post)
	if s.current != nil && s.current.ID == post.ID {
		p := *post
		s.current = &p
	}
	s.mu.Unlock()
	s.notify("update_post", post.ID)
	return post, nil
}

func (s *PostsStore) replaceLocked(post models.Post) {
	for i := range s.posts {
		if s.posts[i].ID == post.ID {
			s.posts[i] = post
			return
		}
	}
}

func (s *PostsStore) DeletePost(ctx context.Context, id int64) error {
	s.begin()
	defer s.end()

	if err := s.api.Delete(ctx, id); err != nil {
		return s.fail(err)
	}
	s.mu.Lock()
	kept := s.posts[:0:0]
	for _, p := range s.posts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.posts = kept
	if s.current != nil && s.current.ID == id {
		s.current = nil
	}
	s.mu.Unlock()
	s.notify("remove_post", id)
	return nil
}

// VotePost - значения голосов берутся только из ответа сервера.
// Если /vote/ не вернул счетчик, пост перечитывается
func (s *PostsStore) VotePost(ctx context.Context, id int64) error {
	s.begin()
	defer s.end()

	res, err := s.api.Vote(ctx, id)
	if err != nil {
		return s.fail(err)
	}
	votes, hasVoted := 0, false
	if res.Complete() {
		votes, hasVoted = *res.Votes, *res.HasVoted
	} else {
		post, fetchErr := s.api.ByID(ctx, id)
		if fetchErr != nil {
			return s.fail(fetchErr)
		}
		votes, hasVoted = post.Votes, post.HasVoted
	}

	s.mu.Lock()
	for i := range s.posts {
		if s.posts[i].ID == id {
			s.posts[i].Votes = votes
			s.posts[i].HasVoted = hasVoted
		}
	}
	if s.current != nil && s.current.ID == id {
		p := *s.current
		p.Votes = votes
		p.HasVoted = hasVoted
		s.current = &p
	}
	s.mu.Unlock()
	s.notify("set_vote", id)
	return nil
}
