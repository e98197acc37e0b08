package store

import (
	"context"

	"go.uber.org/zap"

	"socialweb/guard"
	"socialweb/logger"
	"socialweb/models"
	"socialweb/services"
	"socialweb/storage"
	"socialweb/transport"
)

// Deps - все, что нужно корневому хранилищу
type Deps struct {
	API       *transport.Client
	Storage   storage.Storage
	Navigator Navigator
	Notifier  Notifier
	Logger    *zap.Logger
}

// Store - корень состояния клиента, по одному модулю на домен
type Store struct {
	Auth     *AuthStore
	Posts    *PostsStore
	Reels    *ReelsStore
	Users    *UsersStore
	Comments *CommentsStore

	nav Navigator
	log *zap.Logger
}

// New собирает модули и вешает на клиент bearer и обработчик 401
func New(d Deps) *Store {
	log := logger.OrNop(d.Logger)
	if d.Storage == nil {
		d.Storage = storage.NewMemory()
	}

	s := &Store{
		Auth:     newAuthStore(services.NewAuthService(d.API), d.Storage, d.Navigator, d.Notifier, log.Named("auth")),
		Posts:    newPostsStore(services.NewPostService(d.API), d.Notifier, log.Named("posts")),
		Reels:    newReelsStore(services.NewReelService(d.API), d.Notifier, log.Named("reels")),
		Users:    newUsersStore(services.NewUserService(d.API), services.NewFollowService(d.API), d.Notifier, log.Named("users")),
		Comments: newCommentsStore(services.NewCommentService(d.API), d.Notifier, log.Named("comments")),
		nav:      d.Navigator,
		log:      log,
	}
	s.Users.ownProfile = s.applyOwnProfile

	d.API.UseRequest(transport.BearerToken(s.Auth))
	d.API.UseResponse(transport.OnUnauthorized(s.handleUnauthorized))
	return s
}

// handleUnauthorized - на каждый 401: сброс сессии и переход на /login
func (s *Store) handleUnauthorized() {
	s.log.Warn("session rejected by server, redirecting to login")
	s.Auth.Expire(context.Background())
	if s.nav != nil {
		s.nav.Navigate(guard.LoginPath)
	}
}

// applyOwnProfile обновляет собственный профиль в кеше пользователей и в сессии
func (s *Store) applyOwnProfile(ctx context.Context, u models.User) {
	s.Users.mu.Lock()
	s.Auth.mu.Lock()
	s.Users.replaceLocked(u)
	s.Users.profiles[u.ID] = u
	s.Auth.setUserLocked(u)
	s.Auth.mu.Unlock()
	s.Users.mu.Unlock()

	s.Auth.persistUser(ctx, u)
	s.Auth.notify("set_user", u.ID)
}
