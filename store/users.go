package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"socialweb/models"
	"socialweb/services"
)

// UsersStore - пользователи: общий список, профили по id, подписчики и подписки.
// Любой пользователь перед записью проходит нормализацию путей
type UsersStore struct {
	opStatus

	mu        sync.RWMutex
	users     []models.User
	profiles  map[int64]models.User
	followers []models.User
	following []models.User

	api    *services.UserService
	follow *services.FollowService
	notify emitFunc
	log    *zap.Logger

	// ownProfile - единственный путь записи в чужой модуль (сессию)
	ownProfile func(ctx context.Context, u models.User)
}

func newUsersStore(api *services.UserService, follow *services.FollowService, n Notifier, log *zap.Logger) *UsersStore {
	return &UsersStore{
		profiles: make(map[int64]models.User),
		api:      api,
		follow:   follow,
		notify:   emitter("users", n),
		log:      log,
	}
}

func (s *UsersStore) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.User(nil), s.users...)
}

func (s *UsersStore) UserByID(id int64) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.profiles[id]
	return u, ok
}

func (s *UsersStore) Followers() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.User(nil), s.followers...)
}

func (s *UsersStore) Following() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.User(nil), s.following...)
}

// IsFollowing - есть ли пользователь в загруженном списке подписок
func (s *UsersStore) IsFollowing(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.following {
		if u.ID == id {
			return true
		}
	}
	return false
}

func (s *UsersStore) FetchUsers(ctx context.Context) ([]models.User, error) {
	s.begin()
	defer s.end()

	users, err := s.api.List(ctx)
	if err != nil {
		return nil, s.fail(err)
	}
	users = normalizeUsers(users)
	s.mu.Lock()
	s.users = users
	s.mu.Unlock()
	s.notify("set_users", 0)
	return append([]models.User(nil), users...), nil
}

func (s *UsersStore) FetchUserByID(ctx context.Context, id int64) (*models.User, error) {
	s.begin()
	defer s.end()

	u, err := s.api.ByID(ctx, id)
	if err != nil {
		return nil, s.fail(err)
	}
	return s.setProfile(*u), nil
}

func (s *UsersStore) FetchUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.begin()
	defer s.end()

	u, err := s.api.ByUsername(ctx, username)
	if err != nil {
		return nil, s.fail(err)
	}
	return s.setProfile(*u), nil
}

func (s *UsersStore) setProfile(u models.User) *models.User {
	u = normalizeUser(u)
	s.mu.Lock()
	s.profiles[u.ID] = u
	s.mu.Unlock()
	s.notify("set_user_profile", u.ID)
	return &u
}

// SearchUsers - результаты поиска не кешируются, но пути нормализуются
func (s *UsersStore) SearchUsers(ctx context.Context, q string) ([]models.User, error) {
	s.begin()
	defer s.end()

	users, err := s.api.Search(ctx, q)
	if err != nil {
		return nil, s.fail(err)
	}
	return normalizeUsers(users), nil
}

func (s *UsersStore) UpdateUser(ctx context.Context, id int64, in models.UserUpdate) (*models.User, error) {
	s.begin()
	defer s.end()

	if err := validateInput(in); err != nil {
		return nil, s.fail(err)
	}
	u, err := s.api.Update(ctx, id, in)
	if err != nil {
		return nil, s.fail(err)
	}
	if u.ID == 0 {
		u.ID = id
	}
	user := normalizeUser(*u)
	s.mu.Lock()
	s.replaceLocked(user)
	s.mu.Unlock()
	s.notify("update_user", user.ID)
	return &user, nil
}

// replaceLocked обновляет пользователя во всех коллекциях, где он уже есть
func (s *UsersStore) replaceLocked(u models.User) {
	for _, list := range [][]models.User{s.users, s.followers, s.following} {
		for i := range list {
			if list[i].ID == u.ID {
				list[i] = u
			}
		}
	}
	if _, ok := s.profiles[u.ID]; ok {
		s.profiles[u.ID] = u
	}
}

func (s *UsersStore) DeleteUser(ctx context.Context, id int64) error {
	s.begin()
	defer s.end()

	if err := s.api.Delete(ctx, id); err != nil {
		return s.fail(err)
	}
	s.mu.Lock()
	s.users = withoutUser(s.users, id)
	s.followers = withoutUser(s.followers, id)
	s.following = withoutUser(s.following, id)
	delete(s.profiles, id)
	s.mu.Unlock()
	s.notify("remove_user", id)
	return nil
}

func withoutUser(users []models.User, id int64) []models.User {
	kept := users[:0:0]
	for _, u := range users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	return kept
}

// UpdateMe - PUT /users/me, результат пишется и в кеш, и в сессию
func (s *UsersStore) UpdateMe(ctx context.Context, in models.UserUpdate) (*models.User, error) {
	s.begin()
	defer s.end()

	if err := validateInput(in); err != nil {
		return nil, s.fail(err)
	}
	u, err := s.api.UpdateMe(ctx, in)
	if err != nil {
		return nil, s.fail(err)
	}
	return s.applyOwn(ctx, *u), nil
}

func (s *UsersStore) UploadProfilePicture(ctx context.Context, file models.FileInput) (*models.User, error) {
	return s.uploadImage(ctx, file, s.api.UploadProfilePicture)
}

func (s *UsersStore) UploadBackgroundImage(ctx context.Context, file models.FileInput) (*models.User, error) {
	return s.uploadImage(ctx, file, s.api.UploadBackgroundImage)
}

func (s *UsersStore) uploadImage(ctx context.Context, file models.FileInput,
	upload func(context.Context, models.FileInput) (*models.User, error)) (*models.User, error) {
	s.begin()
	defer s.end()

	if !file.Present() {
		return nil, s.fail(ErrFileAbsent)
	}
	u, err := upload(ctx, file)
	if err != nil {
		return nil, s.fail(err)
	}
	s.log.Info("profile image uploaded",
		zap.Int64("user_id", u.ID),
		zap.String("profile_picture", u.ProfilePicture),
		zap.String("background_image", u.BackgroundImage),
	)
	return s.applyOwn(ctx, *u), nil
}

func (s *UsersStore) applyOwn(ctx context.Context, u models.User) *models.User {
	u = normalizeUser(u)
	if s.ownProfile != nil {
		s.ownProfile(ctx, u)
	} else {
		s.mu.Lock()
		s.replaceLocked(u)
		s.profiles[u.ID] = u
		s.mu.Unlock()
	}
	s.notify("update_user", u.ID)
	return &u
}

func (s *UsersStore) FetchFollowers(ctx context.Context) ([]models.User, error) {
	s.begin()
	defer s.end()

	users, err := s.follow.Followers(ctx)
	if err != nil {
		return nil, s.fail(err)
	}
	users = normalizeUsers(users)
	s.mu.Lock()
	s.followers = users
	s.mu.Unlock()
	s.notify("set_followers", 0)
	return append([]models.User(nil), users...), nil
}

func (s *UsersStore) FetchFollowing(ctx context.Context) ([]models.User, error) {
	s.begin()
	defer s.end()

	users, err := s.loadFollowing(ctx)
	if err != nil {
		return nil, s.fail(err)
	}
	return users, nil
}

func (s *UsersStore) loadFollowing(ctx context.Context) ([]models.User, error) {
	users, err := s.follow.Following(ctx)
	if err != nil {
		return nil, err
	}
	users = normalizeUsers(users)
	s.mu.Lock()
	s.following = users
	s.mu.Unlock()
	s.notify("set_following", 0)
	return append([]models.User(nil), users...), nil
}

// Follow и Unfollow после запроса перечитывают список подписок
func (s *UsersStore) Follow(ctx context.Context, userID int64) error {
	s.begin()
	defer s.end()

	if err := s.follow.Follow(ctx, userID); err != nil {
		return s.fail(err)
	}
	if _, err := s.loadFollowing(ctx); err != nil {
		return s.fail(err)
	}
	return nil
}

func (s *UsersStore) Unfollow(ctx context.Context, userID int64) error {
	s.begin()
	defer s.end()

	if err := s.follow.Unfollow(ctx, userID); err != nil {
		return s.fail(err)
	}
	if _, err := s.loadFollowing(ctx); err != nil {
		return s.fail(err)
	}
	return nil
}
