package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"socialweb/guard"
	"socialweb/models"
	"socialweb/services"
	"socialweb/storage"
)

// Navigator переводит приложение на другой маршрут
type Navigator interface {
	Navigate(path string)
}

// AuthStore - текущая сессия: токен, пользователь, статус последней операции
type AuthStore struct {
	mu     sync.RWMutex
	token  string
	user   *models.User
	status models.AuthStatus

	api     *services.AuthService
	storage storage.Storage
	nav     Navigator
	notify  emitFunc
	log     *zap.Logger
}

func newAuthStore(api *services.AuthService, st storage.Storage, nav Navigator, n Notifier, log *zap.Logger) *AuthStore {
	return &AuthStore{
		status:  models.AuthIdle,
		api:     api,
		storage: st,
		nav:     nav,
		notify:  emitter("auth", n),
		log:     log,
	}
}

// Token реализует transport.TokenSource
func (a *AuthStore) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token
}

// IsAuthenticated - токен непустой. Именно это проверяет guard
func (a *AuthStore) IsAuthenticated() bool {
	return a.Token() != ""
}

func (a *AuthStore) Status() models.AuthStatus {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.status
}

func (a *AuthStore) CurrentUser() *models.User {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.user == nil {
		return nil
	}
	u := *a.user
	return &u
}

func (a *AuthStore) Snapshot() models.Session {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s := models.Session{Token: a.token, Status: a.status}
	if a.user != nil {
		u := *a.user
		s.CurrentUser = &u
	}
	return s
}

// Rehydrate поднимает токен и пользователя из постоянного хранилища
func (a *AuthStore) Rehydrate(ctx context.Context) error {
	token, _, err := a.storage.Get(ctx, models.StorageKeyToken)
	if err != nil {
		return fmt.Errorf("failed to read stored token: %w", err)
	}
	if token != "" && tokenExpired(token) {
		a.log.Info("stored token is expired, dropping session")
		if err = a.storage.Remove(ctx, models.StorageKeyToken, models.StorageKeyUser); err != nil {
			return fmt.Errorf("failed to drop expired session: %w", err)
		}
		return nil
	}

	var user *models.User
	raw, ok, err := a.storage.Get(ctx, models.StorageKeyUser)
	if err != nil {
		return fmt.Errorf("failed to read stored user: %w", err)
	}
	if ok && raw != "" {
		var u models.User
		if jsonErr := json.Unmarshal([]byte(raw), &u); jsonErr != nil {
			a.log.Warn("stored user is not valid JSON, ignoring", zap.Error(jsonErr))
		} else {
			u = normalizeUser(u)
			user = &u
		}
	}

	a.mu.Lock()
	a.token = token
	a.user = user
	a.mu.Unlock()
	a.notify("rehydrate", 0)
	return nil
}

// tokenExpired - только для JWT с exp, непрозрачные токены считаются живыми
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

func (a *AuthStore) setStatus(status models.AuthStatus) {
	a.mu.Lock()
	a.status = status
	a.mu.Unlock()
	a.notify("auth_"+string(status), 0)
}

// authError - статус error, токен сброшен в памяти и в хранилище
func (a *AuthStore) authError(ctx context.Context) {
	a.mu.Lock()
	a.status = models.AuthError
	a.token = ""
	a.mu.Unlock()
	if err := a.storage.Remove(ctx, models.StorageKeyToken); err != nil {
		a.log.Error("failed to remove stored token", zap.Error(err))
	}
	a.notify("auth_error", 0)
}

// Login получает токен; ошибка загрузки профиля после этого логин не проваливает
func (a *AuthStore) Login(ctx context.Context, username, password string) error {
	a.setStatus(models.AuthLoading)
	a.log.Info("login started", zap.String("username", username))

	resp, err := a.api.Login(ctx, username, password)
	if err != nil {
		a.log.Error("login failed", zap.String("username", username), zap.Error(err))
		a.authError(ctx)
		return fmt.Errorf("login: %w", err)
	}
	if resp.AccessToken == "" {
		a.log.Error("no token in login response", zap.String("username", username))
		a.authError(ctx)
		return ErrNoAccessToken
	}

	if err = a.storage.Set(ctx, models.StorageKeyToken, resp.AccessToken); err != nil {
		a.log.Error("failed to persist token", zap.Error(err))
	}
	a.mu.Lock()
	a.token = resp.AccessToken
	a.status = models.AuthSuccess
	a.mu.Unlock()
	a.notify("auth_success", 0)

	if _, err = a.loadCurrentUser(ctx); err != nil {
		a.log.Warn("failed to fetch user profile after login", zap.Error(err))
	}
	return nil
}

// Register создает аккаунт и сразу логинится с теми же данными
func (a *AuthStore) Register(ctx context.Context, in models.RegisterInput) error {
	a.setStatus(models.AuthLoading)
	if err := validateInput(in); err != nil {
		a.setStatus(models.AuthError)
		return err
	}
	if _, err := a.api.Register(ctx, in); err != nil {
		a.log.Error("registration failed", zap.String("username", in.Username), zap.Error(err))
		a.setStatus(models.AuthError)
		return fmt.Errorf("register: %w", err)
	}
	return a.Login(ctx, in.Username, in.Password)
}

// FetchCurrentUser - GET /users/me, при ошибке статус error
func (a *AuthStore) FetchCurrentUser(ctx context.Context) (*models.User, error) {
	u, err := a.loadCurrentUser(ctx)
	if err != nil {
		a.log.Error("failed to fetch user profile", zap.Error(err))
		a.setStatus(models.AuthError)
		return nil, err
	}
	return u, nil
}

func (a *AuthStore) loadCurrentUser(ctx context.Context) (*models.User, error) {
	u, err := a.api.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	user := normalizeUser(*u)
	a.mu.Lock()
	a.setUserLocked(user)
	a.mu.Unlock()
	a.persistUser(ctx, user)
	a.notify("set_user", user.ID)
	return &user, nil
}

func (a *AuthStore) setUserLocked(u models.User) {
	a.user = &u
}

func (a *AuthStore) persistUser(ctx context.Context, u models.User) {
	data, err := json.Marshal(u)
	if err != nil {
		a.log.Error("failed to encode user", zap.Error(err))
		return
	}
	if err = a.storage.Set(ctx, models.StorageKeyUser, string(data)); err != nil {
		a.log.Error("failed to persist user", zap.Error(err))
	}
}

// Expire сбрасывает сессию без перехода: токен, пользователь, хранилище
func (a *AuthStore) Expire(ctx context.Context) {
	a.mu.Lock()
	a.token = ""
	a.user = nil
	a.status = models.AuthIdle
	a.mu.Unlock()
	if err := a.storage.Remove(ctx, models.StorageKeyToken, models.StorageKeyUser); err != nil {
		a.log.Error("failed to clear stored session", zap.Error(err))
	}
	a.notify("logout", 0)
}

// Logout - без запроса к серверу, затем переход на /login
func (a *AuthStore) Logout(ctx context.Context) {
	a.Expire(ctx)
	a.log.Info("logged out")
	if a.nav != nil {
		a.nav.Navigate(guard.LoginPath)
	}
}
