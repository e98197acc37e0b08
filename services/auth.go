package services

import (
	"context"
	"net/url"

	"socialweb/models"
	"socialweb/transport"
)

type AuthService struct {
	api *transport.Client
}

func NewAuthService(api *transport.Client) *AuthService {
	return &AuthService{api: api}
}

// Login - POST /users/login, учетные данные как form-urlencoded
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.TokenResponse, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var out models.TokenResponse
	if err := s.api.PostForm(ctx, "auth.login", "/users/login", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AuthService) Register(ctx context.Context, in models.RegisterInput) (*models.User, error) {
	var out models.User
	if err := s.api.Post(ctx, "auth.register", "/users/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AuthService) CurrentUser(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := s.api.Get(ctx, "auth.me", "/users/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
