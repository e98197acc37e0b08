package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"socialweb/models"
	"socialweb/transport"
)

// Имя поля файла в multipart для загрузки картинок профиля
const UploadFileField = "file"

type UserService struct {
	api *transport.Client
}

func NewUserService(api *transport.Client) *UserService {
	return &UserService{api: api}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := s.api.Get(ctx, "users.list", "/users/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *UserService) ByID(ctx context.Context, id int64) (*models.User, error) {
	var out models.User
	if err := s.api.Get(ctx, "users.by_id", fmt.Sprintf("/users/id/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *UserService) ByUsername(ctx context.Context, username string) (*models.User, error) {
	var out models.User
	path := "/users/username/" + url.PathEscape(username)
	if err := s.api.Get(ctx, "users.by_username", path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *UserService) Search(ctx context.Context, q string) ([]models.User, error) {
	var out []models.User
	if err := s.api.Get(ctx, "users.search", "/users/search", url.Values{"q": {q}}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *UserService) Update(ctx context.Context, id int64, in models.UserUpdate) (*models.User, error) {
	var out models.User
	if err := s.api.Put(ctx, "users.update", fmt.Sprintf("/users/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.api.Delete(ctx, "users.delete", fmt.Sprintf("/users/%d", id))
}

func (s *UserService) UpdateMe(ctx context.Context, in models.UserUpdate) (*models.User, error) {
	var out models.User
	if err := s.api.Put(ctx, "users.update_me", "/users/me", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *UserService) UploadProfilePicture(ctx context.Context, file models.FileInput) (*models.User, error) {
	return s.upload(ctx, "users.upload_profile_picture", "/users/upload-profile-picture", file)
}

func (s *UserService) UploadBackgroundImage(ctx context.Context, file models.FileInput) (*models.User, error) {
	return s.upload(ctx, "users.upload_background_image", "/users/upload-background-image", file)
}

func (s *UserService) upload(ctx context.Context, op, path string, file models.FileInput) (*models.User, error) {
	var out models.User
	body := transport.NewMultipart().File(UploadFileField, file)
	if err := s.api.Upload(ctx, op, http.MethodPost, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
