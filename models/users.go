package models

import (
	"time"
)

type User struct {
	ID              int64     `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email,omitempty"`
	Bio             string    `json:"bio,omitempty"`
	ProfilePicture  string    `json:"profile_picture"`
	BackgroundImage string    `json:"background_image"`
	CreatedAt       time.Time `json:"created_at"`
}

// RegisterInput - данные для POST /users/
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=60"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// UserUpdate - частичное обновление профиля, пустые поля не отправляются
type UserUpdate struct {
	Username string `json:"username,omitempty" validate:"omitempty,min=3,max=60"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Bio      string `json:"bio,omitempty" validate:"omitempty,max=500"`
}

// TokenResponse - ответ POST /users/login
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
