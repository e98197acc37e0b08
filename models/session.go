package models

// AuthStatus - состояние последней auth-операции
type AuthStatus string

const (
	AuthIdle    AuthStatus = "idle"
	AuthLoading AuthStatus = "loading"
	AuthSuccess AuthStatus = "success"
	AuthError   AuthStatus = "error"
)

// Ключи в постоянном хранилище
const (
	StorageKeyToken = "token"
	StorageKeyUser  = "user"
)

// Session - снимок состояния сессии
type Session struct {
	Token       string     `json:"-"`
	CurrentUser *User      `json:"current_user"`
	Status      AuthStatus `json:"status"`
}
