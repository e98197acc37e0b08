package models

import "time"

// Post - пост пользователя
type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Published bool      `json:"published"`
	OwnerID   int64     `json:"owner_id"`
	Owner     *User     `json:"owner,omitempty"`
	Votes     int       `json:"votes"`
	HasVoted  bool      `json:"has_voted"`
	CreatedAt time.Time `json:"created_at"`
}

// PostInput - тело POST /posts/ и PUT /posts/{id}
type PostInput struct {
	Title     string `json:"title" validate:"required,max=255"`
	Content   string `json:"content" validate:"required"`
	Published bool   `json:"published"`
}

// PostQuery - параметры GET /posts/
type PostQuery struct {
	Limit  int
	Skip   int
	Search string
}

// VoteResult - ответ POST /vote/. Поля-указатели: бэкенд может не вернуть счетчик
type VoteResult struct {
	PostID   int64  `json:"post_id"`
	Votes    *int   `json:"votes"`
	HasVoted *bool  `json:"has_voted"`
	Message  string `json:"message,omitempty"`
}

// Complete - в ответе есть все авторитетные значения
func (v VoteResult) Complete() bool {
	return v.Votes != nil && v.HasVoted != nil
}
