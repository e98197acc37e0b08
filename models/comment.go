package models

import "time"

type Comment struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	UserID    int64     `json:"user_id"`
	User      *User     `json:"user,omitempty"`
	PostID    int64     `json:"post_id,omitempty"`
	ReelID    int64     `json:"reel_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type CommentInput struct {
	Content string `json:"content" validate:"required,max=1000"`
}
