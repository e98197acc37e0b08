package models

import "time"

// Reel - короткое видео. Likes и Votes - один и тот же счетчик
type Reel struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoURL    string    `json:"video_url"`
	OwnerID     int64     `json:"owner_id"`
	Owner       *User     `json:"owner,omitempty"`
	Likes       int       `json:"likes"`
	Votes       int       `json:"votes"`
	IsLiked     bool      `json:"is_liked"`
	CreatedAt   time.Time `json:"created_at"`
}

// SetLikes выставляет оба поля счетчика сразу
func (r *Reel) SetLikes(count int, liked bool) {
	r.Likes = count
	r.Votes = count
	r.IsLiked = liked
}

type ReelInput struct {
	Title       string `validate:"required,max=255"`
	Description string `validate:"max=2000"`
	Video       FileInput
}

type ReelQuery struct {
	Limit  int
	Skip   int
	UserID *int64
}

// LikeResult - ответ POST /reels/like/
type LikeResult struct {
	ReelID  int64  `json:"reel_id"`
	Likes   *int   `json:"likes"`
	Votes   *int   `json:"votes"`
	IsLiked *bool  `json:"is_liked"`
	Message string `json:"message,omitempty"`
}

// Count - значение счетчика из ответа, likes приоритетнее votes
func (l LikeResult) Count() (int, bool) {
	if l.Likes != nil {
		return *l.Likes, true
	}
	if l.Votes != nil {
		return *l.Votes, true
	}
	return 0, false
}

func (l LikeResult) Complete() bool {
	_, ok := l.Count()
	return ok && l.IsLiked != nil
}

// LikeCount - значение счетчика записи, likes приоритетнее votes
func (r Reel) LikeCount() int {
	if r.Likes != 0 {
		return r.Likes
	}
	return r.Votes
}
