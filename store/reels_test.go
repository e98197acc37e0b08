package store

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialweb/models"
)

func TestCreateReelWithoutVideoSkipsNetwork(t *testing.T) {
	var calls int32
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))

	_, err := env.store.Reels.CreateReel(context.Background(), models.ReelInput{Title: "clip", Video: models.NoFile()})
	require.ErrorIs(t, err, ErrFileAbsent)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
	assert.Equal(t, ErrFileAbsent.Error(), env.store.Reels.LastError())
	assert.False(t, env.store.Reels.Loading())

	// имя без содержимого тоже не считается файлом
	_, err = env.store.Reels.CreateReel(context.Background(), models.ReelInput{
		Title: "clip",
		Video: models.NewFile(nil, "clip.mp4", "video/mp4"),
	})
	require.ErrorIs(t, err, ErrFileAbsent)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestCreateReelPrepends(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /reels/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, []models.Reel{{ID: 1}, {ID: 2}})
	})
	mux.HandleFunc("POST /reels/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "clip", r.FormValue("title"))
		writeJSON(t, w, http.StatusCreated, models.Reel{ID: 3, Title: r.FormValue("title")})
	})
	env := newTestEnv(t, mux)
	ctx := context.Background()

	_, err := env.store.Reels.FetchReels(ctx, models.ReelQuery{Limit: 10})
	require.NoError(t, err)
	_, err = env.store.Reels.CreateReel(ctx, models.ReelInput{
		Title: "clip",
		Video: models.NewFile([]byte("mp4"), "clip.mp4", "video/mp4"),
	})
	require.NoError(t, err)

	reels := env.store.Reels.Reels()
	require.Len(t, reels, 3)
	assert.Equal(t, int64(3), reels[0].ID)
}

// Два почти одновременных лайка: в кеше остается ответ, пришедший последним
func TestConcurrentLikesLastResolvedWins(t *testing.T) {
	var n int32
	firstArrived := make(chan struct{})
	releaseFirst := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /reels/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, models.Reel{ID: 7, Likes: 5, Votes: 5})
	})
	mux.HandleFunc("POST /reels/like/", func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&n, 1) == 1 {
			close(firstArrived)
			<-releaseFirst
			writeJSON(t, w, http.StatusOK, map[string]any{"reel_id": 7, "likes": 6, "is_liked": true})
			return
		}
		writeJSON(t, w, http.StatusOK, map[string]any{"reel_id": 7, "likes": 5, "is_liked": false})
	})
	env := newTestEnv(t, mux)
	ctx := context.Background()

	_, err := env.store.Reels.FetchReelByID(ctx, 7)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- env.store.Reels.LikeReel(ctx, 7) }()
	select {
	case <-firstArrived:
	case <-time.After(5 * time.Second):
		t.Fatal("first like never reached the server")
	}

	require.NoError(t, env.store.Reels.LikeReel(ctx, 7))
	current := env.store.Reels.CurrentReel()
	require.NotNil(t, current)
	assert.Equal(t, 5, current.Likes)
	assert.False(t, current.IsLiked)

	close(releaseFirst)
	require.NoError(t, <-done)

	current = env.store.Reels.CurrentReel()
	require.NotNil(t, current)
	assert.Equal(t, 6, current.Likes)
	assert.Equal(t, 6, current.Votes)
	assert.True(t, current.IsLiked)
}

func TestLikeReelRefetchesWhenResponseIncomplete(t *testing.T) {
	var liked atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("GET /reels/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, []models.Reel{{ID: 2, Votes: 3}})
	})
	mux.HandleFunc("GET /reels/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, models.Reel{ID: 2, Votes: 4, IsLiked: liked.Load()})
	})
	mux.HandleFunc("POST /reels/like/", func(w http.ResponseWriter, r *http.Request) {
		liked.Store(true)
		writeJSON(t, w, http.StatusOK, map[string]string{"message": "liked"})
	})
	env := newTestEnv(t, mux)
	ctx := context.Background()

	_, err := env.store.Reels.FetchReels(ctx, models.ReelQuery{})
	require.NoError(t, err)
	require.NoError(t, env.store.Reels.LikeReel(ctx, 2))

	r, ok := env.store.Reels.ReelByID(2)
	require.True(t, ok)
	assert.Equal(t, 4, r.Likes)
	assert.Equal(t, 4, r.Votes)
	assert.True(t, r.IsLiked)
}

func TestCommentOnReelRefetches(t *testing.T) {
	var posted atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("POST /reels/{id}/comment", func(w http.ResponseWriter, r *http.Request) {
		posted.Store(true)
		writeJSON(t, w, http.StatusCreated, models.Comment{ID: 99, Content: "local"})
	})
	mux.HandleFunc("GET /reels/{id}/comments", func(w http.ResponseWriter, r *http.Request) {
		if !posted.Load() {
			writeJSON(t, w, http.StatusOK, []models.Comment{})
			return
		}
		// сервер может отдать другой порядок и отфильтровать комментарии
		writeJSON(t, w, http.StatusOK, []models.Comment{{ID: 2, Content: "server"}, {ID: 1, Content: "older"}})
	})
	env := newTestEnv(t, mux)

	require.NoError(t, env.store.Reels.CommentOnReel(context.Background(), 5, "local"))
	comments := env.store.Reels.ReelComments(5)
	require.Len(t, comments, 2)
	assert.Equal(t, "server", comments[0].Content)
}

func TestDeleteReelClearsCurrent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /reels/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, models.Reel{ID: 4})
	})
	mux.HandleFunc("DELETE /reels/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	env := newTestEnv(t, mux)
	ctx := context.Background()

	_, err := env.store.Reels.FetchReelByID(ctx, 4)
	require.NoError(t, err)
	require.NoError(t, env.store.Reels.DeleteReel(ctx, 4))
	assert.Nil(t, env.store.Reels.CurrentReel())
}

func TestUpdateReelKeepsPositionAndCurrent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /reels/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, []models.Reel{{ID: 1}, {ID: 2, Title: "old"}, {ID: 3}})
	})
	mux.HandleFunc("GET /reels/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, models.Reel{ID: pathID(r), Title: "old"})
	})
	mux.HandleFunc("PUT /reels/{id}", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		// видео не передавали - поля быть не должно
		_, _, err := r.FormFile("video_file")
		assert.ErrorIs(t, err, http.ErrMissingFile)
		writeJSON(t, w, http.StatusOK, models.Reel{ID: pathID(r), Title: r.FormValue("title"), Likes: 4})
	})
	env := newTestEnv(t, mux)
	ctx := context.Background()

	_, err := env.store.Reels.FetchReels(ctx, models.ReelQuery{Limit: 10})
	require.NoError(t, err)
	_, err = env.store.Reels.FetchReelByID(ctx, 2)
	require.NoError(t, err)

	updated, err := env.store.Reels.UpdateReel(ctx, 2, models.ReelInput{Title: "renamed", Video: models.NoFile()})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)

	reels := env.store.Reels.Reels()
	require.Len(t, reels, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{reels[0].ID, reels[1].ID, reels[2].ID})
	assert.Equal(t, "renamed", reels[1].Title)
	assert.Equal(t, 4, reels[1].Likes)

	current := env.store.Reels.CurrentReel()
	require.NotNil(t, current)
	assert.Equal(t, "renamed", current.Title)
	assert.False(t, env.store.Reels.Loading())
	assert.Contains(t, env.events.Mutations(), "reels.update_reel")
}
