package store

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialweb/models"
	"socialweb/services"
)

func TestFetchUsersNormalizesPaths(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, []models.User{
			{ID: 1, ProfilePicture: "a.png", BackgroundImage: "bg.jpg"},
			{ID: 2, ProfilePicture: "static/profile_pictures/static/profile_pictures/b.png"},
			{ID: 3},
		})
	})
	mux.HandleFunc("GET /users/id/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, models.User{ID: 1, ProfilePicture: "a.png"})
	})
	env := newTestEnv(t, mux)
	ctx := context.Background()

	users, err := env.store.Users.FetchUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "/static/profile_pictures/a.png", users[0].ProfilePicture)
	assert.Equal(t, "/static/background_images/bg.jpg", users[0].BackgroundImage)
	assert.Equal(t, "/static/profile_pictures/b.png", users[1].ProfilePicture)
	assert.Empty(t, users[2].ProfilePicture)

	_, err = env.store.Users.FetchUserByID(ctx, 1)
	require.NoError(t, err)
	profile, ok := env.store.Users.UserByID(1)
	require.True(t, ok)
	assert.Equal(t, users[0].ProfilePicture, profile.ProfilePicture)
}

func TestFollowRefetchesFollowing(t *testing.T) {
	var mu sync.Mutex
	following := []models.User{}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /users/follow/{id}", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		following = append(following, models.User{ID: pathID(r), ProfilePicture: "f.png"})
		mu.Unlock()
		writeJSON(t, w, http.StatusOK, map[string]string{"message": "followed"})
	})
	mux.HandleFunc("POST /users/unfollow/{id}", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		following = following[:0]
		mu.Unlock()
		writeJSON(t, w, http.StatusOK, map[string]string{"message": "unfollowed"})
	})
	mux.HandleFunc("GET /users/following", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		writeJSON(t, w, http.StatusOK, following)
	})
	env := newTestEnv(t, mux)
	ctx := context.Background()

	require.NoError(t, env.store.Users.Follow(ctx, 12))
	require.True(t, env.store.Users.IsFollowing(12))
	assert.Equal(t, "/static/profile_pictures/f.png", env.store.Users.Following()[0].ProfilePicture)

	require.NoError(t, env.store.Users.Unfollow(ctx, 12))
	assert.False(t, env.store.Users.IsFollowing(12))
	assert.Empty(t, env.store.Users.LastError())
}

func TestUploadProfilePictureUpdatesUsersAndSession(t *testing.T) {
	me := fakeUser(1)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /users/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, models.TokenResponse{AccessToken: "tok", TokenType: "bearer"})
	})
	mux.HandleFunc("GET /users/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, me)
	})
	mux.HandleFunc("GET /users/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, []models.User{me, fakeUser(2)})
	})
	mux.HandleFunc("POST /users/upload-profile-picture", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, hdr, err := r.FormFile(services.UploadFileField)
		require.NoError(t, err)
		updated := me
		updated.ProfilePicture = "static/profile_pictures/" + hdr.Filename
		writeJSON(t, w, http.StatusOK, updated)
	})
	env := newTestEnv(t, mux)
	ctx := context.Background()

	require.NoError(t, env.store.Auth.Login(ctx, me.Username, "secret"))
	_, err := env.store.Users.FetchUsers(ctx)
	require.NoError(t, err)

	u, err := env.store.Users.UploadProfilePicture(ctx, models.NewFile([]byte("png"), "new.png", "image/png"))
	require.NoError(t, err)
	assert.Equal(t, "/static/profile_pictures/new.png", u.ProfilePicture)

	assert.Equal(t, u.ProfilePicture, env.store.Users.Users()[0].ProfilePicture)
	profile, ok := env.store.Users.UserByID(me.ID)
	require.True(t, ok)
	assert.Equal(t, u.ProfilePicture, profile.ProfilePicture)
	require.NotNil(t, env.store.Auth.CurrentUser())
	assert.Equal(t, u.ProfilePicture, env.store.Auth.CurrentUser().ProfilePicture)

	raw, ok, err := env.storage.Get(ctx, models.StorageKeyUser)
	require.NoError(t, err)
	require.True(t, ok)
	var stored models.User
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, u.ProfilePicture, stored.ProfilePicture)
}

func TestUploadWithoutFileSkipsNetwork(t *testing.T) {
	var calls int32
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))

	_, err := env.store.Users.UploadBackgroundImage(context.Background(), models.NoFile())
	require.ErrorIs(t, err, ErrFileAbsent)
	_, err = env.store.Users.UploadProfilePicture(context.Background(), models.FileInput{Name: "x.png", Data: []byte("x")})
	require.ErrorIs(t, err, ErrFileAbsent)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestDeleteUserRemovesEverywhere(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, []models.User{fakeUser(1), fakeUser(2)})
	})
	mux.HandleFunc("GET /users/followers", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, []models.User{fakeUser(2)})
	})
	mux.HandleFunc("GET /users/id/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, fakeUser(pathID(r)))
	})
	mux.HandleFunc("DELETE /users/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	env := newTestEnv(t, mux)
	ctx := context.Background()

	_, err := env.store.Users.FetchUsers(ctx)
	require.NoError(t, err)
	_, err = env.store.Users.FetchFollowers(ctx)
	require.NoError(t, err)
	_, err = env.store.Users.FetchUserByID(ctx, 2)
	require.NoError(t, err)

	require.NoError(t, env.store.Users.DeleteUser(ctx, 2))
	assert.Len(t, env.store.Users.Users(), 1)
	assert.Empty(t, env.store.Users.Followers())
	_, ok := env.store.Users.UserByID(2)
	assert.False(t, ok)
}

func TestSearchUsersIsNotCached(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ali", r.URL.Query().Get("q"))
		writeJSON(t, w, http.StatusOK, []models.User{{ID: 9, ProfilePicture: "z.png"}})
	})
	env := newTestEnv(t, mux)

	found, err := env.store.Users.SearchUsers(context.Background(), "ali")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "/static/profile_pictures/z.png", found[0].ProfilePicture)
	assert.Empty(t, env.store.Users.Users())
}

func TestUpdateUserReplacesEverywhere(t *testing.T) {
	target := fakeUser(5)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, []models.User{fakeUser(1), target})
	})
	mux.HandleFunc("GET /users/followers", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, []models.User{target})
	})
	mux.HandleFunc("GET /users/following", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, []models.User{fakeUser(9), target})
	})
	mux.HandleFunc("GET /users/id/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, target)
	})
	mux.HandleFunc("PUT /users/{id}", func(w http.ResponseWriter, r *http.Request) {
		var in models.UserUpdate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		updated := target
		updated.Bio = in.Bio
		updated.ProfilePicture = "renamed.png"
		writeJSON(t, w, http.StatusOK, updated)
	})
	env := newTestEnv(t, mux)
	ctx := context.Background()

	_, err := env.store.Users.FetchUsers(ctx)
	require.NoError(t, err)
	_, err = env.store.Users.FetchFollowers(ctx)
	require.NoError(t, err)
	_, err = env.store.Users.FetchFollowing(ctx)
	require.NoError(t, err)
	_, err = env.store.Users.FetchUserByID(ctx, target.ID)
	require.NoError(t, err)

	u, err := env.store.Users.UpdateUser(ctx, target.ID, models.UserUpdate{Bio: "new bio"})
	require.NoError(t, err)
	const want = "/static/profile_pictures/renamed.png"
	assert.Equal(t, want, u.ProfilePicture)

	assert.Equal(t, "new bio", env.store.Users.Users()[1].Bio)
	assert.Equal(t, want, env.store.Users.Users()[1].ProfilePicture)
	assert.Equal(t, want, env.store.Users.Followers()[0].ProfilePicture)
	assert.Equal(t, "new bio", env.store.Users.Following()[1].Bio)
	profile, ok := env.store.Users.UserByID(target.ID)
	require.True(t, ok)
	assert.Equal(t, want, profile.ProfilePicture)
	assert.Len(t, env.store.Users.Users(), 2)
	assert.Contains(t, env.events.Mutations(), "users.update_user")
}

func TestUpdateMeWritesUsersAndSession(t *testing.T) {
	me := fakeUser(1)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /users/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, models.TokenResponse{AccessToken: "tok", TokenType: "bearer"})
	})
	mux.HandleFunc("GET /users/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, me)
	})
	mux.HandleFunc("GET /users/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, []models.User{fakeUser(2), me})
	})
	mux.HandleFunc("PUT /users/me", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		var in models.UserUpdate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		updated := me
		updated.Bio = in.Bio
		updated.BackgroundImage = "wall.jpg"
		writeJSON(t, w, http.StatusOK, updated)
	})
	env := newTestEnv(t, mux)
	ctx := context.Background()

	require.NoError(t, env.store.Auth.Login(ctx, me.Username, "secret"))
	_, err := env.store.Users.FetchUsers(ctx)
	require.NoError(t, err)

	u, err := env.store.Users.UpdateMe(ctx, models.UserUpdate{Bio: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello", u.Bio)
	assert.Equal(t, "/static/background_images/wall.jpg", u.BackgroundImage)

	assert.Equal(t, "hello", env.store.Users.Users()[1].Bio)
	require.NotNil(t, env.store.Auth.CurrentUser())
	assert.Equal(t, "hello", env.store.Auth.CurrentUser().Bio)
	assert.Equal(t, u.BackgroundImage, env.store.Auth.CurrentUser().BackgroundImage)

	raw, ok, err := env.storage.Get(ctx, models.StorageKeyUser)
	require.NoError(t, err)
	require.True(t, ok)
	var stored models.User
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, "hello", stored.Bio)
	assert.False(t, env.store.Users.Loading())
}
