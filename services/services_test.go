package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialweb/models"
	"socialweb/transport"
)

func newAPI(t *testing.T, handler http.HandlerFunc) *transport.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return transport.New(transport.Options{BaseURL: srv.URL})
}

func TestPostListDefaults(t *testing.T) {
	api := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/posts/", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "10", q.Get("limit"))
		assert.Equal(t, "0", q.Get("skip"))
		assert.True(t, q.Has("search"))
		_, _ = w.Write([]byte(`[{"id":1,"title":"a"}]`))
	})

	posts, err := NewPostService(api).List(context.Background(), models.PostQuery{Skip: -5})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, int64(1), posts[0].ID)
}

func TestReelListUserFilter(t *testing.T) {
	var seen []string
	api := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.URL.RawQuery)
		_, _ = w.Write([]byte(`[]`))
	})
	svc := NewReelService(api)

	_, err := svc.List(context.Background(), models.ReelQuery{Limit: 5})
	require.NoError(t, err)
	uid := int64(42)
	_, err = svc.List(context.Background(), models.ReelQuery{Limit: 5, Skip: 10, UserID: &uid})
	require.NoError(t, err)

	assert.Equal(t, []string{"limit=5&skip=0", "limit=5&skip=10&user_id=42"}, seen)
}

func TestVoteAndLikeBodies(t *testing.T) {
	api := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]int64
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		switch r.URL.Path {
		case "/vote/":
			assert.Equal(t, int64(3), body["post_id"])
			_, _ = w.Write([]byte(`{"message":"ok"}`))
		case "/reels/like/":
			assert.Equal(t, int64(4), body["reel_id"])
			_, _ = w.Write([]byte(`{"likes":2,"is_liked":true}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	vote, err := NewPostService(api).Vote(context.Background(), 3)
	require.NoError(t, err)
	assert.False(t, vote.Complete())

	like, err := NewReelService(api).Like(context.Background(), 4)
	require.NoError(t, err)
	assert.True(t, like.Complete())
	count, _ := like.Count()
	assert.Equal(t, 2, count)
}

func TestUsernameIsEscaped(t *testing.T) {
	api := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/username/john%20doe", r.URL.EscapedPath())
		_, _ = w.Write([]byte(`{"id":5,"username":"john doe"}`))
	})

	u, err := NewUserService(api).ByUsername(context.Background(), "john doe")
	require.NoError(t, err)
	assert.Equal(t, int64(5), u.ID)
}

func TestCommentPaths(t *testing.T) {
	api := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/posts/8/comment":
			var in models.CommentInput
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			assert.Equal(t, "nice", in.Content)
			_, _ = w.Write([]byte(`{"id":1,"content":"nice"}`))
		case r.Method == http.MethodGet && r.URL.Path == "/posts/8/comments":
			_, _ = w.Write([]byte(`[{"id":1,"content":"nice"}]`))
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	})
	svc := NewCommentService(api)

	c, err := svc.Create(context.Background(), 8, "nice")
	require.NoError(t, err)
	assert.Equal(t, "nice", c.Content)

	list, err := svc.List(context.Background(), 8)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
