package store

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"

	"socialweb/models"
	"socialweb/storage"
	"socialweb/transport"
)

type recordingNav struct {
	mu    sync.Mutex
	paths []string
}

func (n *recordingNav) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *recordingNav) Paths() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}

type testEnv struct {
	store   *Store
	nav     *recordingNav
	storage *storage.Memory
	events  *eventLog
}

type eventLog struct {
	mu     sync.Mutex
	events []models.StateEvent
}

func (l *eventLog) Notify(e models.StateEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) Mutations() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.events))
	for _, e := range l.events {
		out = append(out, e.Module+"."+e.Mutation)
	}
	return out
}

func newTestEnv(t *testing.T, handler http.Handler) *testEnv {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	env := &testEnv{nav: &recordingNav{}, storage: storage.NewMemory(), events: &eventLog{}}
	env.store = New(Deps{
		API:       transport.New(transport.Options{BaseURL: srv.URL}),
		Storage:   env.storage,
		Navigator: env.nav,
		Notifier:  env.events,
	})
	return env
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func fakeUser(id int64) models.User {
	return models.User{
		ID:             id,
		Username:       gofakeit.Username(),
		Email:          gofakeit.Email(),
		ProfilePicture: gofakeit.Word() + ".png",
	}
}

func fakePost(id int64) models.Post {
	return models.Post{
		ID:        id,
		Title:     gofakeit.Sentence(3),
		Content:   gofakeit.Sentence(8),
		Published: true,
	}
}
