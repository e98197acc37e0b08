package storage

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialweb/config"
)

// exerciseStorage - общий контракт для всех реализаций
func exerciseStorage(t *testing.T, st Storage) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := st.Get(ctx, "token")
	require.NoError(t, err)
	assert.False(t, ok)

	token := gofakeit.UUID()
	require.NoError(t, st.Set(ctx, "token", token))
	require.NoError(t, st.Set(ctx, "user", `{"id":1}`))

	v, ok, err := st.Get(ctx, "token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, token, v)

	require.NoError(t, st.Set(ctx, "token", "second"))
	v, _, err = st.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "second", v)

	require.NoError(t, st.Remove(ctx, "token", "user"))
	for _, k := range []string{"token", "user"} {
		_, ok, err = st.Get(ctx, k)
		require.NoError(t, err)
		assert.False(t, ok, k)
	}
	require.NoError(t, st.Remove(ctx))
}

func TestMemoryStorage(t *testing.T) {
	exerciseStorage(t, NewMemory())
}

func TestSQLiteStorage(t *testing.T) {
	conf := config.StorageConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "client.db")}
	st, err := Open(context.Background(), conf, nil)
	require.NoError(t, err)
	defer st.Close()

	exerciseStorage(t, st)
}

func TestSQLiteStorageSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	conf := config.StorageConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "client.db")}

	st, err := Open(ctx, conf, nil)
	require.NoError(t, err)
	require.NoError(t, st.Set(ctx, "token", "persisted"))
	require.NoError(t, st.Close())

	st, err = Open(ctx, conf, nil)
	require.NoError(t, err)
	defer st.Close()
	v, ok, err := st.Get(ctx, "token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "persisted", v)
}

func TestRedisStorage(t *testing.T) {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		t.Skip("REDIS_HOST is not set")
	}
	port, _ := strconv.Atoi(os.Getenv("REDIS_PORT"))
	st, err := NewRedis(context.Background(), config.RedisConfig{Host: host, Port: port, Prefix: "socialweb_test:"})
	require.NoError(t, err)
	defer st.Close()

	exerciseStorage(t, st)
}

func TestSealedStorage(t *testing.T) {
	inner := NewMemory()
	st, err := NewSealed(context.Background(), inner, "correct horse")
	require.NoError(t, err)

	exerciseStorage(t, st)
}

func TestSealedValuesAreEncrypted(t *testing.T) {
	ctx := context.Background()
	inner := NewMemory()

	st, err := NewSealed(ctx, inner, "correct horse")
	require.NoError(t, err)
	require.NoError(t, st.Set(ctx, "token", "plain-token"))

	raw, ok, err := inner.Get(ctx, "token")
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotContains(t, raw, "plain-token")

	again, err := NewSealed(ctx, inner, "correct horse")
	require.NoError(t, err)
	v, ok, err := again.Get(ctx, "token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "plain-token", v)

	wrong, err := NewSealed(ctx, inner, "battery staple")
	require.NoError(t, err)
	_, _, err = wrong.Get(ctx, "token")
	assert.ErrorIs(t, err, ErrCorrupted)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.StorageConfig{Driver: "etcd"}, nil)
	require.Error(t, err)
}
