package mirror

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Name  string   `json:"name"`
	Count int      `json:"count"`
	Tags  []string `json:"tags"`
}

func implementations(t *testing.T) map[string]Mirror {
	t.Helper()

	boltMirror, err := OpenBolt(filepath.Join(t.TempDir(), "mirror.db"))
	require.NoError(t, err)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	redisMirror := NewRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test:")

	all := map[string]Mirror{
		"memory": NewMemory(),
		"bolt":   boltMirror,
		"redis":  redisMirror,
	}
	t.Cleanup(func() {
		for _, m := range all {
			m.Close()
		}
	})
	return all
}

func TestMirror_PutGetDelete(t *testing.T) {
	ctx := context.Background()

	for name, m := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			var got doc
			found, err := m.Get(ctx, "missing", &got)
			require.NoError(t, err)
			assert.False(t, found)

			want := doc{Name: "hoodie", Count: 2, Tags: []string{"fashion"}}
			require.NoError(t, m.Put(ctx, KeyCart, want))

			found, err = m.Get(ctx, KeyCart, &got)
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, want, got)

			require.NoError(t, m.Put(ctx, KeyCart, doc{Name: "mug"}))
			got = doc{}
			_, err = m.Get(ctx, KeyCart, &got)
			require.NoError(t, err)
			assert.Equal(t, "mug", got.Name)

			require.NoError(t, m.Delete(ctx, KeyCart))
			found, err = m.Get(ctx, KeyCart, &got)
			require.NoError(t, err)
			assert.False(t, found)

			assert.NoError(t, m.Delete(ctx, "never-written"))
		})
	}
}

func TestBolt_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "mirror.db")

	m, err := OpenBolt(path)
	require.NoError(t, err)
	require.NoError(t, m.Put(ctx, KeyToken, "abc"))
	require.NoError(t, m.Close())

	m, err = OpenBolt(path)
	require.NoError(t, err)
	defer m.Close()

	var token string
	found, err := m.Get(ctx, KeyToken, &token)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "abc", token)
}

func TestRedis_UsesPrefix(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	m := NewRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "")
	defer m.Close()

	require.NoError(t, m.Put(context.Background(), KeyUser, map[string]string{"id": "1"}))

	assert.True(t, mr.Exists("storefront:user"))
}

func TestMemory_Closed(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Close())

	var v string
	_, err := m.Get(context.Background(), KeyToken, &v)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, m.Put(context.Background(), KeyToken, "x"), ErrClosed)
}

func TestOpen_SelectsImplementation(t *testing.T) {
	m, err := Open("")
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, m)

	m, err = Open(filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	defer m.Close()
	assert.IsType(t, &Bolt{}, m)
}
