package storefront

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-storefront/catalog"
	"go-storefront/mirror"
	"go-storefront/models"
)

func lamp() models.Product {
	return models.Product{Title: "Desk Lamp", Price: 45, Description: "Warm light", Category: models.CategoryHome, Stock: 4, Rating: 4.1}
}

func TestCatalogLoad_RemoteFailureWithEmptyMirrorSeeds(t *testing.T) {
	ctx := context.Background()
	m := mirror.NewMemory()
	c := NewCatalogStore(ctx, NewClient(unreachableURL(t), nil), m)

	assert.Equal(t, SourceSeed, c.Load(ctx))
	assert.Equal(t, catalog.Seed(), c.Products())
	assert.Equal(t, SourceSeed, c.Source())

	var mirrored []models.Product
	found, err := m.Get(ctx, mirror.KeyProducts, &mirrored)
	require.NoError(t, err)
	require.True(t, found)
	assert.Len(t, mirrored, 20)
}

func TestCatalogLoad_FallsBackToMirror(t *testing.T) {
	ctx := context.Background()
	m := mirror.NewMemory()
	a := models.Product{ID: "a", Title: "A", Price: 10, Category: models.CategoryBooks}
	require.NoError(t, m.Put(ctx, mirror.KeyProducts, []models.Product{a}))

	c := NewCatalogStore(ctx, NewClient(unreachableURL(t), nil), m)
	assert.Equal(t, SourceMirror, c.Load(ctx))
	assert.Equal(t, []models.Product{a}, c.Products())
}

func TestCatalogLoad_MissingRouteCountsAsUnavailable(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c := NewCatalogStore(ctx, NewClient(srv.URL, nil), mirror.NewMemory())
	assert.Equal(t, SourceSeed, c.Load(ctx))
}

func TestCatalogLoad_RemoteOverwritesMirror(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	m := mirror.NewMemory()
	require.NoError(t, m.Put(ctx, mirror.KeyProducts, []models.Product{{ID: "stale", Title: "Stale"}}))

	c := NewCatalogStore(ctx, NewClient(b.url, nil), m)
	assert.Equal(t, SourceRemote, c.Load(ctx))
	assert.Len(t, c.Products(), 20)

	var mirrored []models.Product
	_, err := m.Get(ctx, mirror.KeyProducts, &mirrored)
	require.NoError(t, err)
	assert.Equal(t, c.Products(), mirrored)
}

func TestCatalog_LocalValidation(t *testing.T) {
	ctx := context.Background()
	c := NewCatalogStore(ctx, NewClient(unreachableURL(t), nil), mirror.NewMemory())
	c.Load(ctx)

	bad := lamp()
	bad.Title = ""
	_, err := c.Add(ctx, bad)
	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "title", verr.Field)

	p := lamp()
	p.ID = "1"
	_, err = c.Add(ctx, p)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	p.ID = "missing"
	assert.ErrorIs(t, c.Update(ctx, p), ErrNotFound)
	assert.ErrorIs(t, c.Remove(ctx, "missing"), ErrNotFound)
}

func TestCatalog_OfflineWritesAreKeptAndQueued(t *testing.T) {
	ctx := context.Background()
	m := mirror.NewMemory()
	c := NewCatalogStore(ctx, NewClient(unreachableURL(t), nil), m, WithRetryPolicy(fastRetry))
	c.Load(ctx)

	added, err := c.Add(ctx, lamp())
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)

	got, ok := c.Get(added.ID)
	require.True(t, ok)
	assert.Equal(t, "Desk Lamp", got.Title)

	added.Price = 39
	require.NoError(t, c.Update(ctx, added))
	require.NoError(t, c.Remove(ctx, "2"))

	_, ok = c.Get("2")
	assert.False(t, ok)
	assert.Equal(t, SyncStatus{Pending: 3}, c.SyncStatus())
	assert.Equal(t, "pending(3)", c.SyncStatus().String())

	// the mirror reflects every local change
	var mirrored []models.Product
	_, err = m.Get(ctx, mirror.KeyProducts, &mirrored)
	require.NoError(t, err)
	assert.Equal(t, c.Products(), mirrored)

	status, err := c.Sync(ctx)
	assert.ErrorIs(t, err, ErrNetworkUnavailable)
	assert.Equal(t, 3, status.Pending)

	// the outbox survives a restart
	restarted := NewCatalogStore(ctx, NewClient(unreachableURL(t), nil), m)
	assert.Equal(t, 3, restarted.SyncStatus().Pending)
}

func TestCatalog_SyncDeliversOutboxInOrder(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	sf := New(ctx, NewClient(b.url, nil), mirror.NewMemory(), Options{Retry: fastRetry})
	_, err := sf.Session.Login(ctx, DemoAdminEmail, "admin123")
	require.NoError(t, err)
	require.Equal(t, SourceRemote, sf.Catalog.Load(ctx))

	b.setDown(true)
	added, err := sf.Catalog.Add(ctx, lamp())
	require.NoError(t, err)
	added.Price = 39
	require.NoError(t, sf.Catalog.Update(ctx, added))
	require.NoError(t, sf.Catalog.Remove(ctx, "2"))
	assert.Equal(t, 3, sf.Catalog.SyncStatus().Pending)

	b.setDown(false)

	// a backend snapshot taken before the outbox drains still shows local changes
	assert.Equal(t, SourceRemote, sf.Catalog.Load(ctx))
	got, ok := sf.Catalog.Get(added.ID)
	require.True(t, ok)
	assert.Equal(t, 39.0, got.Price)
	_, ok = sf.Catalog.Get("2")
	assert.False(t, ok)

	status, err := sf.Catalog.Sync(ctx)
	require.NoError(t, err)
	assert.True(t, status.Synced())
	assert.Equal(t, "synced", status.String())

	remote, err := b.store.Products().Get(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, 39.0, remote.Price)
	_, err = b.store.Products().Get(ctx, "2")
	assert.Error(t, err)
}

func TestCatalog_OnlineWriteGoesStraightThrough(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	sf := New(ctx, NewClient(b.url, nil), mirror.NewMemory(), Options{Retry: fastRetry})
	_, err := sf.Session.Login(ctx, DemoAdminEmail, "admin123")
	require.NoError(t, err)
	sf.Catalog.Load(ctx)

	added, err := sf.Catalog.Add(ctx, lamp())
	require.NoError(t, err)
	assert.True(t, sf.Catalog.SyncStatus().Synced())

	remote, err := b.store.Products().Get(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, "Desk Lamp", remote.Title)
}

func TestCatalog_SyncDropsRejectedChanges(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	sf := New(ctx, NewClient(b.url, nil), mirror.NewMemory(), Options{Retry: fastRetry})
	// a regular shopper is not allowed to write products
	_, err := sf.Session.Register(ctx, "shopper@example.com", "secret1", "Shopper")
	require.NoError(t, err)
	sf.Catalog.Load(ctx)

	b.setDown(true)
	added, err := sf.Catalog.Add(ctx, lamp())
	require.NoError(t, err)
	require.Equal(t, 1, sf.Catalog.SyncStatus().Pending)

	b.setDown(false)
	status, err := sf.Catalog.Sync(ctx)
	require.NoError(t, err)
	assert.True(t, status.Synced())

	// the local change is kept even though the backend refused it
	_, ok := sf.Catalog.Get(added.ID)
	assert.True(t, ok)
	_, err = b.store.Products().Get(ctx, added.ID)
	assert.Error(t, err)
}

func TestCatalog_RefusedSessionKeepsChangesQueued(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	m := mirror.NewMemory()
	// an admin session restored after its token expired
	admin := models.Identity{ID: "admin", Name: "Admin", Email: DemoAdminEmail, IsAdmin: true}
	require.NoError(t, m.Put(ctx, mirror.KeyUser, admin))
	require.NoError(t, m.Put(ctx, mirror.KeyToken, "expired.token.value"))

	sf := New(ctx, NewClient(b.url, nil), m, Options{Retry: fastRetry})
	require.True(t, sf.Session.Authenticated())
	require.Equal(t, SourceRemote, sf.Catalog.Load(ctx))

	added, err := sf.Catalog.Add(ctx, lamp())
	require.NoError(t, err)
	assert.Equal(t, 1, sf.Catalog.SyncStatus().Pending)

	status, err := sf.Catalog.Sync(ctx)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.NotErrorIs(t, err, ErrNetworkUnavailable)
	assert.Equal(t, 1, status.Pending)

	require.Equal(t, SourceRemote, sf.Catalog.Load(ctx))
	_, ok := sf.Catalog.Get(added.ID)
	assert.True(t, ok, "a queued change survives a reload")

	_, err = sf.Session.Login(ctx, DemoAdminEmail, "admin123")
	require.NoError(t, err)
	status, err = sf.Catalog.Sync(ctx)
	require.NoError(t, err)
	assert.True(t, status.Synced())

	stored, err := b.store.Products().Get(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, "Desk Lamp", stored.Title)
}

func TestCatalogLoad_UnreadableMirrorSeeds(t *testing.T) {
	ctx := context.Background()
	m := mirror.NewMemory()
	require.NoError(t, m.Put(ctx, mirror.KeyProducts, map[string]string{"oops": "x"}))
	require.NoError(t, m.Put(ctx, mirror.KeyOutbox, "not a list"))

	c := NewCatalogStore(ctx, NewClient(unreachableURL(t), nil), m)
	assert.True(t, c.SyncStatus().Synced())
	assert.Equal(t, SourceSeed, c.Load(ctx))
	assert.Equal(t, catalog.Seed(), c.Products())

	var mirrored []models.Product
	found, err := m.Get(ctx, mirror.KeyProducts, &mirrored)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, catalog.Seed(), mirrored)
}

func TestCatalog_View(t *testing.T) {
	ctx := context.Background()
	m := mirror.NewMemory()
	a := models.Product{ID: "1", Title: "A", Price: 10, Category: models.CategoryBooks}
	b := models.Product{ID: "2", Title: "B", Price: 20, Category: models.CategoryHome}
	require.NoError(t, m.Put(ctx, mirror.KeyProducts, []models.Product{a, b}))

	c := NewCatalogStore(ctx, NewClient(unreachableURL(t), nil), m)
	c.Load(ctx)

	home := models.DefaultFilter()
	home.Category = models.CategoryHome
	assert.Equal(t, []models.Product{b}, c.View(home, ""))
	assert.Equal(t, []models.Product{b, a}, c.View(models.DefaultFilter(), models.SortPriceDesc))
}
