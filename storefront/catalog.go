package storefront

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"go-storefront/catalog"
	"go-storefront/mirror"
	"go-storefront/models"
	"go-storefront/utils"
)

// Source names where the catalog currently shown was loaded from
type Source string

const (
	SourceNone   Source = ""
	SourceRemote Source = "remote"
	SourceMirror Source = "mirror"
	SourceSeed   Source = "seed"
)

// CatalogStore holds the product list and keeps the local mirror in step
// with it. Writes are applied locally first; the backend call follows and a
// failure leaves the change queued in the outbox until Sync delivers it.
//
// State changes are applied under one lock in the order they complete, so
// the latest completion wins.
type CatalogStore struct {
	remote Remote
	mirror mirror.Mirror
	policy RetryPolicy

	mu       sync.Mutex
	products []models.Product
	outbox   []OutboxEntry
	source   Source
}

// CatalogOption customises a CatalogStore
type CatalogOption func(*CatalogStore)

// WithRetryPolicy overrides DefaultRetryPolicy for Sync
func WithRetryPolicy(p RetryPolicy) CatalogOption {
	return func(c *CatalogStore) {
		c.policy = p
	}
}

// NewCatalogStore builds a store over remote and m, restoring any
// outbox entries left by a previous run
func NewCatalogStore(ctx context.Context, remote Remote, m mirror.Mirror, opts ...CatalogOption) *CatalogStore {
	c := &CatalogStore{
		remote: remote,
		mirror: m,
		policy: DefaultRetryPolicy,
	}
	for _, opt := range opts {
		opt(c)
	}
	if _, err := m.Get(ctx, mirror.KeyOutbox, &c.outbox); err != nil {
		zap.L().Warn("failed to restore catalog outbox", zap.Error(err))
		c.outbox = nil
	}
	return c
}

// Load replaces the product list from the backend, falling back to the
// mirror and then to the built-in catalog when the mirror holds nothing
// readable. It never fails; the returned
// Source says which of the three won.
func (c *CatalogStore) Load(ctx context.Context) Source {
	products, err := c.remote.ListProducts(ctx)
	if err == nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.products = applyPending(products, c.outbox)
		c.source = SourceRemote
		c.persistProductsLocked(ctx)
		return SourceRemote
	}
	zap.L().Warn("failed to fetch products from backend, using local copy", zap.Error(err))

	var mirrored []models.Product
	found, err := c.mirror.Get(ctx, mirror.KeyProducts, &mirrored)
	if err != nil {
		zap.L().Warn("failed to read product mirror", zap.Error(err))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if found && err == nil {
		c.products = mirrored
		c.source = SourceMirror
		return SourceMirror
	}
	c.products = catalog.Seed()
	c.source = SourceSeed
	c.persistProductsLocked(ctx)
	return SourceSeed
}

// Source returns where the last Load took the list from
func (c *CatalogStore) Source() Source {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.source
}

// Products returns a copy of the current list
func (c *CatalogStore) Products() []models.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	res := make([]models.Product, len(c.products))
	copy(res, c.products)
	return res
}

// Get looks a product up by id
func (c *CatalogStore) Get(id string) (models.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := indexOf(c.products, id); i >= 0 {
		return c.products[i], true
	}
	return models.Product{}, false
}

// View returns the products matching f in the order selected by sort
func (c *CatalogStore) View(f models.FilterState, sort models.SortOption) []models.Product {
	return catalog.Apply(c.Products(), f, sort)
}

// Add validates p and appends it, generating an id when p has none
func (c *CatalogStore) Add(ctx context.Context, p models.Product) (models.Product, error) {
	if p.ID == "" {
		p.ID = utils.NewID()
	}
	if err := models.Validate(p); err != nil {
		return models.Product{}, err
	}

	c.mu.Lock()
	if indexOf(c.products, p.ID) >= 0 {
		c.mu.Unlock()
		return models.Product{}, fmt.Errorf("product %s: %w", p.ID, ErrAlreadyExists)
	}
	c.products = append(c.products, p)
	c.persistProductsLocked(ctx)
	c.mu.Unlock()

	c.push(ctx, newEntry(OpAdd, &p, p.ID))
	return p, nil
}

// Update replaces the product with the same id
func (c *CatalogStore) Update(ctx context.Context, p models.Product) error {
	if err := models.Validate(p); err != nil {
		return err
	}

	c.mu.Lock()
	i := indexOf(c.products, p.ID)
	if i < 0 {
		c.mu.Unlock()
		return fmt.Errorf("product %s: %w", p.ID, ErrNotFound)
	}
	c.products[i] = p
	c.persistProductsLocked(ctx)
	c.mu.Unlock()

	c.push(ctx, newEntry(OpUpdate, &p, p.ID))
	return nil
}

// Remove deletes the product with id
func (c *CatalogStore) Remove(ctx context.Context, id string) error {
	c.mu.Lock()
	i := indexOf(c.products, id)
	if i < 0 {
		c.mu.Unlock()
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	c.products = append(c.products[:i], c.products[i+1:]...)
	c.persistProductsLocked(ctx)
	c.mu.Unlock()

	c.push(ctx, newEntry(OpRemove, nil, id))
	return nil
}

// SyncStatus reports how many mutations still wait for the backend
func (c *CatalogStore) SyncStatus() SyncStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return SyncStatus{Pending: len(c.outbox)}
}

// Sync delivers queued mutations in order. It stops at the first entry
// the backend cannot be reached for, or that it refuses for want of a valid
// session, and returns that error. Entries the backend rejects outright are
// logged and dropped.
func (c *CatalogStore) Sync(ctx context.Context) (SyncStatus, error) {
	for {
		c.mu.Lock()
		if len(c.outbox) == 0 {
			c.mu.Unlock()
			return SyncStatus{}, nil
		}
		e := c.outbox[0]
		c.mu.Unlock()

		err := deliver(ctx, c.remote, e, c.policy)
		if err != nil && (retainable(err) || ctx.Err() != nil) {
			return c.SyncStatus(), err
		}
		if err != nil {
			zap.L().Warn("backend rejected queued change, dropping it",
				zap.String("op", string(e.Op)), zap.String("product", e.ProductID), zap.Error(err))
		}

		c.mu.Lock()
		c.dropLocked(ctx, e.Ref)
		c.mu.Unlock()
	}
}

// push sends e straight away unless older entries are queued, in which
// case it joins the queue so the backend sees changes in order
func (c *CatalogStore) push(ctx context.Context, e OutboxEntry) {
	c.mu.Lock()
	if len(c.outbox) > 0 {
		c.enqueueLocked(ctx, e)
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	err := send(ctx, c.remote, e)
	switch {
	case err == nil:
		return
	case retainable(err):
		zap.L().Warn("backend unavailable or session refused, queueing local change",
			zap.String("op", string(e.Op)), zap.String("product", e.ProductID), zap.Error(err))
		c.mu.Lock()
		c.enqueueLocked(ctx, e)
		c.mu.Unlock()
	default:
		zap.L().Warn("backend rejected change, keeping local change",
			zap.String("op", string(e.Op)), zap.String("product", e.ProductID), zap.Error(err))
	}
}

func (c *CatalogStore) enqueueLocked(ctx context.Context, e OutboxEntry) {
	c.outbox = append(c.outbox, e)
	c.persistOutboxLocked(ctx)
}

func (c *CatalogStore) dropLocked(ctx context.Context, ref string) {
	for i, e := range c.outbox {
		if e.Ref == ref {
			c.outbox = append(c.outbox[:i], c.outbox[i+1:]...)
			break
		}
	}
	c.persistOutboxLocked(ctx)
}

func (c *CatalogStore) persistProductsLocked(ctx context.Context) {
	if err := c.mirror.Put(ctx, mirror.KeyProducts, c.products); err != nil {
		zap.L().Warn("failed to write product mirror", zap.Error(err))
	}
}

func (c *CatalogStore) persistOutboxLocked(ctx context.Context) {
	var err error
	if len(c.outbox) == 0 {
		err = c.mirror.Delete(ctx, mirror.KeyOutbox)
	} else {
		err = c.mirror.Put(ctx, mirror.KeyOutbox, c.outbox)
	}
	if err != nil {
		zap.L().Warn("failed to write catalog outbox", zap.Error(err))
	}
}
