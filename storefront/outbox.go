package storefront

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-storefront/models"
)

// OutboxOp is the kind of catalog mutation waiting to reach the backend
type OutboxOp string

const (
	OpAdd    OutboxOp = "add"
	OpUpdate OutboxOp = "update"
	OpRemove OutboxOp = "remove"
)

// OutboxEntry is one queued catalog mutation
type OutboxEntry struct {
	Ref       string          `json:"ref"`
	Op        OutboxOp        `json:"op"`
	Product   *models.Product `json:"product,omitempty"`
	ProductID string          `json:"productId"`
	QueuedAt  time.Time       `json:"queuedAt"`
}

func newEntry(op OutboxOp, p *models.Product, id string) OutboxEntry {
	return OutboxEntry{
		Ref:       uuid.NewString(),
		Op:        op,
		Product:   p,
		ProductID: id,
		QueuedAt:  time.Now().UTC(),
	}
}

// SyncStatus reports whether local catalog changes have reached the backend
type SyncStatus struct {
	Pending int
}

// Synced reports whether nothing is waiting in the outbox
func (s SyncStatus) Synced() bool {
	return s.Pending == 0
}

func (s SyncStatus) String() string {
	if s.Synced() {
		return "synced"
	}
	return fmt.Sprintf("pending(%d)", s.Pending)
}

// RetryPolicy bounds how hard Sync retries one entry before giving up for now
type RetryPolicy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxTries        uint
}

// DefaultRetryPolicy is used when a CatalogStore is built without one
var DefaultRetryPolicy = RetryPolicy{
	InitialInterval: 500 * time.Millisecond,
	MaxInterval:     10 * time.Second,
	MaxTries:        5,
}

func (p RetryPolicy) backOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.MaxInterval = p.MaxInterval
	return b
}

// send pushes one entry to the backend
func send(ctx context.Context, remote Remote, e OutboxEntry) error {
	switch e.Op {
	case OpAdd:
		_, err := remote.CreateProduct(ctx, *e.Product)
		return err
	case OpUpdate:
		return remote.UpdateProduct(ctx, *e.Product)
	case OpRemove:
		err := remote.DeleteProduct(ctx, e.ProductID)
		if errors.Is(err, ErrNotFound) {
			// already gone
			return nil
		}
		return err
	}
	return fmt.Errorf("unknown outbox op %q", e.Op)
}

// deliver sends e with exponential backoff. Only ErrNetworkUnavailable is
// retried; any other failure is a definite rejection.
func deliver(ctx context.Context, remote Remote, e OutboxEntry, policy RetryPolicy) error {
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := send(ctx, remote, e)
		if err != nil && !errors.Is(err, ErrNetworkUnavailable) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	},
		backoff.WithBackOff(policy.backOff()),
		backoff.WithMaxTries(policy.MaxTries),
		backoff.WithNotify(func(err error, next time.Duration) {
			zap.L().Debug("outbox retry", zap.String("op", string(e.Op)), zap.String("product", e.ProductID), zap.Duration("next", next), zap.Error(err))
		}),
	)
	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		return permanent.Err
	}
	return err
}

// applyPending replays queued mutations over a backend snapshot so that
// local changes stay visible until they are delivered
func applyPending(products []models.Product, outbox []OutboxEntry) []models.Product {
	for _, e := range outbox {
		switch e.Op {
		case OpAdd, OpUpdate:
			if i := indexOf(products, e.Product.ID); i >= 0 {
				products[i] = *e.Product
			} else {
				products = append(products, *e.Product)
			}
		case OpRemove:
			if i := indexOf(products, e.ProductID); i >= 0 {
				products = append(products[:i], products[i+1:]...)
			}
		}
	}
	return products
}

func indexOf(products []models.Product, id string) int {
	for i, p := range products {
		if p.ID == id {
			return i
		}
	}
	return -1
}
