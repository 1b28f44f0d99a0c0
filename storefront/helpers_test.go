package storefront

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-storefront/config"
	"go-storefront/routes"
	"go-storefront/store"
	"go-storefront/utils"
)

var fastRetry = RetryPolicy{
	InitialInterval: time.Millisecond,
	MaxInterval:     5 * time.Millisecond,
	MaxTries:        3,
}

// switchable answers 503 while down and forwards to the real API otherwise
type switchable struct {
	mu   sync.Mutex
	down bool
	next http.Handler
}

func (s *switchable) setDown(down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.down = down
}

func (s *switchable) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	down := s.down
	s.mu.Unlock()
	if down {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
		return
	}
	s.next.ServeHTTP(w, r)
}

type backend struct {
	*switchable
	url   string
	store store.Store
}

// newBackend starts the real API over a seeded in-memory database
func newBackend(t *testing.T) *backend {
	t.Helper()
	ctx := context.Background()

	s, err := store.OpenSQLite("file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close(ctx) })
	require.NoError(t, store.Seed(ctx, s, "admin123"))

	sw := &switchable{next: routes.NewRouter(s,
		utils.NewEmailService(config.EmailConfig{Provider: "none"}),
		utils.NewGoogleVerifier("MOCK_GOOGLE_CLIENT_ID", true),
		false,
	)}
	srv := httptest.NewServer(sw)
	t.Cleanup(srv.Close)
	return &backend{switchable: sw, url: srv.URL, store: s}
}

// unreachableURL returns the address of a server that is no longer listening
func unreachableURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}
