package storefront

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-storefront/mirror"
	"go-storefront/models"
	"go-storefront/utils"
)

func TestSession_RemoteRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	m := mirror.NewMemory()
	s := NewSessionStore(ctx, NewClient(b.url, nil), m, false)

	_, ok := s.Current()
	assert.False(t, ok)

	id, err := s.Register(ctx, "Jo@Example.com", "secret1", "Jo")
	require.NoError(t, err)
	assert.Equal(t, "jo@example.com", id.Email)
	assert.NotEmpty(t, s.Token())

	_, err = s.Register(ctx, "jo@example.com", "secret1", "Jo")
	assert.ErrorIs(t, err, ErrAlreadyExists)

	_, err = s.Login(ctx, "jo@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.NotErrorIs(t, err, ErrNetworkUnavailable)

	_, err = s.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	id, err = s.Login(ctx, "jo@example.com", "secret1")
	require.NoError(t, err)
	current, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, id, current)

	claims, err := utils.ParseJWT(s.Token())
	require.NoError(t, err)
	assert.Equal(t, id.ID, claims.UserID)
}

func TestSession_RestoresOnRestart(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	m := mirror.NewMemory()

	first := NewSessionStore(ctx, NewClient(b.url, nil), m, false)
	id, err := first.Login(ctx, DemoAdminEmail, "admin123")
	require.NoError(t, err)
	assert.True(t, id.IsAdmin)

	// trust-on-restore: no backend needed
	restarted := NewSessionStore(ctx, NewClient(unreachableURL(t), nil), m, false)
	restored, ok := restarted.Current()
	require.True(t, ok)
	assert.Equal(t, id, restored)
	assert.Equal(t, first.Token(), restarted.Token())

	restarted.Logout(ctx)
	assert.False(t, restarted.Authenticated())
	assert.Empty(t, restarted.Token())

	again := NewSessionStore(ctx, NewClient(unreachableURL(t), nil), m, false)
	assert.False(t, again.Authenticated())
}

func TestSession_IncompletePersistedIdentityIsIgnored(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		id   models.Identity
	}{
		{name: "name only", id: models.Identity{Name: "nobody"}},
		{name: "missing name", id: models.Identity{ID: "42", Email: "jo@example.com"}},
		{name: "missing email", id: models.Identity{ID: "42", Name: "Jo"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mirror.NewMemory()
			require.NoError(t, m.Put(ctx, mirror.KeyUser, tt.id))
			require.NoError(t, m.Put(ctx, mirror.KeyToken, "some.token"))

			s := NewSessionStore(ctx, NewClient(unreachableURL(t), nil), m, false)
			assert.False(t, s.Authenticated())
			assert.Empty(t, s.Token())
		})
	}
}

func TestSession_OfflineRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	m := mirror.NewMemory()
	s := NewSessionStore(ctx, NewClient(unreachableURL(t), nil), m, false)

	id, err := s.Register(ctx, "admin.jo@example.com", "secret1", "Jo")
	require.NoError(t, err)
	assert.False(t, id.IsAdmin, "substring rule only applies in demo mode")
	assert.Empty(t, s.Token())

	_, err = s.Register(ctx, "admin.jo@example.com", "secret1", "Jo")
	assert.ErrorIs(t, err, ErrAlreadyExists)

	s.Logout(ctx)
	_, err = s.Login(ctx, "admin.jo@example.com", "nope-nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.Login(ctx, "stranger@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	got, err := s.Login(ctx, "admin.jo@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	// the credential table never holds the password itself
	var accounts []offlineAccount
	found, err := m.Get(ctx, mirror.KeyCredentials, &accounts)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, accounts, 1)
	assert.NotEqual(t, "secret1", accounts[0].PasswordHash)
	assert.True(t, utils.CheckPassword(accounts[0].PasswordHash, "secret1"))
}

func TestSession_ValidationErrors(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStore(ctx, NewClient(unreachableURL(t), nil), mirror.NewMemory(), false)

	_, err := s.Register(ctx, "not-an-email", "secret1", "Jo")
	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "email", verr.Field)

	_, err = s.Register(ctx, "jo@example.com", "123", "Jo")
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "password", verr.Field)

	_, err = s.GoogleLogin(ctx, "")
	require.True(t, errors.As(err, &verr))
}

func TestSession_DemoModeShortcuts(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		demo bool
	}{
		{name: "demo mode", demo: true},
		{name: "normal mode", demo: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSessionStore(ctx, NewClient(unreachableURL(t), nil), mirror.NewMemory(), tt.demo)

			id, err := s.Login(ctx, DemoAdminEmail, DemoAdminPassword)
			if tt.demo {
				require.NoError(t, err)
				assert.True(t, id.IsAdmin)
			} else {
				assert.ErrorIs(t, err, ErrInvalidCredentials)
			}
			s.Logout(ctx)

			id, err = s.Register(ctx, "admin.someone@example.com", "secret1", "Someone")
			require.NoError(t, err)
			assert.Equal(t, tt.demo, id.IsAdmin)
			s.Logout(ctx)

			id, err = s.GoogleLogin(ctx, "google-id-token")
			if tt.demo {
				require.NoError(t, err)
				assert.Equal(t, demoGoogleEmail, id.Email)
				assert.False(t, id.IsAdmin)
			} else {
				assert.ErrorIs(t, err, ErrNetworkUnavailable)
				assert.False(t, s.Authenticated())
			}
		})
	}
}

func TestSession_GoogleLoginThroughBackend(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	s := NewSessionStore(ctx, NewClient(b.url, nil), mirror.NewMemory(), false)

	id, err := s.GoogleLogin(ctx, "any-token")
	require.NoError(t, err)
	assert.Equal(t, "demo.user@gmail.com", id.Email)
	assert.NotEmpty(t, s.Token())
}
