package utils

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-storefront/catalog"
	"go-storefront/models"
)

func TestGenerateAndParseJWT(t *testing.T) {
	user := models.User{ID: "42", Email: "jo@example.com", IsAdmin: true}

	token, err := GenerateJWT(user)
	require.NoError(t, err)

	claims, err := ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, models.Identity{ID: "42", Email: "jo@example.com", IsAdmin: true}, claims.Identity())
}

func TestParseJWT_Rejects(t *testing.T) {
	user := models.User{ID: "42", Email: "jo@example.com"}

	t.Run("wrong key", func(t *testing.T) {
		token, err := GenerateJWT(user)
		require.NoError(t, err)

		saved := JwtKey
		JwtKey = []byte("another-key")
		defer func() { JwtKey = saved }()

		_, err = ParseJWT(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		saved := TokenTTL
		TokenTTL = -time.Minute
		defer func() { TokenTTL = saved }()

		token, err := GenerateJWT(user)
		require.NoError(t, err)

		_, err = ParseJWT(token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseJWT("not.a.token")
		assert.Error(t, err)
	})
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("admin123")
	require.NoError(t, err)

	assert.NotEqual(t, "admin123", hash)
	assert.True(t, CheckPassword(hash, "admin123"))
	assert.False(t, CheckPassword(hash, "admin124"))
	assert.False(t, CheckPassword("", "admin123"))
}

func TestNewID_IsTimeOrdered(t *testing.T) {
	prev := NewID()
	for i := 0; i < 50; i++ {
		next := NewID()
		assert.True(t, catalog.NewerID(next, prev), "%s should be newer than %s", next, prev)
		prev = next
	}
}

func TestMockGoogleVerifier(t *testing.T) {
	v := NewGoogleVerifier("MOCK", true)

	profile, err := v.Verify(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, "demo.user@gmail.com", profile.Email)

	_, err = v.Verify(context.Background(), "")
	assert.Error(t, err)
}

type recordingMailer struct {
	to, subject, body string
}

func (m *recordingMailer) Send(to, subject, body string) error {
	m.to, m.subject, m.body = to, subject, body
	return nil
}

func TestEmailService_OrderConfirmation(t *testing.T) {
	m := &recordingMailer{}
	es := NewEmailServiceWith(m)

	order := models.Order{
		ID:            "o-1",
		Lines:         []models.CartLine{{Product: models.Product{Title: "Mug", Price: 35}, Quantity: 2}},
		Subtotal:      70,
		Tax:           5.6,
		Total:         75.6,
		Shipping:      models.Shipping{Name: "Jo"},
		PaymentMethod: models.PaymentCard,
		PaymentStatus: models.PaymentCompleted,
	}
	require.NoError(t, es.SendOrderConfirmationEmail("jo@example.com", order))

	assert.Equal(t, "jo@example.com", m.to)
	assert.Contains(t, m.body, "o-1")
	assert.Contains(t, m.body, "$75.60")
	assert.Contains(t, m.body, "2 × Mug")
}
