package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes shopctl offline against the bolt mirror at db
func run(t *testing.T, db string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--api", "http://127.0.0.1:1", "--mirror", db}, args...))
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestShopctl_OfflineSession(t *testing.T) {
	db := filepath.Join(t.TempDir(), "mirror.db")

	out, errOut, err := run(t, db, "products", "list", "--category", "Electronics", "--sort", "price-asc")
	require.NoError(t, err)
	assert.Contains(t, errOut, "working offline (seed)")
	assert.Contains(t, out, "Minimalist Mechanical Keyboard")
	assert.NotContains(t, out, "Ergonomic Mesh Office Chair")

	_, errOut, err = run(t, db, "products", "get", "3")
	require.NoError(t, err)
	assert.Contains(t, errOut, "working offline (mirror)")

	_, _, err = run(t, db, "cart", "add", "3")
	require.NoError(t, err)
	out, _, err = run(t, db, "cart", "add", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "2 items  subtotal $240.00  tax $19.20  total $259.20")

	out, _, err = run(t, db, "cart", "set", "3", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "cart is empty")

	_, _, err = run(t, db, "cart", "set", "3", "two")
	assert.Error(t, err)
}

func TestShopctl_OfflineCatalogEdits(t *testing.T) {
	db := filepath.Join(t.TempDir(), "mirror.db")

	out, _, err := run(t, db, "products", "add", "--title", "Trail Socks", "--price", "12.5", "--category", "Sports", "--stock", "40")
	require.NoError(t, err)
	assert.Contains(t, out, "pending(1)")

	out, _, err = run(t, db, "products", "update", "3", "--price", "99")
	require.NoError(t, err)
	assert.Contains(t, out, "pending(2)")

	out, _, err = run(t, db, "products", "get", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "$99.00")
	assert.Contains(t, out, "stock:    35", "unchanged flags keep their values")

	out, _, err = run(t, db, "products", "list", "--query", "socks")
	require.NoError(t, err)
	assert.Contains(t, out, "Trail Socks")

	_, _, err = run(t, db, "products", "add", "--title", "Bad", "--category", "Toys")
	assert.Error(t, err)
}

func TestShopctl_DemoLogin(t *testing.T) {
	db := filepath.Join(t.TempDir(), "mirror.db")

	_, _, err := run(t, db, "login", "admin@jojos.com", "admin123")
	assert.EqualError(t, err, "invalid email or password")

	out, _, err := run(t, db, "--demo", "login", "admin@jojos.com", "admin123")
	require.NoError(t, err)
	assert.Contains(t, out, "admin (offline session)")

	out, _, err = run(t, db, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "<admin@jojos.com> admin")

	_, _, err = run(t, db, "logout")
	require.NoError(t, err)
	out, _, err = run(t, db, "whoami")
	require.NoError(t, err)
	assert.Equal(t, "anonymous\n", out)
}
