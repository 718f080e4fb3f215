package services

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"detailstudio-backend/models"
	"detailstudio-backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureAdmin(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	created, err := EnsureAdmin(ctx, db, "Owner", " Owner@Example.com ", "s3cret!")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = EnsureAdmin(ctx, db, "Owner", "owner@example.com", "different")
	require.NoError(t, err)
	assert.False(t, created)

	var admin models.Admin
	require.NoError(t, db.First(&admin, "email = ?", "owner@example.com").Error)
	assert.Equal(t, models.RoleSuperAdmin, admin.Role)
	assert.True(t, utils.CheckPasswordHash("s3cret!", admin.PasswordHash), "first password kept")

	created, err = EnsureAdmin(ctx, db, "Nobody", "", "")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestLocalStoreSave(t *testing.T) {
	dir := t.TempDir()
	store := &LocalStore{Dir: filepath.Join(dir, "uploads"), BaseURL: "https://studio.example/"}

	url, err := store.Save(context.Background(), bytes.NewReader([]byte("fake png")), ".png")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "https://studio.example/uploads/"), url)
	assert.True(t, strings.HasSuffix(url, ".png"))

	data, err := os.ReadFile(filepath.Join(store.Dir, filepath.Base(url)))
	require.NoError(t, err)
	assert.Equal(t, "fake png", string(data))
}
