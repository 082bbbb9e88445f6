// internal/infrastructure/db/badger_credential_repository_test.go
package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadgerCredentialRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Missing key loads as empty", func(t *testing.T) {
		badgerDB, err := OpenBadger("", true)
		require.NoError(t, err)
		defer badgerDB.Close()

		repo := NewBadgerCredentialRepository(badgerDB)

		credential, err := repo.Load(ctx)
		assert.NoError(t, err)
		assert.Equal(t, "", credential)
	})

	t.Run("Save then load", func(t *testing.T) {
		badgerDB, err := OpenBadger("", true)
		require.NoError(t, err)
		defer badgerDB.Close()

		repo := NewBadgerCredentialRepository(badgerDB)

		require.NoError(t, repo.Save(ctx, "first-key"))
		require.NoError(t, repo.Save(ctx, "second-key"))

		credential, err := repo.Load(ctx)
		assert.NoError(t, err)
		assert.Equal(t, "second-key", credential)

		require.NoError(t, repo.Save(ctx, ""))
		credential, err = repo.Load(ctx)
		assert.NoError(t, err)
		assert.Equal(t, "", credential)
	})

	t.Run("Credential survives reopening", func(t *testing.T) {
		dir := t.TempDir()

		badgerDB, err := OpenBadger(dir, false)
		require.NoError(t, err)
		require.NoError(t, NewBadgerCredentialRepository(badgerDB).Save(ctx, "persisted-key"))
		require.NoError(t, badgerDB.Close())

		reopened, err := OpenBadger(dir, false)
		require.NoError(t, err)
		defer reopened.Close()

		credential, err := NewBadgerCredentialRepository(reopened).Load(ctx)
		assert.NoError(t, err)
		assert.Equal(t, "persisted-key", credential)
	})

	t.Run("Canceled context", func(t *testing.T) {
		badgerDB, err := OpenBadger("", true)
		require.NoError(t, err)
		defer badgerDB.Close()

		repo := NewBadgerCredentialRepository(badgerDB)
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		assert.ErrorIs(t, repo.Save(canceled, "key"), context.Canceled)
		_, err = repo.Load(canceled)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
