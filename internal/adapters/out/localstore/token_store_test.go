// internal/adapters/out/localstore/token_store_test.go
package localstore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sweetshop/internal/adapters/out/localstore"
)

func newStore(t *testing.T) *localstore.TokenStore {
	t.Helper()

	s, err := localstore.NewTokenStore(filepath.Join(t.TempDir(), "credentials.json"))
	require.NoError(t, err)
	return s
}

func TestTokenStore(t *testing.T) {
	t.Run("MissingFileReadsEmpty", func(t *testing.T) {
		s := newStore(t)

		v, err := s.Get(localstore.TokenKey)
		require.NoError(t, err)
		assert.Empty(t, v)
	})

	t.Run("SetGetDelete", func(t *testing.T) {
		s := newStore(t)

		require.NoError(t, s.Set(localstore.TokenKey, "id-token"))
		v, err := s.Get(localstore.TokenKey)
		require.NoError(t, err)
		assert.Equal(t, "id-token", v)

		require.NoError(t, s.Delete(localstore.TokenKey))
		v, err = s.Get(localstore.TokenKey)
		require.NoError(t, err)
		assert.Empty(t, v)
	})

	t.Run("DeleteAbsentKeyIsNoop", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Delete("never-set"))
	})

	t.Run("ValuesSurviveReopen", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "credentials.json")

		s1, err := localstore.NewTokenStore(path)
		require.NoError(t, err)
		require.NoError(t, s1.Set(localstore.TokenKey, "persisted"))

		s2, err := localstore.NewTokenStore(path)
		require.NoError(t, err)
		v, err := s2.Get(localstore.TokenKey)
		require.NoError(t, err)
		assert.Equal(t, "persisted", v)
	})

	t.Run("FileIsOwnerOnly", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "credentials.json")

		s, err := localstore.NewTokenStore(path)
		require.NoError(t, err)
		require.NoError(t, s.Set(localstore.TokenKey, "secret"))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("CorruptFileStartsOver", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "credentials.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

		s, err := localstore.NewTokenStore(path)
		require.NoError(t, err)

		v, err := s.Get(localstore.TokenKey)
		require.NoError(t, err)
		assert.Empty(t, v)

		require.NoError(t, s.Set(localstore.TokenKey, "fresh"))
		v, err = s.Get(localstore.TokenKey)
		require.NoError(t, err)
		assert.Equal(t, "fresh", v)
	})

	t.Run("EmptyKeyRejected", func(t *testing.T) {
		s := newStore(t)

		_, err := s.Get(" ")
		assert.ErrorIs(t, err, localstore.ErrEmptyKey)
		assert.ErrorIs(t, s.Set("", "x"), localstore.ErrEmptyKey)
		assert.ErrorIs(t, s.Delete(""), localstore.ErrEmptyKey)
	})
}
