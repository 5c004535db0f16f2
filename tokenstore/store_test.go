package tokenstore_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jrsteele09/vehicles-auth-client/internal/config"
	ierrors "github.com/jrsteele09/vehicles-auth-client/internal/errors"
	"github.com/jrsteele09/vehicles-auth-client/tokenstore"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type storeCase struct {
	name  string
	build func(t *testing.T) tokenstore.Store
}

func newRedisStore(t *testing.T) (*tokenstore.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return tokenstore.NewRedisStore(client, "test"), mr
}

func allStores() []storeCase {
	return []storeCase{
		{"memory", func(t *testing.T) tokenstore.Store { return tokenstore.NewMemoryStore() }},
		{"file", func(t *testing.T) tokenstore.Store {
			return tokenstore.NewFileStore(filepath.Join(t.TempDir(), "nested", "tokens.json"))
		}},
		{"redis", func(t *testing.T) tokenstore.Store {
			s, _ := newRedisStore(t)
			return s
		}},
		{"encrypted", func(t *testing.T) tokenstore.Store {
			s, err := tokenstore.NewEncryptedStore(tokenstore.NewMemoryStore(), "correct horse", nil)
			require.NoError(t, err)
			return s
		}},
	}
}

func TestStore_Contract(t *testing.T) {
	ctx := context.Background()

	for _, tc := range allStores() {
		t.Run(tc.name, func(t *testing.T) {
			s := tc.build(t)

			access, err := s.AccessToken(ctx)
			require.NoError(t, err)
			require.Empty(t, access, "new store should be empty")
			refresh, err := s.RefreshToken(ctx)
			require.NoError(t, err)
			require.Empty(t, refresh)

			require.NoError(t, s.SetTokens(ctx, "a1", "r1"))
			access, err = s.AccessToken(ctx)
			require.NoError(t, err)
			require.Equal(t, "a1", access)
			refresh, err = s.RefreshToken(ctx)
			require.NoError(t, err)
			require.Equal(t, "r1", refresh)

			require.NoError(t, s.SetTokens(ctx, "a2", "r2"), "overwrite should succeed")
			access, _ = s.AccessToken(ctx)
			require.Equal(t, "a2", access)

			require.NoError(t, s.Clear(ctx))
			require.NoError(t, s.Clear(ctx), "clearing an empty store is a no-op")
			access, err = s.AccessToken(ctx)
			require.NoError(t, err)
			require.Empty(t, access)
			refresh, err = s.RefreshToken(ctx)
			require.NoError(t, err)
			require.Empty(t, refresh)
		})
	}
}

func TestFileStore_SharedAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tokens.json")

	first := tokenstore.NewFileStore(path)
	require.NoError(t, first.SetTokens(ctx, "access", "refresh"))

	second := tokenstore.NewFileStore(path)
	access, err := second.AccessToken(ctx)
	require.NoError(t, err)
	require.Equal(t, "access", access)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, second.Clear(ctx))
	access, err = first.AccessToken(ctx)
	require.NoError(t, err)
	require.Empty(t, access)
}

func TestFileStore_CorruptFileFailsLoudly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := tokenstore.NewFileStore(path).AccessToken(context.Background())
	require.ErrorIs(t, err, tokenstore.ErrCorrupt)
}

func TestRedisStore_KeysAndUnavailable(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	s := tokenstore.NewRedisStore(client, "test")

	require.NoError(t, s.SetTokens(ctx, "a", "r"))
	val, err := mr.Get("test:access_token")
	require.NoError(t, err)
	require.Equal(t, "a", val)
	val, err = mr.Get("test:refresh_token")
	require.NoError(t, err)
	require.Equal(t, "r", val)

	mr.Close()
	_, err = s.AccessToken(ctx)
	require.ErrorIs(t, err, ierrors.ErrStorageUnavailable)
}

func TestEncryptedStore(t *testing.T) {
	ctx := context.Background()
	inner := tokenstore.NewMemoryStore()

	s, err := tokenstore.NewEncryptedStore(inner, "passphrase", []byte("salt-1234"))
	require.NoError(t, err)
	require.NoError(t, s.SetTokens(ctx, "plain-access", "plain-refresh"))

	raw, _ := inner.AccessToken(ctx)
	require.True(t, strings.HasPrefix(raw, "sealed:v1:"))
	require.NotContains(t, raw, "plain-access")

	t.Run("wrong passphrase", func(t *testing.T) {
		other, err := tokenstore.NewEncryptedStore(inner, "other", []byte("salt-1234"))
		require.NoError(t, err)
		_, err = other.AccessToken(ctx)
		require.ErrorIs(t, err, tokenstore.ErrCorrupt)
	})

	t.Run("unsealed value", func(t *testing.T) {
		require.NoError(t, inner.SetTokens(ctx, "raw", ""))
		_, err := s.AccessToken(ctx)
		require.ErrorIs(t, err, tokenstore.ErrCorrupt)
		refresh, err := s.RefreshToken(ctx)
		require.NoError(t, err)
		require.Empty(t, refresh)
	})

	t.Run("empty passphrase", func(t *testing.T) {
		_, err := tokenstore.NewEncryptedStore(inner, "", nil)
		require.Error(t, err)
	})
}

func TestNew_SelectsStoreFromConfig(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		t.Setenv("TOKEN_STORE", "memory")
		t.Setenv("TOKEN_STORE_PASSPHRASE", "")
		s, err := tokenstore.New(config.New())
		require.NoError(t, err)
		require.IsType(t, &tokenstore.MemoryStore{}, s)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "t.json")
		t.Setenv("TOKEN_STORE", "file")
		t.Setenv("TOKEN_FILE", path)
		t.Setenv("TOKEN_STORE_PASSPHRASE", "")
		s, err := tokenstore.New(config.New())
		require.NoError(t, err)
		fs, ok := s.(*tokenstore.FileStore)
		require.True(t, ok)
		require.Equal(t, path, fs.Path())
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		t.Setenv("TOKEN_STORE", "redis")
		t.Setenv("REDIS_ADDR", mr.Addr())
		t.Setenv("TOKEN_STORE_PASSPHRASE", "")
		s, err := tokenstore.New(config.New())
		require.NoError(t, err)
		require.NoError(t, s.SetTokens(context.Background(), "a", "r"))
		require.True(t, mr.Exists("vehicles:access_token"))
	})

	t.Run("encrypted", func(t *testing.T) {
		t.Setenv("TOKEN_STORE", "memory")
		t.Setenv("TOKEN_STORE_PASSPHRASE", "secret")
		s, err := tokenstore.New(config.New())
		require.NoError(t, err)
		require.IsType(t, &tokenstore.EncryptedStore{}, s)
	})

	t.Run("unknown", func(t *testing.T) {
		t.Setenv("TOKEN_STORE", "floppy")
		_, err := tokenstore.New(config.New())
		require.ErrorIs(t, err, ierrors.ErrUnsupported)
	})
}
