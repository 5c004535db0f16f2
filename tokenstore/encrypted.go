package tokenstore

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	sealedPrefix = "sealed:v1:"
	nonceSize    = 24
	keySize      = 32
)

// DefaultSalt is mixed into the passphrase when no salt is supplied
var DefaultSalt = []byte("vehicles-auth-client/tokenstore")

var _ Store = (*EncryptedStore)(nil)

// EncryptedStore seals token values with NaCl secretbox before handing them to
// the wrapped store. The key is derived once from a passphrase with argon2id.
// Empty values are stored as-is so absence survives the round trip.
type EncryptedStore struct {
	inner Store
	key   [keySize]byte
}

// NewEncryptedStore wraps inner. salt may be nil, in which case DefaultSalt is used.
func NewEncryptedStore(inner Store, passphrase string, salt []byte) (*EncryptedStore, error) {
	if passphrase == "" {
		return nil, errors.New("[NewEncryptedStore] empty passphrase")
	}
	if len(salt) == 0 {
		salt = DefaultSalt
	}
	e := &EncryptedStore{inner: inner}
	copy(e.key[:], argon2.IDKey([]byte(passphrase), salt, 1, 64*1024, 4, keySize))
	return e, nil
}

func (e *EncryptedStore) SetTokens(ctx context.Context, access, refresh string) error {
	sealedAccess, err := e.seal(access)
	if err != nil {
		return err
	}
	sealedRefresh, err := e.seal(refresh)
	if err != nil {
		return err
	}
	return e.inner.SetTokens(ctx, sealedAccess, sealedRefresh)
}

func (e *EncryptedStore) AccessToken(ctx context.Context) (string, error) {
	v, err := e.inner.AccessToken(ctx)
	if err != nil {
		return "", err
	}
	return e.open(v)
}

func (e *EncryptedStore) RefreshToken(ctx context.Context) (string, error) {
	v, err := e.inner.RefreshToken(ctx)
	if err != nil {
		return "", err
	}
	return e.open(v)
}

func (e *EncryptedStore) Clear(ctx context.Context) error {
	return e.inner.Clear(ctx)
}

func (e *EncryptedStore) seal(plain string) (string, error) {
	if plain == "" {
		return "", nil
	}
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("[EncryptedStore seal] nonce: %w", err)
	}
	box := secretbox.Seal(nonce[:], []byte(plain), &nonce, &e.key)
	return sealedPrefix + base64.RawStdEncoding.EncodeToString(box), nil
}

func (e *EncryptedStore) open(stored string) (string, error) {
	if stored == "" {
		return "", nil
	}
	if !strings.HasPrefix(stored, sealedPrefix) {
		return "", fmt.Errorf("[EncryptedStore open] value is not sealed: %w", ErrCorrupt)
	}
	box, err := base64.RawStdEncoding.DecodeString(strings.TrimPrefix(stored, sealedPrefix))
	if err != nil || len(box) < nonceSize+secretbox.Overhead {
		return "", fmt.Errorf("[EncryptedStore open] malformed value: %w", ErrCorrupt)
	}
	var nonce [nonceSize]byte
	copy(nonce[:], box[:nonceSize])
	plain, ok := secretbox.Open(nil, box[nonceSize:], &nonce, &e.key)
	if !ok {
		return "", fmt.Errorf("[EncryptedStore open] wrong passphrase or tampered value: %w", ErrCorrupt)
	}
	return string(plain), nil
}
