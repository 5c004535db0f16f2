package tokenstore

import (
	"fmt"

	"github.com/jrsteele09/vehicles-auth-client/internal/config"
	ierrors "github.com/jrsteele09/vehicles-auth-client/internal/errors"
	"github.com/redis/go-redis/v9"
)

// New creates the store selected by cfg. When a passphrase is configured the
// store is wrapped in an EncryptedStore.
func New(cfg config.StoreConfig) (Store, error) {
	var store Store

	switch cfg.GetStoreType() {
	case config.StoreTypeFile:
		store = NewFileStore(cfg.GetTokenFile())
	case config.StoreTypeRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.GetRedisAddr(),
			Password: cfg.GetRedisPassword(),
			DB:       cfg.GetRedisDB(),
		})
		store = NewRedisStore(client, cfg.GetRedisKeyPrefix())
	case config.StoreTypeMemory:
		store = NewMemoryStore()
	default:
		return nil, fmt.Errorf("[tokenstore New] %w: store type %q", ierrors.ErrUnsupported, cfg.GetStoreType())
	}

	if passphrase := cfg.GetStorePassphrase(); passphrase != "" {
		encrypted, err := NewEncryptedStore(store, passphrase, nil)
		if err != nil {
			return nil, fmt.Errorf("[tokenstore New] %w", err)
		}
		return encrypted, nil
	}
	return store, nil
}
