package config

import (
	"os"
	"path/filepath"
	"strconv"
)

// StoreType selects the token store implementation
type StoreType string

const (
	StoreTypeFile   StoreType = "file"
	StoreTypeRedis  StoreType = "redis"
	StoreTypeMemory StoreType = "memory"
)

type StoreConfig interface {
	GetStoreType() StoreType
	GetTokenFile() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetRedisKeyPrefix() string
	GetStorePassphrase() string
}

type Store struct{}

var _ StoreConfig = Store{}

func (Store) GetStoreType() StoreType {
	return StoreType(GetEnv("TOKEN_STORE", string(StoreTypeFile)))
}

// GetTokenFile returns the path of the file backed token store.
// Defaults to ~/.vehiclectl/tokens.json
func (Store) GetTokenFile() string {
	if f := os.Getenv("TOKEN_FILE"); f != "" {
		return f
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".vehiclectl", "tokens.json")
	}
	return filepath.Join(home, ".vehiclectl", "tokens.json")
}

func (Store) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "localhost:6379")
}

func (Store) GetRedisPassword() string {
	return GetEnv("REDIS_PASSWORD", "")
}

func (Store) GetRedisDB() int {
	db, err := strconv.Atoi(GetEnv("REDIS_DB", "0"))
	if err != nil {
		return 0
	}
	return db
}

func (Store) GetRedisKeyPrefix() string {
	return GetEnv("REDIS_KEY_PREFIX", "vehicles")
}

// GetStorePassphrase returns the passphrase used to encrypt stored tokens.
// Empty means tokens are stored in plaintext.
func (Store) GetStorePassphrase() string {
	return GetEnv("TOKEN_STORE_PASSPHRASE", "")
}
