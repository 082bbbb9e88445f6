package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"
)

// CredentialKey is the fixed key the Wise API key is stored under
const CredentialKey = "wiseApiKey"

// BadgerCredentialRepository implements the credential repository interface using BadgerDB
type BadgerCredentialRepository struct {
	db  *badger.DB
	key []byte
}

// NewBadgerCredentialRepository creates a new BadgerDB credential repository
func NewBadgerCredentialRepository(db *badger.DB) *BadgerCredentialRepository {
	return &BadgerCredentialRepository{db: db, key: []byte(CredentialKey)}
}

// Load returns the stored credential, or an empty string when none was saved
func (r *BadgerCredentialRepository) Load(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var credential string
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(r.key)
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			credential = string(val)
			return nil
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", nil
	}

	if err != nil {
		return "", fmt.Errorf("failed to load credential: %w", err)
	}

	return credential, nil
}

// Save replaces the stored credential. An empty credential is stored as-is.
func (r *BadgerCredentialRepository) Save(ctx context.Context, credential string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(r.key, []byte(credential))
	})

	if err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}

	return nil
}

// OpenBadger opens a BadgerDB at path with Badger's own logger disabled
func OpenBadger(path string, inMemory bool) (*badger.DB, error) {
	opts := badger.DefaultOptions(path)
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return db, nil
}
