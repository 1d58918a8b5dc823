// Hubforge - Collaborative Code Hosting API
// Copyright 2026 Dev A. (devan815)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devan815/hubforge

// Package store implements the durable document store backing Hubforge.
//
// Documents live in named collections inside a single BadgerDB instance.
// Keys are prefixed:
//
//	doc:<collection>:<id>        JSON document
//	idx:users:username:<value>   unique index entry -> user id
//	idx:users:email:<value>      unique index entry -> user id
//
// Uniqueness is enforced inside a single read-write transaction, so two
// concurrent signups with the same username cannot both commit.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/devan815/hubforge/internal/config"
	"github.com/devan815/hubforge/internal/logging"
	"github.com/devan815/hubforge/internal/metrics"
)

// Collection names.
const (
	CollectionUsers        = "users"
	CollectionRepositories = "repositories"
	CollectionIssues       = "issues"
)

// Store owns the BadgerDB handle. Construct one at startup with Open and
// share it; it is safe for concurrent use and must be closed on shutdown.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the store at the configured path.
func Open(cfg *config.DatabaseConfig) (*Store, error) {
	opts := badger.DefaultOptions(cfg.Path).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open store at %s: %w", cfg.Path, err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RunGC runs Badger value-log garbage collection on the given interval
// until the context is cancelled. Call it in a goroutine from main.
func (s *Store) RunGC(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// ErrNoRewrite means there was nothing to collect.
			if err := s.db.RunValueLogGC(0.5); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				logging.Warn().Err(err).Msg("Value log GC failed")
			}
		}
	}
}

// updateWithRetry runs a read-write transaction, retrying on Badger's
// optimistic-concurrency conflict. A retried transaction re-reads the
// index keys, so a signup that lost a race surfaces as a typed duplicate
// error rather than a raw conflict.
func (s *Store) updateWithRetry(fn func(txn *badger.Txn) error) error {
	for {
		err := s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
}

// NewID returns a fresh document identifier.
func NewID() string {
	return uuid.New().String()
}

// ValidID reports whether s has the store's identifier shape (UUID).
func ValidID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// docKey builds the primary key for a document.
func docKey(collection, id string) []byte {
	return []byte("doc:" + collection + ":" + id)
}

// docPrefix builds the iteration prefix for a collection.
func docPrefix(collection string) []byte {
	return []byte("doc:" + collection + ":")
}

// indexKey builds a unique index key. The value is lowercased so that
// uniqueness is case-insensitive.
func indexKey(collection, field, value string) []byte {
	return []byte("idx:" + collection + ":" + field + ":" + strings.ToLower(value))
}

// FindByID fetches a raw document from the named collection. The result is
// the decoded JSON object; ErrNotFound when either the collection holds no
// such id or the collection name is unknown.
func (s *Store) FindByID(ctx context.Context, collection, id string) (map[string]any, error) {
	start := time.Now()
	var doc map[string]any

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(docKey(collection, id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get %s/%s: %w", collection, id, err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &doc)
		})
	})
	metrics.ObserveStoreOperation("find_by_id", collection, start, err)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// putDoc marshals v and writes it under the document key.
func putDoc(txn *badger.Txn, collection, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s document: %w", collection, err)
	}
	return txn.Set(docKey(collection, id), data)
}

// getDoc reads the document into out; ErrNotFound when absent.
func getDoc(txn *badger.Txn, collection, id string, out any) error {
	item, err := txn.Get(docKey(collection, id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, out)
	})
}

// scanCollection iterates every document in a collection, decoding each
// into a fresh value produced by newT and passing it to keep. Iteration
// order is key order; callers must not retain the transaction.
func scanCollection[T any](txn *badger.Txn, collection string, keep func(T) bool) ([]T, error) {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = true
	it := txn.NewIterator(opts)
	defer it.Close()

	var results []T
	prefix := docPrefix(collection)
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		var doc T
		err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &doc)
		})
		if err != nil {
			return nil, fmt.Errorf("decode %s document: %w", collection, err)
		}
		if keep == nil || keep(doc) {
			results = append(results, doc)
		}
	}
	return results, nil
}
