// Hubforge - Collaborative Code Hosting API
// Copyright 2026 Dev A. (devan815)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devan815/hubforge

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/devan815/hubforge/internal/metrics"
	"github.com/devan815/hubforge/internal/models"
)

// CreateUser inserts a new principal record. The ID and CreatedAt fields
// are assigned here. Username and email uniqueness is checked and the
// index entries written inside the same transaction as the document, so a
// concurrent signup with the same username or email fails with the typed
// duplicate error instead of silently winning a check-then-act race.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	start := time.Now()
	user.ID = NewID()
	user.CreatedAt = time.Now().UTC()
	if user.Repositories == nil {
		user.Repositories = []string{}
	}
	if user.FollowedUsers == nil {
		user.FollowedUsers = []string{}
	}
	if user.StarRepos == nil {
		user.StarRepos = []string{}
	}

	err := s.updateWithRetry(func(txn *badger.Txn) error {
		usernameKey := indexKey(CollectionUsers, "username", user.Username)
		if _, err := txn.Get(usernameKey); err == nil {
			return ErrDuplicateUsername
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check username index: %w", err)
		}

		emailKey := indexKey(CollectionUsers, "email", user.Email)
		if _, err := txn.Get(emailKey); err == nil {
			return ErrDuplicateEmail
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check email index: %w", err)
		}

		if err := txn.Set(usernameKey, []byte(user.ID)); err != nil {
			return fmt.Errorf("set username index: %w", err)
		}
		if err := txn.Set(emailKey, []byte(user.ID)); err != nil {
			return fmt.Errorf("set email index: %w", err)
		}
		return putDoc(txn, CollectionUsers, user.ID, user)
	})
	metrics.ObserveStoreOperation("create", CollectionUsers, start, err)
	return err
}

// GetUserByID fetches a user by identifier.
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	start := time.Now()
	var user models.User
	err := s.db.View(func(txn *badger.Txn) error {
		return getDoc(txn, CollectionUsers, id, &user)
	})
	metrics.ObserveStoreOperation("get", CollectionUsers, start, err)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername fetches a user via the username index.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getUserByIndex(ctx, "username", username)
}

// GetUserByEmail fetches a user via the email index.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUserByIndex(ctx, "email", email)
}

func (s *Store) getUserByIndex(ctx context.Context, field, value string) (*models.User, error) {
	start := time.Now()
	var user models.User
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(indexKey(CollectionUsers, field, value))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get %s index: %w", field, err)
		}

		var id string
		if err := item.Value(func(val []byte) error {
			id = string(val)
			return nil
		}); err != nil {
			return err
		}
		return getDoc(txn, CollectionUsers, id, &user)
	})
	metrics.ObserveStoreOperation("get_by_"+field, CollectionUsers, start, err)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns all principal records.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	start := time.Now()
	var users []models.User
	err := s.db.View(func(txn *badger.Txn) error {
		var scanErr error
		users, scanErr = scanCollection[models.User](txn, CollectionUsers, nil)
		return scanErr
	})
	metrics.ObserveStoreOperation("list", CollectionUsers, start, err)
	if err != nil {
		return nil, err
	}
	return users, nil
}

// SaveUser persists changes to an existing user. When the username or
// email changed, the old index entries are replaced and the new values
// checked for conflicts, all within one transaction.
func (s *Store) SaveUser(ctx context.Context, user *models.User) error {
	start := time.Now()
	err := s.updateWithRetry(func(txn *badger.Txn) error {
		var existing models.User
		if err := getDoc(txn, CollectionUsers, user.ID, &existing); err != nil {
			return err
		}

		if err := s.reindexField(txn, "username", existing.Username, user.Username, user.ID, ErrDuplicateUsername); err != nil {
			return err
		}
		if err := s.reindexField(txn, "email", existing.Email, user.Email, user.ID, ErrDuplicateEmail); err != nil {
			return err
		}
		return putDoc(txn, CollectionUsers, user.ID, user)
	})
	metrics.ObserveStoreOperation("save", CollectionUsers, start, err)
	return err
}

// reindexField moves a unique index entry from oldValue to newValue,
// failing with dupErr when another user already claims newValue.
func (s *Store) reindexField(txn *badger.Txn, field, oldValue, newValue, userID string, dupErr error) error {
	if oldValue == newValue {
		return nil
	}

	newKey := indexKey(CollectionUsers, field, newValue)
	if item, err := txn.Get(newKey); err == nil {
		var ownerID string
		if err := item.Value(func(val []byte) error {
			ownerID = string(val)
			return nil
		}); err != nil {
			return err
		}
		if ownerID != userID {
			return dupErr
		}
	} else if !errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("check %s index: %w", field, err)
	}

	if err := txn.Delete(indexKey(CollectionUsers, field, oldValue)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("delete old %s index: %w", field, err)
	}
	return txn.Set(newKey, []byte(userID))
}

// DeleteUser removes a user document and its index entries.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	start := time.Now()
	err := s.db.Update(func(txn *badger.Txn) error {
		var user models.User
		if err := getDoc(txn, CollectionUsers, id, &user); err != nil {
			return err
		}

		if err := txn.Delete(indexKey(CollectionUsers, "username", user.Username)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete username index: %w", err)
		}
		if err := txn.Delete(indexKey(CollectionUsers, "email", user.Email)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete email index: %w", err)
		}
		return txn.Delete(docKey(CollectionUsers, id))
	})
	metrics.ObserveStoreOperation("delete", CollectionUsers, start, err)
	return err
}
