// Hubforge - Collaborative Code Hosting API
// Copyright 2026 Dev A. (devan815)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devan815/hubforge

package store

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/devan815/hubforge/internal/metrics"
	"github.com/devan815/hubforge/internal/models"
)

// CreateRepository inserts a new repository. ID and CreatedAt are assigned
// here; the owner reference is taken as given and immutable afterwards.
func (s *Store) CreateRepository(ctx context.Context, repo *models.Repository) error {
	start := time.Now()
	repo.ID = NewID()
	repo.CreatedAt = time.Now().UTC()
	if repo.Content == nil {
		repo.Content = []string{}
	}
	if repo.Issues == nil {
		repo.Issues = []string{}
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return putDoc(txn, CollectionRepositories, repo.ID, repo)
	})
	metrics.ObserveStoreOperation("create", CollectionRepositories, start, err)
	return err
}

// GetRepository fetches a repository by identifier.
func (s *Store) GetRepository(ctx context.Context, id string) (*models.Repository, error) {
	start := time.Now()
	var repo models.Repository
	err := s.db.View(func(txn *badger.Txn) error {
		return getDoc(txn, CollectionRepositories, id, &repo)
	})
	metrics.ObserveStoreOperation("get", CollectionRepositories, start, err)
	if err != nil {
		return nil, err
	}
	return &repo, nil
}

// GetRepositoryByName returns the first repository with the given name.
func (s *Store) GetRepositoryByName(ctx context.Context, name string) (*models.Repository, error) {
	start := time.Now()
	var found *models.Repository
	err := s.db.View(func(txn *badger.Txn) error {
		repos, err := scanCollection[models.Repository](txn, CollectionRepositories, func(r models.Repository) bool {
			return r.Name == name
		})
		if err != nil {
			return err
		}
		if len(repos) == 0 {
			return ErrNotFound
		}
		found = &repos[0]
		return nil
	})
	metrics.ObserveStoreOperation("get_by_name", CollectionRepositories, start, err)
	if err != nil {
		return nil, err
	}
	return found, nil
}

// ListRepositories returns all repositories.
func (s *Store) ListRepositories(ctx context.Context) ([]models.Repository, error) {
	start := time.Now()
	var repos []models.Repository
	err := s.db.View(func(txn *badger.Txn) error {
		var scanErr error
		repos, scanErr = scanCollection[models.Repository](txn, CollectionRepositories, nil)
		return scanErr
	})
	metrics.ObserveStoreOperation("list", CollectionRepositories, start, err)
	if err != nil {
		return nil, err
	}
	return repos, nil
}

// ListRepositoriesByOwner returns repositories owned by the given user.
func (s *Store) ListRepositoriesByOwner(ctx context.Context, ownerID string) ([]models.Repository, error) {
	start := time.Now()
	var repos []models.Repository
	err := s.db.View(func(txn *badger.Txn) error {
		var scanErr error
		repos, scanErr = scanCollection[models.Repository](txn, CollectionRepositories, func(r models.Repository) bool {
			return r.Owner == ownerID
		})
		return scanErr
	})
	metrics.ObserveStoreOperation("list_by_owner", CollectionRepositories, start, err)
	if err != nil {
		return nil, err
	}
	return repos, nil
}

// SaveRepository persists changes to an existing repository.
func (s *Store) SaveRepository(ctx context.Context, repo *models.Repository) error {
	start := time.Now()
	err := s.db.Update(func(txn *badger.Txn) error {
		var existing models.Repository
		if err := getDoc(txn, CollectionRepositories, repo.ID, &existing); err != nil {
			return err
		}
		return putDoc(txn, CollectionRepositories, repo.ID, repo)
	})
	metrics.ObserveStoreOperation("save", CollectionRepositories, start, err)
	return err
}

// DeleteRepository removes a repository document.
func (s *Store) DeleteRepository(ctx context.Context, id string) error {
	return s.deleteDoc(ctx, CollectionRepositories, id)
}

// CreateIssue inserts a new issue. ID, CreatedAt and the default open
// status are assigned here.
func (s *Store) CreateIssue(ctx context.Context, issue *models.Issue) error {
	start := time.Now()
	issue.ID = NewID()
	issue.CreatedAt = time.Now().UTC()
	if issue.Status == "" {
		issue.Status = models.IssueStatusOpen
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return putDoc(txn, CollectionIssues, issue.ID, issue)
	})
	metrics.ObserveStoreOperation("create", CollectionIssues, start, err)
	return err
}

// GetIssue fetches an issue by identifier.
func (s *Store) GetIssue(ctx context.Context, id string) (*models.Issue, error) {
	start := time.Now()
	var issue models.Issue
	err := s.db.View(func(txn *badger.Txn) error {
		return getDoc(txn, CollectionIssues, id, &issue)
	})
	metrics.ObserveStoreOperation("get", CollectionIssues, start, err)
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

// ListIssues returns all issues.
func (s *Store) ListIssues(ctx context.Context) ([]models.Issue, error) {
	start := time.Now()
	var issues []models.Issue
	err := s.db.View(func(txn *badger.Txn) error {
		var scanErr error
		issues, scanErr = scanCollection[models.Issue](txn, CollectionIssues, nil)
		return scanErr
	})
	metrics.ObserveStoreOperation("list", CollectionIssues, start, err)
	if err != nil {
		return nil, err
	}
	return issues, nil
}

// SaveIssue persists changes to an existing issue.
func (s *Store) SaveIssue(ctx context.Context, issue *models.Issue) error {
	start := time.Now()
	err := s.db.Update(func(txn *badger.Txn) error {
		var existing models.Issue
		if err := getDoc(txn, CollectionIssues, issue.ID, &existing); err != nil {
			return err
		}
		return putDoc(txn, CollectionIssues, issue.ID, issue)
	})
	metrics.ObserveStoreOperation("save", CollectionIssues, start, err)
	return err
}

// DeleteIssue removes an issue document.
func (s *Store) DeleteIssue(ctx context.Context, id string) error {
	return s.deleteDoc(ctx, CollectionIssues, id)
}

// deleteDoc removes a document from a collection without index upkeep.
func (s *Store) deleteDoc(ctx context.Context, collection, id string) error {
	start := time.Now()
	err := s.db.Update(func(txn *badger.Txn) error {
		var raw map[string]any
		if err := getDoc(txn, collection, id, &raw); err != nil {
			return err
		}
		return txn.Delete(docKey(collection, id))
	})
	metrics.ObserveStoreOperation("delete", collection, start, err)
	return err
}
