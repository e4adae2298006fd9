package postgres

import (
	"context"
	"fmt"
	"sort"
)

// DirectoryRepo implements ports.DirectoryStore on the federation_directory table.
type DirectoryRepo struct {
	pool Pool
}

// NewDirectoryRepo creates a new DirectoryRepo.
func NewDirectoryRepo(pool Pool) *DirectoryRepo {
	return &DirectoryRepo{pool: pool}
}

// Load reads every mapping.
func (r *DirectoryRepo) Load(ctx context.Context) (map[string]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT username, account_id FROM federation_directory`)
	if err != nil {
		return nil, fmt.Errorf("load directory: %w", err)
	}
	defer rows.Close()

	entries := map[string]string{}
	for rows.Next() {
		var username, accountID string
		if err := rows.Scan(&username, &accountID); err != nil {
			return nil, fmt.Errorf("scan directory row: %w", err)
		}
		entries[username] = accountID
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate directory rows: %w", err)
	}
	return entries, nil
}

// Save replaces the table contents within one database transaction.
func (r *DirectoryRepo) Save(ctx context.Context, entries map[string]string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin directory save: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(ctx, `DELETE FROM federation_directory`); err != nil {
		return fmt.Errorf("clear directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		_, err := tx.Exec(ctx,
			`INSERT INTO federation_directory (username, account_id, updated_at) VALUES ($1, $2, now())`,
			name, entries[name],
		)
		if err != nil {
			return fmt.Errorf("insert directory entry %s: %w", name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit directory save: %w", err)
	}
	return nil
}

// Name returns the backend name.
func (r *DirectoryRepo) Name() string {
	return "postgres"
}
