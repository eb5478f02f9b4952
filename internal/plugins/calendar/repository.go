package calendar

import (
	"context"
	"database/sql"
	"fmt"
)

// ConfigRepository defines persistence operations for calendar configuration
// documents. Each namespace (one wiki) has one current document plus an
// append-only revision history.
type ConfigRepository interface {
	Get(ctx context.Context, namespace string) (*StoredConfig, error)
	Save(ctx context.Context, cfg *StoredConfig) error
	ListRevisions(ctx context.Context, namespace string, limit int) ([]StoredConfig, error)
}

// configRepo is the MariaDB implementation of ConfigRepository.
type configRepo struct {
	db *sql.DB
}

// NewConfigRepository creates a new MariaDB-backed config repository.
func NewConfigRepository(db *sql.DB) ConfigRepository {
	return &configRepo{db: db}
}

// scanStored reads a row into a StoredConfig. Returns nil, nil for no rows.
func scanStored(scanner interface{ Scan(...any) error }) (*StoredConfig, error) {
	sc := &StoredConfig{}
	err := scanner.Scan(&sc.Namespace, &sc.Document, &sc.Message, &sc.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sc, nil
}

// Get returns the current document for a namespace, or nil if none exists.
func (r *configRepo) Get(ctx context.Context, namespace string) (*StoredConfig, error) {
	sc, err := scanStored(r.db.QueryRowContext(ctx,
		`SELECT namespace, document, message, updated_at
		 FROM date_configs WHERE namespace = ?`, namespace))
	if err != nil {
		return nil, fmt.Errorf("querying date config: %w", err)
	}
	return sc, nil
}

// Save replaces the current document and records a revision in one
// transaction.
func (r *configRepo) Save(ctx context.Context, cfg *StoredConfig) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO date_configs (namespace, document, message, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON DUPLICATE KEY UPDATE document = VALUES(document),
		        message = VALUES(message), updated_at = VALUES(updated_at)`,
		cfg.Namespace, cfg.Document, cfg.Message, cfg.UpdatedAt,
	); err != nil {
		return fmt.Errorf("upserting date config: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO date_config_revisions (namespace, document, message, created_at)
		 VALUES (?, ?, ?, ?)`,
		cfg.Namespace, cfg.Document, cfg.Message, cfg.UpdatedAt,
	); err != nil {
		return fmt.Errorf("inserting date config revision: %w", err)
	}
	return tx.Commit()
}

// ListRevisions returns the most recent revisions for a namespace, newest
// first.
func (r *configRepo) ListRevisions(ctx context.Context, namespace string, limit int) ([]StoredConfig, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT namespace, document, message, created_at
		 FROM date_config_revisions WHERE namespace = ?
		 ORDER BY created_at DESC, id DESC LIMIT ?`, namespace, limit)
	if err != nil {
		return nil, fmt.Errorf("querying date config revisions: %w", err)
	}
	defer rows.Close()

	var revs []StoredConfig
	for rows.Next() {
		var sc StoredConfig
		if err := rows.Scan(&sc.Namespace, &sc.Document, &sc.Message, &sc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning date config revision: %w", err)
		}
		revs = append(revs, sc)
	}
	return revs, rows.Err()
}
