// Package settings_repo stores application settings as key-value rows.
package settings_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/infrastructure/storage/postgres"
)

const settingsTable = "settings"

// Repo implements settings.Repository.
type Repo struct {
	txManager *postgres.TxManager
}

// NewRepo creates a new settings repository.
func NewRepo(txManager *postgres.TxManager) *Repo {
	return &Repo{txManager: txManager}
}

func (r *Repo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *Repo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// Get returns the stored value, or NotFound.
func (r *Repo) Get(ctx context.Context, key string) (string, error) {
	q := r.builder().
		Select("value").
		From(settingsTable).
		Where(squirrel.Eq{"key": key})

	sql, args, err := q.ToSql()
	if err != nil {
		return "", fmt.Errorf("build query: %w", err)
	}

	var value string
	if err := pgxscan.Get(ctx, r.querier(ctx), &value, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return "", apperror.NewNotFound("setting", key)
		}
		return "", fmt.Errorf("get setting: %w", err)
	}

	return value, nil
}

// Set upserts a value.
func (r *Repo) Set(ctx context.Context, key, value string) error {
	q := r.builder().
		Insert(settingsTable).
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("set setting: %w", err)
	}

	return nil
}

// GetAll returns every stored setting.
func (r *Repo) GetAll(ctx context.Context) (map[string]string, error) {
	q := r.builder().
		Select("key", "value").
		From(settingsTable)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	type row struct {
		Key   string `db:"key"`
		Value string `db:"value"`
	}

	var rows []row
	if err := pgxscan.Select(ctx, r.querier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select settings: %w", err)
	}

	values := make(map[string]string, len(rows))
	for _, r := range rows {
		values[r.Key] = r.Value
	}

	return values, nil
}
