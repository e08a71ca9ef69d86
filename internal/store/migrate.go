package store

import (
	"context"
	"fmt"
)

type migration struct {
	version string
	name    string
	up      func(d dialect) string
}

// migrations must stay ordered by version.
var migrations = []migration{
	{
		version: "20150517013915",
		name:    "create_items",
		up:      func(d dialect) string { return d.createItems },
	},
}

// Migrate applies pending migrations and returns the versions it applied.
func (s *Store) Migrate(ctx context.Context) ([]string, error) {
	if _, err := s.db.ExecContext(ctx, s.dialect.createMigrations); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	query, args, err := s.sb.Select("version").From("schema_migrations").ToSql()
	if err != nil {
		return nil, err
	}
	var done []string
	if err := s.db.SelectContext(ctx, &done, query, args...); err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	seen := make(map[string]bool, len(done))
	for _, v := range done {
		seen[v] = true
	}

	var applied []string
	for _, m := range migrations {
		if seen[m.version] {
			continue
		}
		if err := s.apply(ctx, m); err != nil {
			return applied, fmt.Errorf("migration %s_%s: %w", m.version, m.name, err)
		}
		s.logger.Info("migration applied", "version", m.version, "name", m.name)
		applied = append(applied, m.version)
	}
	return applied, nil
}

func (s *Store) apply(ctx context.Context, m migration) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, m.up(s.dialect)); err != nil {
		return err
	}
	query, args, err := s.sb.Insert("schema_migrations").Columns("version").Values(m.version).ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}
	return tx.Commit()
}
