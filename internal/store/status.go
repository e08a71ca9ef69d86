package store

import (
	"context"
	"fmt"
	"strings"
)

// Status describes the connected database and its migration state.
type Status struct {
	Driver        string
	ServerVersion string
	Applied       []string
	Pending       []string
}

func (s *Store) Status(ctx context.Context) (Status, error) {
	st := Status{Driver: s.dialect.name}

	var banner string
	if err := s.db.QueryRowxContext(ctx, s.dialect.versionQuery).Scan(&banner); err != nil {
		return st, fmt.Errorf("server version: %w", err)
	}
	st.ServerVersion = extractVersion(banner)

	if _, err := s.db.ExecContext(ctx, s.dialect.createMigrations); err != nil {
		return st, fmt.Errorf("create schema_migrations: %w", err)
	}
	query, args, err := s.sb.Select("version").From("schema_migrations").OrderBy("version").ToSql()
	if err != nil {
		return st, err
	}
	if err := s.db.SelectContext(ctx, &st.Applied, query, args...); err != nil {
		return st, fmt.Errorf("read schema_migrations: %w", err)
	}
	done := make(map[string]bool, len(st.Applied))
	for _, v := range st.Applied {
		done[v] = true
	}
	for _, m := range migrations {
		if !done[m.version] {
			st.Pending = append(st.Pending, m.version)
		}
	}
	return st, nil
}

// extractVersion picks the first token containing a digit, so
// "PostgreSQL 14.9 on x86_64" becomes "14.9".
func extractVersion(banner string) string {
	for _, p := range strings.Fields(banner) {
		if strings.ContainsAny(p, "0123456789") {
			return strings.TrimSuffix(p, ",")
		}
	}
	return banner
}
