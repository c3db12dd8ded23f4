package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// DatabaseHealth captures diagnostic information about the CRM database.
type DatabaseHealth struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	TablesPresent    []string
	MissingTables    []string
	IntegrityCheck   bool
	Companies        int
	Contacts         int
	Deals            int
	Error            string
}

var expectedTables = []string{"companies", "contacts", "deals", "schema_version"}

// CheckHealth returns diagnostic information about the CRM database.
func (s *Store) CheckHealth(ctx context.Context) (DatabaseHealth, error) {
	health := DatabaseHealth{DBPath: s.path}

	if s.path == "" {
		return health, errors.New("database path is unknown")
	}

	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			health.DatabaseExists = false
			return health, nil
		}
		return health, fmt.Errorf("stat database: %w", err)
	}
	if info.IsDir() {
		return health, fmt.Errorf("database path %q is a directory", s.path)
	}
	health.DatabaseExists = true

	if s.db == nil {
		return health, errors.New("database connection unavailable")
	}

	connCtx, cancel := context.WithTimeout(ensureContext(ctx), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(connCtx); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("ping database: %w", err)
	}
	health.DatabaseReadable = true

	rows, err := s.db.QueryContext(connCtx, "SELECT name FROM sqlite_master WHERE type = 'table'")
	if err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("query table info: %w", err)
	}
	defer rows.Close()

	present := make(map[string]struct{})
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			health.Error = err.Error()
			return health, fmt.Errorf("scan table info: %w", err)
		}
		present[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("iterate table info: %w", err)
	}

	for _, table := range expectedTables {
		if _, ok := present[table]; ok {
			health.TablesPresent = append(health.TablesPresent, table)
		} else {
			health.MissingTables = append(health.MissingTables, table)
		}
	}

	if len(health.MissingTables) == 0 {
		counts := []struct {
			query string
			dest  *int
		}{
			{"SELECT COUNT(*) FROM companies", &health.Companies},
			{"SELECT COUNT(*) FROM contacts", &health.Contacts},
			{"SELECT COUNT(*) FROM deals", &health.Deals},
		}
		for _, c := range counts {
			if err := s.db.QueryRowContext(connCtx, c.query).Scan(c.dest); err != nil {
				health.Error = err.Error()
				return health, fmt.Errorf("count rows: %w", err)
			}
		}
	}

	var integrityResult string
	if err := s.db.QueryRowContext(connCtx, "PRAGMA integrity_check").Scan(&integrityResult); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("integrity check: %w", err)
	}
	health.IntegrityCheck = strings.EqualFold(integrityResult, "ok")

	return health, nil
}
