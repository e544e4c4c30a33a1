// Package migration applies versioned SQL files to the database at startup.
// Files are named V<version>__<name>.sql and run in version order, each in
// its own transaction, with applied versions and checksums recorded in a
// schema_migrations table so a changed file is caught instead of re-run.
package migration

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

var (
	ErrChecksumMismatch = errors.New("migration checksum mismatch")
	ErrDuplicateVersion = errors.New("duplicate migration version")
)

// lockKey serializes concurrent starters via a pg advisory lock.
const lockKey int64 = 0x6a6f6270 // "jobp"

type Runner struct {
	// Dir holds the migration files. Empty means a migrations/ directory
	// next to the executable.
	Dir    string
	Logger *log.Logger
}

// Run applies every pending migration in version order. A missing directory
// is treated as nothing to do, so deployments without bundled migrations
// still start.
func (r Runner) Run(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("migration: nil db")
	}

	scripts, err := loadScripts(r.dir())
	if err != nil {
		return err
	}
	if len(scripts) == 0 {
		return nil
	}

	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version BIGINT PRIMARY KEY,
	name TEXT NOT NULL,
	checksum TEXT NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return fmt.Errorf("migration: ensure ledger: %w", err)
	}

	if _, err := db.ExecContext(ctx, `SELECT pg_advisory_lock($1)`, lockKey); err != nil {
		return fmt.Errorf("migration: acquire lock: %w", err)
	}
	defer db.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, lockKey)

	applied, err := appliedChecksums(ctx, db)
	if err != nil {
		return err
	}

	for _, sc := range scripts {
		sum, ok := applied[sc.version]
		if ok {
			if sum != sc.checksum {
				return fmt.Errorf("%w: V%d (%s)", ErrChecksumMismatch, sc.version, sc.name)
			}
			continue
		}
		if err := r.apply(ctx, db, sc); err != nil {
			return err
		}
	}
	return nil
}

func (r Runner) dir() string {
	if strings.TrimSpace(r.Dir) != "" {
		return r.Dir
	}
	exe, err := os.Executable()
	if err != nil {
		return "migrations"
	}
	return filepath.Join(filepath.Dir(exe), "migrations")
}

func (r Runner) apply(ctx context.Context, db *sql.DB, sc script) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("migration: begin V%d: %w", sc.version, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, sc.body); err != nil {
		return fmt.Errorf("migration: apply V%d (%s): %w", sc.version, sc.name, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, name, checksum) VALUES ($1, $2, $3)`,
		sc.version, sc.name, sc.checksum,
	); err != nil {
		return fmt.Errorf("migration: record V%d: %w", sc.version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("migration: commit V%d: %w", sc.version, err)
	}
	if r.Logger != nil {
		r.Logger.Printf("migration applied version=%d name=%s", sc.version, sc.name)
	}
	return nil
}

type script struct {
	version  int64
	name     string
	body     string
	checksum string
}

// parseFilename splits V<version>__<name>.sql; anything else is skipped.
func parseFilename(filename string) (version int64, name string, ok bool) {
	base, found := strings.CutSuffix(filename, ".sql")
	if !found || !strings.HasPrefix(base, "V") {
		return 0, "", false
	}
	vs, name, found := strings.Cut(base[1:], "__")
	if !found || name == "" {
		return 0, "", false
	}
	version, err := strconv.ParseInt(vs, 10, 64)
	if err != nil || version < 0 {
		return 0, "", false
	}
	return version, name, true
}

func loadScripts(dir string) ([]script, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("migration: read dir: %w", err)
	}

	var scripts []script
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		version, name, ok := parseFilename(e.Name())
		if !ok {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("migration: read %s: %w", e.Name(), err)
		}
		body := strings.TrimSpace(string(b))
		if body == "" {
			return nil, fmt.Errorf("migration: empty file %s", e.Name())
		}
		sum := sha256.Sum256([]byte(body))
		scripts = append(scripts, script{
			version:  version,
			name:     name,
			body:     body,
			checksum: hex.EncodeToString(sum[:]),
		})
	}

	sort.Slice(scripts, func(i, j int) bool { return scripts[i].version < scripts[j].version })
	for i := 1; i < len(scripts); i++ {
		if scripts[i].version == scripts[i-1].version {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateVersion, scripts[i].version)
		}
	}
	return scripts, nil
}

func appliedChecksums(ctx context.Context, db *sql.DB) (map[int64]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT version, checksum FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("migration: read ledger: %w", err)
	}
	defer rows.Close()

	out := map[int64]string{}
	for rows.Next() {
		var v int64
		var sum string
		if err := rows.Scan(&v, &sum); err != nil {
			return nil, fmt.Errorf("migration: scan ledger: %w", err)
		}
		out[v] = sum
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("migration: read ledger: %w", err)
	}
	return out, nil
}
