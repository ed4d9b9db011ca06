package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migration archivo SQL versionado ("001_invoicing.sql" → versión 001).
type Migration struct {
	Version string
	Name    string
	SQL     string
}

// MigrationStatus estado de una migración.
type MigrationStatus struct {
	Version string
	Name    string
	Applied bool
}

// Migrator aplica las migraciones embebidas, cada una en su propia transacción.
type Migrator struct {
	pool       *pgxpool.Pool
	migrations []Migration
}

// NewMigrator carga las migraciones embebidas en orden de versión.
func NewMigrator(pool *pgxpool.Pool) (*Migrator, error) {
	migrations, err := LoadMigrations(migrationFiles)
	if err != nil {
		return nil, err
	}
	return &Migrator{pool: pool, migrations: migrations}, nil
}

// LoadMigrations lee migrations/*.sql del sistema de archivos dado.
func LoadMigrations(fsys fs.FS) ([]Migration, error) {
	files, err := fs.Glob(fsys, "migrations/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	out := make([]Migration, 0, len(files))
	for _, file := range files {
		base := strings.TrimPrefix(file, "migrations/")
		parts := strings.SplitN(base, "_", 2)
		if len(parts) < 2 {
			continue
		}
		content, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("leer migración %s: %w", file, err)
		}
		out = append(out, Migration{
			Version: parts[0],
			Name:    strings.TrimSuffix(parts[1], ".sql"),
			SQL:     string(content),
		})
	}
	return out, nil
}

// Up aplica las migraciones pendientes.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	if err := m.createMigrationsTable(ctx); err != nil {
		return 0, err
	}
	applied, err := m.appliedMigrations(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, mig := range m.migrations {
		if applied[mig.Version] {
			continue
		}
		if err := m.apply(ctx, mig); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// apply ejecuta la migración y la registra dentro de una transacción.
func (m *Migrator) apply(ctx context.Context, mig Migration) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, mig.SQL); err != nil {
		return fmt.Errorf("aplicar migración %s: %w", mig.Version, err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO schema_migrations (version, name) VALUES ($1, $2) ON CONFLICT (version) DO NOTHING`,
		mig.Version, mig.Name,
	); err != nil {
		return fmt.Errorf("registrar migración %s: %w", mig.Version, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Status lista las migraciones conocidas y si ya se aplicaron.
func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	if err := m.createMigrationsTable(ctx); err != nil {
		return nil, err
	}
	applied, err := m.appliedMigrations(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]MigrationStatus, 0, len(m.migrations))
	for _, mig := range m.migrations {
		out = append(out, MigrationStatus{Version: mig.Version, Name: mig.Name, Applied: applied[mig.Version]})
	}
	return out, nil
}

func (m *Migrator) createMigrationsTable(ctx context.Context) error {
	_, err := m.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    VARCHAR(255) PRIMARY KEY,
			name       VARCHAR(255) NOT NULL,
			applied_at TIMESTAMPTZ  DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("crear schema_migrations: %w", err)
	}
	return nil
}

func (m *Migrator) appliedMigrations(ctx context.Context) (map[string]bool, error) {
	rows, err := m.pool.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("listar migraciones: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		applied[v] = true
	}
	return applied, rows.Err()
}
