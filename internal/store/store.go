package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"

	// PostgreSQL through database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config selects the database backend.
type Config struct {
	Driver string `yaml:"driver" validate:"oneof=sqlite postgres"`
	// DSN is a file path or URI for sqlite, or a connection string for postgres.
	DSN string `yaml:"dsn"`
}

// Store holds the database handle and hands out repositories.
type Store struct {
	db      *sql.DB
	dialect string
}

// Open connects to the configured database and migrates the schema.
// SQLite connections get the pragmas from sqlitePragmas and share a single
// connection.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	var (
		db  *sql.DB
		d   string
		err error
	)
	switch cfg.Driver {
	case DriverSQLite, "":
		d = dialect.SQLite
		db, err = sql.Open("sqlite", sqliteDSN(cfg.DSN))
		if err == nil {
			// In-memory databases live and die with their connection.
			db.SetMaxOpenConns(1)
		}
	case DriverPostgres:
		d = dialect.Postgres
		db, err = sql.Open("pgx", cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := migrate(ctx, db, d); err != nil {
		db.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	return &Store{db: db, dialect: d}, nil
}

func migrate(ctx context.Context, db *sql.DB, d string) error {
	m, err := schema.NewMigrate(entsql.OpenDB(d, db))
	if err != nil {
		return err
	}
	return m.Create(ctx, Tables...)
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Dialect returns the ent dialect name of the backend.
func (s *Store) Dialect() string {
	return s.dialect
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// PlayerRepo returns a PlayerRepo backed by this store.
func (s *Store) PlayerRepo() PlayerRepo {
	return &playerRepo{db: s.db, dialect: s.dialect}
}

// PuzzleRepo returns a PuzzleRepo backed by this store.
func (s *Store) PuzzleRepo() PuzzleRepo {
	return &puzzleRepo{db: s.db, dialect: s.dialect}
}

// ProgressRepo returns a ProgressRepo backed by this store.
func (s *Store) ProgressRepo() ProgressRepo {
	return &progressRepo{db: s.db, dialect: s.dialect}
}

// EventRepo returns an EventRepo backed by this store.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{db: s.db, dialect: s.dialect}
}

// sqlitePragmas configure SQLite for single-user performance. They are
// passed through the DSN so every connection the pool opens gets them.
var sqlitePragmas = []string{
	"journal_mode(WAL)",
	"busy_timeout(5000)",
	"foreign_keys(1)",
	"synchronous(NORMAL)",
}

func sqliteDSN(dsn string) string {
	var b strings.Builder
	b.WriteString(dsn)
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	for _, p := range sqlitePragmas {
		if strings.Contains(dsn, "_pragma="+p[:strings.IndexByte(p, '(')]) {
			continue
		}
		b.WriteString(sep)
		b.WriteString("_pragma=")
		b.WriteString(p)
		sep = "&"
	}
	return b.String()
}

// DefaultDBPath resolves the database file path in priority order:
// 1. ENIGMA_DB environment variable
// 2. $XDG_DATA_HOME/enigma/enigma.db
// 3. ~/.local/share/enigma/enigma.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("ENIGMA_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "enigma", "enigma.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
