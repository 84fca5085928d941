package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// Migrator applies the versioned schema in migrations/ with golang-migrate.
// Every operation treats "nothing to do" as success.
type Migrator struct {
	migrate *migrate.Migrate
	logger  *zap.Logger
}

// migrateLogger forwards golang-migrate progress lines to zap at debug
type migrateLogger struct{ log *zap.SugaredLogger }

func (l migrateLogger) Printf(format string, v ...any) {
	l.log.Debugf(strings.TrimRight(format, "\n"), v...)
}

func (l migrateLogger) Verbose() bool { return l.log.Desugar().Core().Enabled(zap.DebugLevel) }

func newMigrator(m *migrate.Migrate, logger *zap.Logger) *Migrator {
	logger = logger.Named("migrate")
	m.Log = migrateLogger{log: logger.Sugar()}
	return &Migrator{migrate: m, logger: logger}
}

// New reads migrations from source, normally the embedded migrations.FS.
// golang-migrate closes db when the Migrator is closed.
func New(db *sql.DB, source fs.FS, logger *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("postgres migration driver: %w", err)
	}
	src, err := iofs.New(source, ".")
	if err != nil {
		return nil, fmt.Errorf("migration source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("migrate instance: %w", err)
	}
	return newMigrator(m, logger), nil
}

// NewFromURL reads migration files from a directory on disk, for trying
// out migrations before they are embedded.
func NewFromURL(databaseURL, dir string, logger *zap.Logger) (*Migrator, error) {
	m, err := migrate.New("file://"+dir, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("migrate instance: %w", err)
	}
	return newMigrator(m, logger), nil
}

// apply runs one golang-migrate operation and logs where the schema ended up
func (m *Migrator) apply(op string, run func() error) error {
	m.logger.Info("Migrating", zap.String("op", op))

	err := run()
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Info("Schema already current", zap.String("op", op))
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", op, err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	m.logger.Info("Migration finished",
		zap.String("op", op),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
	return nil
}

// Up applies every pending migration
func (m *Migrator) Up() error { return m.apply("up", m.migrate.Up) }

// Down rolls back every migration
func (m *Migrator) Down() error { return m.apply("down", m.migrate.Down) }

// Steps applies n migrations; a negative n rolls back
func (m *Migrator) Steps(n int) error {
	return m.apply(fmt.Sprintf("steps %+d", n), func() error { return m.migrate.Steps(n) })
}

// GoTo migrates up or down to version
func (m *Migrator) GoTo(version uint) error {
	return m.apply(fmt.Sprintf("goto %d", version), func() error { return m.migrate.Migrate(version) })
}

// Version returns the applied version; 0 means no migration has run
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("migration version: %w", err)
	}
	return version, dirty, nil
}

// Force records version as applied and clears the dirty flag without
// running anything
func (m *Migrator) Force(version int) error {
	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}

// Close releases the source and the database connection
func (m *Migrator) Close() error {
	srcErr, dbErr := m.migrate.Close()
	return errors.Join(srcErr, dbErr)
}
