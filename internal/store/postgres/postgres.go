// Package postgres implements the store.Store interface backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/lib/pq"

	"github.com/alfredjeanlab/loom/internal/model"
	"github.com/alfredjeanlab/loom/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements store.Store backed by a PostgreSQL database.
type PostgresStore struct {
	db *sql.DB
}

// Compile-time check that PostgresStore implements store.Store.
var _ store.Store = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) CreateSession(ctx context.Context, session *model.Session) error {
	return queryCreateSession(ctx, s.db, session)
}

func (s *PostgresStore) GetSession(ctx context.Context, id string) (*model.Session, error) {
	return queryGetSession(ctx, s.db, id)
}

func (s *PostgresStore) ListSessions(ctx context.Context, limit, offset int) ([]*model.Session, int, error) {
	return queryListSessions(ctx, s.db, limit, offset)
}

func (s *PostgresStore) DeleteSession(ctx context.Context, id string) error {
	return queryDeleteSession(ctx, s.db, id)
}

func (s *PostgresStore) CreateTask(ctx context.Context, task *model.Task) error {
	return queryCreateTask(ctx, s.db, task)
}

func (s *PostgresStore) GetTask(ctx context.Context, id string) (*model.Task, error) {
	return queryGetTask(ctx, s.db, id)
}

func (s *PostgresStore) GetTasks(ctx context.Context, ids []string) ([]*model.Task, error) {
	return queryGetTasks(ctx, s.db, ids)
}

func (s *PostgresStore) ListTasks(ctx context.Context, filter model.TaskFilter) ([]*model.Task, int, error) {
	return queryListTasks(ctx, s.db, filter)
}

func (s *PostgresStore) UpdateTask(ctx context.Context, task *model.Task) error {
	return queryUpdateTask(ctx, s.db, task)
}

func (s *PostgresStore) DeleteTask(ctx context.Context, id string) error {
	return queryDeleteTask(ctx, s.db, id)
}

func (s *PostgresStore) UpsertEdge(ctx context.Context, edge *model.Edge) error {
	return queryUpsertEdge(ctx, s.db, edge)
}

func (s *PostgresStore) DeleteEdge(ctx context.Context, relation model.Relation, from, to string) error {
	return queryDeleteEdge(ctx, s.db, relation, from, to)
}

func (s *PostgresStore) DeleteEdgesTouching(ctx context.Context, node string) error {
	return queryDeleteEdgesTouching(ctx, s.db, node)
}

func (s *PostgresStore) ListEdges(ctx context.Context) ([]*model.Edge, error) {
	return queryListEdges(ctx, s.db)
}

func (s *PostgresStore) RecordEvent(ctx context.Context, event *model.Event) error {
	return queryRecordEvent(ctx, s.db, event)
}

func (s *PostgresStore) GetEvents(ctx context.Context, entityID string) ([]*model.Event, error) {
	return queryGetEvents(ctx, s.db, entityID)
}

func (s *PostgresStore) GetStats(ctx context.Context) (*model.GraphStats, error) {
	return queryGetStats(ctx, s.db)
}

// RunInTransaction begins a database transaction, creates a txStore that
// delegates to it, calls fn, and commits on success or rolls back on error.
// Serialization failures surface as model.ErrTxConflict so callers can map
// them to a retryable conflict.
func (s *PostgresStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txS := &txStore{tx: tx}
	if err := fn(txS); err != nil {
		_ = tx.Rollback()
		return translateConflict(err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", translateConflict(err))
	}
	return nil
}

// translateConflict maps Postgres serialization and deadlock errors to
// model.ErrTxConflict.
func translateConflict(err error) error {
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return model.ErrTxConflict
		}
	}
	return err
}

// txStore implements store.Store using a *sql.Tx.
type txStore struct {
	tx *sql.Tx
}

// Compile-time check that txStore implements store.Store.
var _ store.Store = (*txStore)(nil)

func (s *txStore) CreateSession(ctx context.Context, session *model.Session) error {
	return queryCreateSession(ctx, s.tx, session)
}

func (s *txStore) GetSession(ctx context.Context, id string) (*model.Session, error) {
	return queryGetSession(ctx, s.tx, id)
}

func (s *txStore) ListSessions(ctx context.Context, limit, offset int) ([]*model.Session, int, error) {
	return queryListSessions(ctx, s.tx, limit, offset)
}

func (s *txStore) DeleteSession(ctx context.Context, id string) error {
	return queryDeleteSession(ctx, s.tx, id)
}

func (s *txStore) CreateTask(ctx context.Context, task *model.Task) error {
	return queryCreateTask(ctx, s.tx, task)
}

func (s *txStore) GetTask(ctx context.Context, id string) (*model.Task, error) {
	return queryGetTask(ctx, s.tx, id)
}

func (s *txStore) GetTasks(ctx context.Context, ids []string) ([]*model.Task, error) {
	return queryGetTasks(ctx, s.tx, ids)
}

func (s *txStore) ListTasks(ctx context.Context, filter model.TaskFilter) ([]*model.Task, int, error) {
	return queryListTasks(ctx, s.tx, filter)
}

func (s *txStore) UpdateTask(ctx context.Context, task *model.Task) error {
	return queryUpdateTask(ctx, s.tx, task)
}

func (s *txStore) DeleteTask(ctx context.Context, id string) error {
	return queryDeleteTask(ctx, s.tx, id)
}

func (s *txStore) UpsertEdge(ctx context.Context, edge *model.Edge) error {
	return queryUpsertEdge(ctx, s.tx, edge)
}

func (s *txStore) DeleteEdge(ctx context.Context, relation model.Relation, from, to string) error {
	return queryDeleteEdge(ctx, s.tx, relation, from, to)
}

func (s *txStore) DeleteEdgesTouching(ctx context.Context, node string) error {
	return queryDeleteEdgesTouching(ctx, s.tx, node)
}

func (s *txStore) ListEdges(ctx context.Context) ([]*model.Edge, error) {
	return queryListEdges(ctx, s.tx)
}

func (s *txStore) RecordEvent(ctx context.Context, event *model.Event) error {
	return queryRecordEvent(ctx, s.tx, event)
}

func (s *txStore) GetEvents(ctx context.Context, entityID string) ([]*model.Event, error) {
	return queryGetEvents(ctx, s.tx, entityID)
}

func (s *txStore) GetStats(ctx context.Context) (*model.GraphStats, error) {
	return queryGetStats(ctx, s.tx)
}

// RunInTransaction on a txStore reuses the existing transaction (no nesting).
func (s *txStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(s)
}

// Close is a no-op for a transaction store; the parent store owns the connection.
func (s *txStore) Close() error {
	return nil
}
