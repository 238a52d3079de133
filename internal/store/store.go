package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"melodia/internal/apperr"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store provides persistence backed by Postgres.
type Store struct {
	db *sql.DB
	q  querier
}

var _ Repository = (*Store)(nil)

// New sets up a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db, q: db}
}

// InTx runs fn inside a single transaction. A Store that is already bound to
// a transaction runs fn directly on it.
func (s *Store) InTx(ctx context.Context, fn func(q Queries) error) error {
	if s.db == nil {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("begin tx", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	if err := fn(&Store{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return storageErr("commit tx", err)
	}
	tx = nil

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// updateBuilder assembles the SET clause of a partial update.
type updateBuilder struct {
	sets []string
	args []any
}

func (b *updateBuilder) set(column string, value any) {
	b.args = append(b.args, value)
	b.sets = append(b.sets, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

func (b *updateBuilder) empty() bool {
	return len(b.sets) == 0
}

// build returns the statement and its arguments; id becomes the last placeholder.
func (b *updateBuilder) build(table string, id int64, returning string) (string, []any) {
	args := append(b.args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", table, strings.Join(b.sets, ", "), len(args))
	if returning != "" {
		query += " RETURNING " + returning
	}
	return query, args
}

// whereBuilder collects AND-ed filter clauses.
type whereBuilder struct {
	clauses []string
	args    []any
}

func (w *whereBuilder) add(format string, value any) {
	w.args = append(w.args, value)
	w.clauses = append(w.clauses, fmt.Sprintf(format, len(w.args)))
}

func (w *whereBuilder) addLike(column, value string) {
	if value = strings.TrimSpace(value); value != "" {
		w.add(column+" ILIKE $%d", containsPattern(value))
	}
}

func (w *whereBuilder) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// containsPattern builds an ILIKE pattern matching value as a literal substring.
func containsPattern(value string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(value) + "%"
}

func rowsAffected(res sql.Result, op string) (bool, error) {
	affected, err := res.RowsAffected()
	if err != nil {
		return false, storageErr(op+": rows affected", err)
	}
	return affected > 0, nil
}

func storageErr(op string, err error) error {
	return apperr.NewStorage(fmt.Errorf("%s: %w", op, err))
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeUniqueViolation
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeForeignKeyViolation
	}
	return false
}

func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeCheckViolation
	}
	return false
}

func constraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// lookupErr translates a single-row lookup failure.
func lookupErr(entity string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NewNotFound(entity)
	}
	return storageErr("get "+entity, err)
}

// deleteErr translates a delete failure; rows still referencing the target
// surface as a conflict instead of a storage error.
func deleteErr(entity string, err error) error {
	if isForeignKeyViolation(err) {
		return apperr.NewConflict(entity, entity+" is still referenced")
	}
	return storageErr("delete "+entity, err)
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

func nullInt64(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func nullIfEmpty(value *string) any {
	if value == nil || *value == "" {
		return nil
	}
	return *value
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}
