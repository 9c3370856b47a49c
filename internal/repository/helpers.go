package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lib/pq"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conn picks the transaction when one is given, the pool otherwise.
func conn(db *sql.DB, tx *sql.Tx) dbtx {
	if tx != nil {
		return tx
	}
	return db
}

type TxManager interface {
	WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

type txManager struct {
	db *sql.DB
}

func NewTxManager(db *sql.DB) TxManager {
	return &txManager{db: db}
}

// WithinTx runs fn in a transaction, committing when fn returns nil.
func (m *txManager) WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				slog.Error("failed to roll back transaction", "error", rbErr)
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// queryBuilder accumulates WHERE conditions with positional arguments.
type queryBuilder struct {
	conditions []string
	args       []any
}

func (b *queryBuilder) addCondition(format string, arg any) {
	b.args = append(b.args, arg)
	b.conditions = append(b.conditions, fmt.Sprintf(format, len(b.args)))
}

func (b *queryBuilder) nextArg(arg any) string {
	b.args = append(b.args, arg)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *queryBuilder) where() string {
	if len(b.conditions) == 0 {
		return ""
	}
	clause := " WHERE " + b.conditions[0]
	for _, c := range b.conditions[1:] {
		clause += " AND " + c
	}
	return clause
}

// isForeignKeyViolation reports whether err is a Postgres foreign key violation.
func isForeignKeyViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23503"
	}
	return false
}

// isInvalidID reports whether Postgres refused a value as malformed input,
// as it does for an id that is not a uuid. Such ids match no row.
func isInvalidID(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "22P02"
	}
	return false
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func containsPattern(s string) string {
	return "%" + escapeLike(s) + "%"
}
